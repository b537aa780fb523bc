package schedule

import "time"

// Entry is one bookkeeping row per calendar day in the active period.
// ShiftStart/End hold the official catalog schedule; WorkStart/End hold the
// hours actually worked and can diverge once the user edits them.
type Entry struct {
	ID           string                    `json:"id"`
	Date         time.Time                 `json:"date"`
	Position     string                    `json:"position"`
	ShiftStart   string                    `json:"shift_start"`
	ShiftEnd     string                    `json:"shift_end"`
	WorkStart    string                    `json:"work_start"`
	WorkEnd      string                    `json:"work_end"`
	TotalHours   float64                   `json:"total_hours"`
	ExtraHours   float64                   `json:"extra_hours"`
	NightHours   float64                   `json:"night_hours"` // legacy field, always 0 under the breakdown model
	HolidayHours float64                   `json:"holiday_hours"`
	Custom       map[string]BreakdownValue `json:"custom,omitempty"`
}

// BreakdownValue is one breakdown result on one entry. Manual marks a value
// the user edited directly; automatic recomputation must leave it alone.
type BreakdownValue struct {
	Hours  float64 `json:"hours"`
	Manual bool    `json:"manual,omitempty"`
}

// Position is a shift catalog entry, keyed by its name in the catalog.
type Position struct {
	Start         string   `json:"start"`
	End           string   `json:"end"`
	StandardHours float64  `json:"standard_hours,omitempty"` // 0 means the global default applies
	Breakdowns    []string `json:"breakdowns,omitempty"`
}

// Breakdown is a named sub-category of worked hours (desglose), such as
// night hours. An empty PositionID makes it global: any position can use it.
type Breakdown struct {
	Name       string `json:"name"`
	Color      string `json:"color"`
	PositionID string `json:"position_id,omitempty"`
	TimeStart  string `json:"time_start,omitempty"`
	TimeEnd    string `json:"time_end,omitempty"`
}

// Summary aggregates derived hours across all entries of a period.
type Summary struct {
	Total   float64            `json:"total"`
	Extra   float64            `json:"extra"`
	Night   float64            `json:"night"`
	Holiday float64            `json:"holiday"`
	Custom  map[string]float64 `json:"custom"`
}

// DailyHours is the derived output for a single worked day.
type DailyHours struct {
	Total   float64
	Extra   float64
	Holiday float64
	Custom  map[string]float64
}
