package schedule

// =============================================================================
// DEFAULT SHIFT CATALOG
// =============================================================================
// The built-in positions and the nocturnal breakdown seeded into an empty
// store. Edit positions through the CLI rather than here; these only define
// the starting catalog.
// =============================================================================

// NightBreakdownID is the id of the built-in nocturnal hours breakdown.
const NightBreakdownID = "default-night-hours"

// DefaultStandardDailyHours is the global overtime threshold in hours.
const DefaultStandardDailyHours = 8

// Default nocturnal interval, used by the built-in night breakdown.
const (
	DefaultNightStart = "22:00"
	DefaultNightEnd   = "06:00"
)

// NoHoursPositions are sentinel codes that carry no time computation:
// rest (D), leave (P), sick leave (B), vacation (V), unset (--).
var NoHoursPositions = []string{"D", "P", "B", "V", "--"}

// IsNoHours reports whether position carries no time computation. The empty
// string (unassigned) counts as no-hours.
func IsNoHours(position string) bool {
	if position == "" {
		return true
	}
	for _, p := range NoHoursPositions {
		if p == position {
			return true
		}
	}
	return false
}

// DefaultPositions returns a fresh copy of the built-in shift catalog.
func DefaultPositions() map[string]Position {
	return map[string]Position{
		"CM":  {Start: "06:30", End: "14:30", StandardHours: 8},
		"CT":  {Start: "14:30", End: "22:30", StandardHours: 8, Breakdowns: []string{NightBreakdownID}},
		"CTd": {Start: "15:15", End: "23:15", StandardHours: 8, Breakdowns: []string{NightBreakdownID}},
		"CN":  {Start: "22:30", End: "06:30", StandardHours: 8, Breakdowns: []string{NightBreakdownID}},
		"AM":  {Start: "07:00", End: "15:00", StandardHours: 8},
		"AT":  {Start: "15:00", End: "23:00", StandardHours: 8, Breakdowns: []string{NightBreakdownID}},
		"AN":  {Start: "23:00", End: "07:00", StandardHours: 8, Breakdowns: []string{NightBreakdownID}},
		"TM1": {Start: "06:00", End: "14:00", StandardHours: 8},
		"TT1": {Start: "14:00", End: "22:00", StandardHours: 8},
		"TN1": {Start: "22:00", End: "06:00", StandardHours: 8, Breakdowns: []string{NightBreakdownID}},
		"TM":  {Start: "07:00", End: "15:00", StandardHours: 8},
		"TT":  {Start: "15:00", End: "23:00", StandardHours: 8, Breakdowns: []string{NightBreakdownID}},
		"TN":  {Start: "23:00", End: "07:00", StandardHours: 8, Breakdowns: []string{NightBreakdownID}},
	}
}

// DefaultBreakdowns returns a fresh copy of the built-in breakdown catalog.
func DefaultBreakdowns() map[string]Breakdown {
	return map[string]Breakdown{
		NightBreakdownID: {
			Name:      "Horas Nocturnas",
			Color:     "#6366f1",
			TimeStart: DefaultNightStart,
			TimeEnd:   DefaultNightEnd,
		},
	}
}
