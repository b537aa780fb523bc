package schedule

import (
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input    string
		hour     int
		minute   int
		hasError bool
	}{
		{"00:00", 0, 0, false},
		{"09:30", 9, 30, false},
		{"23:59", 23, 59, false},
		{"22:00", 22, 0, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"9:30", 0, 0, true},
		{"0930", 0, 0, true},
		{"ab:cd", 0, 0, true},
		{"", 0, 0, true},
		{"12-30", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			h, m, err := ParseClock(tt.input)
			if tt.hasError {
				if err == nil {
					t.Errorf("ParseClock(%q) expected error, got %d:%d", tt.input, h, m)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock(%q) unexpected error: %v", tt.input, err)
			}
			if h != tt.hour || m != tt.minute {
				t.Errorf("ParseClock(%q) = %d:%d, want %d:%d", tt.input, h, m, tt.hour, tt.minute)
			}
		})
	}
}

func TestResolveShift(t *testing.T) {
	date := day(2024, time.January, 1)

	tests := []struct {
		name      string
		start     string
		end       string
		wantHours float64
		endsNext  bool
	}{
		{"day shift", "06:30", "14:30", 8, false},
		{"evening shift", "15:00", "23:00", 8, false},
		{"overnight shift", "22:30", "06:30", 8, true},
		{"ends at midnight clock", "16:00", "00:00", 8, true},
		{"equal times roll a full day", "08:00", "08:00", 24, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ResolveShift(date, tt.start, tt.end)
			if err != nil {
				t.Fatalf("ResolveShift() error: %v", err)
			}
			got := end.Sub(start).Hours()
			if !almostEqual(got, tt.wantHours) {
				t.Errorf("duration = %.2f, want %.2f", got, tt.wantHours)
			}
			if got <= 0 || got > 24 {
				t.Errorf("duration %.2f outside (0, 24]", got)
			}
			if tt.endsNext && SameDay(start, end) {
				t.Errorf("end %v should fall on the next day", end)
			}
		})
	}

	if _, _, err := ResolveShift(date, "25:00", "08:00"); err == nil {
		t.Error("ResolveShift with malformed start should fail")
	}
	if _, _, err := ResolveShift(date, "08:00", "8pm"); err == nil {
		t.Error("ResolveShift with malformed end should fail")
	}
}

func TestOverlap(t *testing.T) {
	base := day(2024, time.January, 1)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       float64
	}{
		{"full containment", 8, 16, 10, 12, 2},
		{"partial", 8, 16, 14, 20, 2},
		{"identical", 8, 16, 8, 16, 8},
		{"disjoint", 8, 10, 12, 14, 0},
		{"touching endpoints", 8, 10, 10, 12, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlap(at(tt.aStart), at(tt.aEnd), at(tt.bStart), at(tt.bEnd))
			if !almostEqual(got, tt.want) {
				t.Errorf("Overlap() = %.2f, want %.2f", got, tt.want)
			}
			// Symmetric in argument-pair order.
			swapped := Overlap(at(tt.bStart), at(tt.bEnd), at(tt.aStart), at(tt.aEnd))
			if !almostEqual(got, swapped) {
				t.Errorf("Overlap not symmetric: %.2f vs %.2f", got, swapped)
			}
			if got < 0 {
				t.Errorf("Overlap() negative: %.2f", got)
			}
		})
	}
}

func TestHolidayHours(t *testing.T) {
	date := day(2024, time.January, 1)
	holidayOn := func(days ...time.Time) HolidaySet {
		set := HolidaySet{}
		for _, d := range days {
			set[DateKey(d)] = true
		}
		return set
	}

	tests := []struct {
		name     string
		start    string
		end      string
		holidays HolidaySet
		want     float64
	}{
		{"no holidays", "22:30", "06:30", HolidaySet{}, 0},
		{"day shift on holiday", "06:30", "14:30", holidayOn(date), 8},
		{"overnight, shift day is holiday", "22:30", "06:30", holidayOn(date), 1.5},
		{"overnight, next day is holiday", "22:30", "06:30", holidayOn(date.AddDate(0, 0, 1)), 6.5},
		{"overnight, both days holidays", "22:30", "06:30", holidayOn(date, date.AddDate(0, 0, 1)), 8},
		{"day shift, next day holiday irrelevant", "06:30", "14:30", holidayOn(date.AddDate(0, 0, 1)), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ResolveShift(date, tt.start, tt.end)
			if err != nil {
				t.Fatalf("ResolveShift() error: %v", err)
			}
			got := HolidayHours(start, end, tt.holidays)
			if !almostEqual(got, tt.want) {
				t.Errorf("HolidayHours() = %.2f, want %.2f", got, tt.want)
			}
			// Idempotent under re-running and never above the total.
			again := HolidayHours(start, end, tt.holidays)
			if !almostEqual(got, again) {
				t.Errorf("HolidayHours not stable: %.2f vs %.2f", got, again)
			}
			if total := end.Sub(start).Hours(); got > total+1e-9 {
				t.Errorf("HolidayHours %.2f exceeds total %.2f", got, total)
			}
		})
	}
}

func TestBreakdownHours(t *testing.T) {
	date := day(2024, time.January, 1)
	night := Breakdown{Name: "Horas Nocturnas", TimeStart: "22:00", TimeEnd: "06:00"}

	tests := []struct {
		name      string
		workStart string
		workEnd   string
		breakdown Breakdown
		want      float64
	}{
		{"night shift against nocturnal interval", "22:30", "06:30", night, 7.5},
		{"day shift has no nocturnal hours", "06:30", "14:30", night, 0},
		{"evening shift tail", "15:00", "23:00", night, 1},
		{"shift into the small hours", "18:00", "02:00", night, 4},
		{"early shift finds previous night's instance", "00:30", "02:00", night, 1.5},
		{"full 24h shift collects both instances", "22:30", "22:30", night, 8},
		{"daytime breakdown", "08:00", "20:00", Breakdown{TimeStart: "09:00", TimeEnd: "13:00"}, 4},
		{"empty interval contributes zero", "22:30", "06:30", Breakdown{Name: "Plus"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ResolveShift(date, tt.workStart, tt.workEnd)
			if err != nil {
				t.Fatalf("ResolveShift() error: %v", err)
			}
			got, err := BreakdownHours(date, start, end, tt.breakdown)
			if err != nil {
				t.Fatalf("BreakdownHours() error: %v", err)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("BreakdownHours() = %.2f, want %.2f", got, tt.want)
			}
		})
	}

	start, end, _ := ResolveShift(date, "08:00", "16:00")
	if _, err := BreakdownHours(date, start, end, Breakdown{TimeStart: "99:00", TimeEnd: "06:00"}); err == nil {
		t.Error("BreakdownHours with malformed interval should fail")
	}
}

func TestComputeDaily(t *testing.T) {
	// CN shift (22:30-06:30) on 2024-01-01 with 2024-01-02 marked holiday:
	// 8h total, no overtime at standard 8, 6.5 holiday hours past midnight,
	// 7.5 nocturnal hours (06:00-06:30 falls outside the interval).
	date := day(2024, time.January, 1)
	holidays := HolidaySet{DateKey(date.AddDate(0, 0, 1)): true}
	breakdowns := map[string]Breakdown{NightBreakdownID: DefaultBreakdowns()[NightBreakdownID]}

	got, err := ComputeDaily(date, "22:30", "06:30", holidays, 8, breakdowns)
	if err != nil {
		t.Fatalf("ComputeDaily() error: %v", err)
	}
	if !almostEqual(got.Total, 8) {
		t.Errorf("Total = %.2f, want 8.00", got.Total)
	}
	if !almostEqual(got.Extra, 0) {
		t.Errorf("Extra = %.2f, want 0.00", got.Extra)
	}
	if !almostEqual(got.Holiday, 6.5) {
		t.Errorf("Holiday = %.2f, want 6.50", got.Holiday)
	}
	if !almostEqual(got.Custom[NightBreakdownID], 7.5) {
		t.Errorf("Custom[night] = %.2f, want 7.50", got.Custom[NightBreakdownID])
	}

	if _, err := ComputeDaily(date, "", "06:30", holidays, 8, nil); err == nil {
		t.Error("ComputeDaily with empty work start should fail")
	}
}

func TestComputeDailyOvertime(t *testing.T) {
	date := day(2024, time.March, 4)
	got, err := ComputeDaily(date, "08:00", "18:00", HolidaySet{}, 8, nil)
	if err != nil {
		t.Fatalf("ComputeDaily() error: %v", err)
	}
	if !almostEqual(got.Total, 10) || !almostEqual(got.Extra, 2) {
		t.Errorf("Total/Extra = %.2f/%.2f, want 10.00/2.00", got.Total, got.Extra)
	}
}

func TestSummarize(t *testing.T) {
	empty := Summarize(nil)
	if empty.Total != 0 || empty.Extra != 0 || empty.Night != 0 || empty.Holiday != 0 {
		t.Errorf("Summarize(nil) totals not zero: %+v", empty)
	}
	if len(empty.Custom) != 0 {
		t.Errorf("Summarize(nil) custom map not empty: %v", empty.Custom)
	}

	entries := []Entry{
		{TotalHours: 8, ExtraHours: 1, HolidayHours: 2, Custom: map[string]BreakdownValue{
			"night": {Hours: 7.5},
		}},
		{TotalHours: 6, Custom: map[string]BreakdownValue{
			"night": {Hours: 2, Manual: true},
			"plus":  {Hours: 1},
		}},
		{},
	}
	s := Summarize(entries)
	if !almostEqual(s.Total, 14) || !almostEqual(s.Extra, 1) || !almostEqual(s.Holiday, 2) {
		t.Errorf("Summarize totals = %+v", s)
	}
	if !almostEqual(s.Custom["night"], 9.5) {
		t.Errorf("Custom[night] = %.2f, want 9.50 (manual values still count)", s.Custom["night"])
	}
	if !almostEqual(s.Custom["plus"], 1) {
		t.Errorf("Custom[plus] = %.2f, want 1.00", s.Custom["plus"])
	}
}

func TestColumnHasData(t *testing.T) {
	entries := []Entry{
		{TotalHours: 8, HolidayHours: 2, Custom: map[string]BreakdownValue{"noct": {Hours: 7.5}}},
		{TotalHours: 8},
	}
	s := Summarize(entries)

	tests := []struct {
		key  string
		want bool
	}{
		{"extra", false},
		{"night", false}, // legacy field, always 0
		{"holiday", true},
		{"noct", true},
		{"missing-breakdown", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := ColumnHasData(entries, s, tt.key); got != tt.want {
				t.Errorf("ColumnHasData(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}
