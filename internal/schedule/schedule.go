package schedule

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the storage form of a calendar day.
const DateLayout = "2006-01-02"

// HolidaySet holds holiday dates keyed by DateKey. Dates are compared by
// calendar-day equality, never by instant.
type HolidaySet map[string]bool

// DateKey returns the calendar-day key for t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseClock validates a zero-padded 24-hour HH:MM clock string and returns
// its hour and minute components.
func ParseClock(s string) (int, int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("invalid clock %q: want HH:MM", s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, fmt.Errorf("invalid clock %q: want HH:MM", s)
		}
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	if h > 23 || m > 59 {
		return 0, 0, fmt.Errorf("invalid clock %q: hour or minute out of range", s)
	}
	return h, m, nil
}

// ClockAt combines a calendar day with an HH:MM clock string.
func ClockAt(date time.Time, clock string) (time.Time, error) {
	h, m, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location()), nil
}

// ResolveShift builds the absolute start and end instants of a shift on the
// given day. An end at or before the start means the shift runs into the
// next calendar day (a 22:00-06:00 shift ends at 06:00 tomorrow), so the
// resolved duration is always in (0, 24] hours.
func ResolveShift(date time.Time, startClock, endClock string) (time.Time, time.Time, error) {
	start, err := ClockAt(date, startClock)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ClockAt(date, endClock)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end, nil
}

// Overlap returns the length in hours of the intersection of [aStart, aEnd)
// and [bStart, bEnd). Intervals that only touch at an endpoint do not
// overlap; the result is never negative.
func Overlap(aStart, aEnd, bStart, bEnd time.Time) float64 {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if start.Before(end) {
		return end.Sub(start).Hours()
	}
	return 0
}

// StartOfDay returns 00:00 of the same calendar day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// HolidayHours returns the portion of the worked interval [start, end) that
// falls on holiday calendar days. Only the shift's own day and the following
// day can contribute: start always lies on the shift's day, and the
// resolved duration is capped at 24 hours.
func HolidayHours(start, end time.Time, holidays HolidaySet) float64 {
	day := StartOfDay(start)
	next := day.AddDate(0, 0, 1)

	var hours float64
	if holidays[DateKey(day)] {
		e := end
		if next.Before(e) {
			e = next
		}
		if e.After(start) {
			hours += e.Sub(start).Hours()
		}
	}
	if holidays[DateKey(next)] && end.After(next) {
		s := start
		if next.After(s) {
			s = next
		}
		hours += end.Sub(s).Hours()
	}
	return hours
}

// BreakdownHours computes the overlap in hours between the worked interval
// and the breakdown's daily recurring interval anchored at date. The
// interval recurs every day, so the previous day's instance is also checked
// when the interval crosses midnight, and the next day's instance when the
// worked interval does: a shift ending at 02:00 finds the previous night's
// 22:00-06:00 instance this way. A breakdown without an interval
// contributes 0.
func BreakdownHours(date, workStart, workEnd time.Time, b Breakdown) (float64, error) {
	if b.TimeStart == "" || b.TimeEnd == "" {
		return 0, nil
	}
	bStart, bEnd, err := ResolveShift(date, b.TimeStart, b.TimeEnd)
	if err != nil {
		return 0, err
	}

	hours := Overlap(workStart, workEnd, bStart, bEnd)
	if !SameDay(bStart, bEnd) {
		hours += Overlap(workStart, workEnd, bStart.AddDate(0, 0, -1), bEnd.AddDate(0, 0, -1))
	}
	if !SameDay(workStart, workEnd) {
		hours += Overlap(workStart, workEnd, bStart.AddDate(0, 0, 1), bEnd.AddDate(0, 0, 1))
	}
	return hours, nil
}

// ExtraHours returns the overtime above the standard-hours threshold.
func ExtraHours(total, standard float64) float64 {
	if total > standard {
		return total - standard
	}
	return 0
}

// ComputeDaily derives every hour split for one worked day: total hours,
// overtime against standardHours, holiday-attributable hours, and one value
// per applicable breakdown.
func ComputeDaily(date time.Time, workStart, workEnd string, holidays HolidaySet, standardHours float64, breakdowns map[string]Breakdown) (DailyHours, error) {
	start, end, err := ResolveShift(date, workStart, workEnd)
	if err != nil {
		return DailyHours{}, err
	}

	total := end.Sub(start).Hours()
	out := DailyHours{
		Total:   total,
		Extra:   ExtraHours(total, standardHours),
		Holiday: HolidayHours(start, end, holidays),
		Custom:  make(map[string]float64, len(breakdowns)),
	}
	for id, b := range breakdowns {
		h, err := BreakdownHours(date, start, end, b)
		if err != nil {
			return DailyHours{}, err
		}
		out.Custom[id] = h
	}
	return out, nil
}
