package tracker

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/desglosa/internal/schedule"
)

// State is the full in-memory working set: the period, its generated
// entries, the shift and breakdown catalogs, and the holiday set. Every
// mutation operates on a loaded State; derived entry fields are always the
// product of re-running the schedule calculators, never hand-maintained.
type State struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Entries     []schedule.Entry
	Positions   map[string]schedule.Position
	Breakdowns  map[string]schedule.Breakdown
	Holidays    schedule.HolidaySet
}

// NewState returns a State seeded with the default catalogs and no period.
func NewState() *State {
	return &State{
		Positions:  schedule.DefaultPositions(),
		Breakdowns: schedule.DefaultBreakdowns(),
		Holidays:   schedule.HolidaySet{},
	}
}

// HasPeriod reports whether a date range has been configured.
func (s *State) HasPeriod() bool {
	return !s.PeriodStart.IsZero() && !s.PeriodEnd.IsZero()
}

// EntryByDate returns the entry for the given calendar day, or nil.
func (s *State) EntryByDate(date time.Time) *schedule.Entry {
	for i := range s.Entries {
		if schedule.SameDay(s.Entries[i].Date, date) {
			return &s.Entries[i]
		}
	}
	return nil
}

// EntryByID returns the entry with the given id, or nil.
func (s *State) EntryByID(id string) *schedule.Entry {
	for i := range s.Entries {
		if s.Entries[i].ID == id {
			return &s.Entries[i]
		}
	}
	return nil
}

// SetPeriod replaces the active period and regenerates one blank entry per
// calendar day. Bounds are swapped when given in reverse order. Previous
// entries are discarded, including any manual edits.
func (s *State) SetPeriod(start, end time.Time) {
	if end.Before(start) {
		start, end = end, start
	}
	s.PeriodStart = schedule.StartOfDay(start)
	s.PeriodEnd = schedule.StartOfDay(end)

	s.Entries = nil
	for d := s.PeriodStart; !d.After(s.PeriodEnd); d = d.AddDate(0, 0, 1) {
		s.Entries = append(s.Entries, schedule.Entry{
			ID:     uuid.NewString(),
			Date:   d,
			Custom: map[string]schedule.BreakdownValue{},
		})
	}
}

// AssignPosition sets an entry's position. A no-hours sentinel clears every
// time field and derived value; a catalog position copies its schedule into
// both the official shift and the worked hours and recomputes everything
// from scratch, dropping any manual breakdown overrides. A position missing
// from the catalog is treated as unassigned.
func (s *State) AssignPosition(entryID, position string, standardHours float64) error {
	e := s.EntryByID(entryID)
	if e == nil {
		return fmt.Errorf("no entry with id %s", entryID)
	}

	e.Position = position
	if schedule.IsNoHours(position) {
		resetEntry(e)
		return nil
	}

	p, ok := s.Positions[position]
	if !ok {
		e.Position = ""
		resetEntry(e)
		return nil
	}

	e.ShiftStart, e.ShiftEnd = p.Start, p.End
	e.WorkStart, e.WorkEnd = p.Start, p.End
	return s.recomputeEntry(e, standardHours, true)
}

// UpdateWorkTimes changes an entry's actual worked hours and recomputes its
// derived values. Breakdown values flagged as manual keep their stored
// hours.
func (s *State) UpdateWorkTimes(entryID, workStart, workEnd string, standardHours float64) error {
	e := s.EntryByID(entryID)
	if e == nil {
		return fmt.Errorf("no entry with id %s", entryID)
	}
	if schedule.IsNoHours(e.Position) {
		return fmt.Errorf("entry %s has no scheduled position", schedule.DateKey(e.Date))
	}
	if _, _, err := schedule.ResolveShift(e.Date, workStart, workEnd); err != nil {
		return err
	}

	e.WorkStart, e.WorkEnd = workStart, workEnd
	return s.recomputeEntry(e, standardHours, false)
}

// SetManualBreakdown stores a user-supplied breakdown value on an entry and
// marks it as manually overridden, which suppresses automatic recomputation
// for that breakdown until the position is reassigned.
func (s *State) SetManualBreakdown(entryID, breakdownID string, hours float64) error {
	e := s.EntryByID(entryID)
	if e == nil {
		return fmt.Errorf("no entry with id %s", entryID)
	}
	if _, ok := s.Breakdowns[breakdownID]; !ok {
		return fmt.Errorf("unknown breakdown %q", breakdownID)
	}
	if e.Custom == nil {
		e.Custom = map[string]schedule.BreakdownValue{}
	}
	e.Custom[breakdownID] = schedule.BreakdownValue{Hours: hours, Manual: true}
	return nil
}

// ToggleHoliday adds or removes a holiday date and rewrites holiday hours
// for the entries whose split can change: the toggled day and its two
// neighbors (an overnight shift on the previous day reaches into the
// toggled one). Returns true when the date was added.
func (s *State) ToggleHoliday(date time.Time) (bool, error) {
	key := schedule.DateKey(date)
	added := !s.Holidays[key]
	if added {
		s.Holidays[key] = true
	} else {
		delete(s.Holidays, key)
	}

	prev := date.AddDate(0, 0, -1)
	next := date.AddDate(0, 0, 1)
	for i := range s.Entries {
		e := &s.Entries[i]
		if !schedule.SameDay(e.Date, date) && !schedule.SameDay(e.Date, prev) && !schedule.SameDay(e.Date, next) {
			continue
		}
		if schedule.IsNoHours(e.Position) || e.WorkStart == "" || e.WorkEnd == "" {
			continue
		}
		start, end, err := schedule.ResolveShift(e.Date, e.WorkStart, e.WorkEnd)
		if err != nil {
			return added, err
		}
		e.HolidayHours = schedule.HolidayHours(start, end, s.Holidays)
	}
	return added, nil
}

// ApplyStandardHours rewrites overtime for every scheduled entry after the
// global standard-hours default changes. Positions carrying their own
// standard-hours override are unaffected by the new default. Totals,
// holiday and breakdown hours stay untouched.
func (s *State) ApplyStandardHours(standardHours float64) {
	for i := range s.Entries {
		e := &s.Entries[i]
		if schedule.IsNoHours(e.Position) || e.WorkStart == "" || e.WorkEnd == "" {
			continue
		}
		e.ExtraHours = schedule.ExtraHours(e.TotalHours, s.effectiveStandard(e.Position, standardHours))
	}
}

// AddPosition adds a shift catalog entry.
func (s *State) AddPosition(name string, p schedule.Position) error {
	if name == "" || schedule.IsNoHours(name) {
		return fmt.Errorf("invalid position name %q", name)
	}
	if _, exists := s.Positions[name]; exists {
		return fmt.Errorf("position %q already exists", name)
	}
	if _, _, err := schedule.ResolveShift(time.Now(), p.Start, p.End); err != nil {
		return err
	}
	s.Positions[name] = p
	return nil
}

// UpdatePosition edits a shift catalog entry and cascades the edit into
// every entry on that position. Schedule values propagate only where the
// entry still matches the pre-edit catalog values, so manually customized
// entries are left alone. Breakdowns dropped from the association list are
// deleted from the entries (manual mark included); newly associated ones
// are computed fresh.
func (s *State) UpdatePosition(name string, updated schedule.Position, standardHours float64) error {
	old, ok := s.Positions[name]
	if !ok {
		return fmt.Errorf("unknown position %q", name)
	}
	if _, _, err := schedule.ResolveShift(time.Now(), updated.Start, updated.End); err != nil {
		return err
	}

	removed := missingFrom(old.Breakdowns, updated.Breakdowns)
	added := missingFrom(updated.Breakdowns, old.Breakdowns)
	s.Positions[name] = updated

	std := updated.StandardHours
	if std == 0 {
		std = standardHours
	}

	for i := range s.Entries {
		e := &s.Entries[i]
		if e.Position != name {
			continue
		}

		if e.ShiftStart == old.Start && e.ShiftEnd == old.End {
			e.ShiftStart, e.ShiftEnd = updated.Start, updated.End
		}
		if e.WorkStart == old.Start && e.WorkEnd == old.End {
			e.WorkStart, e.WorkEnd = updated.Start, updated.End
		}

		if e.WorkStart != "" && e.WorkEnd != "" {
			start, end, err := schedule.ResolveShift(e.Date, e.WorkStart, e.WorkEnd)
			if err != nil {
				return err
			}
			e.TotalHours = end.Sub(start).Hours()
			e.ExtraHours = schedule.ExtraHours(e.TotalHours, std)
			e.NightHours = 0
			e.HolidayHours = schedule.HolidayHours(start, end, s.Holidays)
		}

		if e.Custom == nil {
			e.Custom = map[string]schedule.BreakdownValue{}
		}
		for _, id := range removed {
			delete(e.Custom, id)
		}
		for _, id := range added {
			b, ok := s.Breakdowns[id]
			if !ok {
				continue
			}
			var hours float64
			if e.WorkStart != "" && e.WorkEnd != "" {
				start, end, err := schedule.ResolveShift(e.Date, e.WorkStart, e.WorkEnd)
				if err != nil {
					return err
				}
				if hours, err = schedule.BreakdownHours(e.Date, start, end, b); err != nil {
					return err
				}
			}
			// The association is new, so any stale manual mark is dropped.
			e.Custom[id] = schedule.BreakdownValue{Hours: hours}
		}
	}
	return nil
}

// DeletePosition removes a catalog entry; entries on that position revert
// to unassigned with a full field reset.
func (s *State) DeletePosition(name string) error {
	if _, ok := s.Positions[name]; !ok {
		return fmt.Errorf("unknown position %q", name)
	}
	delete(s.Positions, name)
	for i := range s.Entries {
		e := &s.Entries[i]
		if e.Position != name {
			continue
		}
		e.Position = ""
		resetEntry(e)
	}
	return nil
}

// AddBreakdown registers a breakdown definition under a generated id and,
// when it carries a time interval, computes it for the entries it already
// applies to.
func (s *State) AddBreakdown(b schedule.Breakdown) (string, error) {
	if b.Name == "" {
		return "", fmt.Errorf("breakdown name is required")
	}
	if b.TimeStart != "" || b.TimeEnd != "" {
		if _, _, err := schedule.ResolveShift(time.Now(), b.TimeStart, b.TimeEnd); err != nil {
			return "", err
		}
	}
	id := uuid.NewString()
	s.Breakdowns[id] = b
	if b.TimeStart != "" && b.TimeEnd != "" {
		if err := s.recomputeBreakdown(id); err != nil {
			return "", err
		}
	}
	return id, nil
}

// UpdateBreakdownInterval changes a breakdown's daily time interval and
// recomputes it on every entry whose position it applies to, skipping
// values the user overrode manually.
func (s *State) UpdateBreakdownInterval(id, timeStart, timeEnd string) error {
	b, ok := s.Breakdowns[id]
	if !ok {
		return fmt.Errorf("unknown breakdown %q", id)
	}
	if timeStart != "" && timeEnd != "" {
		if _, _, err := schedule.ResolveShift(time.Now(), timeStart, timeEnd); err != nil {
			return err
		}
	}
	b.TimeStart, b.TimeEnd = timeStart, timeEnd
	s.Breakdowns[id] = b
	return s.recomputeBreakdown(id)
}

// DeleteBreakdown removes a breakdown definition, its values on every
// entry, and its id from every position's association list.
func (s *State) DeleteBreakdown(id string) error {
	if _, ok := s.Breakdowns[id]; !ok {
		return fmt.Errorf("unknown breakdown %q", id)
	}
	delete(s.Breakdowns, id)

	for name, p := range s.Positions {
		var kept []string
		for _, bid := range p.Breakdowns {
			if bid != id {
				kept = append(kept, bid)
			}
		}
		p.Breakdowns = kept
		s.Positions[name] = p
	}
	for i := range s.Entries {
		delete(s.Entries[i].Custom, id)
	}
	return nil
}

// Summary folds every entry into the period totals.
func (s *State) Summary() schedule.Summary {
	return schedule.Summarize(s.Entries)
}

// ApplicableBreakdowns returns the breakdowns computed for a position: the
// ones on its association list plus every global (ownerless) breakdown.
func (s *State) ApplicableBreakdowns(position string) map[string]schedule.Breakdown {
	out := map[string]schedule.Breakdown{}
	if p, ok := s.Positions[position]; ok {
		for _, id := range p.Breakdowns {
			if b, ok := s.Breakdowns[id]; ok {
				out[id] = b
			}
		}
	}
	for id, b := range s.Breakdowns {
		if b.PositionID == "" {
			out[id] = b
		}
	}
	return out
}

func (s *State) effectiveStandard(position string, global float64) float64 {
	if p, ok := s.Positions[position]; ok && p.StandardHours > 0 {
		return p.StandardHours
	}
	return global
}

// recomputeEntry rederives every numeric field on a scheduled entry.
// resetManual discards the breakdown map first; otherwise manual values
// survive and only the automatic ones are rewritten.
func (s *State) recomputeEntry(e *schedule.Entry, standardHours float64, resetManual bool) error {
	hours, err := schedule.ComputeDaily(
		e.Date, e.WorkStart, e.WorkEnd,
		s.Holidays,
		s.effectiveStandard(e.Position, standardHours),
		s.ApplicableBreakdowns(e.Position),
	)
	if err != nil {
		return err
	}

	e.TotalHours = hours.Total
	e.ExtraHours = hours.Extra
	e.NightHours = 0
	e.HolidayHours = hours.Holiday

	if resetManual || e.Custom == nil {
		e.Custom = make(map[string]schedule.BreakdownValue, len(hours.Custom))
	}
	for id, h := range hours.Custom {
		if cur, ok := e.Custom[id]; ok && cur.Manual {
			continue
		}
		e.Custom[id] = schedule.BreakdownValue{Hours: h}
	}
	return nil
}

// recomputeBreakdown rewrites one breakdown across all entries it applies
// to. Entries without worked hours and manually overridden values are
// skipped; a breakdown without an interval is not computed at all.
func (s *State) recomputeBreakdown(id string) error {
	b, ok := s.Breakdowns[id]
	if !ok || b.TimeStart == "" || b.TimeEnd == "" {
		return nil
	}
	for i := range s.Entries {
		e := &s.Entries[i]
		if schedule.IsNoHours(e.Position) || e.WorkStart == "" || e.WorkEnd == "" {
			continue
		}
		if _, applies := s.ApplicableBreakdowns(e.Position)[id]; !applies {
			continue
		}
		if cur, ok := e.Custom[id]; ok && cur.Manual {
			continue
		}
		start, end, err := schedule.ResolveShift(e.Date, e.WorkStart, e.WorkEnd)
		if err != nil {
			return err
		}
		hours, err := schedule.BreakdownHours(e.Date, start, end, b)
		if err != nil {
			return err
		}
		if e.Custom == nil {
			e.Custom = map[string]schedule.BreakdownValue{}
		}
		e.Custom[id] = schedule.BreakdownValue{Hours: hours}
	}
	return nil
}

// resetEntry clears every time field and derived value, leaving only the
// id, date and position code.
func resetEntry(e *schedule.Entry) {
	e.ShiftStart, e.ShiftEnd = "", ""
	e.WorkStart, e.WorkEnd = "", ""
	e.TotalHours, e.ExtraHours, e.NightHours, e.HolidayHours = 0, 0, 0, 0
	e.Custom = map[string]schedule.BreakdownValue{}
}

// missingFrom returns the ids present in a but not in b.
func missingFrom(a, b []string) []string {
	var out []string
	for _, id := range a {
		found := false
		for _, other := range b {
			if id == other {
				found = true
				break
			}
		}
		if !found {
			out = append(out, id)
		}
	}
	return out
}
