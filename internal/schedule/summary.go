package schedule

// Summarize folds every entry's derived hours into a period summary.
// Addition is commutative, so entry order does not matter; no rounding is
// applied here.
func Summarize(entries []Entry) Summary {
	s := Summary{Custom: make(map[string]float64)}
	for _, e := range entries {
		s.Total += e.TotalHours
		s.Extra += e.ExtraHours
		s.Night += e.NightHours
		s.Holiday += e.HolidayHours
		for id, v := range e.Custom {
			s.Custom[id] += v.Hours
		}
	}
	return s
}

// ColumnHasData reports whether an optional export column has at least one
// positive value across the entries or the summary. key is "extra",
// "night", "holiday", or a breakdown id.
func ColumnHasData(entries []Entry, s Summary, key string) bool {
	switch key {
	case "extra":
		if s.Extra > 0 {
			return true
		}
		for _, e := range entries {
			if e.ExtraHours > 0 {
				return true
			}
		}
	case "night":
		if s.Night > 0 {
			return true
		}
		for _, e := range entries {
			if e.NightHours > 0 {
				return true
			}
		}
	case "holiday":
		if s.Holiday > 0 {
			return true
		}
		for _, e := range entries {
			if e.HolidayHours > 0 {
				return true
			}
		}
	default:
		if s.Custom[key] > 0 {
			return true
		}
		for _, e := range entries {
			if e.Custom[key].Hours > 0 {
				return true
			}
		}
	}
	return false
}
