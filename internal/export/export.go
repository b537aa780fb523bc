package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/desglosa/internal/schedule"
)

// ErrNoData is returned when there is nothing to export: no entries or no
// period selected. Callers surface it as a message, not a failure.
var ErrNoData = errors.New("no entries to export or no period selected")

// Report produces the spreadsheet for a period. Optional columns (overtime,
// legacy night hours, holiday hours, each breakdown) appear only when at
// least one entry or the summary carries a positive value for them.
type Report struct {
	Worker     string
	Start, End time.Time
	Entries    []schedule.Entry
	Summary    schedule.Summary
	Breakdowns map[string]schedule.Breakdown
}

const exportDateLayout = "02/01/2006"

// DefaultFilename builds the suggested export file name from the worker's
// first name and the period bounds.
func DefaultFilename(firstName string, start, end time.Time) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "Usuario"
	}
	name = strings.Join(strings.Fields(name), "_")
	return fmt.Sprintf("%s_RegistroHoras_%s_%s.csv",
		name, start.Format("02-01-2006"), end.Format("02-01-2006"))
}

// WriteFile writes the report to the given path.
func (r *Report) WriteFile(path string) error {
	rows, err := r.Rows()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	return writeCSV(f, rows)
}

// WriteCSV writes the report to w.
func (r *Report) WriteCSV(w io.Writer) error {
	rows, err := r.Rows()
	if err != nil {
		return err
	}
	return writeCSV(w, rows)
}

// Rows builds every spreadsheet row: title, period, headers, one row per
// entry, and the totals row.
func (r *Report) Rows() ([][]string, error) {
	if len(r.Entries) == 0 || r.Start.IsZero() || r.End.IsZero() {
		return nil, ErrNoData
	}

	worker := r.Worker
	if worker == "" {
		worker = "Usuario"
	}

	hasExtra := schedule.ColumnHasData(r.Entries, r.Summary, "extra")
	hasNight := schedule.ColumnHasData(r.Entries, r.Summary, "night")
	hasHoliday := schedule.ColumnHasData(r.Entries, r.Summary, "holiday")
	breakdownIDs := r.breakdownColumns()

	headers := []string{"Fecha", "Puesto", "Turno (oficial)", "Jornada", "Horas Totales"}
	if hasExtra {
		headers = append(headers, "Horas Extras")
	}
	if hasNight {
		headers = append(headers, "Horas Nocturnas")
	}
	if hasHoliday {
		headers = append(headers, "Horas Festivas")
	}
	for _, id := range breakdownIDs {
		headers = append(headers, r.Breakdowns[id].Name)
	}

	rows := [][]string{
		{fmt.Sprintf("Registro de Horas - %s", worker)},
		{fmt.Sprintf("Período: %s - %s", r.Start.Format(exportDateLayout), r.End.Format(exportDateLayout))},
		{},
		headers,
	}

	for _, e := range r.Entries {
		row := []string{
			e.Date.Format(exportDateLayout),
			e.Position,
			clockSpan(e.ShiftStart, e.ShiftEnd),
			clockSpan(e.WorkStart, e.WorkEnd),
			blankIfZero(e.TotalHours),
		}
		if hasExtra {
			row = append(row, blankIfZero(e.ExtraHours))
		}
		if hasNight {
			row = append(row, blankIfZero(e.NightHours))
		}
		if hasHoliday {
			row = append(row, blankIfZero(e.HolidayHours))
		}
		for _, id := range breakdownIDs {
			row = append(row, blankIfZero(e.Custom[id].Hours))
		}
		rows = append(rows, row)
	}

	totals := []string{"", "", "", "Σ Total", formatHours(r.Summary.Total)}
	if hasExtra {
		totals = append(totals, blankIfZero(r.Summary.Extra))
	}
	if hasNight {
		totals = append(totals, blankIfZero(r.Summary.Night))
	}
	if hasHoliday {
		totals = append(totals, blankIfZero(r.Summary.Holiday))
	}
	for _, id := range breakdownIDs {
		totals = append(totals, blankIfZero(r.Summary.Custom[id]))
	}
	rows = append(rows, []string{}, totals)

	return rows, nil
}

// breakdownColumns returns the ids of breakdowns with data, ordered by
// display name so the column layout is deterministic.
func (r *Report) breakdownColumns() []string {
	var ids []string
	for id := range r.Breakdowns {
		if schedule.ColumnHasData(r.Entries, r.Summary, id) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := r.Breakdowns[ids[i]].Name, r.Breakdowns[ids[j]].Name
		if a != b {
			return a < b
		}
		return ids[i] < ids[j]
	})
	return ids
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	for _, row := range rows {
		// csv.Writer drops fully empty records, so spacer rows carry one
		// empty field.
		if len(row) == 0 {
			row = []string{""}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func clockSpan(start, end string) string {
	if start == "" || end == "" {
		return ""
	}
	return fmt.Sprintf("%s - %s", start, end)
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func blankIfZero(v float64) string {
	if v > 0 {
		return formatHours(v)
	}
	return ""
}
