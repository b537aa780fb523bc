package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/desglosa/internal/export"
	"github.com/desglosa/internal/schedule"
)

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(schedule.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return t, nil
}

// entryForDate resolves a date argument to an entry of the active period.
func entryForDate(arg string) (*schedule.Entry, error) {
	date, err := parseDate(arg)
	if err != nil {
		return nil, err
	}
	if !state.HasPeriod() {
		return nil, fmt.Errorf("no period selected. Use: desglosa period <start> <end>")
	}
	e := state.EntryByDate(date)
	if e == nil {
		return nil, fmt.Errorf("%s is outside the period %s - %s", arg,
			schedule.DateKey(state.PeriodStart), schedule.DateKey(state.PeriodEnd))
	}
	return e, nil
}

var periodCmd = &cobra.Command{
	Use:   "period <start> <end>",
	Short: "Select the date range to track",
	Long: `Select the period to track. One entry is generated per calendar day;
entries from a previous period are discarded, including manual edits.
Reversed bounds are swapped automatically.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseDate(args[0])
		if err != nil {
			return err
		}
		end, err := parseDate(args[1])
		if err != nil {
			return err
		}

		state.SetPeriod(start, end)
		if err := save(); err != nil {
			return err
		}
		fmt.Printf("Period %s - %s | %d entries generated\n",
			schedule.DateKey(state.PeriodStart), schedule.DateKey(state.PeriodEnd), len(state.Entries))
		return nil
	},
}

var entriesCmd = &cobra.Command{
	Use:     "entries",
	Aliases: []string{"days", "ls"},
	Short:   "List the period's entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !state.HasPeriod() {
			return fmt.Errorf("no period selected. Use: desglosa period <start> <end>")
		}
		for _, e := range state.Entries {
			marker := " "
			if state.Holidays[schedule.DateKey(e.Date)] {
				marker = "*"
			}
			pos := e.Position
			if pos == "" {
				pos = "--"
			}
			if schedule.IsNoHours(e.Position) {
				fmt.Printf("%s %s %-4s\n", schedule.DateKey(e.Date), marker, pos)
				continue
			}
			line := fmt.Sprintf("%s %s %-4s %s - %s | %.2fh", schedule.DateKey(e.Date), marker, pos,
				e.WorkStart, e.WorkEnd, e.TotalHours)
			if e.ExtraHours > 0 {
				line += fmt.Sprintf(" | extra %.2f", e.ExtraHours)
			}
			if e.HolidayHours > 0 {
				line += fmt.Sprintf(" | festivas %.2f", e.HolidayHours)
			}
			for _, id := range sortedBreakdownIDs(e.Custom) {
				v := e.Custom[id]
				if v.Hours <= 0 {
					continue
				}
				name := state.Breakdowns[id].Name
				if v.Manual {
					name += " (manual)"
				}
				line += fmt.Sprintf(" | %s %.2f", name, v.Hours)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var assignCmd = &cobra.Command{
	Use:     "assign <date> <position>",
	Aliases: []string{"a"},
	Short:   "Assign a position to a day",
	Long: `Assign a shift-catalog position to a day. The position's schedule is
copied into the entry and all hours are computed. Sentinel codes (D, P, B,
V, --) clear the day instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := entryForDate(args[0])
		if err != nil {
			return err
		}
		position := args[1]
		if !schedule.IsNoHours(position) {
			if _, ok := state.Positions[position]; !ok {
				return fmt.Errorf("unknown position %q. Use: desglosa position list", position)
			}
		}

		if err := state.AssignPosition(e.ID, position, cfg.StandardDailyHours); err != nil {
			return err
		}
		if err := save(); err != nil {
			return err
		}

		if schedule.IsNoHours(e.Position) {
			fmt.Printf("%s set to %s (no hours)\n", args[0], position)
		} else {
			fmt.Printf("%s assigned %s | %s - %s | %.2fh\n",
				args[0], position, e.WorkStart, e.WorkEnd, e.TotalHours)
		}
		return nil
	},
}

var workCmd = &cobra.Command{
	Use:   "work <date> <start> <end>",
	Short: "Edit a day's actual worked hours",
	Long: `Override the hours actually worked on a day, independent of the official
shift schedule. All derived hours are recomputed; breakdown values you set
manually are preserved.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := entryForDate(args[0])
		if err != nil {
			return err
		}
		if err := state.UpdateWorkTimes(e.ID, args[1], args[2], cfg.StandardDailyHours); err != nil {
			return err
		}
		if err := save(); err != nil {
			return err
		}
		fmt.Printf("%s worked %s - %s | %.2fh (extra %.2f, festivas %.2f)\n",
			args[0], e.WorkStart, e.WorkEnd, e.TotalHours, e.ExtraHours, e.HolidayHours)
		return nil
	},
}

var overrideCmd = &cobra.Command{
	Use:   "override <date> <breakdown> <hours>",
	Short: "Set a breakdown value by hand",
	Long: `Set a breakdown's hours on one day manually. The value is marked as
overridden and automatic recomputation leaves it alone until the day's
position is reassigned.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := entryForDate(args[0])
		if err != nil {
			return err
		}
		id, err := resolveBreakdown(args[1])
		if err != nil {
			return err
		}
		hours, err := strconv.ParseFloat(args[2], 64)
		if err != nil || hours < 0 {
			return fmt.Errorf("invalid hours %q", args[2])
		}

		if err := state.SetManualBreakdown(e.ID, id, hours); err != nil {
			return err
		}
		if err := save(); err != nil {
			return err
		}
		fmt.Printf("%s %s set to %.2fh (manual)\n", args[0], state.Breakdowns[id].Name, hours)
		return nil
	},
}

var holidayCmd = &cobra.Command{
	Use:     "holiday <date>",
	Aliases: []string{"h"},
	Short:   "Toggle a holiday date",
	Long: `Mark or unmark a date as a holiday. Holiday hours are recomputed for the
toggled day and its neighbors, since overnight shifts reach across
midnight.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(args[0])
		if err != nil {
			return err
		}
		added, err := state.ToggleHoliday(date)
		if err != nil {
			return err
		}
		if err := save(); err != nil {
			return err
		}
		if added {
			fmt.Printf("%s marked as holiday\n", args[0])
		} else {
			fmt.Printf("%s unmarked as holiday\n", args[0])
		}
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:     "summary",
	Aliases: []string{"sum"},
	Short:   "Show the period totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !state.HasPeriod() {
			return fmt.Errorf("no period selected. Use: desglosa period <start> <end>")
		}
		s := state.Summary()
		fmt.Printf("Period: %s - %s | %d days\n",
			schedule.DateKey(state.PeriodStart), schedule.DateKey(state.PeriodEnd), len(state.Entries))
		fmt.Printf("  Horas Totales:  %.2f\n", s.Total)
		if s.Extra > 0 {
			fmt.Printf("  Horas Extras:   %.2f\n", s.Extra)
		}
		if s.Holiday > 0 {
			fmt.Printf("  Horas Festivas: %.2f\n", s.Holiday)
		}
		ids := make([]string, 0, len(s.Custom))
		for id := range s.Custom {
			if s.Custom[id] > 0 {
				ids = append(ids, id)
			}
		}
		sort.Slice(ids, func(i, j int) bool {
			return state.Breakdowns[ids[i]].Name < state.Breakdowns[ids[j]].Name
		})
		for _, id := range ids {
			name := state.Breakdowns[id].Name
			if name == "" {
				name = id
			}
			fmt.Printf("  %s: %.2f\n", name, s.Custom[id])
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the period to a spreadsheet file",
	Long: `Write the period's entries and totals to a CSV spreadsheet. Optional
columns (overtime, holiday hours, breakdowns) are included only when they
carry data. Without an argument the file name is derived from the
configured worker name and the period bounds.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report := &export.Report{
			Worker:     cfg.WorkerName(),
			Start:      state.PeriodStart,
			End:        state.PeriodEnd,
			Entries:    state.Entries,
			Summary:    state.Summary(),
			Breakdowns: state.Breakdowns,
		}

		path := ""
		if len(args) > 0 {
			path = args[0]
		} else if state.HasPeriod() {
			path = export.DefaultFilename(cfg.FirstName, state.PeriodStart, state.PeriodEnd)
		}

		err := report.WriteFile(path)
		if errors.Is(err, export.ErrNoData) {
			fmt.Println("Nothing to export: select a period and assign positions first.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d entries to %s\n", len(state.Entries), path)
		return nil
	},
}

// resolveBreakdown matches an argument against breakdown ids first, then
// names (case-insensitive).
func resolveBreakdown(arg string) (string, error) {
	if _, ok := state.Breakdowns[arg]; ok {
		return arg, nil
	}
	for id, b := range state.Breakdowns {
		if strings.EqualFold(b.Name, arg) {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown breakdown %q. Use: desglosa breakdown list", arg)
}

func sortedBreakdownIDs(custom map[string]schedule.BreakdownValue) []string {
	ids := make([]string, 0, len(custom))
	for id := range custom {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
