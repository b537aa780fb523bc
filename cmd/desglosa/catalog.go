package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/desglosa/internal/config"
	"github.com/desglosa/internal/schedule"
)

var positionCmd = &cobra.Command{
	Use:     "position",
	Aliases: []string{"pos"},
	Short:   "Manage the shift catalog",
}

var positionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := make([]string, 0, len(state.Positions))
		for name := range state.Positions {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			p := state.Positions[name]
			line := fmt.Sprintf("%-4s %s - %s", name, p.Start, p.End)
			if p.StandardHours > 0 {
				line += fmt.Sprintf(" | standard %gh", p.StandardHours)
			}
			for _, id := range p.Breakdowns {
				if b, ok := state.Breakdowns[id]; ok {
					line += fmt.Sprintf(" | %s", b.Name)
				}
			}
			fmt.Println(line)
		}
		fmt.Printf("No-hours codes: %s\n", strings.Join(schedule.NoHoursPositions, ", "))
		return nil
	},
}

var positionAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a catalog position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		standard, _ := cmd.Flags().GetFloat64("standard")
		breakdowns, _ := cmd.Flags().GetStringSlice("breakdowns")

		ids, err := resolveBreakdowns(breakdowns)
		if err != nil {
			return err
		}
		p := schedule.Position{Start: start, End: end, StandardHours: standard, Breakdowns: ids}
		if err := state.AddPosition(args[0], p); err != nil {
			return err
		}
		if err := save(); err != nil {
			return err
		}
		fmt.Printf("Position %s added (%s - %s)\n", args[0], start, end)
		return nil
	},
}

var positionEditCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit a catalog position",
	Long: `Edit a position's schedule, standard hours or breakdown associations.
The new schedule propagates into entries on this position only where their
values still match the catalog; customized entries are left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ok := state.Positions[args[0]]
		if !ok {
			return fmt.Errorf("unknown position %q", args[0])
		}

		if cmd.Flags().Changed("start") {
			p.Start, _ = cmd.Flags().GetString("start")
		}
		if cmd.Flags().Changed("end") {
			p.End, _ = cmd.Flags().GetString("end")
		}
		if cmd.Flags().Changed("standard") {
			p.StandardHours, _ = cmd.Flags().GetFloat64("standard")
		}
		if cmd.Flags().Changed("breakdowns") {
			names, _ := cmd.Flags().GetStringSlice("breakdowns")
			ids, err := resolveBreakdowns(names)
			if err != nil {
				return err
			}
			p.Breakdowns = ids
		}

		if err := state.UpdatePosition(args[0], p, cfg.StandardDailyHours); err != nil {
			return err
		}
		if err := save(); err != nil {
			return err
		}
		fmt.Printf("Position %s updated (%s - %s)\n", args[0], p.Start, p.End)
		return nil
	},
}

var positionDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a catalog position",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("Delete position %s? Days on it revert to unassigned. Use --force to confirm.\n", args[0])
			return nil
		}
		if err := state.DeletePosition(args[0]); err != nil {
			return err
		}
		if err := save(); err != nil {
			return err
		}
		fmt.Printf("Position %s deleted\n", args[0])
		return nil
	},
}

var breakdownCmd = &cobra.Command{
	Use:     "breakdown",
	Aliases: []string{"bd", "desglose"},
	Short:   "Manage hour breakdowns",
}

var breakdownListCmd = &cobra.Command{
	Use:   "list",
	Short: "List breakdown definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]string, 0, len(state.Breakdowns))
		for id := range state.Breakdowns {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			return state.Breakdowns[ids[i]].Name < state.Breakdowns[ids[j]].Name
		})
		for _, id := range ids {
			b := state.Breakdowns[id]
			line := fmt.Sprintf("%-12s %s", b.Name, b.Color)
			if b.TimeStart != "" && b.TimeEnd != "" {
				line += fmt.Sprintf(" | %s - %s", b.TimeStart, b.TimeEnd)
			}
			if b.PositionID != "" {
				line += fmt.Sprintf(" | position %s", b.PositionID)
			} else {
				line += " | global"
			}
			fmt.Printf("%s | id %s\n", line, id)
		}
		return nil
	},
}

var breakdownAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a breakdown definition",
	Long: `Add a breakdown. With --from/--to it carries a daily recurring interval
and its hours are computed automatically from the overlap with each day's
worked hours. Without --position it is global and applies to every shift.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		color, _ := cmd.Flags().GetString("color")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		position, _ := cmd.Flags().GetString("position")

		if position != "" {
			if _, ok := state.Positions[position]; !ok {
				return fmt.Errorf("unknown position %q", position)
			}
		}
		id, err := state.AddBreakdown(schedule.Breakdown{
			Name:       args[0],
			Color:      color,
			PositionID: position,
			TimeStart:  from,
			TimeEnd:    to,
		})
		if err != nil {
			return err
		}
		if err := save(); err != nil {
			return err
		}
		fmt.Printf("Breakdown %s added | id %s\n", args[0], id)
		return nil
	},
}

var breakdownEditCmd = &cobra.Command{
	Use:   "edit <id-or-name>",
	Short: "Edit a breakdown's time interval",
	Long: `Change a breakdown's daily interval. Every applicable entry is
recomputed except values set manually with override.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveBreakdown(args[0])
		if err != nil {
			return err
		}
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		if err := state.UpdateBreakdownInterval(id, from, to); err != nil {
			return err
		}
		if err := save(); err != nil {
			return err
		}
		fmt.Printf("Breakdown %s interval set to %s - %s\n", state.Breakdowns[id].Name, from, to)
		return nil
	},
}

var breakdownDeleteCmd = &cobra.Command{
	Use:     "delete <id-or-name>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a breakdown definition",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveBreakdown(args[0])
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("Delete breakdown %s? Its values disappear from every day. Use --force to confirm.\n",
				state.Breakdowns[id].Name)
			return nil
		}
		name := state.Breakdowns[id].Name
		if err := state.DeleteBreakdown(id); err != nil {
			return err
		}
		if err := save(); err != nil {
			return err
		}
		fmt.Printf("Breakdown %s deleted\n", name)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Worker: %s\n", orDefault(cfg.WorkerName(), "(not set)"))
		fmt.Printf("StandardDailyHours: %g\n", cfg.StandardDailyHours)
		fmt.Printf("Night interval: %s - %s\n", cfg.NightStart, cfg.NightEnd)
		fmt.Printf("Database: %s\n", cfg.DatabasePath)
		return nil
	},
}

var configStandardCmd = &cobra.Command{
	Use:   "standard <hours>",
	Short: "Set the global standard daily hours",
	Long: `Set the global overtime threshold. Overtime is recomputed for every
scheduled day; positions with their own standard-hours override keep it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hours, err := strconv.ParseFloat(args[0], 64)
		if err != nil || hours <= 0 {
			return fmt.Errorf("invalid hours %q", args[0])
		}
		cfg.StandardDailyHours = hours
		if err := config.Save(cfg); err != nil {
			return err
		}
		state.ApplyStandardHours(hours)
		if err := save(); err != nil {
			return err
		}
		fmt.Printf("Standard daily hours set to %g\n", hours)
		return nil
	},
}

var configWorkerCmd = &cobra.Command{
	Use:   "worker <first> [last] [second-last]",
	Short: "Set the worker name used in exports",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.FirstName = args[0]
		cfg.LastName = ""
		cfg.SecondLastName = ""
		if len(args) > 1 {
			cfg.LastName = args[1]
		}
		if len(args) > 2 {
			cfg.SecondLastName = args[2]
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("Worker set to %s\n", cfg.WorkerName())
		return nil
	},
}

// resolveBreakdowns maps a list of ids or names to breakdown ids.
func resolveBreakdowns(args []string) ([]string, error) {
	var ids []string
	for _, arg := range args {
		id, err := resolveBreakdown(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func init() {
	positionAddCmd.Flags().String("start", "", "shift start (HH:MM)")
	positionAddCmd.Flags().String("end", "", "shift end (HH:MM); at or before start means next day")
	positionAddCmd.Flags().Float64("standard", 0, "standard hours override for this position")
	positionAddCmd.Flags().StringSlice("breakdowns", nil, "associated breakdown ids or names")
	positionAddCmd.MarkFlagRequired("start")
	positionAddCmd.MarkFlagRequired("end")

	positionEditCmd.Flags().String("start", "", "shift start (HH:MM)")
	positionEditCmd.Flags().String("end", "", "shift end (HH:MM)")
	positionEditCmd.Flags().Float64("standard", 0, "standard hours override for this position")
	positionEditCmd.Flags().StringSlice("breakdowns", nil, "associated breakdown ids or names (replaces the list)")

	positionDeleteCmd.Flags().Bool("force", false, "confirm deletion")
	breakdownDeleteCmd.Flags().Bool("force", false, "confirm deletion")

	breakdownAddCmd.Flags().String("color", "#6366f1", "display color")
	breakdownAddCmd.Flags().String("from", "", "daily interval start (HH:MM)")
	breakdownAddCmd.Flags().String("to", "", "daily interval end (HH:MM)")
	breakdownAddCmd.Flags().String("position", "", "owning position (omit for a global breakdown)")

	breakdownEditCmd.Flags().String("from", "", "daily interval start (HH:MM)")
	breakdownEditCmd.Flags().String("to", "", "daily interval end (HH:MM)")
	breakdownEditCmd.MarkFlagRequired("from")
	breakdownEditCmd.MarkFlagRequired("to")

	positionCmd.AddCommand(positionListCmd)
	positionCmd.AddCommand(positionAddCmd)
	positionCmd.AddCommand(positionEditCmd)
	positionCmd.AddCommand(positionDeleteCmd)

	breakdownCmd.AddCommand(breakdownListCmd)
	breakdownCmd.AddCommand(breakdownAddCmd)
	breakdownCmd.AddCommand(breakdownEditCmd)
	breakdownCmd.AddCommand(breakdownDeleteCmd)

	configCmd.AddCommand(configStandardCmd)
	configCmd.AddCommand(configWorkerCmd)
}
