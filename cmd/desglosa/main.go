package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/desglosa/internal/config"
	"github.com/desglosa/internal/storage"
	"github.com/desglosa/internal/tracker"
)

var (
	cfg   *config.Config
	db    *storage.Database
	state *tracker.State
)

var rootCmd = &cobra.Command{
	Use:   "desglosa",
	Short: "Work-hours bookkeeping with per-shift breakdowns",
	Long: `Desglosa tracks worked hours over a date range: assign a shift to each
day and it derives total, overtime, holiday and custom breakdown hours,
ready to export as a spreadsheet.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		db, err = storage.New(cfg.DatabasePath)
		if err != nil {
			return err
		}
		state, err = db.LoadState()
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			return db.Close()
		}
		return nil
	},
}

// save persists the working state after a mutation.
func save() error {
	return db.SaveState(state)
}

func init() {
	rootCmd.AddCommand(periodCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(workCmd)
	rootCmd.AddCommand(overrideCmd)
	rootCmd.AddCommand(holidayCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(positionCmd)
	rootCmd.AddCommand(breakdownCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
