package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/store"
)

var bindingsCmd = &cobra.Command{
	Use:   "bindings",
	Short: "List gesture bindings",
	Long:  "List the gesture to action bindings used by the next run, seeding the defaults on first use.",
	Args:  cobra.NoArgs,
	RunE:  runBindings,
}

func init() {
	rootCmd.AddCommand(bindingsCmd)
}

func runBindings(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	table, err := openBindings(cfg.DataDir, cfg.DBPath())
	if err != nil {
		return err
	}

	bindings := table.Bindings()
	if len(bindings) == 0 {
		cmd.Println("No bindings configured.")
		return nil
	}

	cmd.Printf("%-10s %-10s %-8s %s\n", "GESTURE", "PLUGIN", "ACTION", "PARAMS")
	for _, b := range bindings {
		cmd.Printf("%-10s %-10s %-8s %s\n", b.Gesture, b.Plugin, b.Action, b.Params)
	}
	return nil
}

// openBindings opens the bindings database, seeds it on first use and
// loads the enabled bindings.
func openBindings(dataDir, dbPath string) (action.Table, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if _, err := action.SeedDefaults(st.Bindings()); err != nil {
		return nil, err
	}

	return action.LoadTable(st.Bindings())
}
