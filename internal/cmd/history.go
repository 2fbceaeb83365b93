package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/harrison/ctxgen/internal/display"
	"github.com/harrison/ctxgen/internal/history"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the 'ctxgen history' command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently generated contexts",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	cmd.Flags().Int("limit", 20, "Maximum number of records to show (0 = all)")
	cmd.Flags().Bool("json", false, "Print records as JSON")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	records := []*history.Record{}
	if _, statErr := os.Stat(a.cfg.History.DBPath); statErr == nil {
		hs, err := history.NewStore(a.cfg.History.DBPath)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer hs.Close()

		records, err = hs.Recent(context.Background(), limit)
		if err != nil {
			return err
		}
	}

	if asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	display.HistoryTable(a.stdout, records, display.IsTerminal(a.stdout))
	return nil
}
