package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harrison/ctxgen/internal/display"
	"github.com/harrison/ctxgen/internal/exclusion"
	"github.com/harrison/ctxgen/internal/fileutil"
	"github.com/harrison/ctxgen/internal/models"
	"github.com/spf13/cobra"
)

// NewScanCommand creates the 'ctxgen scan' command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "List the files of a directory that survive the exclusion rules",
		Long: `Walk a directory recursively and list every file not excluded by the
saved rules, with its size. Excluded directories are never entered.

Subdirectories that cannot be read are skipped and reported as a warning.`,
		Args: cobra.ExactArgs(1),
		RunE: runScan,
	}

	cmd.Flags().Bool("json", false, "Print descriptors as JSON")
	cmd.Flags().Bool("include-skipped", false, "Include unreadable subdirectories in JSON output")

	return cmd
}

type scanOutput struct {
	Files   []models.FileDescriptor `json:"files"`
	Skipped []string                `json:"skipped,omitempty"`
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	includeSkipped, _ := cmd.Flags().GetBool("include-skipped")

	result, err := scanWithRules(a, args[0])
	if err != nil {
		return err
	}

	if asJSON {
		out := scanOutput{Files: result.Files}
		if includeSkipped {
			out.Skipped = result.Skipped
		}
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode scan result: %w", err)
		}
		return nil
	}

	display.FileTable(a.stdout, result.Files, display.IsTerminal(a.stdout))
	if len(result.Skipped) > 0 {
		display.WarnSkippedDirectories(result.Skipped).Display(a.stderr)
	}
	return nil
}

// scanWithRules scans dir with the saved exclusion rules. Unreadable rules
// fall back to no rules with a warning.
func scanWithRules(a *app, dir string) (*fileutil.ScanResult, error) {
	rules, err := a.rules.Load()
	if err != nil {
		a.log.LogWarn(fmt.Sprintf("Using empty exclusion rules: %v", err))
	}

	start := time.Now()
	result, err := fileutil.ScanDirectory(dir, exclusion.NewMatcher(rules))
	if err != nil {
		return nil, err
	}
	a.log.LogScanComplete(result, time.Since(start))
	return result, nil
}
