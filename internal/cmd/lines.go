package cmd

import (
	"fmt"

	"github.com/harrison/ctxgen/internal/contextgen"
	"github.com/harrison/ctxgen/internal/display"
	"github.com/spf13/cobra"
)

// NewLinesCommand creates the 'ctxgen lines' command
func NewLinesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lines <directory> <file>...",
		Short: "Count lines of files inside a directory",
		Long: `Print the line count of each file, then the total across all of
them. Every file must resolve, after following symlinks, to a location
strictly inside <directory>; files outside it are refused and count as
zero. Relative file arguments are resolved against <directory>.

On a terminal the total is green, turning yellow above 4000 lines and
red above 8000.`,
		Args: cobra.MinimumNArgs(2),
		RunE: runLines,
	}
}

func runLines(cmd *cobra.Command, args []string) error {
	root := args[0]
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	failures, total := 0, 0
	for _, file := range args[1:] {
		n, err := contextgen.CountLines(root, resolveArg(root, file))
		if err != nil {
			failures++
			fmt.Fprintf(errOut, "%s: %v\n", file, err)
			continue
		}
		total += n
		fmt.Fprintf(out, "%8d  %s\n", n, file)
	}
	display.LineTotal(out, total, display.IsTerminal(out))

	if failures > 0 {
		return fmt.Errorf("%d of %d files could not be counted", failures, len(args)-1)
	}
	return nil
}
