package cmd

import (
	"fmt"
	"strings"

	"github.com/harrison/ctxgen/internal/contextgen"
	"github.com/spf13/cobra"
)

// NewReadCommand creates the 'ctxgen read' command
func NewReadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read <file>",
		Short: "Print a single text file",
		Long: `Print one file as UTF-8 text. Unlike 'context', failures are reported
as errors: a missing file, a permission problem and a file that is not
valid UTF-8 each produce a distinct message.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := contextgen.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, fc.Content)
			if !strings.HasSuffix(fc.Content, "\n") && fc.Content != "" {
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
