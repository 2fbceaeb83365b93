package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for ctxgen
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ctxgen",
		Short: "Assemble local source files into a context for LLM prompts",
		Long: `ctxgen scans a local directory, filters its files through saved exclusion
rules, and assembles the files you pick into a single text block ready to
paste into an LLM prompt, optionally prefixed with saved custom instructions.

Settings live in the data directory (.ctxgen by default). Configuration is
loaded from .ctxgen/config.yaml if present.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: .ctxgen/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().String("data-dir", "", "Directory holding exclusion rules, instructions and history")

	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewContextCommand())
	cmd.AddCommand(NewReadCommand())
	cmd.AddCommand(NewLinesCommand())
	cmd.AddCommand(NewExclusionsCommand())
	cmd.AddCommand(NewInstructionsCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewServeCommand())

	return cmd
}
