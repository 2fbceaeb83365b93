package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/harrison/ctxgen/internal/contextgen"
	"github.com/harrison/ctxgen/internal/display"
	"github.com/harrison/ctxgen/internal/filelock"
	"github.com/harrison/ctxgen/internal/history"
	"github.com/spf13/cobra"
)

// NewContextCommand creates the 'ctxgen context' command
func NewContextCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context <directory> [file...]",
		Short: "Assemble selected files into a prompt context",
		Long: `Read the given files and print them as one context block, each file in
its own fenced section labelled with its path relative to <directory>.

Relative file arguments are resolved against <directory>. With no file
arguments every file the scan would list is included.

Saved custom instructions are placed at the top unless --no-instructions
is given. Files that cannot be read appear with an error message in place
of their contents.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runContext,
	}

	cmd.Flags().Bool("no-instructions", false, "Omit the saved custom instructions")
	cmd.Flags().String("out", "", "Write the context to this file instead of stdout")
	cmd.Flags().Bool("html", false, "Render the context as HTML")

	return cmd
}

func runContext(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	noInstructions, _ := cmd.Flags().GetBool("no-instructions")
	outPath, _ := cmd.Flags().GetString("out")
	asHTML, _ := cmd.Flags().GetBool("html")

	root := args[0]
	var paths []string
	if len(args) == 1 {
		result, err := scanWithRules(a, root)
		if err != nil {
			return err
		}
		for _, f := range result.Files {
			paths = append(paths, f.Path)
		}
	} else {
		for _, file := range args[1:] {
			paths = append(paths, resolveArg(root, file))
		}
	}

	start := time.Now()
	entries := contextgen.Assemble(root, paths)
	a.log.LogContextAssembled(entries, time.Since(start))

	var failed []string
	for _, e := range entries {
		if e.Failed() {
			failed = append(failed, e.Path)
		}
	}
	if len(failed) > 0 {
		display.WarnUnreadableFiles(failed).Display(a.stderr)
	}

	instructions := ""
	if !noInstructions {
		instructions, err = a.instructions.Load()
		if err != nil {
			a.log.LogWarn(fmt.Sprintf("Ignoring custom instructions: %v", err))
			instructions = ""
		}
	}

	text := contextgen.Render(instructions, entries)
	if asHTML {
		text, err = contextgen.RenderHTML(text)
		if err != nil {
			return err
		}
	}

	if hs := a.openHistory(); hs != nil {
		rec := history.NewRecord(root, entries)
		if err := hs.Append(context.Background(), rec, a.cfg.History.Keep); err != nil {
			a.log.LogWarn(fmt.Sprintf("Failed to record context history: %v", err))
		}
		hs.Close()
	}

	if outPath != "" {
		if err := filelock.AtomicWrite(outPath, []byte(text+"\n")); err != nil {
			return fmt.Errorf("write context: %w", err)
		}
		a.log.LogInfo(fmt.Sprintf("Context written to %s", outPath))
		return nil
	}

	fmt.Fprintln(a.stdout, text)
	return nil
}
