// Package display formats terminal output for the ctxgen CLI: scan listings,
// history tables and warnings.
//
// Everything writes to an io.Writer. Color is applied only when the writer is
// a terminal (see IsTerminal), so piped output stays plain:
//
//	display.FileTable(os.Stdout, result.Files, display.IsTerminal(os.Stdout))
//
//	display.Warning{
//	    Title:      "Some directories could not be read",
//	    Files:      result.Skipped,
//	    Suggestion: "Check permissions or add them to exclude_dirs",
//	}.Display(os.Stderr)
package display
