package display

import (
	"fmt"
	"io"
	"strings"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related paths (optional)
	Suggestion string   // Action to take (optional)
}

// Display writes the warning to out, in yellow when out is a terminal.
func (w Warning) Display(out io.Writer) {
	fmt.Fprint(out, w.Format(IsTerminal(out)))
}

// Format renders the warning. With colorOutput the block is wrapped in
// yellow ANSI codes.
func (w Warning) Format(colorOutput bool) string {
	var b strings.Builder

	if colorOutput {
		b.WriteString("\x1b[33m")
	}
	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected path:\n")
		} else {
			b.WriteString("Affected paths:\n")
		}
		for i, file := range w.Files {
			fmt.Fprintf(&b, "      %d. %s\n", i+1, file)
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	if colorOutput {
		b.WriteString("\x1b[0m")
	}
	return b.String()
}

// WarnSkippedDirectories creates a warning for subdirectories a scan could
// not read.
func WarnSkippedDirectories(skipped []string) Warning {
	return Warning{
		Title:      "Some directories could not be read",
		Files:      skipped,
		Suggestion: "Check their permissions or add them to exclude_dirs",
	}
}

// WarnUnreadableFiles creates a warning for files whose contents were
// replaced with an error placeholder.
func WarnUnreadableFiles(paths []string) Warning {
	return Warning{
		Title:   "Some files could not be read",
		Message: "Their entries contain an error message instead of file contents",
		Files:   paths,
	}
}
