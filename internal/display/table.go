package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/ctxgen/internal/history"
	"github.com/harrison/ctxgen/internal/models"
)

// HumanSize formats a byte count using 1024-based units.
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FileTable prints one line per descriptor (size column then relative path)
// followed by a totals line. Directory parts of the path are dimmed when
// colorOutput is set.
func FileTable(out io.Writer, files []models.FileDescriptor, colorOutput bool) {
	if len(files) == 0 {
		fmt.Fprintln(out, "No files found")
		return
	}

	dim := color.New(color.FgHiBlack)
	bold := color.New(color.Bold)
	if colorOutput {
		dim.EnableColor()
		bold.EnableColor()
	}

	var total int64
	for _, f := range files {
		total += f.Size
		size := fmt.Sprintf("%10s", HumanSize(f.Size))
		if !colorOutput {
			fmt.Fprintf(out, "%s  %s\n", size, f.RelativePath)
			continue
		}
		dir := strings.TrimSuffix(f.RelativePath, f.Name)
		fmt.Fprintf(out, "%s  %s%s\n", dim.Sprint(size), dim.Sprint(dir), f.Name)
	}

	summary := fmt.Sprintf("%d %s, %s total", len(files), plural(len(files), "file", "files"), HumanSize(total))
	if colorOutput {
		summary = bold.Sprint(summary)
	}
	fmt.Fprintln(out, summary)
}

// HistoryTable prints recorded contexts, newest first as given.
func HistoryTable(out io.Writer, records []*history.Record, colorOutput bool) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No history recorded")
		return
	}

	warn := color.New(color.FgYellow)
	if colorOutput {
		warn.EnableColor()
	}

	for _, r := range records {
		line := fmt.Sprintf("%s  %s  %d %s  %s  %s",
			r.CreatedAt.Local().Format(time.DateTime),
			shortID(r.ID),
			r.FileCount, plural(r.FileCount, "file", "files"),
			HumanSize(int64(r.Bytes)),
			r.Root)
		fmt.Fprint(out, line)
		if r.FailedCount > 0 {
			failed := fmt.Sprintf("  (%d unreadable)", r.FailedCount)
			if colorOutput {
				failed = warn.Sprint(failed)
			}
			fmt.Fprint(out, failed)
		}
		fmt.Fprintln(out)
	}
}

// Line total bands: above LinesWarn the total is yellow, above LinesHigh red.
const (
	LinesWarn = 4000
	LinesHigh = 8000
)

// LineTotal prints the "Total Lines of Code" summary, colored green, yellow
// or red by size when colorOutput is set.
func LineTotal(out io.Writer, total int, colorOutput bool) {
	line := fmt.Sprintf("Total Lines of Code: %d", total)
	if colorOutput {
		c := lineTotalColor(total)
		c.EnableColor()
		line = c.Sprint(line)
	}
	fmt.Fprintln(out, line)
}

func lineTotalColor(total int) *color.Color {
	switch {
	case total > LinesHigh:
		return color.New(color.FgRed, color.Bold)
	case total > LinesWarn:
		return color.New(color.FgYellow, color.Bold)
	}
	return color.New(color.FgGreen, color.Bold)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
