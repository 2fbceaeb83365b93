package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/ctxgen/internal/exclusion"
	"github.com/harrison/ctxgen/internal/history"
	"github.com/harrison/ctxgen/internal/models"
	"github.com/harrison/ctxgen/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExclusionsWorkflow(t *testing.T) {
	dataDir := t.TempDir()

	out, _, err := runCLI(t, dataDir, "", "exclusions", "add", "dirs", "node_modules", ".git")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated dirs: node_modules, .git")

	_, _, err = runCLI(t, dataDir, "", "exclusions", "add", "patterns", "*.log")
	require.NoError(t, err)

	out, _, err = runCLI(t, dataDir, "", "exclusions", "add", "dirs", "node_modules")
	require.NoError(t, err)
	assert.Contains(t, out, "No changes")

	out, _, err = runCLI(t, dataDir, "", "exclusions", "remove", "dirs", ".git")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated dirs: node_modules")

	rules, err := store.NewRulesStore(dataDir).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"node_modules"}, rules.ExcludeDirs)
	assert.Equal(t, []string{"*.log"}, rules.ExcludePatterns)

	out, _, err = runCLI(t, dataDir, "", "exclusions", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Excluded directories:\n  node_modules\n")
	assert.Contains(t, out, "Excluded files:\n  (none)\n")

	out, _, err = runCLI(t, dataDir, "", "exclusions", "show", "--json")
	require.NoError(t, err)
	var shown exclusion.RuleSet
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.True(t, rules.Equal(shown))

	_, _, err = runCLI(t, dataDir, "", "exclusions", "reset")
	require.NoError(t, err)
	rules, err = store.NewRulesStore(dataDir).Load()
	require.NoError(t, err)
	assert.True(t, rules.IsEmpty())

	out, _, err = runCLI(t, dataDir, "", "exclusions", "show")
	require.NoError(t, err)
	assert.Equal(t, "No exclusion rules saved\n", out)
}

func TestExclusionsBadKind(t *testing.T) {
	_, _, err := runCLI(t, t.TempDir(), "", "exclusions", "add", "folders", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rule kind")
}

func TestScanCommand(t *testing.T) {
	dataDir := t.TempDir()
	root := writeProject(t)
	require.NoError(t, store.NewRulesStore(dataDir).Save(exclusion.RuleSet{
		ExcludeDirs:     []string{"node_modules"},
		ExcludePatterns: []string{"*.log"},
	}))

	out, _, err := runCLI(t, dataDir, "", "scan", root)
	require.NoError(t, err)
	assert.Contains(t, out, "main.go")
	assert.Contains(t, out, filepath.Join("internal", "app", "app.go"))
	assert.NotContains(t, out, "a.js")
	assert.NotContains(t, out, "trace.log")
	assert.Contains(t, out, "3 files")

	out, _, err = runCLI(t, dataDir, "", "scan", root, "--json", "--include-skipped")
	require.NoError(t, err)
	var parsed struct {
		Files []models.FileDescriptor `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Len(t, parsed.Files, 3)
}

func TestScanCommand_MissingDirectory(t *testing.T) {
	_, _, err := runCLI(t, t.TempDir(), "", "scan", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestContextCommand(t *testing.T) {
	dataDir := t.TempDir()
	root := writeProject(t)
	require.NoError(t, store.NewInstructionsStore(dataDir).Save("Review this code."))

	out, stderr, err := runCLI(t, dataDir, "", "context", root, "main.go", "missing.go", filepath.Join(root, "README.md"))
	require.NoError(t, err)

	want := "Custom Instructions for LLM\nUser Instructions: Review this code.\n\n---\n\n" +
		"File: main.go\n```\npackage main\n\nfunc main() {}\n\n```\n\n" +
		"File: README.md\n```\n# demo\n\n```\n"
	assert.Equal(t, want, out)
	assert.Empty(t, stderr)

	hs, err := history.NewStore(filepath.Join(dataDir, "history.db"))
	require.NoError(t, err)
	defer hs.Close()
	records, err := hs.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"main.go", "README.md"}, records[0].Paths)

	histOut, _, err := runCLI(t, dataDir, "", "history")
	require.NoError(t, err)
	assert.Contains(t, histOut, "2 files")
	assert.Contains(t, histOut, root)
}

func TestContextCommand_AllFilesNoInstructionsToFile(t *testing.T) {
	dataDir := t.TempDir()
	root := writeProject(t)
	require.NoError(t, store.NewInstructionsStore(dataDir).Save("ignored"))
	require.NoError(t, store.NewRulesStore(dataDir).Save(exclusion.RuleSet{ExcludeDirs: []string{"node_modules", "internal"}}))
	outFile := filepath.Join(t.TempDir(), "ctx.md")

	out, _, err := runCLI(t, dataDir, "", "context", root, "--no-instructions", "--out", outFile)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	text := string(data)
	assert.NotContains(t, text, "Custom Instructions")
	assert.Contains(t, text, "File: main.go\n")
	assert.Contains(t, text, "File: README.md\n")
	assert.NotContains(t, text, "app.go")
}

func TestContextCommand_HTML(t *testing.T) {
	root := writeProject(t)
	out, _, err := runCLI(t, t.TempDir(), "", "context", root, "README.md", "--html", "--no-instructions")
	require.NoError(t, err)
	assert.Contains(t, out, "<p>File: README.md</p>")
	assert.Contains(t, out, "<pre><code># demo")
}

func TestReadCommand(t *testing.T) {
	root := writeProject(t)

	out, _, err := runCLI(t, t.TempDir(), "", "read", filepath.Join(root, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# demo\n", out)

	_, _, err = runCLI(t, t.TempDir(), "", "read", filepath.Join(root, "nope"))
	assert.ErrorIs(t, err, models.ErrNotFound)

	bin := filepath.Join(root, "blob.bin")
	require.NoError(t, os.WriteFile(bin, []byte{0xc3, 0x28}, 0644))
	_, _, err = runCLI(t, t.TempDir(), "", "read", bin)
	assert.ErrorIs(t, err, models.ErrDecode)
}

func TestLinesCommand(t *testing.T) {
	root := writeProject(t)

	out, stderr, err := runCLI(t, t.TempDir(), "", "lines", root, "main.go", filepath.Join("internal", "app", "app.go"))
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, out, "       3  main.go\n")
	assert.Contains(t, out, "       1  "+filepath.Join("internal", "app", "app.go"))
	assert.True(t, strings.HasSuffix(out, "Total Lines of Code: 4\n"), "got %q", out)
	assert.NotContains(t, out, "\x1b[")

	out, stderr, err = runCLI(t, t.TempDir(), "", "lines", root, "main.go", "../../etc/passwd", "gone.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 files could not be counted")
	assert.Contains(t, out, "main.go")
	assert.Contains(t, out, "Total Lines of Code: 3\n")
	assert.Contains(t, stderr, "../../etc/passwd: ")
	assert.Contains(t, stderr, "Unauthorized file access")
	assert.Contains(t, stderr, "gone.txt: File does not exist")
}

func TestInstructionsCommands(t *testing.T) {
	dataDir := t.TempDir()

	_, stderr, err := runCLI(t, dataDir, "", "instructions", "show")
	require.NoError(t, err)
	assert.Contains(t, stderr, "No custom instructions saved")

	out, _, err := runCLI(t, dataDir, "", "instructions", "set", "Answer", "in", "French.")
	require.NoError(t, err)
	assert.Contains(t, out, "saved successfully")

	out, _, err = runCLI(t, dataDir, "", "instructions", "show")
	require.NoError(t, err)
	assert.Equal(t, "Answer in French.\n", out)

	_, _, err = runCLI(t, dataDir, "Line one\nLine two\n", "instructions", "set")
	require.NoError(t, err)
	saved, err := store.NewInstructionsStore(dataDir).Load()
	require.NoError(t, err)
	assert.Equal(t, "Line one\nLine two", saved)

	_, _, err = runCLI(t, dataDir, "", "instructions", "clear")
	require.NoError(t, err)
	saved, err = store.NewInstructionsStore(dataDir).Load()
	require.NoError(t, err)
	assert.Equal(t, "", saved)
}

func TestHistoryCommand_Empty(t *testing.T) {
	dataDir := t.TempDir()

	out, _, err := runCLI(t, dataDir, "", "history")
	require.NoError(t, err)
	assert.Equal(t, "No history recorded\n", out)

	out, _, err = runCLI(t, dataDir, "", "history", "--json")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))

	_, err = os.Stat(filepath.Join(dataDir, "history.db"))
	assert.True(t, os.IsNotExist(err), "history should not create the database")
}

func TestInvalidLogLevelRejected(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"exclusions", "show", "--data-dir", t.TempDir(), "--log-level", "loud"})
	cmd.SetOut(new(strings.Builder))
	cmd.SetErr(new(strings.Builder))

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log_level")
}
