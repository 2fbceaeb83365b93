package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/harrison/ctxgen/internal/exclusion"
	"github.com/harrison/ctxgen/internal/models"
)

// writeTree creates the given files (relative, slash-separated) under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

func relPaths(result *ScanResult) []string {
	out := make([]string, len(result.Files))
	for i, f := range result.Files {
		out[i] = filepath.ToSlash(f.RelativePath)
	}
	sort.Strings(out)
	return out
}

func TestScanDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	// tmpDir/
	//   README.md
	//   app.log
	//   package-lock.json
	//   src/main.go
	//   src/util/strings.go
	//   src/util/debug.log
	//   .git/config
	//   build/out.o
	//   node_modules/left-pad/index.js
	//   docs/build/page.html
	writeTree(t, tmpDir, map[string]string{
		"README.md":                      "# readme",
		"app.log":                        "log",
		"package-lock.json":              "{}",
		"src/main.go":                    "package main",
		"src/util/strings.go":            "package util",
		"src/util/debug.log":             "log",
		".git/config":                    "[core]",
		"build/out.o":                    "\x00\x01",
		"node_modules/left-pad/index.js": "module.exports = 1",
		"docs/build/page.html":           "<html>",
	})

	all := []string{
		".git/config", "README.md", "app.log", "build/out.o", "docs/build/page.html",
		"node_modules/left-pad/index.js", "package-lock.json", "src/main.go",
		"src/util/debug.log", "src/util/strings.go",
	}

	tests := []struct {
		name  string
		rules exclusion.RuleSet
		want  []string
	}{
		{
			name: "no rules returns every file",
			want: all,
		},
		{
			name:  "exclude directories at any depth",
			rules: exclusion.RuleSet{ExcludeDirs: []string{".git", "build"}},
			want: []string{
				"README.md", "app.log", "node_modules/left-pad/index.js", "package-lock.json",
				"src/main.go", "src/util/debug.log", "src/util/strings.go",
			},
		},
		{
			name:  "exclude exact filename",
			rules: exclusion.RuleSet{ExcludeFiles: []string{"package-lock.json"}},
			want: []string{
				".git/config", "README.md", "app.log", "build/out.o", "docs/build/page.html",
				"node_modules/left-pad/index.js", "src/main.go", "src/util/debug.log", "src/util/strings.go",
			},
		},
		{
			name:  "exclude glob pattern in nested directories",
			rules: exclusion.RuleSet{ExcludePatterns: []string{"*.log"}},
			want: []string{
				".git/config", "README.md", "build/out.o", "docs/build/page.html",
				"node_modules/left-pad/index.js", "package-lock.json", "src/main.go", "src/util/strings.go",
			},
		},
		{
			name: "combined rules",
			rules: exclusion.RuleSet{
				ExcludeDirs:     []string{".git", "build", "node_modules"},
				ExcludeFiles:    []string{"package-lock.json"},
				ExcludePatterns: []string{"*.log", "*.md"},
			},
			want: []string{"src/main.go", "src/util/strings.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanDirectory(tmpDir, exclusion.NewMatcher(tt.rules))
			if err != nil {
				t.Fatalf("ScanDirectory() error = %v", err)
			}

			got := relPaths(result)
			if len(got) != len(tt.want) {
				t.Fatalf("ScanDirectory() file count = %d, want %d\ngot:  %v\nwant: %v", len(got), len(tt.want), got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("file[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScanDirectory_ProjectExample(t *testing.T) {
	tmpDir := t.TempDir()
	proj := filepath.Join(tmpDir, "proj")
	writeTree(t, proj, map[string]string{
		".git/config": "[core]",
		"src/main.py": "print('hi')\n",
		"build/out.o": "obj",
	})

	rules := exclusion.RuleSet{ExcludeDirs: []string{".git", "build"}}
	result, err := ScanDirectory(proj, exclusion.NewMatcher(rules))
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}

	if len(result.Files) != 1 {
		t.Fatalf("expected exactly one file, got %d: %v", len(result.Files), relPaths(result))
	}

	f := result.Files[0]
	if f.Name != "main.py" {
		t.Errorf("Name = %q, want main.py", f.Name)
	}
	if f.RelativePath != filepath.Join("src", "main.py") {
		t.Errorf("RelativePath = %q", f.RelativePath)
	}
	if f.Size != int64(len("print('hi')\n")) {
		t.Errorf("Size = %d", f.Size)
	}
	if !filepath.IsAbs(f.Path) {
		t.Errorf("Path should be absolute, got %q", f.Path)
	}
	if f.Path != filepath.Join(result.Root, "src", "main.py") {
		t.Errorf("Path = %q, want it under root %q", f.Path, result.Root)
	}
}

func TestScanDirectory_RelativeRoot(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{"a/b.txt": "b"})

	oldWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldWd)

	result, err := ScanDirectory("a", nil)
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	if len(result.Files) != 1 || result.Files[0].RelativePath != "b.txt" {
		t.Fatalf("unexpected files: %+v", result.Files)
	}
	if !filepath.IsAbs(result.Files[0].Path) {
		t.Errorf("expected absolute path, got %q", result.Files[0].Path)
	}
}

func TestScanDirectory_EachFileOnce(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"a/x.txt":     "1",
		"a/b/x.txt":   "2",
		"a/b/c/x.txt": "3",
		"x.txt":       "4",
	})

	result, err := ScanDirectory(tmpDir, nil)
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}

	seen := make(map[string]int)
	for _, f := range result.Files {
		seen[f.Path]++
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct files, got %d", len(seen))
	}
	for path, n := range seen {
		if n != 1 {
			t.Errorf("%s reported %d times", path, n)
		}
	}
}

func TestScanDirectory_EmptyDirectory(t *testing.T) {
	result, err := ScanDirectory(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	if result.Files == nil || len(result.Files) != 0 {
		t.Errorf("expected empty non-nil file list, got %v", result.Files)
	}
	if len(result.Skipped) != 0 {
		t.Errorf("expected no skipped directories, got %v", result.Skipped)
	}
}

func TestScanDirectory_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(filePath, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		root string
	}{
		{name: "empty root", root: ""},
		{name: "missing root", root: filepath.Join(tmpDir, "does-not-exist")},
		{name: "root is a file", root: filePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanDirectory(tt.root, nil)
			if err == nil {
				t.Fatalf("expected error, got result %+v", result)
			}
			if !errors.Is(err, models.ErrNotFound) {
				t.Errorf("expected not-found error, got %v", err)
			}
			if !strings.HasPrefix(err.Error(), "Directory does not exist") {
				t.Errorf("error message = %q, want Directory does not exist", err.Error())
			}
		})
	}
}
