package exclusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldExclude(t *testing.T) {
	m := NewMatcher(RuleSet{
		ExcludeDirs:     []string{".git", "build"},
		ExcludeFiles:    []string{"package-lock.json"},
		ExcludePatterns: []string{"*.log", "tmp?.txt", "[ab]*.bak", "[!c]*.swp", "[bad"},
	})

	tests := []struct {
		name    string
		parent  []string
		entry   string
		isDir   bool
		exclude bool
	}{
		{name: "excluded dir at top level", entry: ".git", isDir: true, exclude: true},
		{name: "excluded dir nested", parent: []string{"src", "pkg"}, entry: "build", isDir: true, exclude: true},
		{name: "dir under excluded ancestor", parent: []string{"build"}, entry: "obj", isDir: true, exclude: true},
		{name: "plain dir", parent: []string{"src"}, entry: "pkg", isDir: true, exclude: false},
		{name: "dir named like file rule", entry: "package-lock.json", isDir: true, exclude: false},
		{name: "dir matching glob is kept", entry: "app.log", isDir: true, exclude: false},
		{name: "exact filename", parent: []string{"web"}, entry: "package-lock.json", exclude: true},
		{name: "star glob", entry: "server.log", exclude: true},
		{name: "question glob", entry: "tmp1.txt", exclude: true},
		{name: "question glob needs one char", entry: "tmp12.txt", exclude: false},
		{name: "sequence glob", entry: "a1.bak", exclude: true},
		{name: "sequence glob miss", entry: "c1.bak", exclude: false},
		{name: "negated sequence", entry: "d.swp", exclude: true},
		{name: "negated sequence miss", entry: "c.swp", exclude: false},
		{name: "file under excluded dir", parent: []string{"build"}, entry: "out.o", exclude: true},
		{name: "file named like dir rule", entry: "build", exclude: false},
		{name: "plain file", parent: []string{"src"}, entry: "main.py", exclude: false},
		{name: "glob matches name only", parent: []string{"logs.log"}, entry: "main.go", exclude: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.ShouldExclude(tt.parent, tt.entry, tt.isDir)
			assert.Equal(t, tt.exclude, got)
		})
	}
}

func TestShouldExclude_MalformedPatternNeverMatches(t *testing.T) {
	m := NewMatcher(RuleSet{ExcludePatterns: []string{"[", "[]a]"}})

	assert.False(t, m.ShouldExclude(nil, "[", false))
	assert.False(t, m.ShouldExclude(nil, "a", false))
}

func TestShouldExclude_EmptyRules(t *testing.T) {
	m := NewMatcher(RuleSet{ExcludeDirs: []string{""}, ExcludeFiles: []string{""}, ExcludePatterns: []string{""}})

	assert.False(t, m.ShouldExclude(nil, "anything", true))
	assert.False(t, m.ShouldExclude([]string{""}, "", false))
}

func TestShouldExclude_NilMatcher(t *testing.T) {
	var m *Matcher
	assert.False(t, m.ShouldExclude(nil, ".git", true))
}

func TestShouldExclude_CaseSensitive(t *testing.T) {
	m := NewMatcher(RuleSet{ExcludeDirs: []string{"Build"}, ExcludePatterns: []string{"*.LOG"}})

	assert.True(t, m.ShouldExclude(nil, "Build", true))
	assert.False(t, m.ShouldExclude(nil, "build", true))
	assert.False(t, m.ShouldExclude(nil, "x.log", false))
}
