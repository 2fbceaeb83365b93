package exclusion

import (
	"path/filepath"
	"strings"
)

// Matcher applies a RuleSet to directory entries. It is immutable once built
// and safe to share.
type Matcher struct {
	dirs     map[string]bool
	files    map[string]bool
	patterns []string
}

// NewMatcher builds a Matcher from rules. Blank rules are ignored.
func NewMatcher(rules RuleSet) *Matcher {
	m := &Matcher{
		dirs:  make(map[string]bool),
		files: make(map[string]bool),
	}
	for _, d := range rules.ExcludeDirs {
		if d != "" {
			m.dirs[d] = true
		}
	}
	for _, f := range rules.ExcludeFiles {
		if f != "" {
			m.files[f] = true
		}
	}
	for _, p := range rules.ExcludePatterns {
		if p != "" {
			m.patterns = append(m.patterns, translatePattern(p))
		}
	}
	return m
}

// ShouldExclude reports whether the entry called name, located under the
// relative directory given by parentSegments, must be skipped.
//
// A directory is excluded when its own name, or any segment of its relative
// location, is an excluded directory name. A file is excluded when it sits
// under an excluded directory name, equals an excluded file name, or matches
// an excluded glob pattern.
func (m *Matcher) ShouldExclude(parentSegments []string, name string, isDir bool) bool {
	if m == nil {
		return false
	}
	if m.dirs[name] && isDir {
		return true
	}
	for _, seg := range parentSegments {
		if m.dirs[seg] {
			return true
		}
	}
	if isDir {
		return false
	}

	if m.files[name] {
		return true
	}
	for _, pat := range m.patterns {
		// filepath.Match only fails on malformed patterns, which never match.
		if ok, err := filepath.Match(pat, name); err == nil && ok {
			return true
		}
	}
	return false
}

// translatePattern accepts the "[!seq]" negation form used by shell globs in
// addition to Go's "[^seq]".
func translatePattern(p string) string {
	return strings.ReplaceAll(p, "[!", "[^")
}
