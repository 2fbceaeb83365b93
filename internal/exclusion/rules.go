// Package exclusion holds the rule set that decides which directories and
// files a scan skips, and the matcher that applies it.
package exclusion

import (
	"fmt"
	"sort"
	"strings"
)

// RuleKind selects one of the three rule lists.
type RuleKind string

const (
	KindDirs     RuleKind = "dirs"
	KindFiles    RuleKind = "files"
	KindPatterns RuleKind = "patterns"
)

// RuleSet is the persisted exclusion configuration.
type RuleSet struct {
	// ExcludeDirs are directory names matched against every path segment
	ExcludeDirs []string `json:"exclude_dirs"`
	// ExcludeFiles are exact file names
	ExcludeFiles []string `json:"exclude_files"`
	// ExcludePatterns are glob patterns matched against the file name only
	ExcludePatterns []string `json:"exclude_patterns"`
}

// ParseKind converts a user-supplied kind (dirs, files, patterns, or the
// singular forms) into a RuleKind.
func ParseKind(s string) (RuleKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dir", "dirs", "directory", "directories":
		return KindDirs, nil
	case "file", "files":
		return KindFiles, nil
	case "pattern", "patterns", "glob", "globs":
		return KindPatterns, nil
	}
	return "", fmt.Errorf("unknown rule kind %q, must be one of: dirs, files, patterns", s)
}

// Normalize replaces nil lists with empty ones so the three lists are always
// present when serialized.
func (r RuleSet) Normalize() RuleSet {
	if r.ExcludeDirs == nil {
		r.ExcludeDirs = []string{}
	}
	if r.ExcludeFiles == nil {
		r.ExcludeFiles = []string{}
	}
	if r.ExcludePatterns == nil {
		r.ExcludePatterns = []string{}
	}
	return r
}

// IsEmpty reports whether the rule set contains no rules at all.
func (r RuleSet) IsEmpty() bool {
	return len(r.ExcludeDirs) == 0 && len(r.ExcludeFiles) == 0 && len(r.ExcludePatterns) == 0
}

// Add appends value to the list selected by kind unless it is already present.
// Returns false when nothing changed.
func (r *RuleSet) Add(kind RuleKind, value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, fmt.Errorf("rule value must not be empty")
	}
	list, err := r.list(kind)
	if err != nil {
		return false, err
	}
	for _, existing := range *list {
		if existing == value {
			return false, nil
		}
	}
	*list = append(*list, value)
	return true, nil
}

// Remove deletes every occurrence of value from the list selected by kind.
// Returns false when the value was not present.
func (r *RuleSet) Remove(kind RuleKind, value string) (bool, error) {
	list, err := r.list(kind)
	if err != nil {
		return false, err
	}
	kept := make([]string, 0, len(*list))
	removed := false
	for _, existing := range *list {
		if existing == value {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	*list = kept
	return removed, nil
}

func (r *RuleSet) list(kind RuleKind) (*[]string, error) {
	switch kind {
	case KindDirs:
		return &r.ExcludeDirs, nil
	case KindFiles:
		return &r.ExcludeFiles, nil
	case KindPatterns:
		return &r.ExcludePatterns, nil
	}
	return nil, fmt.Errorf("unknown rule kind %q", kind)
}

// Equal compares two rule sets ignoring the order of each list.
func (r RuleSet) Equal(other RuleSet) bool {
	return sameElements(r.ExcludeDirs, other.ExcludeDirs) &&
		sameElements(r.ExcludeFiles, other.ExcludeFiles) &&
		sameElements(r.ExcludePatterns, other.ExcludePatterns)
}

func sameElements(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
