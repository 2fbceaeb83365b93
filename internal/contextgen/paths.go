package contextgen

import (
	"path/filepath"
	"strings"
)

// DisplayPath returns the path shown to the user for file: the path relative
// to root with forward slashes when file lies within root, otherwise the
// bare file name. Containment is decided on cleaned absolute paths.
func DisplayPath(root, file string) string {
	base := filepath.Base(file)
	if strings.TrimSpace(root) == "" {
		return base
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return base
	}
	absFile, err := filepath.Abs(file)
	if err != nil {
		return base
	}

	rel, ok := relativeWithin(absRoot, absFile)
	if !ok {
		return base
	}
	return filepath.ToSlash(rel)
}

// relativeWithin returns target relative to base when target is base itself
// or lies below it. Both paths must already be absolute.
func relativeWithin(base, target string) (string, bool) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// strictlyWithin reports whether target lies below base and is not base.
func strictlyWithin(base, target string) bool {
	rel, ok := relativeWithin(base, target)
	return ok && rel != "."
}
