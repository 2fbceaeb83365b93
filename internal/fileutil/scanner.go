package fileutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/ctxgen/internal/exclusion"
	"github.com/harrison/ctxgen/internal/models"
)

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Root is the absolute path that was scanned
	Root string
	// Files contains one descriptor per included file, in walk order
	Files []models.FileDescriptor
	// Skipped lists subdirectories (relative to Root) that could not be read
	Skipped []string
}

// ScanDirectory walks root recursively and returns a descriptor for every
// file the matcher does not exclude. A nil matcher excludes nothing.
//
// Excluded directories are pruned before descent and never read. Files that
// vanish or cannot be stat'ed are omitted. Subdirectories that cannot be read
// contribute no files and are listed in ScanResult.Skipped.
//
// The scan fails only when root itself is missing, is not a directory, or
// cannot be listed.
func ScanDirectory(root string, matcher *exclusion.Matcher) (*ScanResult, error) {
	if strings.TrimSpace(root) == "" {
		return nil, models.NewError(models.KindNotFound, "Directory does not exist", root, nil)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, models.NewError(models.KindUnexpected, "failed to resolve directory", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, rootError(absRoot, err)
	}
	if !info.IsDir() {
		return nil, models.NewError(models.KindNotFound, "Directory does not exist", absRoot, nil)
	}

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil, rootError(absRoot, err)
	}

	s := &scanner{
		root:    absRoot,
		matcher: matcher,
		result: &ScanResult{
			Root:    absRoot,
			Files:   make([]models.FileDescriptor, 0),
			Skipped: make([]string, 0),
		},
	}
	s.visit(nil, absRoot, entries)

	return s.result, nil
}

func rootError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return models.NewError(models.KindNotFound, "Directory does not exist", path, err)
	case errors.Is(err, fs.ErrPermission):
		return models.NewError(models.KindPermissionDenied, "Permission denied", path, err)
	}
	return models.NewError(models.KindUnexpected, "failed to read directory", path, err)
}

type scanner struct {
	root    string
	matcher *exclusion.Matcher
	result  *ScanResult
}

// visit records the files of one directory level, then descends into the
// child directories that survive the matcher.
func (s *scanner) visit(segments []string, dir string, entries []os.DirEntry) {
	var dirs []string

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			// Symlinked directories are listed but never followed.
			if target, err := os.Stat(path); err == nil && target.IsDir() {
				isDir = true
			}
		}

		if isDir {
			if entry.Type()&fs.ModeSymlink == 0 {
				dirs = append(dirs, name)
			}
			continue
		}

		if s.matcher.ShouldExclude(segments, name, false) {
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		s.result.Files = append(s.result.Files, models.FileDescriptor{
			Name:         name,
			Path:         path,
			RelativePath: filepath.Join(append(copySegments(segments), name)...),
			Size:         info.Size(),
		})
	}

	for _, name := range s.childDirs(segments, dirs) {
		childSegments := append(copySegments(segments), name)
		childPath := filepath.Join(dir, name)

		children, err := os.ReadDir(childPath)
		if err != nil {
			s.result.Skipped = append(s.result.Skipped, filepath.Join(childSegments...))
			continue
		}
		s.visit(childSegments, childPath, children)
	}
}

// childDirs returns the subset of dirs the matcher lets through.
func (s *scanner) childDirs(segments []string, dirs []string) []string {
	kept := make([]string, 0, len(dirs))
	for _, name := range dirs {
		if !s.matcher.ShouldExclude(segments, name, true) {
			kept = append(kept, name)
		}
	}
	return kept
}

func copySegments(segments []string) []string {
	out := make([]string, len(segments), len(segments)+1)
	copy(out, segments)
	return out
}
