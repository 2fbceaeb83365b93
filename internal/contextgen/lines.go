package contextgen

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/ctxgen/internal/models"
)

// CountLines returns the number of lines in file, which must lie strictly
// inside root. The check runs twice: first on the cleaned absolute paths,
// which rejects ".." traversal before touching the filesystem, then on the
// symlink-resolved paths, which rejects links pointing outside root.
// Any path that fails either check yields a KindUnauthorized error.
func CountLines(root, file string) (int, error) {
	if strings.TrimSpace(root) == "" || strings.TrimSpace(file) == "" {
		return 0, models.NewError(models.KindUnexpected, "Missing file_path or selected_directory", "", nil)
	}

	resolved, err := ResolveWithin(root, file)
	if err != nil {
		return 0, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, models.NewError(models.KindNotFound, "File does not exist", file, nil)
		}
		return 0, models.ClassifyFSError("failed to access file", file, err)
	}
	if !info.Mode().IsRegular() {
		return 0, models.NewError(models.KindNotFound, "File does not exist", file, nil)
	}

	data, err := readAll(resolved)
	if err != nil {
		return 0, models.ClassifyFSError("failed to read file", file, err)
	}

	return countLines(decodeLenient(data)), nil
}

// ResolveWithin canonicalizes file and root and returns the resolved file
// path when it lies strictly inside the resolved root. A file that does not
// exist is judged by its nearest existing ancestor, so a missing target behind
// a symlinked directory is refused the same way an existing one is.
func ResolveWithin(root, file string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", models.NewError(models.KindUnexpected, "failed to resolve directory", root, err)
	}
	absFile, err := filepath.Abs(file)
	if err != nil {
		return "", models.NewError(models.KindUnexpected, "failed to resolve file", file, err)
	}

	if !strictlyWithin(absRoot, absFile) {
		return "", unauthorized(file)
	}

	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", models.NewError(models.KindNotFound, "Directory does not exist", root, nil)
		}
		return "", models.ClassifyFSError("failed to resolve directory", root, err)
	}

	realFile, err := filepath.EvalSymlinks(absFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return resolveMissing(realRoot, absFile, file)
		}
		// Cannot prove the file stays inside root.
		return "", unauthorized(file)
	}

	if !strictlyWithin(realRoot, realFile) {
		return "", unauthorized(file)
	}
	return realFile, nil
}

// resolveMissing resolves the deepest ancestor of absFile that exists and
// re-checks containment against it. Components below that ancestor do not
// exist and cannot redirect anywhere.
func resolveMissing(realRoot, absFile, file string) (string, error) {
	ancestor, rest := absFile, ""
	for {
		if _, err := os.Lstat(ancestor); err == nil {
			break
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", unauthorized(file)
		}
		parent := filepath.Dir(ancestor)
		if parent == ancestor {
			return "", unauthorized(file)
		}
		rest = filepath.Join(filepath.Base(ancestor), rest)
		ancestor = parent
	}

	// A dangling link fails here and is refused.
	realAncestor, err := filepath.EvalSymlinks(ancestor)
	if err != nil {
		return "", unauthorized(file)
	}
	if realAncestor != realRoot && !strictlyWithin(realRoot, realAncestor) {
		return "", unauthorized(file)
	}
	return filepath.Join(realAncestor, rest), nil
}

func unauthorized(file string) error {
	return models.NewError(models.KindUnauthorized, "Unauthorized file access", file, nil)
}

// countLines counts lines the way line-by-line iteration does: every "\n"
// ends a line and trailing text without a newline is one more line.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
