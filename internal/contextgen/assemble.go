// Package contextgen reads user-selected files and assembles them into the
// context payload pasted into an LLM prompt.
package contextgen

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/harrison/ctxgen/internal/models"
)

// Assemble reads every path in order and returns one entry per path that
// exists. Paths that do not exist are dropped. A file that cannot be read
// still yields an entry, with a placeholder message as its content, so one
// bad file never hides the others.
func Assemble(root string, paths []string) []models.ContextEntry {
	entries := make([]models.ContextEntry, 0, len(paths))

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}

		display := DisplayPath(root, path)
		content, err := readLenient(path)
		if err != nil {
			entries = append(entries, models.ContextEntry{
				Path:    display,
				Content: placeholder(display, err),
				Err:     models.ClassifyFSError("failed to read file", path, err),
			})
			continue
		}

		entries = append(entries, models.ContextEntry{Path: display, Content: content})
	}

	return entries
}

var errIsDirectory = errors.New("is a directory")

func readLenient(path string) (string, error) {
	data, err := readAll(path)
	if err != nil {
		return "", err
	}
	return decodeLenient(data), nil
}

func readAll(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, errIsDirectory
	}

	return io.ReadAll(f)
}

func placeholder(display string, err error) string {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Sprintf("Error: Could not read file %s due to permissions.", display)
	}
	return fmt.Sprintf("Error: Could not read file %s. %v", display, err)
}
