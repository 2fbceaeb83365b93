package contextgen

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/ctxgen/internal/models"
)

// ReadFile reads a single file as UTF-8 text. Unlike Assemble, every failure
// is returned to the caller with its own kind: a missing file is
// KindNotFound, a refused open is KindPermissionDenied and content that is
// not valid UTF-8 is KindDecode.
func ReadFile(path string) (*models.FileContent, error) {
	if strings.TrimSpace(path) == "" {
		return nil, models.NewError(models.KindNotFound, "File does not exist", path, nil)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.NewError(models.KindNotFound, "File does not exist", path, nil)
		}
		return nil, models.ClassifyFSError("failed to access file", path, err)
	}

	data, err := readAll(path)
	if err != nil {
		return nil, models.ClassifyFSError("failed to read file", path, err)
	}

	content, ok := decodeStrict(data)
	if !ok {
		return nil, models.NewError(models.KindDecode, models.ErrDecode.Error(), path, nil)
	}

	return &models.FileContent{
		Content:  content,
		Filename: filepath.Base(path),
		Path:     path,
	}, nil
}
