package contextgen

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/harrison/ctxgen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "main.go"), []byte("package main\r\n"))

	fc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package main\n", fc.Content)
	assert.Equal(t, "main.go", fc.Filename)
	assert.Equal(t, path, fc.Path)
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	binary := writeFile(t, filepath.Join(dir, "image.png"), []byte{0x89, 'P', 'N', 'G', 0xff, 0xd8})

	tests := []struct {
		name string
		path string
		want error
	}{
		{name: "empty path", path: "", want: models.ErrNotFound},
		{name: "missing file", path: filepath.Join(dir, "missing.txt"), want: models.ErrNotFound},
		{name: "binary content", path: binary, want: models.ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc, err := ReadFile(tt.path)
			assert.Nil(t, fc)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestReadFile_Directory(t *testing.T) {
	_, err := ReadFile(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, models.KindUnexpected, models.KindOf(err))
}
