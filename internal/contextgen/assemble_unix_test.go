//go:build !windows

package contextgen

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harrison/ctxgen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_PermissionDeniedPlaceholder(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := t.TempDir()
	first := writeFile(t, filepath.Join(root, "first.txt"), []byte("one"))
	locked := writeFile(t, filepath.Join(root, "locked.txt"), []byte("secret"))
	last := writeFile(t, filepath.Join(root, "last.txt"), []byte("three"))
	require.NoError(t, os.Chmod(locked, 0000))
	defer os.Chmod(locked, 0644)

	entries := Assemble(root, []string{first, locked, last})

	require.Len(t, entries, 3)
	assert.Equal(t, "one", entries[0].Content)
	assert.Equal(t, "locked.txt", entries[1].Path)
	assert.Equal(t, "Error: Could not read file locked.txt due to permissions.", entries[1].Content)
	assert.True(t, errors.Is(entries[1].Err, models.ErrPermissionDenied))
	assert.Equal(t, "three", entries[2].Content)
}

func TestReadFile_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	path := writeFile(t, filepath.Join(t.TempDir(), "locked.txt"), []byte("secret"))
	require.NoError(t, os.Chmod(path, 0000))
	defer os.Chmod(path, 0644)

	_, err := ReadFile(path)
	assert.True(t, errors.Is(err, models.ErrPermissionDenied), "got %v", err)
}

func TestCountLines_SymlinkEscape(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")
	require.NoError(t, os.Mkdir(root, 0755))
	secret := writeFile(t, filepath.Join(base, "secret.txt"), []byte("a\nb\n"))

	link := filepath.Join(root, "innocent.txt")
	require.NoError(t, os.Symlink(secret, link))

	_, err := CountLines(root, link)
	assert.True(t, errors.Is(err, models.ErrUnauthorized), "got %v", err)

	dirLink := filepath.Join(root, "escape")
	require.NoError(t, os.Symlink(base, dirLink))

	_, err = CountLines(root, filepath.Join(dirLink, "secret.txt"))
	assert.True(t, errors.Is(err, models.ErrUnauthorized), "got %v", err)
}

func TestCountLines_MissingTargetBehindSymlink(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")
	outside := filepath.Join(base, "outside")
	require.NoError(t, os.Mkdir(root, 0755))
	require.NoError(t, os.Mkdir(outside, 0755))
	writeFile(t, filepath.Join(outside, "secret"), []byte("x\n"))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "escape")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "gone"), filepath.Join(root, "dangling")))

	tests := []struct {
		name string
		file string
	}{
		{name: "existing target", file: filepath.Join(root, "escape", "secret")},
		{name: "absent target", file: filepath.Join(root, "escape", "absent")},
		{name: "absent nested target", file: filepath.Join(root, "escape", "a", "b.txt")},
		{name: "dangling link", file: filepath.Join(root, "dangling", "c.txt")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CountLines(root, tt.file)
			assert.True(t, errors.Is(err, models.ErrUnauthorized), "got %v", err)
		})
	}

	_, err := CountLines(root, filepath.Join(root, "sub", "absent.txt"))
	assert.True(t, errors.Is(err, models.ErrNotFound), "got %v", err)
}

func TestCountLines_SymlinkInsideRoot(t *testing.T) {
	root := t.TempDir()
	target := writeFile(t, filepath.Join(root, "real.txt"), []byte("a\nb\nc"))
	link := filepath.Join(root, "alias.txt")
	require.NoError(t, os.Symlink(target, link))

	n, err := CountLines(root, link)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCountLines_SymlinkedRoot(t *testing.T) {
	base := t.TempDir()
	realDir := filepath.Join(base, "real")
	writeFile(t, filepath.Join(realDir, "f.txt"), []byte("x\n"))
	linkedRoot := filepath.Join(base, "linked")
	require.NoError(t, os.Symlink(realDir, linkedRoot))

	n, err := CountLines(linkedRoot, filepath.Join(linkedRoot, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
