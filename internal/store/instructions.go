package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/harrison/ctxgen/internal/filelock"
)

// ErrMalformed reports a settings file that exists but cannot be decoded.
var ErrMalformed = errors.New("malformed settings file")

type instructionsFile struct {
	Instructions string `json:"instructions"`
}

// InstructionsStore loads and saves the free-text custom instructions.
type InstructionsStore struct {
	Path string
}

// NewInstructionsStore returns a store backed by InstructionsFileName in dataDir.
func NewInstructionsStore(dataDir string) *InstructionsStore {
	return &InstructionsStore{Path: filepath.Join(dataDir, InstructionsFileName)}
}

// Load returns the saved instructions, or "" when nothing has been saved.
// A file that cannot be decoded returns "" together with ErrMalformed.
func (s *InstructionsStore) Load() (string, error) {
	data, err := filelock.LockAndRead(s.Path)
	if err != nil {
		return "", err
	}
	if data == nil {
		return "", nil
	}

	var f instructionsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMalformed, s.Path, err)
	}
	return f.Instructions, nil
}

// Save replaces the stored instructions.
func (s *InstructionsStore) Save(instructions string) error {
	data, err := json.MarshalIndent(instructionsFile{Instructions: instructions}, "", "    ")
	if err != nil {
		return fmt.Errorf("encode custom instructions: %w", err)
	}
	if err := filelock.LockAndWrite(s.Path, append(data, '\n')); err != nil {
		return fmt.Errorf("save custom instructions: %w", err)
	}
	return nil
}
