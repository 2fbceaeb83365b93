// Package store persists the exclusion rules and custom instructions that
// ctxgen shares between the CLI and the HTTP server.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/harrison/ctxgen/internal/exclusion"
	"github.com/harrison/ctxgen/internal/filelock"
)

const (
	// RulesFileName is the exclusion rule file inside the data directory.
	RulesFileName = "file_exclude_patterns.json"
	// InstructionsFileName is the custom instructions file inside the data directory.
	InstructionsFileName = "custom_instructions.json"
)

// RulesStore loads and saves an exclusion.RuleSet as JSON.
type RulesStore struct {
	Path string
}

// NewRulesStore returns a store backed by RulesFileName in dataDir.
func NewRulesStore(dataDir string) *RulesStore {
	return &RulesStore{Path: filepath.Join(dataDir, RulesFileName)}
}

// Load returns the persisted rules. A missing file yields an empty rule set.
// A file that is not valid JSON also yields an empty rule set, together with
// ErrMalformed so the caller can warn about it. Keys that are missing or not
// lists of strings come back as empty lists.
func (s *RulesStore) Load() (exclusion.RuleSet, error) {
	empty := exclusion.RuleSet{}.Normalize()

	data, err := filelock.LockAndRead(s.Path)
	if err != nil {
		return empty, err
	}
	if data == nil {
		return empty, nil
	}

	rules, err := DecodeRules(data)
	if err != nil {
		return empty, fmt.Errorf("%s: %w", s.Path, err)
	}
	return rules, nil
}

// DecodeRules parses a JSON object holding the three rule lists. Keys that
// are missing or not lists of strings become empty lists. Input that is not
// a JSON object returns ErrMalformed.
func DecodeRules(data []byte) (exclusion.RuleSet, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		if err == nil {
			err = errors.New("expected a JSON object")
		}
		return exclusion.RuleSet{}.Normalize(), fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	rules := exclusion.RuleSet{
		ExcludeDirs:     stringList(raw["exclude_dirs"]),
		ExcludeFiles:    stringList(raw["exclude_files"]),
		ExcludePatterns: stringList(raw["exclude_patterns"]),
	}
	return rules.Normalize(), nil
}

// Save writes rules as indented JSON, always with all three lists present.
func (s *RulesStore) Save(rules exclusion.RuleSet) error {
	data, err := json.MarshalIndent(rules.Normalize(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode exclusion rules: %w", err)
	}
	if err := filelock.LockAndWrite(s.Path, append(data, '\n')); err != nil {
		return fmt.Errorf("save exclusion rules: %w", err)
	}
	return nil
}

// stringList decodes a JSON list of strings. Anything else, including a list
// that holds non-strings, becomes an empty list.
func stringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}
