package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const stateFile = "state.yaml"

// ErrNoSave is returned when a save slot does not exist.
var ErrNoSave = errors.New("save not found")

// Marshal encodes the full game state as YAML.
func (s *GameState) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// UnmarshalState decodes a game state previously produced by Marshal.
func UnmarshalState(data []byte) (*GameState, error) {
	var state GameState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	state.normalize()
	return &state, nil
}

// Save writes the state to <dir>/<name>/state.yaml.
func (s *GameState) Save(dir, name string) error {
	slot := filepath.Join(dir, name)
	if err := os.MkdirAll(slot, 0755); err != nil {
		return err
	}

	data, err := s.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(slot, stateFile), data, 0644)
}

// LoadState reads the state saved under <dir>/<name>.
func LoadState(dir, name string) (*GameState, error) {
	data, err := os.ReadFile(filepath.Join(dir, name, stateFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %q: %w", name, ErrNoSave)
		}
		return nil, err
	}
	return UnmarshalState(data)
}

// DeleteState removes the save slot <dir>/<name>.
func DeleteState(dir, name string) error {
	return os.RemoveAll(filepath.Join(dir, name))
}

// ListStates returns the names of the save slots under dir.
func ListStates(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			// state.yaml marks a valid slot
			statePath := filepath.Join(dir, entry.Name(), stateFile)
			if _, err := os.Stat(statePath); err == nil {
				names = append(names, entry.Name())
			}
		}
	}
	return names, nil
}

// normalize replaces nil maps left by YAML decoding of empty collections.
func (s *GameState) normalize() {
	if s.Player.Inventory == nil {
		s.Player.Inventory = make(map[string]int)
	}
	if s.World.Fortifications == nil {
		s.World.Fortifications = make(map[string]int)
	}
	if s.World.Traps == nil {
		s.World.Traps = make(map[string]int)
	}
	if s.World.Flags == nil {
		s.World.Flags = make(map[string]bool)
	}
	if s.Horde == nil {
		s.Horde = make(Horde)
	}
}
