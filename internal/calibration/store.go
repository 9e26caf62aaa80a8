package calibration

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists the confirmed Scale as a JSON file so it survives restarts.
// A Store is safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a store backed by the file at path. The file and its
// directory are created on the first Save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted scale. It reports false, with no error, when
// nothing has been saved yet.
func (s *Store) Load() (Scale, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Scale{}, false, nil
	}
	if err != nil {
		return Scale{}, false, fmt.Errorf("failed to read scale file: %w", err)
	}

	var sc Scale
	if err := json.Unmarshal(data, &sc); err != nil {
		return Scale{}, false, fmt.Errorf("failed to decode scale file: %w", err)
	}
	if sc.MmPerPx <= 0 {
		return Scale{}, false, nil
	}
	return sc, true, nil
}

// Save writes the scale, replacing any previous calibration. The write goes
// through a temporary file and a rename so readers never see a partial file.
func (s *Store) Save(sc Scale) error {
	if sc.MmPerPx <= 0 {
		return fmt.Errorf("%w: mm/px %.6f", ErrInvalidReference, sc.MmPerPx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create scale directory: %w", err)
	}

	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode scale: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".scale-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write scale: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close scale file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace scale file: %w", err)
	}
	return nil
}

// Clear forgets the persisted scale.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove scale file: %w", err)
	}
	return nil
}
