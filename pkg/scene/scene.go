// Package scene persists named venue and fixture configurations as
// JSON files so a setup can be restored between sessions.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/venuelab/gyrobeam/internal/log"
	"github.com/venuelab/gyrobeam/pkg/fixture"
	"github.com/venuelab/gyrobeam/pkg/venue"
)

// ErrSceneNotFound is returned when loading a name with no saved file.
var ErrSceneNotFound = errors.New("scene not found")

// Scene is one saved configuration snapshot.
type Scene struct {
	Name     string         `json:"name"`
	SavedAt  time.Time      `json:"saved_at"`
	Venue    venue.Venue    `json:"venue"`
	Fixtures []fixture.Spec `json:"fixtures"`
}

// Store reads and writes scenes under a single directory, one file per
// scene. Writes go through a temp file and rename so a crash never
// leaves a truncated scene behind.
type Store struct {
	dir string
}

var sceneName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,63}$`)

// NewStore creates the scene directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating scene dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the scene under its name, overwriting any previous save.
func (s *Store) Save(sc Scene) error {
	if !sceneName.MatchString(sc.Name) {
		return fmt.Errorf("invalid scene name %q", sc.Name)
	}
	sc.SavedAt = time.Now().UTC()

	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scene: %w", err)
	}

	path := s.path(sc.Name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing scene: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing scene: %w", err)
	}

	log.Debug("scene saved", "name", sc.Name, "fixtures", len(sc.Fixtures))
	return nil
}

// Load reads a scene by name.
func (s *Store) Load(name string) (Scene, error) {
	if !sceneName.MatchString(name) {
		return Scene{}, fmt.Errorf("invalid scene name %q", name)
	}

	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return Scene{}, ErrSceneNotFound
	}
	if err != nil {
		return Scene{}, fmt.Errorf("reading scene: %w", err)
	}

	var sc Scene
	if err := json.Unmarshal(data, &sc); err != nil {
		return Scene{}, fmt.Errorf("decoding scene %q: %w", name, err)
	}
	if err := sc.Venue.Validate(); err != nil {
		return Scene{}, fmt.Errorf("scene %q venue: %w", name, err)
	}
	return sc, nil
}

// List returns the saved scene names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing scenes: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a saved scene.
func (s *Store) Delete(name string) error {
	if !sceneName.MatchString(name) {
		return fmt.Errorf("invalid scene name %q", name)
	}
	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		return ErrSceneNotFound
	}
	return err
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}
