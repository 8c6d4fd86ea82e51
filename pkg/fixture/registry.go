package fixture

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Registry is the process-wide fixture collection. It is shared by
// every stream's pipeline run, so all access is mutex-guarded.
type Registry struct {
	mu       sync.RWMutex
	fixtures map[string]Spec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fixtures: make(map[string]Spec)}
}

// Add validates and stores a fixture, assigning a UUID when the spec
// carries no ID. Returns the stored spec.
func (r *Registry) Add(spec Spec) (Spec, error) {
	if err := spec.Validate(); err != nil {
		return Spec{}, err
	}
	if spec.ID == "" {
		spec.ID = uuid.New().String()
	}

	r.mu.Lock()
	r.fixtures[spec.ID] = spec
	r.mu.Unlock()
	return spec, nil
}

// Get retrieves a fixture by ID.
func (r *Registry) Get(id string) (Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.fixtures[id]
	if !ok {
		return Spec{}, ErrNotFound
	}
	return spec, nil
}

// Update replaces an existing fixture.
func (r *Registry) Update(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.fixtures[spec.ID]; !ok {
		return ErrNotFound
	}
	r.fixtures[spec.ID] = spec
	return nil
}

// Remove deletes a fixture by ID.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.fixtures[id]; !ok {
		return ErrNotFound
	}
	delete(r.fixtures, id)
	return nil
}

// List returns all fixtures ordered by ID for stable output.
func (r *Registry) List() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Spec, 0, len(r.fixtures))
	for _, spec := range r.fixtures {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ReplaceAll swaps the whole collection, used when loading a scene.
// Every spec must validate; on error the registry is unchanged.
func (r *Registry) ReplaceAll(specs []Spec) error {
	next := make(map[string]Spec, len(specs))
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return err
		}
		if spec.ID == "" {
			spec.ID = uuid.New().String()
		}
		next[spec.ID] = spec
	}

	r.mu.Lock()
	r.fixtures = next
	r.mu.Unlock()
	return nil
}

// Count returns the number of registered fixtures.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fixtures)
}
