package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// CategoryConfig is one entry of categories.json.
type CategoryConfig struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"display_order"`
}

type CategoriesFile struct {
	Categories []CategoryConfig `json:"categories"`
}

// Registry holds the fixed category taxonomy loaded at boot. Categories are
// reference data: the registry is the source of truth for seeding and slug
// lookups, the database rows carry the ids listings reference.
type Registry struct {
	mu      sync.RWMutex
	bySlug  map[string]*CategoryConfig
	ordered []*CategoryConfig
}

func NewRegistry() *Registry {
	return &Registry{bySlug: make(map[string]*CategoryConfig)}
}

func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories config: %w", err)
	}

	var file CategoriesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse categories config: %w", err)
	}

	registry := NewRegistry()
	for i := range file.Categories {
		registry.Register(&file.Categories[i])
	}
	return registry, nil
}

func (r *Registry) Register(cfg *CategoryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySlug[cfg.Slug]; !ok {
		r.ordered = append(r.ordered, cfg)
	} else {
		// Re-registering a slug replaces its entry in the ordered list too,
		// keeping All() consistent with Get().
		for i, existing := range r.ordered {
			if existing.Slug == cfg.Slug {
				r.ordered[i] = cfg
				break
			}
		}
	}
	r.bySlug[cfg.Slug] = cfg
}

func (r *Registry) Get(slug string) *CategoryConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bySlug[slug]
}

func (r *Registry) Exists(slug string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bySlug[slug]
	return ok
}

func (r *Registry) All() []*CategoryConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*CategoryConfig, len(r.ordered))
	copy(result, r.ordered)
	return result
}
