package provider

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Registry holds providers keyed by id and by case-insensitive name.
type Registry struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Provider
	byName map[string]*Provider
}

// NewRegistry creates a registry holding ps.
func NewRegistry(ps ...*Provider) (*Registry, error) {
	r := &Registry{
		byID:   make(map[uuid.UUID]*Provider),
		byName: make(map[string]*Provider),
	}
	for _, p := range ps {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register validates and adds p. An overlay's background must be registered
// first.
func (r *Registry) Register(p *Provider) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(p.Name)
	if _, ok := r.byID[p.ID]; ok {
		return fmt.Errorf("%w: id %s", ErrDuplicateProvider, p.ID)
	}
	if _, ok := r.byName[key]; ok {
		return fmt.Errorf("%w: name %q", ErrDuplicateProvider, p.Name)
	}
	if p.Background != nil && r.byID[p.Background.ID] != p.Background {
		return fmt.Errorf("%w: %q background %q is not registered", ErrInvalidProvider, p.Name, p.Background.Name)
	}

	r.byID[p.ID] = p
	r.byName[key] = p
	return nil
}

// Lookup finds a provider by UUID or by name.
func (r *Registry) Lookup(key string) (*Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, err := uuid.Parse(key); err == nil {
		if p, ok := r.byID[id]; ok {
			return p, nil
		}
	}
	if p, ok := r.byName[strings.ToLower(key)]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, key)
}

// All returns the registered providers sorted by name.
func (r *Registry) All() []*Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ps := make([]*Provider, 0, len(r.byID))
	for _, p := range r.byID {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Name < ps[j].Name })
	return ps
}
