package retailer

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps store ids to scrapers.
type Registry struct {
	mu       sync.RWMutex
	scrapers map[string]Scraper
}

func NewRegistry(scrapers ...Scraper) *Registry {
	r := &Registry{scrapers: make(map[string]Scraper)}
	for _, s := range scrapers {
		r.Register(s)
	}
	return r
}

// Register adds s under its ID, replacing any scraper already registered
// with that ID.
func (r *Registry) Register(s Scraper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scrapers[s.ID()] = s
}

func (r *Registry) Get(id string) (Scraper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scrapers[id]
	if !ok {
		return nil, fmt.Errorf("store %q not registered", id)
	}
	return s, nil
}

// List returns the registered store ids in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.scrapers))
	for id := range r.scrapers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns the registered scrapers ordered by id.
func (r *Registry) All() []Scraper {
	ids := r.List()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Scraper, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.scrapers[id])
	}
	return out
}
