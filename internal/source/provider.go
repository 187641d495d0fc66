// Package source defines the contract for business candidate providers
// and the roster of built-in implementations.
package source

import (
	"context"
	"sync"

	"github.com/sells-group/leadscout/internal/model"
)

// Provider produces up to limit raw business records for one query. A
// provider may legitimately return fewer. Implementations run
// concurrently with each other; a failing provider must not affect its
// siblings. Within one provider's output, order reflects that provider's
// own ranking and is preserved downstream.
type Provider interface {
	// Name returns the provider identifier used in logs and progress
	// messages.
	Name() string
	// Fetch returns up to limit records for the query.
	Fetch(ctx context.Context, query model.SearchQuery, limit int) ([]model.BusinessRecord, error)
}

// Registry holds the fixed provider roster in a stable declared order.
// Concatenation of provider results follows registration order.
type Registry struct {
	mu        sync.RWMutex
	providers []Provider
	byName    map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Provider)}
}

// Register appends a provider to the roster. Re-registering a name
// replaces the provider but keeps its original position.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[p.Name()]; ok {
		for i, existing := range r.providers {
			if existing.Name() == p.Name() {
				r.providers[i] = p
				break
			}
		}
	} else {
		r.providers = append(r.providers, p)
	}
	r.byName[p.Name()] = p
}

// Get returns a provider by name, or nil if not found.
func (r *Registry) Get(name string) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// Roster returns the providers in registration order.
func (r *Registry) Roster() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// Len returns the roster size.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}

// PerProviderLimit computes how many records each of n providers is asked
// for, ceil(requested / n), so the union covers the requested count even
// after dedup removes overlaps.
func PerProviderLimit(requested, n int) int {
	if n <= 0 {
		return requested
	}
	return (requested + n - 1) / n
}

// DefaultRegistry returns the fixed built-in roster: maps directory,
// business directory, and social directory samples.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewMapsProvider())
	r.Register(NewDirectoryProvider())
	r.Register(NewSocialProvider())
	return r
}
