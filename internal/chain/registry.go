package chain

import (
	"sort"
	"sync"

	"multichain-wallet-gateway-go/internal/apperr"
	"multichain-wallet-gateway-go/internal/models"
)

// Registry maps chain identifiers to adapters. It is populated once at startup.
type Registry struct {
	adapters map[models.ChainID]Adapter
	mu       sync.RWMutex
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[models.ChainID]Adapter)}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds an adapter, replacing any previous one for the same chain
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.ID()] = a
}

// Get returns the adapter for id, or an unsupported_chain error when it is not enabled
func (r *Registry) Get(id models.ChainID) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[id]
	if !ok {
		return nil, apperr.New(apperr.KindUnsupportedChain, "blockchain %s is not enabled", id)
	}
	return a, nil
}

// Resolve parses a raw chain tag and returns its adapter
func (r *Registry) Resolve(raw string) (Adapter, error) {
	id, err := ParseID(raw)
	if err != nil {
		return nil, err
	}
	return r.Get(id)
}

// List returns the enabled chains in sorted order
func (r *Registry) List() []models.ChainID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]models.ChainID, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
