package registry

import (
	"context"
	"sync"
)

// MemoryRegistry is an in-memory Registry for tests and the panel simulator.
type MemoryRegistry struct {
	mu       sync.RWMutex
	accounts map[string]int64
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{accounts: make(map[string]int64)}
}

// Register adds or replaces an account mapping.
func (r *MemoryRegistry) Register(account string, panelID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[account] = panelID
}

func (r *MemoryRegistry) Resolve(_ context.Context, account string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.accounts[account]
	if !ok {
		return 0, ErrPanelNotFound
	}
	return id, nil
}
