package lab

import (
	"log/slog"
	"sync"
)

// Manager tracks the active runner for each user so that independently
// routed requests land on the same progression state.
type Manager struct {
	mu      sync.RWMutex
	active  map[string]*Runner
	factory func() *Runner
}

// NewManager creates a manager that builds runners with factory.
func NewManager(factory func() *Runner) *Manager {
	return &Manager{
		active:  make(map[string]*Runner),
		factory: factory,
	}
}

// Get returns the active runner for a user, or nil if none exists.
func (m *Manager) Get(userID string) *Runner {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active[userID]
}

// GetOrCreate returns the active runner for a user, creating one on
// first use.
func (m *Manager) GetOrCreate(userID string) *Runner {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.active[userID]; ok {
		return r
	}
	r := m.factory()
	m.active[userID] = r
	slog.Info("Lab runner created", "user_id", userID)
	return r
}

// Close discards the runner for a user, if any.
func (m *Manager) Close(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.active[userID]; ok {
		delete(m.active, userID)
		slog.Info("Lab runner closed", "user_id", userID)
	}
}
