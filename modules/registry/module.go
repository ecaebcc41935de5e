// Package registry owns the session state of the relay: which connection is
// in which room under which display name. Rooms are derived, not stored.
package registry

import (
	"context"
	"log/slog"

	"github.com/go-monolith/mono"
)

// Module wraps the session store with the application lifecycle.
type Module struct {
	store  *Store
	logger *slog.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates the registry module with an empty store.
func NewModule() *Module {
	return &Module{
		store:  NewStore(),
		logger: slog.Default(),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "registry"
}

// Start initializes the registry module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Session registry started")
	return nil
}

// Stop shuts down the registry module. Sessions are in-memory only and are
// discarded with the process.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Session registry stopped", "sessions", m.store.Len())
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"sessions":     m.store.Len(),
			"active_rooms": len(m.store.ActiveRooms()),
		},
	}
}

// Store returns the session store for the router and gateway to use.
func (m *Module) Store() *Store {
	return m.store
}
