package registry

import (
	"context"
	"testing"
)

func TestModule_Name(t *testing.T) {
	m := NewModule()

	if name := m.Name(); name != "registry" {
		t.Errorf("Name() = %q, want 'registry'", name)
	}
}

func TestModule_StartStop(t *testing.T) {
	m := NewModule()
	ctx := context.Background()

	if err := m.Start(ctx); err != nil {
		t.Errorf("Start() error = %v", err)
	}
	if err := m.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestModule_Health(t *testing.T) {
	m := NewModule()
	m.Store().Activate("c1", "Alice", "general")
	m.Store().Activate("c2", "Bob", "random")

	status := m.Health(context.Background())

	if !status.Healthy {
		t.Error("Health() Healthy = false, want true")
	}
	if status.Details["sessions"] != 2 {
		t.Errorf("Health() sessions = %v, want 2", status.Details["sessions"])
	}
	if status.Details["active_rooms"] != 2 {
		t.Errorf("Health() active_rooms = %v, want 2", status.Details["active_rooms"])
	}
}
