package service

import "context"

// ─────────────────────────────────────────────────────────────
// EventEmitter — decouples services from their surfaces
// ─────────────────────────────────────────────────────────────

// EventEmitter notifies authoring surfaces (HTTP, MCP, automation) of state
// changes. Services receive this interface instead of a concrete surface,
// which makes them independently testable with a mock emitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// NopEmitter discards all events. Used by standalone modes with no surface
// to notify.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, string, any) {}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}
