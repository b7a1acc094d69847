package events

import "log/slog"

// SlogEmitter forwards every emitted event to a structured logger, one log
// line per event with the event type and attribute bag flattened into
// key/value pairs. It is the production default wired by cmd/vestd; tests
// use NoopEmitter instead.
type SlogEmitter struct {
	logger *slog.Logger
}

// NewSlogEmitter wraps logger as an Emitter.
func NewSlogEmitter(logger *slog.Logger) SlogEmitter {
	return SlogEmitter{logger: logger}
}

// Emit implements the Emitter interface.
func (s SlogEmitter) Emit(e Event) {
	if s.logger == nil || e == nil {
		return
	}
	args := []any{"event", e.EventType()}
	if rec, ok := e.(interface{ Record() *Record }); ok {
		if r := rec.Record(); r != nil {
			for k, v := range r.Attributes {
				args = append(args, k, v)
			}
		}
	}
	s.logger.Info("vesting event", args...)
}
