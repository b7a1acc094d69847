package access

import "sync"

// PauseView is satisfied by anything that can report whether the module is
// currently paused. It is kept as a narrow interface, adapted from the
// reference engine's nativecommon.PauseView, so callers that only need a
// read of the pause flag (e.g. a query handler) do not need the rest of
// Control's surface.
type PauseView interface {
	IsPaused() bool
}

// pauseState is embedded into Control; it is split out so the pause flag has
// a single, independently testable mutation path.
type pauseState struct {
	mu     sync.RWMutex
	paused bool
}

// IsPaused reports the current pause flag.
func (p *pauseState) IsPaused() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.paused
}

func (p *pauseState) setPaused(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = v
}

// GuardCreate returns ErrPaused when the module is paused. Every entry point
// that creates a schedule (direct create and the Merkle-gated claim) must
// call this before any state mutation. Release, revoke, and withdraw never
// call it: pausing must never strand already-committed principal.
func GuardCreate(p PauseView) error {
	if p == nil {
		return nil
	}
	if p.IsPaused() {
		return ErrPaused
	}
	return nil
}
