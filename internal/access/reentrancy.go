package access

import "sync"

// ReentrancyGuard enforces checks-effects-interactions discipline on entry
// points that move value out of the engine (release, revoke, withdraw, and
// the purchasable claim's payment forwarding). The engine already
// serializes every public method behind its own mutex (see §5 of
// SPEC_FULL.md), so under normal operation this guard can never actually
// observe a concurrent Enter; it exists as the second line of defense
// against a token or payment adapter implementation that calls back into
// the engine from within Transfer, matching the reference contracts'
// nonReentrant modifier.
type ReentrancyGuard struct {
	mu   sync.Mutex
	busy bool
}

// Enter marks the guard as busy. It returns ErrReentrantCall if the guard
// was already busy.
func (g *ReentrancyGuard) Enter() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return ErrReentrantCall
	}
	g.busy = true
	return nil
}

// Exit clears the guard. It is always called via defer immediately after a
// successful Enter, on every return path including panics.
func (g *ReentrancyGuard) Exit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.busy = false
}
