package vesting

import "math/big"

// ScheduleByID returns a copy of the schedule stored under id. A
// non-existent id yields the zero-value Schedule and a nil error.
func (e *Engine) ScheduleByID(id ScheduleID) (Schedule, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ScheduleGet(id)
}

func (e *Engine) scheduleByIDLocked(id ScheduleID) (Schedule, error) {
	sched, err := e.store.ScheduleGet(id)
	if err != nil {
		return Schedule{}, err
	}
	if sched.IsZero() {
		return Schedule{}, ErrInvalidSchedule
	}
	return sched, nil
}

// ScheduleByIndex resolves the deterministic id for (beneficiary, index)
// and looks it up, for callers that only know a beneficiary's schedule
// ordinal rather than the derived id.
func (e *Engine) ScheduleByIndex(beneficiary [20]byte, index uint64) (ScheduleID, Schedule, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := computeScheduleID(beneficiary, index)
	sched, err := e.scheduleByIDLocked(id)
	return id, sched, err
}

// ScheduleCount returns the number of schedules ever created for
// beneficiary (including revoked ones).
func (e *Engine) ScheduleCount(beneficiary [20]byte) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.CounterPeek(beneficiary)
}

// Releasable returns the amount of id currently available to release,
// evaluated at the engine's current clock time.
func (e *Engine) Releasable(id ScheduleID) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sched, err := e.scheduleByIDLocked(id)
	if err != nil {
		return nil, err
	}
	return Releasable(sched, e.clock())
}

// Withdrawable returns the amount an admin could currently Withdraw: the
// engine's token balance less the aggregate committed total.
func (e *Engine) Withdrawable() (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	agg, err := e.store.AggregateGet()
	if err != nil {
		return nil, err
	}
	held, err := e.token.BalanceOf(e.self)
	if err != nil {
		return nil, err
	}
	free := new(big.Int).Sub(held, agg.CommittedTotal)
	if free.Sign() < 0 {
		return big.NewInt(0), nil
	}
	return free, nil
}

// MerkleRoot returns the currently configured claim-tree root.
func (e *Engine) MerkleRoot() ([32]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.MerkleRootGet()
}

// IsClaimed reports whether fingerprint has already been consumed by a
// Claim or ClaimWithPayment call, surviving any subsequent root rotation.
func (e *Engine) IsClaimed(fingerprint [32]byte) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ClaimedGet(fingerprint)
}
