package vesting

import (
	"math/big"

	"github.com/blackelite/vestd/crypto"
	"github.com/blackelite/vestd/internal/access"
	"github.com/blackelite/vestd/internal/merkle"
)

// ClaimParams describes the schedule tuple a caller asserts belongs to them
// under the current Merkle root (SPEC_FULL.md §4.G-H). The caller supplies
// every field the off-chain tree committed to; the engine only trusts what
// the proof folds to the configured root.
type ClaimParams struct {
	Beneficiary  crypto.Address
	Start        int64
	CliffOffset  int64
	Duration     int64
	SliceSeconds uint8
	Revokable    bool
	Amount       *big.Int
	Proof        [][32]byte
}

// SetMerkleRoot rotates the claim tree root. Admin-gated. Rotation never
// clears the claim registry: a fingerprint claimed under a prior root
// remains claimed, so the same tuple cannot be claimed twice across a
// rotation (SPEC_FULL.md §3).
func (e *Engine) SetMerkleRoot(caller crypto.Address, root [32]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.access.RequireAdmin(caller); err != nil {
		return err
	}
	if err := e.store.MerkleRootPut(root); err != nil {
		return err
	}
	emitRootRotated(e.events, root)
	return nil
}

// SetVTokenCost configures the per-unit price for the purchasable claim
// variant. A zero cost disables the payment requirement for future claims
// without disabling Claim itself. The cost must be below 1e18. Admin-gated.
func (e *Engine) SetVTokenCost(caller crypto.Address, cost *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.access.RequireAdmin(caller); err != nil {
		return err
	}
	if cost == nil || cost.Sign() < 0 || cost.Cmp(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)) >= 0 {
		return ErrInvalidAmount
	}
	return e.store.VTokenCostPut(cost)
}

// SetPaymentReceiver configures where purchasable-claim payments are routed.
// The zero address is rejected. Admin-gated.
func (e *Engine) SetPaymentReceiver(caller crypto.Address, receiver [20]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.access.RequireAdmin(caller); err != nil {
		return err
	}
	if receiver == ([20]byte{}) {
		return access.ErrInvalidAddress
	}
	return e.store.PaymentReceiverPut(receiver)
}

// Claim verifies p.Proof against the configured Merkle root, checks the
// tuple's fingerprint has not already been claimed, and creates the
// resulting schedule for p.Beneficiary. Gated on the pause flag, same as
// the direct Create path; not gated on any role, since the Merkle proof is
// itself the authorization (SPEC_FULL.md §4.H).
func (e *Engine) Claim(p ClaimParams) (ScheduleID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.reentrancy.Enter(); err != nil {
		return ScheduleID{}, err
	}
	defer e.reentrancy.Exit()

	if err := access.GuardCreate(e.access); err != nil {
		return ScheduleID{}, err
	}
	cost, err := e.store.VTokenCostGet()
	if err != nil {
		return ScheduleID{}, err
	}
	if cost.Sign() > 0 {
		return ScheduleID{}, ErrIncorrectPayment
	}
	return e.claimLocked(p, nil)
}

// ClaimWithPayment is the purchasable-claim variant: it additionally
// collects exactly vTokenCost*amount/1e18 from the caller, routed to the
// configured payment receiver. The payment must match exactly; both under-
// and over-payment are rejected (SPEC_FULL.md §9, resolving the spec's
// Open Question in favor of strict equality). The payment is collected
// before the schedule is created and the fingerprint is registered, so a
// failed transfer (e.g. insufficient payer balance) leaves no trace: there
// is nothing yet to unwind (SPEC_FULL.md §4.H, §5).
func (e *Engine) ClaimWithPayment(p ClaimParams, payer [20]byte, payment *big.Int) (ScheduleID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.reentrancy.Enter(); err != nil {
		return ScheduleID{}, err
	}
	defer e.reentrancy.Exit()

	if err := access.GuardCreate(e.access); err != nil {
		return ScheduleID{}, err
	}

	cost, err := e.store.VTokenCostGet()
	if err != nil {
		return ScheduleID{}, err
	}
	receiver, err := e.store.PaymentReceiverGet()
	if err != nil {
		return ScheduleID{}, err
	}
	if cost.Sign() <= 0 || receiver == ([20]byte{}) {
		return ScheduleID{}, ErrPurchasableDisabled
	}

	fingerprint, err := e.verifyClaim(p)
	if err != nil {
		return ScheduleID{}, err
	}

	price, err := PurchasePrice(cost, p.Amount)
	if err != nil {
		return ScheduleID{}, err
	}
	if payment == nil || payment.Cmp(price) != 0 {
		return ScheduleID{}, ErrIncorrectPayment
	}

	if payment.Sign() > 0 {
		if err := e.token.CollectPayment(payer, receiver, payment); err != nil {
			return ScheduleID{}, err
		}
	}

	return e.commitClaim(p, fingerprint, payment)
}

// verifyClaim confirms the tuple's fingerprint has not already been claimed
// and then checks p.Proof against the configured Merkle root. It
// performs no writes, so callers can safely run it before committing any
// side effect (a token transfer, the schedule create) that would otherwise
// need to be unwound on a later failure.
func (e *Engine) verifyClaim(p ClaimParams) ([32]byte, error) {
	beneficiary := p.Beneficiary.Array()
	fingerprint := merkle.Fingerprint(beneficiary, p.Start, p.CliffOffset, p.Duration, p.SliceSeconds, p.Revokable, p.Amount)
	claimed, err := e.store.ClaimedGet(fingerprint)
	if err != nil {
		return [32]byte{}, err
	}
	if claimed {
		return [32]byte{}, ErrAlreadyClaimed
	}

	leaf := merkle.Leaf(beneficiary, p.Start, p.CliffOffset, p.Duration, p.SliceSeconds, p.Revokable, p.Amount)
	root, err := e.store.MerkleRootGet()
	if err != nil {
		return [32]byte{}, err
	}
	if !merkle.Verify(p.Proof, leaf, root) {
		return [32]byte{}, merkle.ErrInvalidProof
	}
	return fingerprint, nil
}

// commitClaim creates the schedule and registers the fingerprint. Called
// only after any payment for the claim has already been collected, so that
// the only failure mode left here (a store write error) is the same one
// every other mutating engine method is already exposed to.
func (e *Engine) commitClaim(p ClaimParams, fingerprint [32]byte, paid *big.Int) (ScheduleID, error) {
	beneficiary := p.Beneficiary.Array()
	id, err := e.createLocked(beneficiary, p.Start, p.CliffOffset, p.Duration, p.SliceSeconds, p.Amount, p.Revokable)
	if err != nil {
		return ScheduleID{}, err
	}
	if err := e.store.ClaimedPut(fingerprint); err != nil {
		return ScheduleID{}, err
	}
	emitScheduleClaimed(e.events, id, beneficiary, paid)
	return id, nil
}

func (e *Engine) claimLocked(p ClaimParams, paid *big.Int) (ScheduleID, error) {
	fingerprint, err := e.verifyClaim(p)
	if err != nil {
		return ScheduleID{}, err
	}
	return e.commitClaim(p, fingerprint, paid)
}
