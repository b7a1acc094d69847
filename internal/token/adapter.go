// Package token defines the narrow interface the vesting engine uses to
// move and inspect the underlying vested asset, and an in-memory Mock
// implementing it; the bbolt-backed ledger lives in internal/storage. The engine never embeds a concrete
// token implementation, mirroring how the reference lending/creator
// engines accept a state interface rather than a database handle.
package token

import "math/big"

// Adapter is the balance/transfer surface the vesting engine needs. It is
// deliberately smaller than a full ERC20: the engine escrows a single asset
// and only ever moves it out to a beneficiary, a payment receiver, or an
// admin-directed withdrawal address.
type Adapter interface {
	// Decimals reports the token's decimal precision. The purchasable
	// claim price formula assumes 18.
	Decimals() (uint8, error)
	// BalanceOf returns holder's balance of the token; the engine passes its
	// own address to read its escrowed balance.
	BalanceOf(holder [20]byte) (*big.Int, error)
	// Transfer moves amount out of the engine's escrow to to.
	Transfer(to [20]byte, amount *big.Int) error
	// CollectPayment moves amount from payer into receiver, used by the
	// purchasable claim variant. It is distinct from Transfer because the
	// direction of custody is reversed: funds move into the protocol, not
	// out of it.
	CollectPayment(payer, receiver [20]byte, amount *big.Int) error
}
