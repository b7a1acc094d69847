package storage

import (
	"encoding/hex"
	"errors"
	"math/big"

	bolt "go.etcd.io/bbolt"

	"github.com/blackelite/vestd/internal/token"
)

var (
	bucketBalances = []byte("balances")
	keyDecimals    = []byte("decimals")
)

// ErrInsufficientBalance mirrors token.Mock's error for the reference
// bbolt-backed ledger.
var ErrInsufficientBalance = errors.New("storage: insufficient balance")

// Ledger is the reference production token.Adapter: a single-asset balance
// sheet held in the same bbolt database as the schedule and role buckets,
// following the same bucket-per-concern convention as the rest of this
// package. It is deliberately not a general ERC20 ledger — transfers only
// ever originate from the engine's own escrow address or a payer address
// supplied by the claim RPC, matching token.Adapter's narrow surface.
type Ledger struct {
	db   *bolt.DB
	self [20]byte
}

// OpenLedger attaches a Ledger to the same database a Store was opened
// against, creating the balances bucket if needed and recording decimals on
// first use. self is the address the engine's own escrow balance is kept
// under; it must match the address passed to vesting.NewEngine.
func OpenLedger(db *bolt.DB, decimals uint8, self [20]byte) (*Ledger, error) {
	if err := db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketBalances)
		if err != nil {
			return err
		}
		if bucket.Get(keyDecimals) == nil {
			return bucket.Put(keyDecimals, []byte{decimals})
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &Ledger{db: db, self: self}, nil
}

func (l *Ledger) Decimals() (uint8, error) {
	var d uint8
	err := l.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketBalances).Get(keyDecimals)
		if len(raw) == 1 {
			d = raw[0]
		}
		return nil
	})
	return d, err
}

func (l *Ledger) BalanceOf(holder [20]byte) (*big.Int, error) {
	out := big.NewInt(0)
	err := l.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketBalances).Get(holder[:])
		if raw == nil {
			return nil
		}
		v, ok := new(big.Int).SetString(string(raw), 10)
		if !ok {
			return errors.New("storage: invalid balance record")
		}
		out = v
		return nil
	})
	return out, err
}

// Credit directly increases holder's balance, used to fund the engine's
// escrow from a deposit RPC or an operator bootstrap script.
func (l *Ledger) Credit(holder [20]byte, amount *big.Int) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBalances)
		bal := big.NewInt(0)
		if raw := bucket.Get(holder[:]); raw != nil {
			v, ok := new(big.Int).SetString(string(raw), 10)
			if !ok {
				return errors.New("storage: invalid balance record")
			}
			bal = v
		}
		bal = new(big.Int).Add(bal, amount)
		return bucket.Put(holder[:], []byte(bal.String()))
	})
}

func (l *Ledger) Transfer(to [20]byte, amount *big.Int) error {
	return l.move(l.self, to, amount)
}

func (l *Ledger) CollectPayment(payer, receiver [20]byte, amount *big.Int) error {
	return l.move(payer, receiver, amount)
}

func (l *Ledger) move(from, to [20]byte, amount *big.Int) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketBalances)
		fromBal := big.NewInt(0)
		if raw := bucket.Get(from[:]); raw != nil {
			v, ok := new(big.Int).SetString(string(raw), 10)
			if !ok {
				return errors.New("storage: invalid balance record for " + hex.EncodeToString(from[:]))
			}
			fromBal = v
		}
		if fromBal.Cmp(amount) < 0 {
			return ErrInsufficientBalance
		}
		toBal := big.NewInt(0)
		if raw := bucket.Get(to[:]); raw != nil {
			v, ok := new(big.Int).SetString(string(raw), 10)
			if !ok {
				return errors.New("storage: invalid balance record for " + hex.EncodeToString(to[:]))
			}
			toBal = v
		}
		if err := bucket.Put(from[:], []byte(new(big.Int).Sub(fromBal, amount).String())); err != nil {
			return err
		}
		return bucket.Put(to[:], []byte(new(big.Int).Add(toBal, amount).String()))
	})
}

var _ token.Adapter = (*Ledger)(nil)
