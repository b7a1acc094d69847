package token

import (
	"errors"
	"math/big"
	"sync"
)

// ErrInsufficientBalance is returned by Mock when a transfer or payment
// collection would drive a balance negative.
var ErrInsufficientBalance = errors.New("token: insufficient balance")

// Mock is an in-memory Adapter used by engine tests and local development.
// It is not a production token implementation; the reference production
// path is internal/storage's bbolt-backed ledger.
type Mock struct {
	mu       sync.Mutex
	decimals uint8
	self     [20]byte
	balances map[[20]byte]*big.Int
}

// NewMock constructs a Mock with the given decimals (18 in all production
// configurations) and starting balances. self is the address Transfer moves
// funds from, mirroring the escrow address passed to vesting.NewEngine and
// to storage.OpenLedger in production.
func NewMock(decimals uint8, self [20]byte, balances map[[20]byte]*big.Int) *Mock {
	m := &Mock{decimals: decimals, self: self, balances: make(map[[20]byte]*big.Int)}
	for k, v := range balances {
		m.balances[k] = new(big.Int).Set(v)
	}
	return m
}

func (m *Mock) Decimals() (uint8, error) {
	return m.decimals, nil
}

func (m *Mock) BalanceOf(holder [20]byte) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bal, ok := m.balances[holder]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(bal), nil
}

func (m *Mock) Transfer(to [20]byte, amount *big.Int) error {
	return m.move(m.self, to, amount)
}

func (m *Mock) CollectPayment(payer, receiver [20]byte, amount *big.Int) error {
	return m.move(payer, receiver, amount)
}

func (m *Mock) move(from, to [20]byte, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fromBal, ok := m.balances[from]
	if !ok {
		fromBal = big.NewInt(0)
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	m.balances[from] = new(big.Int).Sub(fromBal, amount)
	toBal, ok := m.balances[to]
	if !ok {
		toBal = big.NewInt(0)
	}
	m.balances[to] = new(big.Int).Add(toBal, amount)
	return nil
}

// Credit directly increases a holder's balance, used by tests to fund the
// engine's escrow.
func (m *Mock) Credit(holder [20]byte, amount *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bal, ok := m.balances[holder]
	if !ok {
		bal = big.NewInt(0)
	}
	m.balances[holder] = new(big.Int).Add(bal, amount)
}
