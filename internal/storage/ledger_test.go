package storage

import (
	"math/big"
	"path/filepath"
	"testing"

	bolt "go.etcd.io/bbolt"

	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T, self [20]byte) *Ledger {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "ledger.db"), 0o600, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ledger, err := OpenLedger(db, 18, self)
	require.NoError(t, err)
	return ledger
}

func TestLedgerDecimalsPersist(t *testing.T) {
	var self [20]byte
	self[19] = 0xEE
	ledger := openTestLedger(t, self)
	d, err := ledger.Decimals()
	require.NoError(t, err)
	require.Equal(t, uint8(18), d)
}

func TestLedgerTransferMovesFromEscrow(t *testing.T) {
	var self, beneficiary [20]byte
	self[19] = 0xEE
	beneficiary[19] = 0x01
	ledger := openTestLedger(t, self)

	require.NoError(t, ledger.Credit(self, big.NewInt(1000)))
	require.NoError(t, ledger.Transfer(beneficiary, big.NewInt(400)))

	selfBal, err := ledger.BalanceOf(self)
	require.NoError(t, err)
	require.Equal(t, 0, big.NewInt(600).Cmp(selfBal))

	benBal, err := ledger.BalanceOf(beneficiary)
	require.NoError(t, err)
	require.Equal(t, 0, big.NewInt(400).Cmp(benBal))
}

func TestLedgerTransferRejectsInsufficientBalance(t *testing.T) {
	var self, beneficiary [20]byte
	self[19] = 0xEE
	beneficiary[19] = 0x01
	ledger := openTestLedger(t, self)

	err := ledger.Transfer(beneficiary, big.NewInt(1))
	require.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestLedgerCollectPaymentMovesBetweenArbitraryHolders(t *testing.T) {
	var payer, receiver [20]byte
	payer[19] = 0x07
	receiver[19] = 0x08
	ledger := openTestLedger(t, [20]byte{})

	require.NoError(t, ledger.Credit(payer, big.NewInt(100)))
	require.NoError(t, ledger.CollectPayment(payer, receiver, big.NewInt(60)))

	payerBal, err := ledger.BalanceOf(payer)
	require.NoError(t, err)
	require.Equal(t, 0, big.NewInt(40).Cmp(payerBal))

	receiverBal, err := ledger.BalanceOf(receiver)
	require.NoError(t, err)
	require.Equal(t, 0, big.NewInt(60).Cmp(receiverBal))
}
