package merkle

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func decimalAmount(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func TestLeafDeterministic(t *testing.T) {
	var beneficiary [20]byte
	beneficiary[19] = 0x01
	l1 := Leaf(beneficiary, 1622551248, 0, 2630000, 1, true, decimalAmount(20000))
	l2 := Leaf(beneficiary, 1622551248, 0, 2630000, 1, true, decimalAmount(20000))
	require.Equal(t, l1, l2)

	l3 := Leaf(beneficiary, 1622551248, 0, 2630000, 1, true, decimalAmount(30000))
	require.NotEqual(t, l1, l3)
}

func TestCombineSortedPairIsPositionAgnostic(t *testing.T) {
	var a, b [32]byte
	a[0] = 0x01
	b[0] = 0x02
	require.Equal(t, Combine(a, b), Combine(b, a))
}

func TestVerifyTwoLeafTree(t *testing.T) {
	var beneficiaryA, beneficiaryB [20]byte
	beneficiaryA[19] = 0x01
	beneficiaryB[19] = 0x02

	leafA := Leaf(beneficiaryA, 1000, 0, 7*86400, 1, true, decimalAmount(100))
	leafB := Leaf(beneficiaryB, 2000, 0, 7*86400, 1, true, decimalAmount(200))
	root := Combine(leafA, leafB)

	require.True(t, Verify([][32]byte{leafB}, leafA, root))
	require.True(t, Verify([][32]byte{leafA}, leafB, root))

	var wrongRoot [32]byte
	wrongRoot[0] = 0xff
	require.False(t, Verify([][32]byte{leafB}, leafA, wrongRoot))
}

func TestFingerprintDiffersFromLeaf(t *testing.T) {
	var beneficiary [20]byte
	beneficiary[19] = 0x09
	fp := Fingerprint(beneficiary, 1, 0, 7*86400, 1, false, decimalAmount(1))
	leaf := Leaf(beneficiary, 1, 0, 7*86400, 1, false, decimalAmount(1))
	require.NotEqual(t, fp, leaf, "fingerprint uses a single hash while the leaf double-hashes the same packing")
}
