// Package merkle implements the leaf encoding, sorted-pair combine, and
// proof verification used by the claim gate (SPEC_FULL.md §4.G). The hash
// function is Keccak-256, bit-identical to the off-chain proof generator,
// so the packing here follows the same tight big-endian field layout the
// reference state-keying helpers use (see core/state/claimable.go's
// claimableStorageKey in the teacher repository).
package merkle

import (
	"bytes"
	"encoding/binary"
	"math/big"

	"github.com/blackelite/vestd/crypto"
)

// Leaf computes the double-Keccak256 leaf for a schedule tuple under a
// given beneficiary, per SPEC_FULL.md §4.G:
//
//	leaf = H(H(beneficiary || start || cliffOffset || duration || sliceSeconds || revokable || amount))
//
// The double hash mitigates second-preimage confusion between leaves and
// internal nodes.
func Leaf(beneficiary [20]byte, start, cliffOffset, duration int64, sliceSeconds uint8, revokable bool, amount *big.Int) [32]byte {
	inner := pack(beneficiary, start, cliffOffset, duration, sliceSeconds, revokable, amount)
	first := crypto.Keccak256(inner)
	second := crypto.Keccak256(first)
	var out [32]byte
	copy(out[:], second)
	return out
}

// Fingerprint computes the claim-registry key for a schedule tuple under a
// given beneficiary, per SPEC_FULL.md §3. It uses the same canonical
// packing as Leaf, but a single (not double) hash, since the registry key
// only needs collision resistance, not second-preimage hardening against a
// two-level tree.
func Fingerprint(beneficiary [20]byte, start, cliffOffset, duration int64, sliceSeconds uint8, revokable bool, amount *big.Int) [32]byte {
	inner := pack(beneficiary, start, cliffOffset, duration, sliceSeconds, revokable, amount)
	digest := crypto.Keccak256(inner)
	var out [32]byte
	copy(out[:], digest)
	return out
}

func pack(beneficiary [20]byte, start, cliffOffset, duration int64, sliceSeconds uint8, revokable bool, amount *big.Int) []byte {
	buf := make([]byte, 0, 20+8+8+8+1+1+32)
	buf = append(buf, beneficiary[:]...)
	buf = appendInt64(buf, start)
	buf = appendInt64(buf, cliffOffset)
	buf = appendInt64(buf, duration)
	buf = append(buf, sliceSeconds)
	if revokable {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	amt := amount
	if amt == nil {
		amt = big.NewInt(0)
	}
	var amtBytes [32]byte
	amt.FillBytes(amtBytes[:])
	buf = append(buf, amtBytes[:]...)
	return buf
}

func appendInt64(buf []byte, v int64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	return append(buf, tmp[:]...)
}

// Combine computes the sorted-pair parent of two child nodes:
// H(min(a,b) || max(a,b)). Sorting makes proofs position-agnostic — the
// caller does not need to track left/right orientation.
func Combine(a, b [32]byte) [32]byte {
	first, second := a, b
	if bytes.Compare(a[:], b[:]) > 0 {
		first, second = b, a
	}
	combined := make([]byte, 0, 64)
	combined = append(combined, first[:]...)
	combined = append(combined, second[:]...)
	digest := crypto.Keccak256(combined)
	var out [32]byte
	copy(out[:], digest)
	return out
}

// Verify folds proof against leaf by repeatedly applying Combine with the
// next sibling, and accepts iff the terminal value equals root.
func Verify(proof [][32]byte, leaf, root [32]byte) bool {
	current := leaf
	for _, sibling := range proof {
		current = Combine(current, sibling)
	}
	return current == root
}
