package rpc

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/blackelite/vestd/crypto"
	"github.com/blackelite/vestd/internal/vesting"
)

func parseAmount(raw string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("amount required")
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("amount must be a non-negative base-10 integer")
	}
	return amount, nil
}

func parseHex32(raw string) ([32]byte, error) {
	var out [32]byte
	cleaned := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if len(cleaned) != 64 {
		return out, fmt.Errorf("expected 32 bytes hex-encoded")
	}
	decoded, err := hex.DecodeString(cleaned)
	if err != nil {
		return out, err
	}
	copy(out[:], decoded)
	return out, nil
}

func parseScheduleID(raw string) (vesting.ScheduleID, error) {
	b, err := parseHex32(raw)
	return vesting.ScheduleID(b), err
}

func parseAddress(raw string) ([20]byte, error) {
	addr, err := crypto.DecodeAddress(strings.TrimSpace(raw))
	if err != nil {
		return [20]byte{}, err
	}
	return addr.Array(), nil
}

func parseProof(raw []string) ([][32]byte, error) {
	out := make([][32]byte, len(raw))
	for i, node := range raw {
		b, err := parseHex32(node)
		if err != nil {
			return nil, fmt.Errorf("proof[%d]: %w", i, err)
		}
		out[i] = b
	}
	return out, nil
}
