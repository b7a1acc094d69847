package rpc

import (
	"encoding/hex"
	"errors"

	"github.com/blackelite/vestd/internal/vesting"
)

var errUnknownRole = errors.New("rpc: role must be \"admin\" or \"schedule_creator\"")

func hexID(id vesting.ScheduleID) string {
	return "0x" + hex.EncodeToString(id[:])
}

func hex32(b [32]byte) string {
	return "0x" + hex.EncodeToString(b[:])
}
