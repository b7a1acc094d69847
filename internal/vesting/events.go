package vesting

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"github.com/blackelite/vestd/internal/events"
)

// Event type names, mirroring the reference creator engine's convention of
// one flat string constant per emitted event (see native/creator/events.go
// in the teacher repository).
const (
	EventScheduleCreated   = "vesting.schedule_created"
	EventScheduleReleased  = "vesting.schedule_released"
	EventScheduleRevoked   = "vesting.schedule_revoked"
	EventScheduleClaimed   = "vesting.schedule_claimed"
	EventRootRotated       = "vesting.root_rotated"
	EventWithdraw          = "vesting.withdraw"
	EventPaused            = "vesting.paused"
	EventUnpaused          = "vesting.unpaused"
	EventAdminHandoverBgn  = "vesting.admin_handover_begun"
	EventAdminHandoverAcc  = "vesting.admin_handover_accepted"
	EventAdminHandoverCncl = "vesting.admin_handover_cancelled"
)

func hexAddr(addr [20]byte) string {
	return "0x" + hex.EncodeToString(addr[:])
}

func hexID(id ScheduleID) string {
	return "0x" + hex.EncodeToString(id[:])
}

func emit(e events.Emitter, typ string, attrs map[string]string) {
	if e == nil {
		return
	}
	e.Emit(events.Wrap(&events.Record{Type: typ, Attributes: attrs}))
}

func emitScheduleCreated(e events.Emitter, id ScheduleID, s Schedule) {
	emit(e, EventScheduleCreated, map[string]string{
		"schedule_id": hexID(id),
		"beneficiary": hexAddr(s.Beneficiary),
		"start":       strconv.FormatInt(s.Start, 10),
		"cliff":       strconv.FormatInt(s.CliffAbsolute, 10),
		"duration":    strconv.FormatInt(s.Duration, 10),
		"amount":      s.AmountTotal.String(),
		"revokable":   strconv.FormatBool(s.Revokable),
	})
}

func emitScheduleReleased(e events.Emitter, id ScheduleID, beneficiary [20]byte, amount *big.Int) {
	emit(e, EventScheduleReleased, map[string]string{
		"schedule_id": hexID(id),
		"beneficiary": hexAddr(beneficiary),
		"amount":      amount.String(),
	})
}

func emitScheduleRevoked(e events.Emitter, id ScheduleID, refund *big.Int) {
	emit(e, EventScheduleRevoked, map[string]string{
		"schedule_id": hexID(id),
		"refund":      refund.String(),
	})
}

func emitScheduleClaimed(e events.Emitter, id ScheduleID, beneficiary [20]byte, paid *big.Int) {
	attrs := map[string]string{
		"schedule_id": hexID(id),
		"beneficiary": hexAddr(beneficiary),
	}
	if paid != nil {
		attrs["paid"] = paid.String()
	}
	emit(e, EventScheduleClaimed, attrs)
}

func emitRootRotated(e events.Emitter, root [32]byte) {
	emit(e, EventRootRotated, map[string]string{
		"root": "0x" + hex.EncodeToString(root[:]),
	})
}

func emitWithdraw(e events.Emitter, to [20]byte, amount *big.Int) {
	emit(e, EventWithdraw, map[string]string{
		"to":     hexAddr(to),
		"amount": amount.String(),
	})
}
