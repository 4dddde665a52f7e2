package allocator

import "github.com/tmercier/roomplan/pkg/core/model"

// Slot identifies one half-day on one date. A room may be committed to at
// most one session group per slot.
type Slot struct {
	Date   string
	Period Period
}

// RoomLedger records which room codes are already committed in each slot.
// It lives for a single allocation run and is never persisted.
type RoomLedger map[Slot]map[string]bool

// NewRoomLedger creates an empty ledger
func NewRoomLedger() RoomLedger {
	return make(RoomLedger)
}

// Reserve commits a room code in the given slot
func (l RoomLedger) Reserve(slot Slot, code string) {
	rooms, ok := l[slot]
	if !ok {
		rooms = make(map[string]bool)
		l[slot] = rooms
	}
	rooms[code] = true
}

// InUse reports whether a room code is already committed in the given slot
func (l RoomLedger) InUse(slot Slot, code string) bool {
	return l[slot][code]
}

// LedgerFromSessions builds a ledger seeded with the rooms already held by
// assigned sessions, so a rerun over a partially allocated dataset cannot
// hand out a room that an earlier run committed.
func LedgerFromSessions(sessions []*model.Session) RoomLedger {
	ledger := NewRoomLedger()
	for _, s := range sessions {
		if s.Room == "" {
			continue
		}
		ledger.Reserve(Slot{Date: s.Date, Period: PeriodOf(s.StartMin)}, s.Room)
	}
	return ledger
}
