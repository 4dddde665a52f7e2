package allocator

import (
	"slices"

	"github.com/tmercier/roomplan/pkg/core/model"
)

// AllocationConfig contains the inputs for one allocation run
type AllocationConfig struct {
	// Sessions is the full session set. Sessions that already hold a room
	// keep it; only unassigned sessions receive one.
	Sessions []*model.Session

	// Rooms is the room catalog. Allocate sorts it ascending by capacity;
	// equal capacities keep catalog order so runs are reproducible.
	Rooms []model.Room

	// Cohorts supplies per-cohort headcount and accessibility requirements,
	// keyed by cohort name. A cohort missing from the map counts as
	// headcount 0 with no accessibility requirement.
	Cohorts map[string]model.Cohort
}

// AllocationOutcome reports the result of an allocation run
type AllocationOutcome struct {
	// Assigned is the number of sessions that received a room in this run
	Assigned int

	// Unassigned contains the sessions no qualifying room could be found for
	Unassigned []*model.Session

	// Ledger is the final room usage per (date, half-day) slot
	Ledger RoomLedger
}

// Allocate assigns rooms to every unassigned session in cfg.Sessions,
// mutating them in place. For each group of simultaneous identical sessions
// it first tries a single shared room large enough for the combined distinct
// cohorts; only when none qualifies does each session fall back to a room of
// its own. Rooms are scanned smallest first so large rooms are not wasted on
// small groups. Sessions with no qualifying room are left unassigned; that
// is an expected outcome, not an error.
func Allocate(cfg AllocationConfig) *AllocationOutcome {
	outcome := &AllocationOutcome{
		Unassigned: []*model.Session{},
		Ledger:     LedgerFromSessions(cfg.Sessions),
	}

	if len(cfg.Rooms) == 0 {
		for _, s := range cfg.Sessions {
			if s.Room == "" {
				outcome.Unassigned = append(outcome.Unassigned, s)
			}
		}
		return outcome
	}

	rooms := make([]model.Room, len(cfg.Rooms))
	copy(rooms, cfg.Rooms)
	slices.SortStableFunc(rooms, func(a, b model.Room) int {
		return a.Capacity - b.Capacity
	})

	pending := make([]*model.Session, 0, len(cfg.Sessions))
	for _, s := range cfg.Sessions {
		if s.Room == "" {
			pending = append(pending, s)
		}
	}

	groups, keys := GroupSessions(pending)

	for _, key := range keys {
		group := groups[key]
		slot := Slot{Date: key.Date, Period: PeriodOf(key.StartMin)}

		// A cohort appearing through several sessions of the group still
		// only occupies one set of seats.
		counted := make(map[string]bool)
		total := 0
		needsAccessible := false
		for _, s := range group {
			if counted[s.Cohort] {
				continue
			}
			counted[s.Cohort] = true
			cohort := cfg.Cohorts[s.Cohort]
			total += cohort.Headcount
			if cohort.RequiresAccessible {
				needsAccessible = true
			}
		}

		// Attempt one shared room for the whole group first
		if shared := findRoom(rooms, outcome.Ledger, slot, total, needsAccessible); shared != "" {
			for _, s := range group {
				s.Room = shared
				outcome.Assigned++
			}
			outcome.Ledger.Reserve(slot, shared)
			continue
		}

		// No room fits the combined group: each session gets its own room
		// against its own cohort's requirements. Sessions are independent
		// here, one failing does not block the others.
		for _, s := range group {
			cohort := cfg.Cohorts[s.Cohort]
			code := findRoom(rooms, outcome.Ledger, slot, cohort.Headcount, cohort.RequiresAccessible)
			if code == "" {
				outcome.Unassigned = append(outcome.Unassigned, s)
				continue
			}
			s.Room = code
			outcome.Ledger.Reserve(slot, code)
			outcome.Assigned++
		}
	}

	return outcome
}

// findRoom returns the code of the smallest free room satisfying the
// capacity and accessibility requirements in the given slot, or "" when
// none qualifies. rooms must already be sorted ascending by capacity.
func findRoom(rooms []model.Room, ledger RoomLedger, slot Slot, headcount int, needsAccessible bool) string {
	for _, room := range rooms {
		if needsAccessible && !room.Accessible {
			continue
		}
		if room.Capacity < headcount {
			continue
		}
		if ledger.InUse(slot, room.Code) {
			continue
		}
		return room.Code
	}
	return ""
}
