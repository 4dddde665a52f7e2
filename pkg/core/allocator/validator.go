package allocator

import (
	"fmt"
	"slices"

	"github.com/tmercier/roomplan/pkg/core/model"
)

// Validation check names
const (
	CheckDoubleBooking = "double-booking"
	CheckCapacity      = "capacity"
	CheckAccessibility = "accessibility"
	CheckUnknownRoom   = "unknown-room"
)

// AssignmentViolation describes a constraint broken by the current room
// assignments
type AssignmentViolation struct {
	Check       string
	Slot        Slot
	Room        string
	Description string
}

// CheckAssignments re-derives room usage from an annotated session set and
// reports double bookings, capacity shortfalls, and accessibility
// mismatches. Unassigned sessions are never violations. Manual overrides can
// break any of these on purpose, so callers report violations rather than
// fail on them.
func CheckAssignments(sessions []*model.Session, rooms []model.Room, cohorts map[string]model.Cohort) []AssignmentViolation {
	roomsByCode := make(map[string]model.Room, len(rooms))
	for _, r := range rooms {
		roomsByCode[r.Code] = r
	}

	type usage struct {
		slot    Slot
		room    string
		groups  map[GroupKey]bool
		cohorts []string
	}

	// Keyed by (slot, room code); order tracks first appearance so the
	// report is stable across runs.
	byBooking := make(map[Slot]map[string]*usage)
	order := make([]*usage, 0)

	for _, s := range sessions {
		if s.Room == "" {
			continue
		}
		slot := Slot{Date: s.Date, Period: PeriodOf(s.StartMin)}
		if byBooking[slot] == nil {
			byBooking[slot] = make(map[string]*usage)
		}
		u := byBooking[slot][s.Room]
		if u == nil {
			u = &usage{slot: slot, room: s.Room, groups: make(map[GroupKey]bool)}
			byBooking[slot][s.Room] = u
			order = append(order, u)
		}
		u.groups[GroupKey{Date: s.Date, StartMin: s.StartMin, EndMin: s.EndMin, Subject: s.Subject}] = true
		if !slices.Contains(u.cohorts, s.Cohort) {
			u.cohorts = append(u.cohorts, s.Cohort)
		}
	}

	violations := []AssignmentViolation{}
	for _, u := range order {
		if len(u.groups) > 1 {
			violations = append(violations, AssignmentViolation{
				Check:       CheckDoubleBooking,
				Slot:        u.slot,
				Room:        u.room,
				Description: fmt.Sprintf("room %s committed to %d different session groups on %s %s", u.room, len(u.groups), u.slot.Date, u.slot.Period),
			})
		}

		room, known := roomsByCode[u.room]
		if !known {
			violations = append(violations, AssignmentViolation{
				Check:       CheckUnknownRoom,
				Slot:        u.slot,
				Room:        u.room,
				Description: fmt.Sprintf("room %s is not in the catalog", u.room),
			})
			continue
		}

		total := 0
		for _, name := range u.cohorts {
			cohort := cohorts[name]
			total += cohort.Headcount
			if cohort.RequiresAccessible && !room.Accessible {
				violations = append(violations, AssignmentViolation{
					Check:       CheckAccessibility,
					Slot:        u.slot,
					Room:        u.room,
					Description: fmt.Sprintf("cohort %s requires an accessible room but %s is not accessible", name, u.room),
				})
			}
		}
		if room.Capacity < total {
			violations = append(violations, AssignmentViolation{
				Check:       CheckCapacity,
				Slot:        u.slot,
				Room:        u.room,
				Description: fmt.Sprintf("room %s seats %d but holds %d on %s %s", u.room, room.Capacity, total, u.slot.Date, u.slot.Period),
			})
		}
	}

	return violations
}
