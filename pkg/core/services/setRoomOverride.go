package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tmercier/roomplan/pkg/db"
	"github.com/tmercier/roomplan/pkg/timetable"
)

// OverrideStore defines the database operations needed for manual overrides
type OverrideStore interface {
	GetSessions(ctx context.Context, planYear string) ([]db.Session, error)
	UpdateSessionRooms(ctx context.Context, rooms map[string]string) error
}

// SetRoomOverride manually assigns a room to every session of a cohort on a
// date, or clears the assignment when room is empty. Overrides are not
// constraint-checked; the next allocation run reports any collision they
// cause.
func SetRoomOverride(ctx context.Context, store OverrideStore, logger *zap.Logger, planYear, date, cohortName, room string) (int, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return 0, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	cohort := timetable.NormalizeCohortName(cohortName)

	records, err := store.GetSessions(ctx, planYear)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch sessions: %w", err)
	}

	updates := make(map[string]string)
	for _, r := range records {
		if r.Date == date && timetable.NormalizeCohortName(r.Cohort) == cohort {
			updates[r.ID] = room
		}
	}

	if len(updates) == 0 {
		return 0, fmt.Errorf("no sessions for cohort %s on %s", cohort, date)
	}

	if err := store.UpdateSessionRooms(ctx, updates); err != nil {
		return 0, fmt.Errorf("failed to save override: %w", err)
	}

	logger.Info("Room override applied",
		zap.String("cohort", cohort),
		zap.String("date", date),
		zap.String("room", room),
		zap.Int("sessions", len(updates)))

	return len(updates), nil
}
