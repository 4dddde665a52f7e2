package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tmercier/roomplan/pkg/core/allocator"
	"github.com/tmercier/roomplan/pkg/core/model"
	"github.com/tmercier/roomplan/pkg/db"
	"github.com/tmercier/roomplan/pkg/timetable"
)

// AllocateStore defines the database operations needed for room allocation
type AllocateStore interface {
	GetSessions(ctx context.Context, planYear string) ([]db.Session, error)
	GetCohorts(ctx context.Context, planYear string) ([]db.Cohort, error)
	UpdateSessionRooms(ctx context.Context, rooms map[string]string) error
}

// AllocateResult contains the outcome of a room allocation run
type AllocateResult struct {
	Total              int
	PreviouslyAssigned int
	Assigned           int
	Unassigned         []*model.Session
	Violations         []allocator.AssignmentViolation
}

// AllocateRooms assigns rooms to every unassigned session of the plan year.
// Existing assignments are kept and their rooms stay reserved. With dryRun
// set the assignments are computed and reported but not saved.
func AllocateRooms(ctx context.Context, store AllocateStore, logger *zap.Logger, planYear string, rooms []model.Room, dryRun bool) (*AllocateResult, error) {
	logger.Debug("Starting room allocation",
		zap.String("plan_year", planYear),
		zap.Int("rooms", len(rooms)),
		zap.Bool("dry_run", dryRun))

	records, err := store.GetSessions(ctx, planYear)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}

	cohortRecords, err := store.GetCohorts(ctx, planYear)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cohorts: %w", err)
	}

	cohorts := make(map[string]model.Cohort, len(cohortRecords))
	for _, c := range cohortRecords {
		name := timetable.NormalizeCohortName(c.Name)
		cohorts[name] = model.Cohort{
			Name:               name,
			Headcount:          c.Headcount,
			RequiresAccessible: c.RequiresAccessible,
		}
	}

	previouslyAssigned := 0
	sessions := make([]*model.Session, len(records))
	for i, r := range records {
		if r.Room != "" {
			previouslyAssigned++
		}
		sessions[i] = &model.Session{
			ID:       r.ID,
			Date:     r.Date,
			StartMin: r.StartMin,
			EndMin:   r.EndMin,
			Cohort:   timetable.NormalizeCohortName(r.Cohort),
			Subject:  r.Subject,
			Room:     r.Room,
		}
	}

	outcome := allocator.Allocate(allocator.AllocationConfig{
		Sessions: sessions,
		Rooms:    rooms,
		Cohorts:  cohorts,
	})

	logger.Info("Allocation completed",
		zap.Int("assigned", outcome.Assigned),
		zap.Int("unassigned", len(outcome.Unassigned)))

	violations := allocator.CheckAssignments(sessions, rooms, cohorts)
	for _, v := range violations {
		logger.Warn("Assignment violation",
			zap.String("check", v.Check),
			zap.String("date", v.Slot.Date),
			zap.String("period", string(v.Slot.Period)),
			zap.String("room", v.Room),
			zap.String("description", v.Description))
	}

	updates := make(map[string]string)
	for i, s := range sessions {
		if records[i].Room == "" && s.Room != "" {
			updates[s.ID] = s.Room
		}
	}

	if dryRun {
		logger.Info("Dry run - assignments not saved", zap.Int("pending", len(updates)))
	} else if len(updates) > 0 {
		if err := store.UpdateSessionRooms(ctx, updates); err != nil {
			return nil, fmt.Errorf("failed to save assignments: %w", err)
		}
		logger.Info("Assignments saved", zap.Int("count", len(updates)))
	}

	return &AllocateResult{
		Total:              len(sessions),
		PreviouslyAssigned: previouslyAssigned,
		Assigned:           outcome.Assigned,
		Unassigned:         outcome.Unassigned,
		Violations:         violations,
	}, nil
}
