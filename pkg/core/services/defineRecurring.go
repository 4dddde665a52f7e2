package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/tmercier/roomplan/internal/config"
	"github.com/tmercier/roomplan/pkg/db"
	"github.com/tmercier/roomplan/pkg/timetable"
)

// RecurringResult contains the outcome of expanding recurring sessions
type RecurringResult struct {
	Entries  int
	Sessions int
}

// DefineRecurringSessions expands the configured recurrence rules into
// concrete dated sessions between the term bounds and stores them.
func DefineRecurringSessions(ctx context.Context, store ImportStore, cfg *config.Config, logger *zap.Logger) (*RecurringResult, error) {
	if len(cfg.RecurringSessions) == 0 {
		logger.Info("No recurring sessions configured")
		return &RecurringResult{}, nil
	}

	year, err := store.GetPlanYear(ctx, cfg.PlanYear)
	if err != nil {
		return nil, fmt.Errorf("failed to check plan year: %w", err)
	}
	if year.Locked {
		return nil, fmt.Errorf("plan year %s is locked", cfg.PlanYear)
	}

	termStart, err := time.Parse("2006-01-02", cfg.TermStart)
	if err != nil {
		return nil, fmt.Errorf("invalid term start date: %w", err)
	}
	termEnd, err := time.Parse("2006-01-02", cfg.TermEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid term end date: %w", err)
	}

	registered := map[string]bool{}
	var records []db.Session

	for i, rec := range cfg.RecurringSessions {
		rule, err := rrule.StrToRRule(rec.RRule)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule in recurringSessions[%d]: %w", i, err)
		}
		rule.DTStart(termStart)

		startMin, err := timetable.ParseClock(rec.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid start time in recurringSessions[%d]: %w", i, err)
		}
		endMin, err := timetable.ParseClock(rec.End)
		if err != nil {
			return nil, fmt.Errorf("invalid end time in recurringSessions[%d]: %w", i, err)
		}

		cohort := timetable.NormalizeCohortName(rec.Cohort)
		if !registered[cohort] {
			if _, err := registerCohort(ctx, store, cfg.PlanYear, cohort); err != nil {
				return nil, err
			}
			registered[cohort] = true
		}

		for _, occurrence := range rule.Between(termStart, termEnd, true) {
			records = append(records, db.Session{
				ID:       uuid.New().String(),
				PlanYear: cfg.PlanYear,
				Date:     occurrence.Format("2006-01-02"),
				StartMin: startMin,
				EndMin:   endMin,
				Cohort:   cohort,
				Subject:  rec.Subject,
			})
		}
	}

	if len(records) > 0 {
		if err := store.InsertSessions(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to insert sessions: %w", err)
		}
	}

	logger.Info("Recurring sessions expanded",
		zap.Int("entries", len(cfg.RecurringSessions)),
		zap.Int("sessions", len(records)))

	return &RecurringResult{
		Entries:  len(cfg.RecurringSessions),
		Sessions: len(records),
	}, nil
}
