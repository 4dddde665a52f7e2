package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tmercier/roomplan/pkg/db"
	"github.com/tmercier/roomplan/pkg/timetable"
)

// SetCohortRequirements records a cohort's headcount and accessibility
// requirement, creating the cohort if it does not exist yet.
func SetCohortRequirements(ctx context.Context, store db.CohortStore, logger *zap.Logger, planYear, name string, headcount int, requiresAccessible bool) (db.Cohort, error) {
	if headcount < 0 {
		return db.Cohort{}, fmt.Errorf("headcount must not be negative, got %d", headcount)
	}

	cohort := db.Cohort{
		PlanYear:           planYear,
		Name:               timetable.NormalizeCohortName(name),
		Headcount:          headcount,
		RequiresAccessible: requiresAccessible,
	}
	if cohort.Name == "" {
		return db.Cohort{}, fmt.Errorf("cohort name must not be empty")
	}

	if err := store.UpsertCohort(ctx, cohort); err != nil {
		return db.Cohort{}, fmt.Errorf("failed to save cohort: %w", err)
	}

	logger.Info("Cohort requirements saved",
		zap.String("cohort", cohort.Name),
		zap.Int("headcount", headcount),
		zap.Bool("requires_accessible", requiresAccessible))

	return cohort, nil
}

// RemoveCohort deletes a cohort's record. Its sessions are untouched; the
// allocator just treats the cohort as headcount 0 afterwards.
func RemoveCohort(ctx context.Context, store db.CohortStore, logger *zap.Logger, planYear, name string) error {
	cohort := timetable.NormalizeCohortName(name)
	if cohort == "" {
		return fmt.Errorf("cohort name must not be empty")
	}

	if err := store.DeleteCohort(ctx, planYear, cohort); err != nil {
		return fmt.Errorf("failed to delete cohort: %w", err)
	}

	logger.Info("Cohort removed", zap.String("cohort", cohort))
	return nil
}
