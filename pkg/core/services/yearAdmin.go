package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tmercier/roomplan/pkg/db"
)

// YearAdminStore defines the database operations needed for plan year admin
type YearAdminStore interface {
	GetPlanYear(ctx context.Context, name string) (db.PlanYear, error)
	SetYearLock(ctx context.Context, name string, locked bool) error
	DeleteSessions(ctx context.Context, planYear string) error
}

// SetYearLock locks or unlocks a plan year. A locked year refuses imports
// and resets until unlocked again.
func SetYearLock(ctx context.Context, store YearAdminStore, logger *zap.Logger, planYear string, locked bool) error {
	if err := store.SetYearLock(ctx, planYear, locked); err != nil {
		return fmt.Errorf("failed to update year lock: %w", err)
	}

	logger.Info("Plan year lock updated",
		zap.String("plan_year", planYear),
		zap.Bool("locked", locked))
	return nil
}

// ResetImports deletes every session of the plan year, assignments
// included. Cohort records survive so headcounts need not be re-entered.
func ResetImports(ctx context.Context, store YearAdminStore, logger *zap.Logger, planYear string) error {
	year, err := store.GetPlanYear(ctx, planYear)
	if err != nil {
		return fmt.Errorf("failed to check plan year: %w", err)
	}
	if year.Locked {
		return fmt.Errorf("plan year %s is locked", planYear)
	}

	if err := store.DeleteSessions(ctx, planYear); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}

	logger.Info("Imports reset", zap.String("plan_year", planYear))
	return nil
}
