package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tmercier/roomplan/pkg/db"
)

// GetPlanYear returns the stored year, or an unlocked default when the year
// has never been touched.
func (d *DB) GetPlanYear(ctx context.Context, name string) (db.PlanYear, error) {
	year := db.PlanYear{Name: name}

	err := d.pool.QueryRow(ctx, `SELECT name, locked FROM plan_year WHERE name = $1`, name).
		Scan(&year.Name, &year.Locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return year, nil
	}
	if err != nil {
		return year, fmt.Errorf("failed to query plan year: %w", err)
	}

	return year, nil
}

// SetYearLock locks or unlocks a plan year
func (d *DB) SetYearLock(ctx context.Context, name string, locked bool) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO plan_year (name, locked)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET locked = EXCLUDED.locked
	`, name, locked)
	if err != nil {
		return fmt.Errorf("failed to set year lock: %w", err)
	}
	return nil
}
