package postgres

import (
	"context"
	"fmt"

	"github.com/tmercier/roomplan/pkg/db"
)

// GetCohorts retrieves all cohorts of a plan year
func (d *DB) GetCohorts(ctx context.Context, planYear string) ([]db.Cohort, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT plan_year, name, headcount, requires_accessible
		FROM cohort
		WHERE plan_year = $1
		ORDER BY name
	`, planYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query cohorts: %w", err)
	}
	defer rows.Close()

	var cohorts []db.Cohort
	for rows.Next() {
		var c db.Cohort
		if err := rows.Scan(&c.PlanYear, &c.Name, &c.Headcount, &c.RequiresAccessible); err != nil {
			return nil, fmt.Errorf("failed to scan cohort: %w", err)
		}
		cohorts = append(cohorts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cohorts: %w", err)
	}

	return cohorts, nil
}

// UpsertCohort inserts or updates a cohort's requirements
func (d *DB) UpsertCohort(ctx context.Context, cohort db.Cohort) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO cohort (plan_year, name, headcount, requires_accessible)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (plan_year, name)
		DO UPDATE SET headcount = EXCLUDED.headcount, requires_accessible = EXCLUDED.requires_accessible
	`, cohort.PlanYear, cohort.Name, cohort.Headcount, cohort.RequiresAccessible)
	if err != nil {
		return fmt.Errorf("failed to upsert cohort: %w", err)
	}
	return nil
}

// DeleteCohort removes a cohort from a plan year
func (d *DB) DeleteCohort(ctx context.Context, planYear, name string) error {
	if _, err := d.pool.Exec(ctx, `DELETE FROM cohort WHERE plan_year = $1 AND name = $2`, planYear, name); err != nil {
		return fmt.Errorf("failed to delete cohort: %w", err)
	}
	return nil
}
