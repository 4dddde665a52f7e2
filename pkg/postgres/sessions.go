package postgres

import (
	"context"
	"fmt"

	"github.com/tmercier/roomplan/pkg/db"
)

// GetSessions retrieves all sessions of a plan year, ordered by date then
// start time then cohort so allocation runs see a stable input order.
func (d *DB) GetSessions(ctx context.Context, planYear string) ([]db.Session, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, plan_year, date, start_min, end_min, cohort, subject, room
		FROM session
		WHERE plan_year = $1
		ORDER BY date, start_min, cohort, subject
	`, planYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []db.Session
	for rows.Next() {
		var s db.Session
		var room *string
		if err := rows.Scan(&s.ID, &s.PlanYear, &s.Date, &s.StartMin, &s.EndMin, &s.Cohort, &s.Subject, &room); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if room != nil {
			s.Room = *room
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// InsertSessions inserts session records in one transaction
func (d *DB) InsertSessions(ctx context.Context, sessions []db.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range sessions {
		var room *string
		if s.Room != "" {
			room = &s.Room
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO session (id, plan_year, date, start_min, end_min, cohort, subject, room)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, s.ID, s.PlanYear, s.Date, s.StartMin, s.EndMin, s.Cohort, s.Subject, room)
		if err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateSessionRooms sets the room of each listed session by ID; an empty
// room value clears the assignment.
func (d *DB) UpdateSessionRooms(ctx context.Context, rooms map[string]string) error {
	if len(rooms) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for id, code := range rooms {
		var room *string
		if code != "" {
			room = &code
		}

		if _, err := tx.Exec(ctx, `UPDATE session SET room = $2 WHERE id = $1`, id, room); err != nil {
			return fmt.Errorf("failed to update session %s: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteSessions removes every session of a plan year
func (d *DB) DeleteSessions(ctx context.Context, planYear string) error {
	if _, err := d.pool.Exec(ctx, `DELETE FROM session WHERE plan_year = $1`, planYear); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}
