package db

import "context"

// SessionStore defines the interface for session database operations
type SessionStore interface {
	GetSessions(ctx context.Context, planYear string) ([]Session, error)
	InsertSessions(ctx context.Context, sessions []Session) error
	// UpdateSessionRooms sets the room of each listed session by ID; an
	// empty room value clears the assignment.
	UpdateSessionRooms(ctx context.Context, rooms map[string]string) error
	DeleteSessions(ctx context.Context, planYear string) error
}

// CohortStore defines the interface for cohort database operations
type CohortStore interface {
	GetCohorts(ctx context.Context, planYear string) ([]Cohort, error)
	UpsertCohort(ctx context.Context, cohort Cohort) error
	DeleteCohort(ctx context.Context, planYear, name string) error
}

// PlanYearStore defines the interface for plan year database operations
type PlanYearStore interface {
	// GetPlanYear returns the stored year, or an unlocked default when the
	// year has never been touched.
	GetPlanYear(ctx context.Context, name string) (PlanYear, error)
	SetYearLock(ctx context.Context, name string, locked bool) error
}
