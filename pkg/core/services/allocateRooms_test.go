package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tmercier/roomplan/pkg/core/allocator"
	"github.com/tmercier/roomplan/pkg/core/model"
	"github.com/tmercier/roomplan/pkg/db"
)

var testRooms = []model.Room{
	{Code: "R1", Capacity: 15, Accessible: false},
	{Code: "R2", Capacity: 40, Accessible: true},
}

func TestAllocateRooms_AssignsAndSaves(t *testing.T) {
	var saved map[string]string
	store := &mockStore{
		getSessions: func(ctx context.Context, planYear string) ([]db.Session, error) {
			return []db.Session{
				{ID: "s1", PlanYear: planYear, Date: "2026-02-02", StartMin: 9 * 60, EndMin: 12 * 60, Cohort: "BTS SIO 1", Subject: "Droit"},
				{ID: "s2", PlanYear: planYear, Date: "2026-02-02", StartMin: 9 * 60, EndMin: 12 * 60, Cohort: "BTS SIO 2", Subject: "Droit"},
			}, nil
		},
		getCohorts: func(ctx context.Context, planYear string) ([]db.Cohort, error) {
			return []db.Cohort{
				{PlanYear: planYear, Name: "BTS SIO 1", Headcount: 14},
				{PlanYear: planYear, Name: "BTS SIO 2", Headcount: 12},
			}, nil
		},
		updateSessionRooms: func(ctx context.Context, rooms map[string]string) error {
			saved = rooms
			return nil
		},
	}

	result, err := AllocateRooms(context.Background(), store, zap.NewNop(), "2025-2026", testRooms, false)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 0, result.PreviouslyAssigned)
	assert.Equal(t, 2, result.Assigned)
	assert.Empty(t, result.Unassigned)
	assert.Empty(t, result.Violations)

	// Both groups share the one room large enough for 26 students
	assert.Equal(t, map[string]string{"s1": "R2", "s2": "R2"}, saved)
}

func TestAllocateRooms_KeepsExistingAssignments(t *testing.T) {
	var saved map[string]string
	store := &mockStore{
		getSessions: func(ctx context.Context, planYear string) ([]db.Session, error) {
			return []db.Session{
				{ID: "s1", Date: "2026-02-02", StartMin: 9 * 60, EndMin: 12 * 60, Cohort: "BTS SIO 1", Subject: "Droit", Room: "R2"},
				{ID: "s2", Date: "2026-02-02", StartMin: 9 * 60, EndMin: 12 * 60, Cohort: "BTS SIO 2", Subject: "Compta"},
			}, nil
		},
		getCohorts: func(ctx context.Context, planYear string) ([]db.Cohort, error) {
			return []db.Cohort{
				{PlanYear: planYear, Name: "BTS SIO 1", Headcount: 14},
				{PlanYear: planYear, Name: "BTS SIO 2", Headcount: 12},
			}, nil
		},
		updateSessionRooms: func(ctx context.Context, rooms map[string]string) error {
			saved = rooms
			return nil
		},
	}

	result, err := AllocateRooms(context.Background(), store, zap.NewNop(), "2025-2026", testRooms, false)

	require.NoError(t, err)
	assert.Equal(t, 1, result.PreviouslyAssigned)
	assert.Equal(t, 1, result.Assigned)

	// The pre-assigned session is untouched; R2 stays reserved so the
	// other cohort lands in R1
	assert.Equal(t, map[string]string{"s2": "R1"}, saved)
}

func TestAllocateRooms_DryRunSavesNothing(t *testing.T) {
	store := &mockStore{
		getSessions: func(ctx context.Context, planYear string) ([]db.Session, error) {
			return []db.Session{
				{ID: "s1", Date: "2026-02-02", StartMin: 9 * 60, EndMin: 12 * 60, Cohort: "BTS SIO 1", Subject: "Droit"},
			}, nil
		},
		updateSessionRooms: func(ctx context.Context, rooms map[string]string) error {
			t.Fatal("dry run must not persist assignments")
			return nil
		},
	}

	result, err := AllocateRooms(context.Background(), store, zap.NewNop(), "2025-2026", testRooms, true)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Assigned)
}

func TestAllocateRooms_ReportsOverrideViolations(t *testing.T) {
	store := &mockStore{
		getSessions: func(ctx context.Context, planYear string) ([]db.Session, error) {
			// Two cohorts manually forced into the same room
			return []db.Session{
				{ID: "s1", Date: "2026-02-02", StartMin: 9 * 60, EndMin: 12 * 60, Cohort: "BTS SIO 1", Subject: "Droit", Room: "R1"},
				{ID: "s2", Date: "2026-02-02", StartMin: 9 * 60, EndMin: 12 * 60, Cohort: "BTS SIO 2", Subject: "Compta", Room: "R1"},
			}, nil
		},
	}

	result, err := AllocateRooms(context.Background(), store, zap.NewNop(), "2025-2026", testRooms, false)

	require.NoError(t, err)
	require.NotEmpty(t, result.Violations)
	assert.Equal(t, allocator.CheckDoubleBooking, result.Violations[0].Check)
}

func TestAllocateRooms_UnassignableSessionReported(t *testing.T) {
	store := &mockStore{
		getSessions: func(ctx context.Context, planYear string) ([]db.Session, error) {
			return []db.Session{
				{ID: "s1", Date: "2026-02-02", StartMin: 9 * 60, EndMin: 12 * 60, Cohort: "BTS SIO 1", Subject: "Droit"},
			}, nil
		},
		getCohorts: func(ctx context.Context, planYear string) ([]db.Cohort, error) {
			return []db.Cohort{{PlanYear: planYear, Name: "BTS SIO 1", Headcount: 100}}, nil
		},
		updateSessionRooms: func(ctx context.Context, rooms map[string]string) error {
			t.Fatal("nothing should be saved")
			return nil
		},
	}

	result, err := AllocateRooms(context.Background(), store, zap.NewNop(), "2025-2026", testRooms, false)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Assigned)
	require.Len(t, result.Unassigned, 1)
	assert.Equal(t, "s1", result.Unassigned[0].ID)
}
