package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tmercier/roomplan/pkg/db"
)

type mockStore struct {
	getPlanYear        func(ctx context.Context, name string) (db.PlanYear, error)
	getCohorts         func(ctx context.Context, planYear string) ([]db.Cohort, error)
	upsertCohort       func(ctx context.Context, cohort db.Cohort) error
	deleteCohort       func(ctx context.Context, planYear, name string) error
	getSessions        func(ctx context.Context, planYear string) ([]db.Session, error)
	insertSessions     func(ctx context.Context, sessions []db.Session) error
	updateSessionRooms func(ctx context.Context, rooms map[string]string) error
	deleteSessions     func(ctx context.Context, planYear string) error
	setYearLock        func(ctx context.Context, name string, locked bool) error
}

func (m *mockStore) GetPlanYear(ctx context.Context, name string) (db.PlanYear, error) {
	if m.getPlanYear == nil {
		return db.PlanYear{Name: name}, nil
	}
	return m.getPlanYear(ctx, name)
}

func (m *mockStore) GetCohorts(ctx context.Context, planYear string) ([]db.Cohort, error) {
	if m.getCohorts == nil {
		return nil, nil
	}
	return m.getCohorts(ctx, planYear)
}

func (m *mockStore) UpsertCohort(ctx context.Context, cohort db.Cohort) error {
	if m.upsertCohort == nil {
		return nil
	}
	return m.upsertCohort(ctx, cohort)
}

func (m *mockStore) DeleteCohort(ctx context.Context, planYear, name string) error {
	if m.deleteCohort == nil {
		return nil
	}
	return m.deleteCohort(ctx, planYear, name)
}

func (m *mockStore) GetSessions(ctx context.Context, planYear string) ([]db.Session, error) {
	if m.getSessions == nil {
		return nil, nil
	}
	return m.getSessions(ctx, planYear)
}

func (m *mockStore) InsertSessions(ctx context.Context, sessions []db.Session) error {
	if m.insertSessions == nil {
		return nil
	}
	return m.insertSessions(ctx, sessions)
}

func (m *mockStore) UpdateSessionRooms(ctx context.Context, rooms map[string]string) error {
	if m.updateSessionRooms == nil {
		return nil
	}
	return m.updateSessionRooms(ctx, rooms)
}

func (m *mockStore) DeleteSessions(ctx context.Context, planYear string) error {
	if m.deleteSessions == nil {
		return nil
	}
	return m.deleteSessions(ctx, planYear)
}

func (m *mockStore) SetYearLock(ctx context.Context, name string, locked bool) error {
	if m.setYearLock == nil {
		return nil
	}
	return m.setYearLock(ctx, name, locked)
}

const timetableCSV = "EMPLOI DU TEMPS\n" +
	";;;;9h-12h30;13h30-17h;17h-18h\n" +
	"Lun;2;févr.;2026;Droit;Compta;\n" +
	"Mar;3;févr.;2026;RÉUNION ÉQUIPE;Anglais;\n" +
	"Mer;4;févr.;2026;;Maths (14h-16h);\n"

func writeTimetable(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(timetableCSV), 0o644))
	return path
}

func TestImportTimetable_StoresParsedSessions(t *testing.T) {
	var inserted []db.Session
	var registered []db.Cohort
	store := &mockStore{
		upsertCohort: func(ctx context.Context, cohort db.Cohort) error {
			registered = append(registered, cohort)
			return nil
		},
		insertSessions: func(ctx context.Context, sessions []db.Session) error {
			inserted = sessions
			return nil
		},
	}

	path := writeTimetable(t, "Emploi du temps BTS SIO 1 2025-2026.csv")
	result, err := ImportTimetable(context.Background(), store, zap.NewNop(), "2025-2026", path, "")

	require.NoError(t, err)
	assert.Equal(t, "BTS SIO 1", result.Cohort)
	assert.Equal(t, 4, result.Sessions)
	assert.True(t, result.NewCohort)

	require.Len(t, registered, 1)
	assert.Equal(t, "2025-2026", registered[0].PlanYear)
	assert.Equal(t, "BTS SIO 1", registered[0].Name)
	assert.Equal(t, 0, registered[0].Headcount)

	require.Len(t, inserted, 4)
	for _, s := range inserted {
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, "2025-2026", s.PlanYear)
		assert.Equal(t, "BTS SIO 1", s.Cohort)
		assert.Empty(t, s.Room)
	}
	assert.Equal(t, "2026-02-02", inserted[0].Date)
	assert.Equal(t, "Droit", inserted[0].Subject)
	assert.Equal(t, 9*60, inserted[0].StartMin)
	assert.Equal(t, 12*60+30, inserted[0].EndMin)
}

func TestImportTimetable_EmbeddedClockRangeOverridesColumn(t *testing.T) {
	var inserted []db.Session
	store := &mockStore{
		insertSessions: func(ctx context.Context, sessions []db.Session) error {
			inserted = sessions
			return nil
		},
	}

	path := writeTimetable(t, "planning.csv")
	_, err := ImportTimetable(context.Background(), store, zap.NewNop(), "2025-2026", path, "CAP CUISINE")

	require.NoError(t, err)
	require.Len(t, inserted, 4)
	last := inserted[3]
	assert.Equal(t, "Maths (14h-16h)", last.Subject)
	assert.Equal(t, 14*60, last.StartMin)
	assert.Equal(t, 16*60, last.EndMin)
}

func TestImportTimetable_RefusesLockedYear(t *testing.T) {
	store := &mockStore{
		getPlanYear: func(ctx context.Context, name string) (db.PlanYear, error) {
			return db.PlanYear{Name: name, Locked: true}, nil
		},
		insertSessions: func(ctx context.Context, sessions []db.Session) error {
			t.Fatal("should not insert into a locked year")
			return nil
		},
	}

	path := writeTimetable(t, "planning.csv")
	_, err := ImportTimetable(context.Background(), store, zap.NewNop(), "2025-2026", path, "CAP CUISINE")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}

func TestImportTimetable_ExistingCohortNotReRegistered(t *testing.T) {
	store := &mockStore{
		getCohorts: func(ctx context.Context, planYear string) ([]db.Cohort, error) {
			return []db.Cohort{{PlanYear: planYear, Name: "CAP CUISINE", Headcount: 12}}, nil
		},
		upsertCohort: func(ctx context.Context, cohort db.Cohort) error {
			t.Fatal("should not overwrite an existing cohort")
			return nil
		},
	}

	path := writeTimetable(t, "planning.csv")
	result, err := ImportTimetable(context.Background(), store, zap.NewNop(), "2025-2026", path, "CAP CUISINE")

	require.NoError(t, err)
	assert.False(t, result.NewCohort)
}

func TestImportTimetable_EmptyGridInsertsNothing(t *testing.T) {
	store := &mockStore{
		insertSessions: func(ctx context.Context, sessions []db.Session) error {
			t.Fatal("should not insert an empty import")
			return nil
		},
	}

	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("Notes diverses\n;;;\n"), 0o644))

	result, err := ImportTimetable(context.Background(), store, zap.NewNop(), "2025-2026", path, "CAP CUISINE")

	require.NoError(t, err)
	assert.Equal(t, 0, result.Sessions)
}

func TestImportTimetable_MissingFile(t *testing.T) {
	_, err := ImportTimetable(context.Background(), &mockStore{}, zap.NewNop(), "2025-2026", "/nowhere/planning.csv", "CAP CUISINE")
	require.Error(t, err)
}

type mockGridClient struct {
	getGrid func(spreadsheetID, tab string) ([][]string, error)
}

func (m *mockGridClient) GetGrid(spreadsheetID, tab string) ([][]string, error) {
	return m.getGrid(spreadsheetID, tab)
}

func TestImportTimetableSheet_TabNameBecomesCohort(t *testing.T) {
	var inserted []db.Session
	store := &mockStore{
		insertSessions: func(ctx context.Context, sessions []db.Session) error {
			inserted = sessions
			return nil
		},
	}
	client := &mockGridClient{
		getGrid: func(spreadsheetID, tab string) ([][]string, error) {
			assert.Equal(t, "sheet-123", spreadsheetID)
			assert.Equal(t, "BTS SIO 2", tab)
			return [][]string{
				{"", "", "", "", "9h-12h30", "13h30-17h", "17h-18h"},
				{"Lun", "2", "févr.", "2026", "Droit", "", ""},
			}, nil
		},
	}

	result, err := ImportTimetableSheet(context.Background(), store, client, zap.NewNop(), "2025-2026", "sheet-123", "BTS SIO 2", "")

	require.NoError(t, err)
	assert.Equal(t, "BTS SIO 2", result.Cohort)
	require.Len(t, inserted, 1)
	assert.Equal(t, "BTS SIO 2", inserted[0].Cohort)
}

func TestImportTimetableSheet_ClientError(t *testing.T) {
	client := &mockGridClient{
		getGrid: func(spreadsheetID, tab string) ([][]string, error) {
			return nil, errors.New("quota exceeded")
		},
	}

	_, err := ImportTimetableSheet(context.Background(), &mockStore{}, client, zap.NewNop(), "2025-2026", "sheet-123", "BTS SIO 2", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}
