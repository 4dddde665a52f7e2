package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tmercier/roomplan/pkg/csvio"
	"github.com/tmercier/roomplan/pkg/db"
	"github.com/tmercier/roomplan/pkg/timetable"
)

// ImportStore defines the database operations needed for timetable imports
type ImportStore interface {
	GetPlanYear(ctx context.Context, name string) (db.PlanYear, error)
	GetCohorts(ctx context.Context, planYear string) ([]db.Cohort, error)
	UpsertCohort(ctx context.Context, cohort db.Cohort) error
	InsertSessions(ctx context.Context, sessions []db.Session) error
}

// TimetableGridClient fetches a timetable grid from a remote spreadsheet
type TimetableGridClient interface {
	GetGrid(spreadsheetID, tab string) ([][]string, error)
}

// ImportResult contains the outcome of a timetable import
type ImportResult struct {
	Cohort    string
	Sessions  int
	NewCohort bool
}

// ImportTimetable parses a timetable CSV export and stores its sessions.
// The cohort name is derived from the filename unless given explicitly.
func ImportTimetable(ctx context.Context, store ImportStore, logger *zap.Logger, planYear, path, cohortName string) (*ImportResult, error) {
	if cohortName == "" {
		cohortName = timetable.CohortNameFromFilename(path)
	}

	logger.Info("Importing timetable",
		zap.String("path", path),
		zap.String("cohort", cohortName),
		zap.String("plan_year", planYear))

	rows, err := csvio.ReadGrid(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timetable: %w", err)
	}

	return importGrid(ctx, store, logger, planYear, rows, cohortName)
}

// ImportTimetableSheet runs the same import pipeline against a Google
// Sheets tab. The tab name doubles as the cohort name unless given
// explicitly.
func ImportTimetableSheet(ctx context.Context, store ImportStore, client TimetableGridClient, logger *zap.Logger, planYear, spreadsheetID, tab, cohortName string) (*ImportResult, error) {
	if cohortName == "" {
		cohortName = tab
	}

	logger.Info("Importing timetable from spreadsheet",
		zap.String("spreadsheet_id", spreadsheetID),
		zap.String("tab", tab),
		zap.String("cohort", cohortName))

	rows, err := client.GetGrid(spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timetable grid: %w", err)
	}

	return importGrid(ctx, store, logger, planYear, rows, cohortName)
}

func importGrid(ctx context.Context, store ImportStore, logger *zap.Logger, planYear string, rows [][]string, cohortName string) (*ImportResult, error) {
	year, err := store.GetPlanYear(ctx, planYear)
	if err != nil {
		return nil, fmt.Errorf("failed to check plan year: %w", err)
	}
	if year.Locked {
		return nil, fmt.Errorf("plan year %s is locked", planYear)
	}

	sessions := timetable.ParseGrid(rows, cohortName)
	cohort := timetable.NormalizeCohortName(cohortName)

	result := &ImportResult{Cohort: cohort, Sessions: len(sessions)}

	if len(sessions) == 0 {
		logger.Warn("No sessions found in timetable", zap.String("cohort", cohort))
		return result, nil
	}

	newCohort, err := registerCohort(ctx, store, planYear, cohort)
	if err != nil {
		return nil, err
	}
	result.NewCohort = newCohort

	records := make([]db.Session, len(sessions))
	for i, s := range sessions {
		records[i] = db.Session{
			ID:       uuid.New().String(),
			PlanYear: planYear,
			Date:     s.Date,
			StartMin: s.StartMin,
			EndMin:   s.EndMin,
			Cohort:   s.Cohort,
			Subject:  s.Subject,
		}
	}

	if err := store.InsertSessions(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to insert sessions: %w", err)
	}

	logger.Info("Timetable imported",
		zap.String("cohort", cohort),
		zap.Int("sessions", len(records)),
		zap.Bool("new_cohort", newCohort))

	return result, nil
}

// registerCohort ensures the cohort exists so its headcount can be filled
// in later. New cohorts start at headcount 0; their sessions still get a
// room, just the smallest one, until the headcount is corrected.
func registerCohort(ctx context.Context, store ImportStore, planYear, name string) (bool, error) {
	cohorts, err := store.GetCohorts(ctx, planYear)
	if err != nil {
		return false, fmt.Errorf("failed to fetch cohorts: %w", err)
	}

	for _, c := range cohorts {
		if c.Name == name {
			return false, nil
		}
	}

	if err := store.UpsertCohort(ctx, db.Cohort{PlanYear: planYear, Name: name}); err != nil {
		return false, fmt.Errorf("failed to register cohort: %w", err)
	}
	return true, nil
}
