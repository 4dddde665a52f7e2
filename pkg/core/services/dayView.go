package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/tmercier/roomplan/pkg/db"
	"github.com/tmercier/roomplan/pkg/timetable"
)

// Display windows for the half-day columns of the day view. A session
// appears in a column when its time range overlaps the window, so a
// 12:00-14:00 session shows in both.
const (
	morningWindowStart   = 8*60 + 30
	morningWindowEnd     = 12*60 + 30
	afternoonWindowStart = 13*60 + 30
	afternoonWindowEnd   = 17*60 + 30
)

// DayViewStore defines the database operations needed for the day view
type DayViewStore interface {
	GetSessions(ctx context.Context, planYear string) ([]db.Session, error)
}

// DayEntry is one cohort's line in a half-day column
type DayEntry struct {
	Cohort   string
	Subject  string
	Room     string
	StartMin int
	EndMin   int
}

// DayViewResult contains the sessions of one day split into half-day columns
type DayViewResult struct {
	Date      time.Time
	IsToday   bool
	Morning   []DayEntry
	Afternoon []DayEntry
}

// DayView returns the teaching day at dateArg, or when dateArg is empty
// today's sessions, falling back to the next day that has any.
func DayView(ctx context.Context, store DayViewStore, logger *zap.Logger, planYear, dateArg string, today time.Time) (*DayViewResult, error) {
	records, err := store.GetSessions(ctx, planYear)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}

	byDate := make(map[string][]db.Session)
	for _, r := range records {
		byDate[r.Date] = append(byDate[r.Date], r)
	}

	todayStr := today.Format("2006-01-02")

	var target string
	if dateArg != "" {
		parsed, err := time.Parse("2006-01-02", dateArg)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateArg)
		}
		target = parsed.Format("2006-01-02")
		if len(byDate[target]) == 0 {
			return nil, fmt.Errorf("no sessions on %s", target)
		}
	} else if len(byDate[todayStr]) > 0 {
		target = todayStr
	} else {
		dates := make([]string, 0, len(byDate))
		for date := range byDate {
			if date > todayStr {
				dates = append(dates, date)
			}
		}
		if len(dates) == 0 {
			return nil, fmt.Errorf("no upcoming sessions")
		}
		sort.Strings(dates)
		target = dates[0]
	}

	logger.Debug("Building day view", zap.String("date", target))

	date, err := time.Parse("2006-01-02", target)
	if err != nil {
		return nil, fmt.Errorf("malformed session date %q: %w", target, err)
	}

	result := &DayViewResult{Date: date, IsToday: target == todayStr}
	result.Morning = columnEntries(byDate[target], morningWindowStart, morningWindowEnd)
	result.Afternoon = columnEntries(byDate[target], afternoonWindowStart, afternoonWindowEnd)
	return result, nil
}

// columnEntries keeps one entry per cohort, the first one overlapping the
// window in stored order, so a cohort with two morning slots shows once.
func columnEntries(sessions []db.Session, windowStart, windowEnd int) []DayEntry {
	seen := map[string]bool{}
	var entries []DayEntry
	for _, s := range sessions {
		if s.StartMin >= windowEnd || s.EndMin <= windowStart {
			continue
		}
		cohort := timetable.NormalizeCohortName(s.Cohort)
		if seen[cohort] {
			continue
		}
		seen[cohort] = true
		entries = append(entries, DayEntry{
			Cohort:   cohort,
			Subject:  s.Subject,
			Room:     s.Room,
			StartMin: s.StartMin,
			EndMin:   s.EndMin,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Cohort < entries[j].Cohort })
	return entries
}
