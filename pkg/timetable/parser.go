package timetable

import (
	"fmt"
	"strings"
	"time"

	"github.com/tmercier/roomplan/pkg/core/model"
)

// French month abbreviations as found in exported timetable headers, keyed
// after accent folding ("FÉVR." -> "FEVR.").
var months = map[string]time.Month{
	"JANV.": time.January, "JAN.": time.January,
	"FEV.": time.February, "FEVR.": time.February,
	"MARS":  time.March,
	"AVR.":  time.April,
	"MAI":   time.May,
	"JUIN":  time.June,
	"JUIL.": time.July,
	"AOUT":  time.August,
	"SEPT.": time.September, "SEPTE.": time.September,
	"OCT.": time.October,
	"NOV.": time.November,
	"DEC.": time.December,
}

// Calendar entries that are not teaching sessions and get no room
var nonTeachingMarkers = []string{"ENTREPRISE", "REUNION", "JOURNEE"}

// timeColumn binds a grid column to the clock range its header declares
type timeColumn struct {
	index    int
	startMin int
	endMin   int
}

// ParseGrid converts a raw timetable grid (one cohort's exported sheet) into
// session records. The grid layout is: a header row whose cells from the
// fifth column onward hold clock ranges ("9h-12h30"), then one row per
// teaching day with day / month abbreviation / year in columns two to four
// and subjects under the clock columns. Rows that do not fit are skipped,
// never reported: exports are full of decorative rows. Returned sessions
// have no ID and no room.
func ParseGrid(rows [][]string, cohortName string) []*model.Session {
	sessions := []*model.Session{}

	columns := findTimeColumns(rows)
	if len(columns) == 0 {
		return sessions
	}

	cohort := NormalizeCohortName(cohortName)

	for _, row := range rows {
		date, ok := rowDate(row)
		if !ok {
			continue
		}

		for _, col := range columns {
			if col.index >= len(row) {
				continue
			}
			subject := strings.TrimSpace(row[col.index])
			if subject == "" || isNonTeaching(subject) {
				continue
			}

			startMin, endMin := col.startMin, col.endMin
			if s, e, found := ExtractClockRange(subject); found {
				startMin, endMin = s, e
			}

			sessions = append(sessions, &model.Session{
				Date:     date,
				StartMin: startMin,
				EndMin:   endMin,
				Cohort:   cohort,
				Subject:  subject,
			})
		}
	}

	return sessions
}

// findTimeColumns locates the header row and maps its clock-range cells to
// their column positions. The header is the first row with at least three
// parseable clock ranges past the date columns.
func findTimeColumns(rows [][]string) []timeColumn {
	for _, row := range rows {
		if len(row) <= 4 {
			continue
		}
		columns := []timeColumn{}
		for i := 4; i < len(row); i++ {
			if start, end, ok := ParseClockRange(row[i]); ok {
				columns = append(columns, timeColumn{index: i, startMin: start, endMin: end})
			}
		}
		if len(columns) >= 3 {
			return columns
		}
	}
	return nil
}

// rowDate extracts and validates the date of a timetable row. The day
// number in column two doubles as the marker of a data row.
func rowDate(row []string) (string, bool) {
	if len(row) < 5 {
		return "", false
	}

	day := strings.TrimSpace(row[1])
	if day == "" || !isDigits(day) {
		return "", false
	}

	monthText := FoldAccents(strings.ToUpper(strings.TrimSpace(row[2])))
	month, ok := months[monthText]
	if !ok {
		return "", false
	}

	year := strings.TrimSpace(row[3])
	if len(day) == 1 {
		day = "0" + day
	}

	// Round-trip through time.Parse rejects impossible dates such as a
	// day 31 under a 30-day month column.
	candidate := fmt.Sprintf("%s-%02d-%s", year, int(month), day)
	parsed, err := time.Parse("2006-01-02", candidate)
	if err != nil {
		return "", false
	}
	return parsed.Format("2006-01-02"), true
}

func isNonTeaching(subject string) bool {
	folded := FoldAccents(strings.ToUpper(subject))
	for _, marker := range nonTeachingMarkers {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
