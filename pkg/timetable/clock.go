package timetable

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	clockRangeRE = regexp.MustCompile(`(?i)^\s*(\d{1,2})h(\d{0,2})\s*-\s*(\d{1,2})h(\d{0,2})\s*$`)

	// Explicit override embedded in a subject cell, e.g.
	// "UE62 - Droit rural - J. MIR (9h-12h30)"
	embeddedRangeRE = regexp.MustCompile(`(?i)\(\s*(\d{1,2})h(\d{0,2})\s*-\s*(\d{1,2})h(\d{0,2})\s*\)`)
)

// ParseClock converts a timetable clock value ("9h30", "09h", "9:30") to
// minutes from midnight.
func ParseClock(s string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, "h", ":")
	hh, mm, found := strings.Cut(v, ":")
	if !found {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	if mm == "" {
		mm = "00"
	}
	hours, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes from midnight in timetable style ("09h30")
func FormatClock(min int) string {
	return fmt.Sprintf("%02dh%02d", min/60, min%60)
}

// ParseClockRange parses a header cell like "9h-12h30" into start and end
// minutes. ok is false when the cell is not a clock range.
func ParseClockRange(s string) (startMin, endMin int, ok bool) {
	return rangeFromMatch(clockRangeRE.FindStringSubmatch(s))
}

// ExtractClockRange pulls an explicit "(9h-12h30)" range out of a subject
// cell. Sessions carrying their own times override the header column.
func ExtractClockRange(subject string) (startMin, endMin int, ok bool) {
	return rangeFromMatch(embeddedRangeRE.FindStringSubmatch(subject))
}

func rangeFromMatch(m []string) (int, int, bool) {
	if m == nil {
		return 0, 0, false
	}
	start, err := ParseClock(m[1] + "h" + m[2])
	if err != nil {
		return 0, 0, false
	}
	end, err := ParseClock(m[3] + "h" + m[4])
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}
