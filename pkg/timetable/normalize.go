package timetable

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var schoolYearRE = regexp.MustCompile(`\b\d{4}\s*-\s*\d{4}\b`)

// Filename noise that must not leak into a cohort name
var filenameNoise = []string{
	"EMPLOIS DU TEMPS",
	"EMPLOI DU TEMPS",
	"PLANNING",
}

// FoldAccents strips diacritics ("FÉVR." -> "FEVR.") so month lookups and
// name comparisons survive the inconsistent encodings of exported
// spreadsheets.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// NormalizeCohortName canonicalizes a cohort name: upper case, parentheses
// stripped, whitespace collapsed. Timetables and requirement sources spell
// the same cohort inconsistently; this is the join key between them.
func NormalizeCohortName(name string) string {
	name = strings.ToUpper(name)
	name = strings.ReplaceAll(name, "(", "")
	name = strings.ReplaceAll(name, ")", "")
	return strings.Join(strings.Fields(name), " ")
}

// CohortNameFromFilename derives a cohort name from a timetable filename,
// e.g. "BTS ACSE 2 - Emploi du temps 2025-2026.csv" -> "BTS ACSE 2".
func CohortNameFromFilename(filename string) string {
	base := filepath.Base(filename)
	name := strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
	for _, noise := range filenameNoise {
		name = strings.ReplaceAll(name, noise, "")
	}
	name = schoolYearRE.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.Join(strings.Fields(name), " ")
}
