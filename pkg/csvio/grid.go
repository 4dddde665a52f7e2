package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// ReadGrid reads a raw timetable CSV into a cell grid, trimming every cell.
// Exported timetables come with either comma or semicolon delimiters and a
// UTF-8 BOM, both of which are handled here so the parser never sees them.
func ReadGrid(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timetable file: %w", err)
	}

	content := stripBOM(string(data))

	r := csv.NewReader(strings.NewReader(content))
	r.Comma = sniffDelimiter(content)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse timetable file %s: %w", path, err)
	}

	for _, row := range records {
		for i, cell := range row {
			row[i] = strings.TrimSpace(cell)
		}
	}

	return records, nil
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}

// sniffDelimiter guesses the delimiter from the first line: French locale
// spreadsheet exports use semicolons, everything else commas.
func sniffDelimiter(content string) rune {
	firstLine, _, _ := strings.Cut(content, "\n")
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}
