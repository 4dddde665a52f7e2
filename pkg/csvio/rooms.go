package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/tmercier/roomplan/pkg/core/model"
)

// roomRow mirrors one line of the room catalog CSV
type roomRow struct {
	Code       string `csv:"code"`
	Capacity   int    `csv:"capacity"`
	Accessible string `csv:"accessible"`
}

// LoadRooms reads the room catalog CSV and returns it sorted ascending by
// capacity, ties keeping file order. The accessible column accepts the
// usual spreadsheet spellings (YES/OUI/TRUE/1); anything else means not
// accessible. Columns: code, capacity, accessible.
func LoadRooms(path string) ([]model.Room, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read room catalog: %w", err)
	}

	content := stripBOM(string(data))
	delim := sniffDelimiter(content)

	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = delim
		r.TrimLeadingSpace = true
		return r
	})

	rows := []*roomRow{}
	if err := gocsv.UnmarshalString(content, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse room catalog %s: %w", path, err)
	}

	rooms := make([]model.Room, 0, len(rows))
	for _, row := range rows {
		code := strings.TrimSpace(row.Code)
		if code == "" {
			continue
		}
		rooms = append(rooms, model.Room{
			Code:       code,
			Capacity:   row.Capacity,
			Accessible: isAffirmative(row.Accessible),
		})
	}

	slices.SortStableFunc(rooms, func(a, b model.Room) int {
		return a.Capacity - b.Capacity
	})

	return rooms, nil
}

func isAffirmative(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OUI", "YES", "TRUE", "1", "Y":
		return true
	}
	return false
}
