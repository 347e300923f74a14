package exercises

import (
	"errors"
	"fmt"
)

// ErrNoData indicates the source grid held no header or no data rows.
var ErrNoData = errors.New("exercises: no data found in source")

// headerName is the one required column. Header cells are matched verbatim
// against the spreadsheet's own column names — no normalization.
const headerName = "Name"

// recordSetters is the allow-list of recognized spreadsheet headers. Columns
// outside this list are ignored rather than stored.
var recordSetters = map[string]func(*Record, string){
	"Machine_type":            func(r *Record, v string) { r.MachineType = &v },
	"Level":                   func(r *Record, v string) { r.Level = &v },
	"Page":                    func(r *Record, v string) { r.Page = &v },
	"Machine_setup":           func(r *Record, v string) { r.MachineSetup = &v },
	"Exercise_move":           func(r *Record, v string) { r.ExerciseMove = &v },
	"Function_target_muscles": func(r *Record, v string) { r.FunctionTargetMuscles = &v },
	"Strengthen":              func(r *Record, v string) { r.Strengthen = &v },
	"Stretch":                 func(r *Record, v string) { r.Stretch = &v },
	"Cues":                    func(r *Record, v string) { r.Cues = &v },
	"Modifications":           func(r *Record, v string) { r.Modifications = &v },
	"Contraindications":       func(r *Record, v string) { r.Contraindications = &v },
	"Peel_backs":              func(r *Record, v string) { r.PeelBacks = &v },
	"Repetitions":             func(r *Record, v string) { r.Repetitions = &v },
	"Image_URL":               func(r *Record, v string) { r.ImageURL = &v },
	"Video_URL":               func(r *Record, v string) { r.VideoURL = &v },
	"Series":                  func(r *Record, v string) { r.Series = &v },
}

// MapGrid converts a raw header/row grid into partial exercise records.
// Row 0 names the fields; each later row maps cell i to header i. A row's
// order index is its 1-based position among all data rows, so a skipped row
// still consumes its slot. Rows without a Name cell are dropped and reported
// in the returned soft-error list.
func MapGrid(grid [][]string) ([]Record, []string, error) {
	if len(grid) < 2 {
		return nil, nil, ErrNoData
	}

	headers := grid[0]
	dataRows := grid[1:]

	records := make([]Record, 0, len(dataRows))
	var softErrors []string

	for rowIndex, row := range dataRows {
		if len(row) == 0 {
			continue
		}

		fields := make(map[string]string, len(headers))
		for columnIndex, header := range headers {
			if columnIndex >= len(row) {
				break
			}
			if cell := row[columnIndex]; cell != "" {
				fields[header] = cell
			}
		}

		name, ok := fields[headerName]
		if !ok || name == "" {
			softErrors = append(softErrors, fmt.Sprintf("row %d has no name", rowIndex+1))
			continue
		}

		record := Record{Name: name, Order: rowIndex + 1}
		for header, value := range fields {
			if setter, known := recordSetters[header]; known {
				setter(&record, value)
			}
		}
		records = append(records, record)
	}

	return records, softErrors, nil
}
