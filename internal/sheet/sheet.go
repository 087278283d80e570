// Package sheet extracts the daily figures from the published
// warehouse stocks workbook.
//
// The upstream report is a legacy BIFF .xls file with a fixed layout:
// a banner block containing "Activity Date: M/D/YYYY" followed by
// per-warehouse rows and three summary rows whose totals sit in a
// fixed column. Extraction is positional: find the label row, read
// the fixed value column.
package sheet

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/extrame/xls"

	"github.com/comexwatch/comextrack/pkg/models"
)

const (
	labelRegistered = "TOTAL REGISTERED"
	labelEligible   = "TOTAL ELIGIBLE"
	labelCombined   = "COMBINED TOTAL"

	// valueColumn is the 0-indexed column the report places its summary
	// totals in. The layout has been stable for years, but nothing here
	// checks that the column is semantically right for the matched row.
	valueColumn = 7

	dateMarker = "Activity Date:"
)

var dateRe = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)

// ErrNoActivityDate is returned when no row carries the activity date
// marker. The downstream duplicate check and archive name both need
// the date, so this is an error rather than an empty value.
var ErrNoActivityDate = errors.New("no activity date found in workbook")

// Grid is a worksheet flattened to string cells, row-major.
type Grid [][]string

// Extractor reads snapshots out of workbook files.
type Extractor struct {
	charset string
}

// NewExtractor returns an extractor for UTF-8 encoded workbooks.
func NewExtractor() *Extractor {
	return &Extractor{charset: "utf-8"}
}

// ExtractFile opens the workbook at path and extracts the snapshot
// from its first sheet.
func (e *Extractor) ExtractFile(path string) (models.Snapshot, error) {
	grid, err := e.readGrid(path)
	if err != nil {
		return models.Snapshot{}, err
	}
	return Extract(grid)
}

// readGrid flattens sheet 0 of the workbook into string cells.
func (e *Extractor) readGrid(path string) (Grid, error) {
	wb, closer, err := xls.OpenWithCloser(path, e.charset)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer closer.Close()

	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	grid := make(Grid, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		// Col is indexed by absolute column, so walking from zero keeps
		// the positional value column aligned across sparse rows.
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// Extract pulls the activity date and the three summary totals out of
// a flattened grid.
func Extract(grid Grid) (models.Snapshot, error) {
	date, err := activityDate(grid)
	if err != nil {
		return models.Snapshot{}, err
	}
	return models.Snapshot{
		ActivityDate: date,
		Registered:   valueFor(grid, labelRegistered),
		Eligible:     valueFor(grid, labelEligible),
		Total:        valueFor(grid, labelCombined),
	}, nil
}

// activityDate scans rows top to bottom for the date marker and
// returns the first date-shaped match. Scanning stops at the first row
// that carries the marker.
func activityDate(grid Grid) (string, error) {
	for _, cells := range grid {
		joined := strings.Join(cells, " ")
		if !strings.Contains(joined, dateMarker) {
			continue
		}
		if m := dateRe.FindString(joined); m != "" {
			return m, nil
		}
	}
	return "", ErrNoActivityDate
}

// valueFor finds the first row where any cell contains label
// (case-insensitive) and parses the number at the fixed value column.
// A missing label or an unparseable cell yields 0 rather than an
// error: a report that drops a summary row records a zero observation,
// same as it always has.
func valueFor(grid Grid, label string) float64 {
	needle := strings.ToLower(label)
	for _, cells := range grid {
		matched := false
		for _, cell := range cells {
			if strings.Contains(strings.ToLower(cell), needle) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if valueColumn >= len(cells) {
			return 0
		}
		v, err := cleanNumber(cells[valueColumn])
		if err != nil {
			return 0
		}
		return models.Round3(v)
	}
	return 0
}

// cleanNumber strips thousands separators, currency symbols, and
// surrounding whitespace before parsing.
func cleanNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSpace(s)
	return strconv.ParseFloat(s, 64)
}
