package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/comexwatch/comextrack/pkg/models"
)

// Load reads the master CSV into a ledger. A missing file is not an
// error; the first run starts from an empty ledger.
func Load(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	// Header line first; an empty file also counts as empty ledger.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return New(), nil
		}
		return nil, fmt.Errorf("read ledger header: %w", err)
	}

	l := New()
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ledger row: %w", err)
		}
		row, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: %w", l.Len()+1, err)
		}
		l.rows = append(l.rows, row)
	}
	return l, nil
}

// Save rewrites the whole ledger to path. The write is in place, not
// transactional; a failure mid-write leaves whatever made it to disk.
func (l *Ledger) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ledger: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write ledger header: %w", err)
	}
	for _, row := range l.rows {
		if err := w.Write(formatRow(row)); err != nil {
			return fmt.Errorf("write ledger row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush ledger: %w", err)
	}
	return nil
}

func parseRow(record []string) (models.Row, error) {
	if len(record) != len(Header) {
		return models.Row{}, fmt.Errorf("want %d columns, got %d", len(Header), len(record))
	}

	var row models.Row
	var err error
	row.ActivityDate = record[0]

	floats := []struct {
		dst *float64
		idx int
	}{
		{&row.Registered, 1},
		{&row.RegDailyChange, 2},
		{&row.RegMonthlyChange, 3},
		{&row.RegMonthlyChangeMM, 4},
		{&row.Eligible, 5},
		{&row.Total, 6},
		{&row.DailyChange, 7},
		{&row.MonthChange, 8},
		{&row.MonthChangeMM, 9},
		{&row.TotalMM, 11},
	}
	for _, fld := range floats {
		*fld.dst, err = strconv.ParseFloat(record[fld.idx], 64)
		if err != nil {
			return models.Row{}, fmt.Errorf("column %q: %w", Header[fld.idx], err)
		}
	}

	row.PctRegisteredOfTotal, err = models.ParsePercentCell(record[10])
	if err != nil {
		return models.Row{}, fmt.Errorf("column %q: %w", Header[10], err)
	}
	row.PctOfStart, err = models.ParsePercentCell(record[12])
	if err != nil {
		return models.Row{}, fmt.Errorf("column %q: %w", Header[12], err)
	}
	return row, nil
}

func formatRow(row models.Row) []string {
	return []string{
		row.ActivityDate,
		models.FormatNumber(row.Registered),
		models.FormatNumber(row.RegDailyChange),
		models.FormatNumber(row.RegMonthlyChange),
		models.FormatNumber(row.RegMonthlyChangeMM),
		models.FormatNumber(row.Eligible),
		models.FormatNumber(row.Total),
		models.FormatNumber(row.DailyChange),
		models.FormatNumber(row.MonthChange),
		models.FormatNumber(row.MonthChangeMM),
		row.PctRegisteredOfTotal.String(),
		models.FormatNumber(row.TotalMM),
		row.PctOfStart.String(),
	}
}
