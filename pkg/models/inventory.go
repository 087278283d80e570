package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Snapshot is one extracted observation from the daily COMEX silver
// warehouse stocks report. Figures are troy ounces.
type Snapshot struct {
	ActivityDate string  // as published, M/D/YYYY
	Registered   float64 // stock registered for delivery against futures
	Eligible     float64 // stock meeting storage standards, not registered
	Total        float64 // combined total as reported
}

// Row is one persisted ledger line: the day's snapshot plus the
// derived change columns.
type Row struct {
	ActivityDate         string
	Registered           float64
	RegDailyChange       float64
	RegMonthlyChange     float64
	RegMonthlyChangeMM   float64 // in millions
	Eligible             float64
	Total                float64
	DailyChange          float64
	MonthChange          float64
	MonthChangeMM        float64 // in millions
	PctRegisteredOfTotal Percent
	TotalMM              float64 // rounded to whole millions
	PctOfStart           Percent
}

// Round3 rounds to 3 decimal places, the precision every stored ounce
// figure carries.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// FormatNumber renders a float the way the historical ledger stores
// numbers: shortest decimal form, but whole values keep a ".0" so the
// column stays recognizably floating-point.
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Percent is a cell that is either a formatted percentage string or a
// bare number. The historical ledger mixes both in the same column
// (zero denominators produce bare numbers), and that inconsistency is
// preserved rather than unified so old and new files stay comparable.
type Percent struct {
	IsNumber bool
	Number   float64 // percent value, or the bare number when IsNumber
	Text     string  // exact cell text
}

// FormatPercent builds a formatted percentage cell. decimals 2 keeps
// two places ("59.87%", "60.0%"); decimals 0 rounds to a whole percent
// ("98%").
func FormatPercent(v float64, decimals int) Percent {
	var text string
	switch decimals {
	case 0:
		r := math.Round(v)
		text = strconv.FormatFloat(r, 'f', -1, 64) + "%"
		v = r
	default:
		v = math.Round(v*100) / 100
		text = FormatNumber(v) + "%"
	}
	return Percent{Number: v, Text: text}
}

// NumberCell builds a bare-number cell for the zero-denominator cases.
// Zero writes as a plain "0", any other value in float form, matching
// the two sentinel values found in historical files.
func NumberCell(v float64) Percent {
	text := "0"
	if v != 0 {
		text = FormatNumber(v)
	}
	return Percent{IsNumber: true, Number: v, Text: text}
}

// ParsePercentCell reads a stored cell back into its tagged form.
func ParsePercentCell(s string) (Percent, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		n, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return Percent{}, fmt.Errorf("parse percent cell %q: %w", s, err)
		}
		return Percent{Number: n, Text: s}, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Percent{}, fmt.Errorf("parse percent cell %q: %w", s, err)
	}
	return Percent{IsNumber: true, Number: n, Text: s}, nil
}

// String returns the exact cell text written to the ledger.
func (p Percent) String() string { return p.Text }
