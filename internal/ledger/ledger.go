// Package ledger maintains the historical warehouse stocks table: an
// ordered, append-only sequence of daily rows with derived change
// columns, persisted as a flat CSV.
//
// Derived columns are computed against two reference rows: the
// "previous" row (the last row in the ledger) for daily changes, and
// the "period start" anchor (the first row in the ledger) for
// month-to-date changes. The anchor is whatever row happens to be
// first at append time; it is never recomputed retroactively.
package ledger

import (
	"math"
	"strings"

	"github.com/comexwatch/comextrack/pkg/models"
)

// Header is the fixed 13-column layout of the master CSV. Order and
// spelling are load-bearing: existing files from years of daily runs
// use exactly these names.
var Header = []string{
	"Activity Date",
	"Registered",
	"Regi. Daily Change",
	"Reg. Monthly Change",
	"Reg. Monthly Change (In Millions)",
	"Eligible",
	"Total",
	"Daily Change",
	"Month Change",
	"Month Change (in Millions)",
	"% Registered of Total",
	"Total (In Millions)",
	"% of Start",
}

const million = 1_000_000

// Ledger holds the in-memory rows between a whole-file read and a
// whole-file rewrite. It is not safe for concurrent use; the design
// assumes one run at a time, enforced by the scheduler invoking it.
type Ledger struct {
	rows []models.Row
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Len returns the number of rows.
func (l *Ledger) Len() int { return len(l.rows) }

// Rows returns the rows in append order.
func (l *Ledger) Rows() []models.Row { return l.rows }

// First returns the period-start anchor row.
func (l *Ledger) First() (models.Row, bool) {
	if len(l.rows) == 0 {
		return models.Row{}, false
	}
	return l.rows[0], true
}

// Last returns the most recently appended row.
func (l *Ledger) Last() (models.Row, bool) {
	if len(l.rows) == 0 {
		return models.Row{}, false
	}
	return l.rows[len(l.rows)-1], true
}

// HasDate reports whether the given activity date matches the last
// row's date, compared with surrounding whitespace trimmed. Only the
// last row is consulted; this is the duplicate-run guard, not an
// index.
func (l *Ledger) HasDate(date string) bool {
	last, ok := l.Last()
	if !ok {
		return false
	}
	return strings.TrimSpace(last.ActivityDate) == strings.TrimSpace(date)
}

// Append computes the derived columns for the snapshot against the
// current anchor and previous rows and appends the resulting row. On
// an empty ledger both references are the snapshot itself, so the
// first row has zero deltas by construction.
//
// Append does not check for duplicate dates; callers decide that with
// HasDate before committing to an append.
func (l *Ledger) Append(snap models.Snapshot) models.Row {
	initialReg, initialTotal := snap.Registered, snap.Total
	lastReg, lastTotal := snap.Registered, snap.Total
	if len(l.rows) > 0 {
		first := l.rows[0]
		last := l.rows[len(l.rows)-1]
		initialReg, initialTotal = first.Registered, first.Total
		lastReg, lastTotal = last.Registered, last.Total
	}

	row := models.Row{
		ActivityDate:       snap.ActivityDate,
		Registered:         models.Round3(snap.Registered),
		RegDailyChange:     models.Round3(snap.Registered - lastReg),
		RegMonthlyChange:   models.Round3(snap.Registered - initialReg),
		RegMonthlyChangeMM: models.Round3((snap.Registered - initialReg) / million),
		Eligible:           models.Round3(snap.Eligible),
		Total:              models.Round3(snap.Total),
		DailyChange:        models.Round3(snap.Total - lastTotal),
		MonthChange:        models.Round3(snap.Total - initialTotal),
		MonthChangeMM:      models.Round3((snap.Total - initialTotal) / million),
		TotalMM:            math.Round(snap.Total / million),
	}

	// Zero denominators store a bare number instead of a percentage
	// string, same as every historical file.
	if snap.Total != 0 {
		row.PctRegisteredOfTotal = models.FormatPercent(snap.Registered/snap.Total*100, 2)
	} else {
		row.PctRegisteredOfTotal = models.NumberCell(0)
	}
	if initialTotal != 0 {
		row.PctOfStart = models.FormatPercent(snap.Total/initialTotal*100, 0)
	} else {
		row.PctOfStart = models.NumberCell(1.0)
	}

	l.rows = append(l.rows, row)
	return row
}
