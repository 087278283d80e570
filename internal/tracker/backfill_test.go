package tracker

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/comexwatch/comextrack/internal/config"
	"github.com/comexwatch/comextrack/internal/ledger"
	"github.com/comexwatch/comextrack/pkg/models"
)

// pathExtractor maps workbook paths to canned snapshots.
type pathExtractor struct {
	snaps map[string]models.Snapshot
}

func (p *pathExtractor) ExtractFile(path string) (models.Snapshot, error) {
	return p.snaps[filepath.Base(path)], nil
}

func seedArchive(t *testing.T, cfg *config.Config, names ...string) {
	t.Helper()
	if err := os.MkdirAll(cfg.Archive.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(cfg.Archive.Dir, name), []byte("xls"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBackfillRebuildsInDateOrder(t *testing.T) {
	cfg := testConfig(t)

	// Written out of order; the name sort recovers chronology.
	seedArchive(t, cfg,
		"Silver_Stocks.24.01.17.xls",
		"Silver_Stocks.24.01.15.xls",
		"Silver_Stocks.24.01.16.xls",
	)

	extractor := &pathExtractor{snaps: map[string]models.Snapshot{
		"Silver_Stocks.24.01.15.xls": {ActivityDate: "1/15/2024", Registered: 150000000, Eligible: 100000000, Total: 250000000},
		"Silver_Stocks.24.01.16.xls": {ActivityDate: "1/16/2024", Registered: 151000000, Eligible: 99000000, Total: 250000000},
		"Silver_Stocks.24.01.17.xls": {ActivityDate: "1/17/2024", Registered: 149000000, Eligible: 102000000, Total: 251000000},
	}}

	tr := New(cfg, nil, extractor, &bytes.Buffer{})
	if err := tr.Backfill(context.Background()); err != nil {
		t.Fatalf("Backfill error: %v", err)
	}

	led, err := ledger.Load(cfg.Ledger.Path)
	if err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if led.Len() != 3 {
		t.Fatalf("ledger rows: got %d, want 3", led.Len())
	}

	first, _ := led.First()
	if first.ActivityDate != "1/15/2024" {
		t.Errorf("anchor date: got %q, want the earliest report", first.ActivityDate)
	}

	last, _ := led.Last()
	if last.ActivityDate != "1/17/2024" {
		t.Errorf("last date: got %q", last.ActivityDate)
	}
	// Daily change against 1/16, monthly change against the 1/15 anchor.
	if math.Abs(last.RegDailyChange-(-2000000)) > 0.001 {
		t.Errorf("RegDailyChange: got %v, want -2000000", last.RegDailyChange)
	}
	if math.Abs(last.MonthChange-1000000) > 0.001 {
		t.Errorf("MonthChange: got %v, want 1000000", last.MonthChange)
	}
}

func TestBackfillSkipsDuplicateDates(t *testing.T) {
	cfg := testConfig(t)
	seedArchive(t, cfg,
		"Silver_Stocks.24.01.15.xls",
		"Silver_Stocks.24.01.15.revised.xls", // re-published same-day copy
	)

	snap := models.Snapshot{ActivityDate: "1/15/2024", Registered: 1, Eligible: 1, Total: 2}
	extractor := &pathExtractor{snaps: map[string]models.Snapshot{
		"Silver_Stocks.24.01.15.xls":         snap,
		"Silver_Stocks.24.01.15.revised.xls": snap,
	}}

	tr := New(cfg, nil, extractor, &bytes.Buffer{})
	if err := tr.Backfill(context.Background()); err != nil {
		t.Fatalf("Backfill error: %v", err)
	}

	led, _ := ledger.Load(cfg.Ledger.Path)
	if led.Len() != 1 {
		t.Errorf("ledger rows: got %d, want 1 (duplicate date skipped)", led.Len())
	}
}

func TestBackfillReplacesExistingLedger(t *testing.T) {
	cfg := testConfig(t)

	// Seed a ledger that should be thrown away by the rebuild.
	old := ledger.New()
	old.Append(models.Snapshot{ActivityDate: "12/1/2023", Registered: 9, Eligible: 9, Total: 18})
	if err := old.Save(cfg.Ledger.Path); err != nil {
		t.Fatal(err)
	}

	seedArchive(t, cfg, "Silver_Stocks.24.01.15.xls")
	extractor := &pathExtractor{snaps: map[string]models.Snapshot{
		"Silver_Stocks.24.01.15.xls": {ActivityDate: "1/15/2024", Registered: 1, Eligible: 1, Total: 2},
	}}

	tr := New(cfg, nil, extractor, &bytes.Buffer{})
	if err := tr.Backfill(context.Background()); err != nil {
		t.Fatalf("Backfill error: %v", err)
	}

	led, _ := ledger.Load(cfg.Ledger.Path)
	if led.Len() != 1 {
		t.Fatalf("ledger rows: got %d, want 1", led.Len())
	}
	first, _ := led.First()
	if first.ActivityDate != "1/15/2024" {
		t.Errorf("anchor: got %q, want the archived report's date", first.ActivityDate)
	}
}

func TestBackfillEmptyArchive(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(cfg.Archive.Dir, 0o755); err != nil {
		t.Fatal(err)
	}

	tr := New(cfg, nil, &pathExtractor{}, &bytes.Buffer{})
	if err := tr.Backfill(context.Background()); err != nil {
		t.Fatalf("Backfill error: %v", err)
	}
	if _, err := os.Stat(cfg.Ledger.Path); !os.IsNotExist(err) {
		t.Error("empty archive should leave no ledger behind")
	}
}
