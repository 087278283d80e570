// Package tracker runs the daily ingestion pipeline: download the
// published workbook, extract the day's figures, append a derived row
// to the master ledger, and file the workbook in the dated archive.
//
// The pipeline is strictly linear with one decision point: if the
// ledger already holds the report's date, the run ends early without
// touching the ledger.
package tracker

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/comexwatch/comextrack/internal/archive"
	"github.com/comexwatch/comextrack/internal/config"
	"github.com/comexwatch/comextrack/internal/ledger"
	"github.com/comexwatch/comextrack/pkg/models"
)

// Fetcher downloads a remote file to a local path.
type Fetcher interface {
	Download(ctx context.Context, url, dest string) error
}

// Extractor reads a snapshot out of a workbook file.
type Extractor interface {
	ExtractFile(path string) (models.Snapshot, error)
}

// Tracker wires the pipeline stages together.
type Tracker struct {
	cfg    *config.Config
	fetch  Fetcher
	sheets Extractor
	out    io.Writer
}

// New creates a tracker. Progress lines are written to out.
func New(cfg *config.Config, fetch Fetcher, sheets Extractor, out io.Writer) *Tracker {
	return &Tracker{cfg: cfg, fetch: fetch, sheets: sheets, out: out}
}

// Run executes one fetch-extract-append cycle. A report date already
// present as the ledger's last row is a graceful no-op: the temp
// download is removed and the run ends without an error.
func (t *Tracker) Run(ctx context.Context) error {
	temp := t.cfg.Source.TempFile

	t.printf("... downloading latest file ...")
	if err := t.fetch.Download(ctx, t.cfg.Source.URL, temp); err != nil {
		return fmt.Errorf("download report: %w", err)
	}

	t.printf("... parsing file ...")
	snap, err := t.sheets.ExtractFile(temp)
	if err != nil {
		return fmt.Errorf("parse report: %w", err)
	}

	led, err := ledger.Load(t.cfg.Ledger.Path)
	if err != nil {
		return err
	}

	if led.HasDate(snap.ActivityDate) {
		t.printf("Data for %s already exists in master. Exiting.", snap.ActivityDate)
		if err := os.Remove(temp); err != nil {
			return fmt.Errorf("remove temp download: %w", err)
		}
		return nil
	}

	t.printf("... updating CSV ...")
	led.Append(snap)
	if err := led.Save(t.cfg.Ledger.Path); err != nil {
		return err
	}

	name, err := archive.Name(snap.ActivityDate)
	if err != nil {
		return err
	}

	t.printf("... moving xls file ...")
	if _, err := archive.Store(temp, t.cfg.Archive.Dir, name); err != nil {
		return err
	}

	t.printf("Done!")
	return nil
}

func (t *Tracker) printf(format string, args ...any) {
	fmt.Fprintf(t.out, format+"\n", args...)
}
