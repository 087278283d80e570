package tracker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/comexwatch/comextrack/internal/ledger"
	"github.com/comexwatch/comextrack/pkg/models"
)

// backfillWorkers bounds concurrent workbook parsing during a rebuild.
const backfillWorkers = 4

// Backfill rebuilds the master ledger from scratch out of the archived
// workbooks. Archive names are year-first dated, so a plain name sort
// recovers chronological order; the first archived report becomes the
// new period-start anchor. The existing ledger file is replaced.
//
// Parsing fans out across a bounded worker group; appends stay in
// date order so the derived columns come out deterministic.
func (t *Tracker) Backfill(ctx context.Context) error {
	dir := t.cfg.Archive.Dir
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read archive dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".xls") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		t.printf("no archived reports found in %s", dir)
		return nil
	}

	t.printf("... parsing %d archived reports ...", len(names))
	snaps := make([]models.Snapshot, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(backfillWorkers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			snap, err := t.sheets.ExtractFile(filepath.Join(dir, name))
			if err != nil {
				return fmt.Errorf("parse %s: %w", name, err)
			}
			snaps[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	led := ledger.New()
	skipped := 0
	for _, snap := range snaps {
		if led.HasDate(snap.ActivityDate) {
			skipped++
			continue
		}
		led.Append(snap)
	}

	if err := led.Save(t.cfg.Ledger.Path); err != nil {
		return err
	}

	t.printf("backfilled %d rows from %d archived reports (%d duplicates skipped)",
		led.Len(), len(names), skipped)
	return nil
}
