// Package archive files the raw downloaded workbooks under dated
// names so every day's report survives the next overwrite of the temp
// download.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// activityDateLayout is the date format the report publishes,
// M/D/YYYY without zero padding.
const activityDateLayout = "1/2/2006"

// Name derives the archive filename for a report date:
// Silver_Stocks.YY.MM.DD.xls. The year-first pattern keeps a plain
// name sort chronological, which backfill relies on.
func Name(activityDate string) (string, error) {
	t, err := time.Parse(activityDateLayout, strings.TrimSpace(activityDate))
	if err != nil {
		return "", fmt.Errorf("parse activity date %q: %w", activityDate, err)
	}
	return fmt.Sprintf("Silver_Stocks.%02d.%02d.%02d.xls", t.Year()%100, int(t.Month()), t.Day()), nil
}

// Store moves src into dir under name, replacing any previous copy of
// the same name. The directory is created when absent.
func Store(src, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	dest := filepath.Join(dir, name)
	if _, err := os.Stat(dest); err == nil {
		if err := os.Remove(dest); err != nil {
			return "", fmt.Errorf("remove stale archive %s: %w", dest, err)
		}
	}
	if err := os.Rename(src, dest); err != nil {
		return "", fmt.Errorf("move %s to archive: %w", src, err)
	}
	return dest, nil
}
