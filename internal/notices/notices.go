// Package notices reads the exchange clearing-notices feed. Warehouse
// stock revisions and depository changes are announced there before
// they show up in the daily report, so a keyword scan of recent items
// is a useful companion to the ledger.
package notices

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Notice is one feed item of interest.
type Notice struct {
	Title     string
	Link      string
	Summary   string
	Published time.Time
}

// Source fetches and filters the clearing-notices RSS feed.
type Source struct {
	feedURL string
	parser  *gofeed.Parser
}

// New creates a notices source for the given feed URL.
func New(feedURL string) *Source {
	return &Source{
		feedURL: feedURL,
		parser:  gofeed.NewParser(),
	}
}

// Recent returns up to limit notices mentioning keyword, newest first.
// An empty keyword matches everything.
func (s *Source) Recent(ctx context.Context, keyword string, limit int) ([]Notice, error) {
	feed, err := s.parser.ParseURLWithContext(s.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch notices feed: %w", err)
	}
	return Filter(feed.Items, keyword, limit), nil
}

// Filter selects items mentioning keyword in title or description,
// sorted newest first and truncated to limit (0 means no limit).
func Filter(items []*gofeed.Item, keyword string, limit int) []Notice {
	needle := strings.ToLower(keyword)
	var out []Notice
	for _, item := range items {
		if item == nil {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(item.Title), needle) &&
			!strings.Contains(strings.ToLower(item.Description), needle) {
			continue
		}
		n := Notice{
			Title:   item.Title,
			Link:    item.Link,
			Summary: item.Description,
		}
		if item.PublishedParsed != nil {
			n.Published = *item.PublishedParsed
		}
		out = append(out, n)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Published.After(out[j].Published)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
