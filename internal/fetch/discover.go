package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoReportLink is returned when the listing page carries no silver
// stocks workbook link.
var ErrNoReportLink = errors.New("no silver stocks report link found on listing page")

// Discover scrapes the delivery-reports listing page for the current
// silver stocks workbook link and returns it as an absolute URL. Used
// when the fixed report URL stops resolving after an upstream
// reshuffle.
func (c *Client) Discover(ctx context.Context, pageURL string) (string, error) {
	body, _, err := c.get(ctx, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("fetch listing page: %w", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("parse listing page: %w", err)
	}

	var href string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		h, _ := sel.Attr("href")
		lower := strings.ToLower(h)
		if strings.Contains(lower, "silver_stocks") && strings.HasSuffix(lower, ".xls") {
			href = h
			return false
		}
		return true
	})
	if href == "" {
		return "", ErrNoReportLink
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse listing page URL: %w", err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse report link %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}
