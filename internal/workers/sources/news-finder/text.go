// internal/workers/sources/news-finder/text.go
package newsfinder

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const displayLayout = "Jan 2, 2006"

var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"Jan. 2, 2006",
	"01/02/2006",
	"1/2/2006",
}

// cleanText strips markup from feed text and collapses whitespace.
func cleanText(s string) string {
	if s == "" {
		return ""
	}
	if strings.Contains(s, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	return collapse(s)
}

// formatDate renders a recognised date as "Jan 2, 2006" and otherwise keeps
// the first 20 characters of the raw value.
func formatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return displayDate(t)
		}
	}
	return truncate(raw, 20)
}

func displayDate(t time.Time) string {
	return t.Format(displayLayout)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
