// internal/workers/sources/bio-finder/rank.go
package biofinder

import (
	"regexp"
	"strings"

	"prospect-enricher/internal/common/search"
)

var (
	documentExtensions = []string{".pdf", ".doc", ".docx", ".ppt", ".xlsx", ".zip"}
	blockedSegments    = []string{"/news/", "/events/", "/apply", "/admissions", "digitalcollections", "/archive"}
	profilePath        = regexp.MustCompile(`/(people|faculty|staff|directory|leadership|about|profile|team)/`)
)

// Rank picks the most likely bio page from site-restricted search results.
// The first usable result carrying the last name or a profile-style path
// wins and ranked is true. When none qualifies the first raw result is
// returned anyway with ranked false.
func Rank(results []search.Result, name string) (link string, ranked bool) {
	if len(results) == 0 {
		return "", false
	}
	_, lastName := nameParts(name)

	for _, r := range results {
		link := strings.ToLower(r.Link)
		if isDocument(link) || isBlocked(link) {
			continue
		}
		title := strings.ToLower(r.Title)
		hasName := lastName != "" && (strings.Contains(link, lastName) || strings.Contains(title, lastName))
		if hasName || profilePath.MatchString(link) {
			return r.Link, true
		}
	}

	return results[0].Link, false
}

func isDocument(lowerURL string) bool {
	for _, ext := range documentExtensions {
		if strings.HasSuffix(lowerURL, ext) {
			return true
		}
	}
	return false
}

func isBlocked(lowerURL string) bool {
	for _, seg := range blockedSegments {
		if strings.Contains(lowerURL, seg) {
			return true
		}
	}
	return false
}

// nameParts returns the lower-cased first and last tokens of name.
func nameParts(name string) (string, string) {
	parts := strings.Fields(strings.ToLower(name))
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], parts[len(parts)-1]
}
