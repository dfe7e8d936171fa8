// internal/workers/sources/bio-finder/scrape.go
package biofinder

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"prospect-enricher/internal/models"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const (
	noiseSelector    = "nav, header, footer, aside, script, style, .nav, .menu, .sidebar"
	minBioChars      = 100
	maxBioChars      = 5000
	minParagraph     = 40
	maxParagraphs    = 5
	maxContentChars  = 2500
	maxSectionChars  = 400
	maxSectionBlocks = 5
)

var bioSelectors = []string{
	".bio", ".biography", ".profile-bio", ".about-text", ".profile-content",
	`[class*="biography"]`, `[class*="bio-text"]`, "article", "main", ".content",
}

var (
	educationHeadings  = []string{"education", "academic background", "degrees"}
	experienceHeadings = []string{"experience", "career", "background"}
)

// Scrape extracts the biography text of a profile page. Non-HTML targets
// and pages without usable text yield nil.
func (h *Handler) Scrape(ctx context.Context, pageURL, name string) (*models.BioPage, error) {
	if u, err := url.Parse(pageURL); err != nil || isDocument(strings.ToLower(u.Path)) {
		h.logger.Debug("Skipping non-HTML bio target", map[string]interface{}{"url": pageURL})
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.ScrapeTimeout)
	defer cancel()

	doc, resp, err := h.client.FetchDocument(ctx, pageURL, h.config.BodyLimit)
	if err != nil {
		return nil, fmt.Errorf("bio fetch failed: %w", err)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		return nil, nil
	}

	doc.Find(noiseSelector).Remove()

	content := selectorContent(doc)
	if content == "" {
		content = readableContent(resp.Body, doc.Url)
	}
	if content == "" {
		content = paragraphContent(doc)
	}
	if content == "" {
		h.logger.Debug("Bio page had no usable text", map[string]interface{}{"url": pageURL, "name": name})
		return nil, nil
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	return &models.BioPage{
		URL:        pageURL,
		Title:      title,
		Content:    truncate(content, maxContentChars),
		Education:  truncate(extractSection(doc, educationHeadings), maxSectionChars),
		Experience: truncate(extractSection(doc, experienceHeadings), maxSectionChars),
	}, nil
}

func selectorContent(doc *goquery.Document) string {
	for _, sel := range bioSelectors {
		text := collapse(doc.Find(sel).Text())
		if n := len([]rune(text)); n > minBioChars && n < maxBioChars {
			return text
		}
	}
	return ""
}

func readableContent(body []byte, pageURL *url.URL) string {
	if pageURL == nil {
		return ""
	}
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return ""
	}
	text := collapse(article.TextContent)
	if len([]rune(text)) <= minBioChars {
		return ""
	}
	return text
}

func paragraphContent(doc *goquery.Document) string {
	var paragraphs []string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if len([]rune(text)) > minParagraph {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < maxParagraphs
	})
	return strings.Join(paragraphs, " ")
}

// extractSection collects the blocks that follow the first heading naming
// one of the given topics, stopping at the next heading.
func extractSection(doc *goquery.Document, headings []string) string {
	candidates := doc.Find("h2, h3, h4, strong")
	for _, heading := range headings {
		header := candidates.FilterFunction(func(_ int, s *goquery.Selection) bool {
			return strings.Contains(strings.ToLower(s.Text()), heading)
		}).First()
		if header.Length() == 0 {
			continue
		}

		next := header.Parent().Next()
		if next.Length() == 0 {
			next = header.Next()
		}
		var b strings.Builder
		for i := 0; i < maxSectionBlocks && next.Length() > 0; i++ {
			if text := strings.TrimSpace(next.Text()); len(text) > 10 {
				b.WriteString(text)
				b.WriteString(" ")
			}
			if next.Is("h2, h3, h4") {
				break
			}
			next = next.Next()
		}
		if b.Len() > 20 {
			return strings.TrimSpace(b.String())
		}
	}
	return ""
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
