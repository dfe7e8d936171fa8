// internal/workers/enrichment/summarize/context.go
package summarize

import (
	"fmt"
	"strings"

	"prospect-enricher/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const limitedData = "Limited data available for this prospect."

var printer = message.NewPrinter(language.English)

// BuildContext renders the bundle as the labelled sections handed to the
// model. Absent sources contribute no section.
func BuildContext(b *models.EnrichmentBundle) string {
	if b == nil {
		return limitedData
	}
	var sections []string

	if b.Bio != nil && b.Bio.Content != "" {
		s := "=== BIOGRAPHICAL INFORMATION ===\n" + b.Bio.Content
		if src := bioSource(b); src != "" {
			s += "\nSource: " + src
		}
		sections = append(sections, s)
	}

	if st := b.Stats; st != nil {
		var s strings.Builder
		s.WriteString("=== IPEDS INSTITUTIONAL DATA ===\n")
		s.WriteString("NOTE: This is ENROLLMENT data (students currently attending).\n\n")
		if st.Name != "" {
			fmt.Fprintf(&s, "Institution: %s\n", st.Name)
		}
		if st.Location.City != "" && st.Location.State != "" {
			fmt.Fprintf(&s, "Location: %s, %s\n", st.Location.City, st.Location.State)
		}
		if n := st.Enrollment.Total; n != nil && *n > 0 {
			printer.Fprintf(&s, "Total Enrollment: %d\n", *n)
		}
		if n := st.Enrollment.Graduate; n != nil && *n > 0 {
			printer.Fprintf(&s, "Graduate Enrollment: %d\n", *n)
		}
		sections = append(sections, s.String())
	}

	if a := b.Author; a != nil {
		var s strings.Builder
		s.WriteString("=== GOOGLE SCHOLAR ===\n")
		printer.Fprintf(&s, "Total Citations: %d\n", a.Citations)
		fmt.Fprintf(&s, "h-index: %d\n", a.HIndex)
		fmt.Fprintf(&s, "Published Papers: %d\n", a.Papers)
		if len(a.Topics) > 0 {
			fmt.Fprintf(&s, "Research Areas: %s\n", strings.Join(a.Topics, ", "))
		}
		sections = append(sections, s.String())
	}

	if len(b.News) > 0 {
		var s strings.Builder
		s.WriteString("=== RECENT NEWS & ANNOUNCEMENTS ===\n")
		fmt.Fprintf(&s, "Found %d recent articles:\n\n", len(b.News))
		for i, n := range b.News {
			fmt.Fprintf(&s, "[%d] \"%s\"\n", i+1, n.Headline)
			if n.Date != "" {
				fmt.Fprintf(&s, "    Date: %s\n", n.Date)
			}
			if n.Summary != "" {
				fmt.Fprintf(&s, "    Summary: %s\n", n.Summary)
			}
			if n.URL != "" {
				fmt.Fprintf(&s, "    URL: %s\n", n.URL)
			}
			s.WriteString("\n")
		}
		sections = append(sections, s.String())
	}

	if t := b.Trends; t != nil {
		sections = append(sections, completionsSection(t))
	}

	if len(sections) == 0 {
		return limitedData
	}
	return strings.Join(sections, "\n\n")
}

func completionsSection(t *models.TrendReport) string {
	var s strings.Builder
	o := t.Overall
	fmt.Fprintf(&s, "=== ONLINE GRADUATE DEGREE COMPLETIONS (IPEDS %d-%d) ===\n", o.StartYear, o.EndYear)
	s.WriteString("IMPORTANT: This is DEGREES AWARDED, not enrollment. Completions = graduates.\n\n")
	fmt.Fprintf(&s, "Total Online Grad Completions: %d (%d) → %d (%d)\n", o.StartCompletions, o.StartYear, o.EndCompletions, o.EndYear)
	fmt.Fprintf(&s, "5-Year Change: %s\n", signedPct(o.GrowthPct))
	fmt.Fprintf(&s, "Trend: %s\n\n", strings.ToUpper(o.Trend))

	if progs := t.Highlights.LargestPrograms; len(progs) > 0 {
		fmt.Fprintf(&s, "Largest Online Grad Programs (%d completions):\n", o.EndYear)
		for _, p := range progs {
			fmt.Fprintf(&s, "  • %s: %d graduates", p.Program, p.EndCompletions)
			if p.GrowthPct != nil {
				fmt.Fprintf(&s, " [%s since %d]", signedPct(p.GrowthPct), o.StartYear)
			}
			s.WriteString("\n")
		}
		s.WriteString("\n")
	}
	if progs := t.Highlights.FastestGrowing; len(progs) > 0 {
		s.WriteString("Fastest Growing Programs:\n")
		for _, p := range progs {
			fmt.Fprintf(&s, "  • %s: %d → %d [%s]\n", p.Program, p.StartCompletions, p.EndCompletions, signedPct(p.GrowthPct))
		}
		s.WriteString("\n")
	}
	if progs := t.Highlights.Declining; len(progs) > 0 {
		s.WriteString("DECLINING Programs:\n")
		for _, p := range progs {
			fmt.Fprintf(&s, "  • %s: %d → %d [%s]\n", p.Program, p.StartCompletions, p.EndCompletions, signedPct(p.GrowthPct))
		}
		s.WriteString("\n")
	}
	return s.String()
}

func signedPct(pct *int) string {
	switch {
	case pct == nil:
		return "n/a"
	case *pct > 0:
		return fmt.Sprintf("+%d%%", *pct)
	default:
		return fmt.Sprintf("%d%%", *pct)
	}
}

func bioSource(b *models.EnrichmentBundle) string {
	if b.BioURL != "" {
		return b.BioURL
	}
	return b.Bio.URL
}

// Confidence grades a bundle by how many sources contributed.
func Confidence(sources []string) string {
	switch {
	case len(sources) >= 3:
		return ConfidenceHigh
	case len(sources) == 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
