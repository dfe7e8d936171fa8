// internal/workers/sources/completion-trends/handler.go
package completiontrends

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"prospect-enricher/internal/common/logger"
	"prospect-enricher/internal/models"
)

const Source = models.SourceCompletions

// Reporting window shown for institution totals.
const (
	WindowStartYear = 2020
	WindowEndYear   = 2024
)

// Classification and highlight thresholds.
const (
	growthThreshold     = 20
	minGrowingEnd       = 10
	minLargestEnd       = 20
	minDecliningStart   = 10
	maxFastestGrowing   = 3
	maxLargestPrograms  = 5
	maxDecliningListing = 3
)

type Handler struct {
	config  *Config
	dataset *Dataset
	logger  logger.Logger
}

func NewHandler(config *Config, dataset *Dataset, log logger.Logger) *Handler {
	log = logger.Component(log, "completion-trends")
	if dataset == nil {
		dataset = NewDataset(config.CSVPath, log)
	}
	return &Handler{config: config, dataset: dataset, logger: log}
}

// Warm loads the dataset ahead of the first lookup.
func (h *Handler) Warm() int {
	return h.dataset.Len()
}

// Trends returns the completions report for an institution, or nil when the
// institution is not in the dataset. Dataset problems never surface as errors.
func (h *Handler) Trends(ctx context.Context, institution string) (*models.TrendReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(institution) == "" {
		return nil, nil
	}

	match, records, ok := h.dataset.Find(institution)
	if !ok || len(records) == 0 {
		h.logger.Debug("No completions data for institution", map[string]interface{}{
			"institution": institution,
		})
		return nil, nil
	}

	report := Aggregate(records)
	report.Institution = institution
	report.MatchedKey = match.Key
	report.MatchStrategy = match.Strategy
	report.Summary = FormatSummary(report, h.config.CompanyName)

	h.logger.Debug("Completions trends computed", map[string]interface{}{
		"institution": institution,
		"matchedKey":  match.Key,
		"strategy":    match.Strategy,
		"programs":    report.TotalPrograms,
	})
	return report, nil
}

// Aggregate groups one institution's rows by program and derives per-program
// and institution-wide trends.
func Aggregate(records []models.CompletionRecord) *models.TrendReport {
	type programRows struct {
		cipCode string
		years   map[int]int
	}
	var order []string
	byProgram := make(map[string]*programRows)
	for _, r := range records {
		p, ok := byProgram[r.Program]
		if !ok {
			p = &programRows{cipCode: r.CIPCode, years: make(map[int]int)}
			byProgram[r.Program] = p
			order = append(order, r.Program)
		}
		p.years[r.Year] += r.Completions
	}

	programs := make([]models.ProgramTrend, 0, len(order))
	totalStart, totalEnd := 0, 0
	for _, name := range order {
		p := byProgram[name]
		startYear, endYear := yearRange(p.years)
		start, end := p.years[startYear], p.years[endYear]
		if start == 0 && end == 0 {
			continue
		}

		growth, trend := classify(start, end)
		totalStart += start
		totalEnd += end
		programs = append(programs, models.ProgramTrend{
			Program:          name,
			CIPCode:          p.cipCode,
			StartYear:        startYear,
			EndYear:          endYear,
			StartCompletions: start,
			EndCompletions:   end,
			GrowthPct:        growth,
			Trend:            trend,
			YearlyData:       p.years,
		})
	}

	// Equal end counts keep dataset order.
	sort.SliceStable(programs, func(i, j int) bool {
		return programs[i].EndCompletions > programs[j].EndCompletions
	})

	overall := models.OverallTrend{
		StartYear:        WindowStartYear,
		EndYear:          WindowEndYear,
		StartCompletions: totalStart,
		EndCompletions:   totalEnd,
		Trend:            models.TrendStable,
	}
	if totalStart > 0 {
		g := growthPct(totalStart, totalEnd)
		overall.GrowthPct = &g
		overall.Trend = trendFor(g)
	}

	return &models.TrendReport{
		TotalPrograms: len(programs),
		Overall:       overall,
		Highlights:    highlights(programs),
		Programs:      programs,
	}
}

// classify applies the strict ±20% thresholds. Zero endpoints are "new" or
// "discontinued" rather than a percentage.
func classify(start, end int) (*int, string) {
	switch {
	case start > 0 && end > 0:
		g := growthPct(start, end)
		return &g, trendFor(g)
	case start == 0 && end > 0:
		return nil, models.TrendNew
	case start > 0 && end == 0:
		g := -100
		return &g, models.TrendDiscontinued
	}
	return nil, models.TrendStable
}

func trendFor(growth int) string {
	switch {
	case growth > growthThreshold:
		return models.TrendGrowing
	case growth < -growthThreshold:
		return models.TrendDeclining
	}
	return models.TrendStable
}

// growthPct rounds half up, so -2.5 becomes -2.
func growthPct(start, end int) int {
	return int(math.Floor(float64(end-start)/float64(start)*100 + 0.5))
}

func yearRange(years map[int]int) (int, int) {
	first := true
	var lo, hi int
	for y := range years {
		if first || y < lo {
			lo = y
		}
		if first || y > hi {
			hi = y
		}
		first = false
	}
	return lo, hi
}

func highlights(programs []models.ProgramTrend) models.TrendHighlights {
	var growing, largest, declining []models.ProgramTrend
	for _, p := range programs {
		if p.Trend == models.TrendGrowing && p.EndCompletions >= minGrowingEnd {
			growing = append(growing, p)
		}
		if p.EndCompletions >= minLargestEnd {
			largest = append(largest, p)
		}
		if p.Trend == models.TrendDeclining && p.StartCompletions >= minDecliningStart {
			declining = append(declining, p)
		}
	}
	sort.SliceStable(growing, func(i, j int) bool {
		return *growing[i].GrowthPct > *growing[j].GrowthPct
	})
	return models.TrendHighlights{
		FastestGrowing:  head(growing, maxFastestGrowing),
		LargestPrograms: head(largest, maxLargestPrograms),
		Declining:       head(declining, maxDecliningListing),
	}
}

func head(p []models.ProgramTrend, n int) []models.ProgramTrend {
	if p == nil {
		return []models.ProgramTrend{}
	}
	if len(p) > n {
		return p[:n]
	}
	return p
}

// FormatSummary renders the plain-text block handed to the summarizer.
func FormatSummary(r *models.TrendReport, company string) string {
	if company == "" {
		company = "We"
	}
	var b strings.Builder
	b.WriteString("=== ONLINE GRADUATE COMPLETIONS TRENDS ===\n")
	fmt.Fprintf(&b, "Institution: %s\n", r.Institution)
	fmt.Fprintf(&b, "Period: %d-%d\n\n", r.Overall.StartYear, r.Overall.EndYear)

	fmt.Fprintf(&b, "OVERALL: %d -> %d completions\n", r.Overall.StartCompletions, r.Overall.EndCompletions)
	if r.Overall.GrowthPct != nil {
		fmt.Fprintf(&b, "   %s change\n", signedPct(*r.Overall.GrowthPct))
	}
	b.WriteString("\n")

	if len(r.Highlights.LargestPrograms) > 0 {
		fmt.Fprintf(&b, "LARGEST ONLINE GRAD PROGRAMS (%d):\n", r.Overall.EndYear)
		for _, p := range r.Highlights.LargestPrograms {
			change := ""
			if p.GrowthPct != nil {
				change = fmt.Sprintf(" (%s)", signedPct(*p.GrowthPct))
			}
			fmt.Fprintf(&b, "   - %s: %d completions%s\n", p.Program, p.EndCompletions, change)
		}
		b.WriteString("\n")
	}

	if len(r.Highlights.FastestGrowing) > 0 {
		b.WriteString("FASTEST GROWING:\n")
		for _, p := range r.Highlights.FastestGrowing {
			fmt.Fprintf(&b, "   - %s: %d -> %d (%s)\n", p.Program, p.StartCompletions, p.EndCompletions, signedPct(*p.GrowthPct))
		}
		b.WriteString("\n")
	}

	if len(r.Highlights.Declining) > 0 {
		b.WriteString("DECLINING PROGRAMS:\n")
		for _, p := range r.Highlights.Declining {
			fmt.Fprintf(&b, "   - %s: %d -> %d (%s)\n", p.Program, p.StartCompletions, p.EndCompletions, signedPct(*p.GrowthPct))
		}
		b.WriteString("\n")
	}

	b.WriteString("SALES INSIGHT:\n")
	growth := r.Overall.GrowthPct
	switch {
	case growth != nil && *growth > 30:
		fmt.Fprintf(&b, "   Strong online grad growth suggests working infrastructure. %s can help scale further or launch adjacent programs.", company)
	case growth != nil && *growth < -10:
		fmt.Fprintf(&b, "   Declining completions may indicate enrollment challenges. %s marketing and enrollment services could help reverse the trend.", company)
	case r.Overall.EndCompletions < 100:
		fmt.Fprintf(&b, "   Smaller online footprint. %s can help grow existing programs or launch new ones efficiently.", company)
	default:
		b.WriteString("   Established online presence. Explore program-specific opportunities or new program launches.")
	}
	return b.String()
}

func signedPct(p int) string {
	if p > 0 {
		return fmt.Sprintf("+%d%%", p)
	}
	return fmt.Sprintf("%d%%", p)
}
