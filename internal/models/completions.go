// internal/models/completions.go
package models

// Trend categories.
const (
	TrendGrowing      = "growing"
	TrendDeclining    = "declining"
	TrendStable       = "stable"
	TrendNew          = "new"
	TrendDiscontinued = "discontinued"
)

// CompletionRecord is one (institution, program, year) completion count.
type CompletionRecord struct {
	Institution string `json:"institution"`
	Program     string `json:"program"`
	CIPCode     string `json:"cipCode"`
	Year        int    `json:"year"`
	Completions int    `json:"completions"`
}

type ProgramTrend struct {
	Program          string      `json:"program"`
	CIPCode          string      `json:"cipCode"`
	StartYear        int         `json:"startYear"`
	EndYear          int         `json:"endYear"`
	StartCompletions int         `json:"startCompletions"`
	EndCompletions   int         `json:"endCompletions"`
	GrowthPct        *int        `json:"growthPct"`
	Trend            string      `json:"trend"`
	YearlyData       map[int]int `json:"yearlyData"`
}

type OverallTrend struct {
	StartYear        int    `json:"startYear"`
	EndYear          int    `json:"endYear"`
	StartCompletions int    `json:"startCompletions"`
	EndCompletions   int    `json:"endCompletions"`
	GrowthPct        *int   `json:"growthPct"`
	Trend            string `json:"trend"`
}

type TrendHighlights struct {
	FastestGrowing  []ProgramTrend `json:"fastestGrowing"`
	LargestPrograms []ProgramTrend `json:"largestPrograms"`
	Declining       []ProgramTrend `json:"declining"`
}

// TrendReport is the completions view of one institution.
type TrendReport struct {
	Institution   string          `json:"institution"`
	MatchedKey    string          `json:"matchedKey"`
	MatchStrategy string          `json:"matchStrategy"`
	TotalPrograms int             `json:"totalPrograms"`
	Overall       OverallTrend    `json:"overall"`
	Highlights    TrendHighlights `json:"highlights"`
	Programs      []ProgramTrend  `json:"allPrograms"`
	Summary       string          `json:"summary"`
}
