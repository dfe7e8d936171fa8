// internal/workers/sources/completion-trends/dataset.go
package completiontrends

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"prospect-enricher/internal/common/logger"
	"prospect-enricher/internal/common/matcher"
	"prospect-enricher/internal/models"
)

// CSV header names.
const (
	colInstitution = "Institution"
	colLabel       = "CIPCODE_LABEL"
	colCIPCode     = "CIPCODE"
	colYear        = "ConferralYear"
	colCompletions = "Completions"
)

// Dataset is the completions table, parsed on first use and read-only after.
// A load failure leaves it empty for the life of the process.
type Dataset struct {
	path   string
	logger logger.Logger

	once  sync.Once
	index *matcher.Index
	rows  map[string][]models.CompletionRecord
}

func NewDataset(path string, log logger.Logger) *Dataset {
	return &Dataset{path: path, logger: log}
}

func (d *Dataset) load() {
	d.once.Do(func() {
		d.index = matcher.NewIndex()
		d.rows = make(map[string][]models.CompletionRecord)

		f, err := os.Open(d.path)
		if err != nil {
			d.logger.Error("Failed to open completions CSV", map[string]interface{}{
				"path":  d.path,
				"error": err.Error(),
			})
			return
		}
		defer f.Close()

		if err := d.parse(f); err != nil {
			d.logger.Error("Failed to parse completions CSV", map[string]interface{}{
				"path":  d.path,
				"error": err.Error(),
			})
			d.index = matcher.NewIndex()
			d.rows = make(map[string][]models.CompletionRecord)
			return
		}

		d.logger.Info("Loaded completions data", map[string]interface{}{
			"path":         d.path,
			"institutions": d.index.Len(),
		})
	})
}

func (d *Dataset) parse(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range []string{colInstitution, colLabel, colYear, colCompletions} {
		if _, ok := cols[required]; !ok {
			return fmt.Errorf("missing column %q", required)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		institution := field(rec, colInstitution)
		year, ok := parseLeadingInt(field(rec, colYear))
		if institution == "" || !ok {
			continue
		}
		completions, _ := parseLeadingInt(field(rec, colCompletions))
		if completions < 0 {
			completions = 0
		}

		key := d.index.Add(institution)
		d.rows[key] = append(d.rows[key], models.CompletionRecord{
			Institution: institution,
			Program:     strings.TrimSpace(strings.TrimSuffix(field(rec, colLabel), ".")),
			CIPCode:     field(rec, colCIPCode),
			Year:        year,
			Completions: completions,
		})
	}
	return nil
}

// Find resolves name against the loaded institutions.
func (d *Dataset) Find(name string) (matcher.Match, []models.CompletionRecord, bool) {
	d.load()
	m, ok := d.index.Resolve(name)
	if !ok {
		return matcher.Match{}, nil, false
	}
	return m, d.rows[m.Key], true
}

// Len loads the dataset if needed and returns the number of institutions.
func (d *Dataset) Len() int {
	d.load()
	return d.index.Len()
}

// parseLeadingInt reads the leading integer of s, so "2021" and "2021.0"
// both parse and "n/a" does not.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
