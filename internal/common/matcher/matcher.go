// Package matcher maps free-text institution names onto keys of a known set.
package matcher

import "strings"

// Strategies reported by Resolve.
const (
	StrategyExact     = "exact"
	StrategyVariation = "variation"
	StrategyOverlap   = "overlap"
)

// MinOverlap is the fewest shared words the overlap fallback accepts.
const MinOverlap = 2

// overlapMinWordLen excludes short words ("of", "at") from overlap scoring.
const overlapMinWordLen = 3

type Match struct {
	Key      string `json:"key"`
	Strategy string `json:"strategy"`
	Score    int    `json:"score,omitempty"`
}

// Index holds normalized keys in insertion order. Overlap ties resolve to
// the earliest inserted key, so callers control tie-breaking by load order.
type Index struct {
	keys  []string
	known map[string]struct{}
	words map[string]map[string]struct{}
}

func NewIndex() *Index {
	return &Index{
		known: make(map[string]struct{}),
		words: make(map[string]map[string]struct{}),
	}
}

// Add registers name and returns its normalized key. Duplicates are ignored.
func (ix *Index) Add(name string) string {
	key := Normalize(name)
	if key == "" {
		return ""
	}
	if _, ok := ix.known[key]; ok {
		return key
	}
	ix.known[key] = struct{}{}
	ix.keys = append(ix.keys, key)
	ix.words[key] = wordSet(key)
	return key
}

func (ix *Index) Len() int {
	return len(ix.keys)
}

func (ix *Index) Has(key string) bool {
	_, ok := ix.known[key]
	return ok
}

// Resolve tries an exact match, then the fixed variations in order, then
// word overlap. It never fails; an unmatched name returns false.
func (ix *Index) Resolve(name string) (Match, bool) {
	target := Normalize(name)
	if target == "" || len(ix.keys) == 0 {
		return Match{}, false
	}

	if ix.Has(target) {
		return Match{Key: target, Strategy: StrategyExact}, true
	}

	for _, v := range Variations(target) {
		if ix.Has(v) {
			return Match{Key: v, Strategy: StrategyVariation}, true
		}
	}

	best, bestScore := "", 0
	targetWords := wordSet(target)
	for _, key := range ix.keys {
		score := 0
		for w := range targetWords {
			if len(w) < overlapMinWordLen {
				continue
			}
			if _, ok := ix.words[key][w]; ok {
				score++
			}
		}
		if score > bestScore && score >= MinOverlap {
			best, bestScore = key, score
		}
	}
	if best == "" {
		return Match{}, false
	}
	return Match{Key: best, Strategy: StrategyOverlap, Score: bestScore}, true
}

// Normalize lower-cases, trims and collapses internal whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Variations returns the alternate spellings tried after an exact miss,
// in priority order. Input is expected to be normalized.
func Variations(name string) []string {
	candidates := []string{
		strings.Replace(name, " university", "", 1),
		strings.Replace(name, " college", "", 1),
		strings.Replace(name, "university of ", "", 1),
		strings.Replace(name, "the ", "", 1),
		strings.ReplaceAll(name, "-", " "),
		strings.ReplaceAll(name, "st.", "saint"),
		strings.ReplaceAll(name, "saint", "st."),
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = Normalize(c)
		if c != "" && c != name {
			out = append(out, c)
		}
	}
	return out
}

// WordOverlap counts distinct words of a, at least minLen long, that also
// appear in b. Both are compared case-insensitively.
func WordOverlap(a, b string, minLen int) int {
	bw := wordSet(Normalize(b))
	seen := make(map[string]struct{})
	score := 0
	for _, w := range strings.Fields(Normalize(a)) {
		if len(w) < minLen {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := bw[w]; ok {
			score++
		}
	}
	return score
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}
