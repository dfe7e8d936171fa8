// internal/workers/sources/author-profile/disambiguate.go
package authorprofile

import (
	"strings"

	"prospect-enricher/internal/common/matcher"
	"prospect-enricher/internal/models"
)

// Score weights. A last-name hit alone reaches MinScore.
const (
	scoreLastName     = 5
	scoreFullName     = 5
	scoreAffiliation  = 8
	scoreCitations    = 2
	citationThreshold = 100

	MinScore = 5
)

// BestMatch scores every candidate and returns the highest scorer, keeping
// the first seen on ties. Nothing under MinScore is ever returned.
func BestMatch(candidates []Author, targetName, institution string) (*models.CandidateMatch[Author], bool) {
	target := matcher.Normalize(targetName)
	parts := strings.Fields(target)
	if len(parts) == 0 {
		return nil, false
	}
	lastName := parts[len(parts)-1]
	inst := matcher.Normalize(institution)

	var best *models.CandidateMatch[Author]
	for _, c := range candidates {
		m := score(c, target, lastName, inst)
		if best == nil || m.Score > best.Score {
			best = &m
		}
	}
	if best == nil || best.Score < MinScore {
		return nil, false
	}
	return best, true
}

func score(c Author, target, lastName, inst string) models.CandidateMatch[Author] {
	m := models.CandidateMatch[Author]{Candidate: c}
	name := matcher.Normalize(c.Name)

	if strings.Contains(name, lastName) {
		m.Score += scoreLastName
		m.Reasons = append(m.Reasons, "last name")
	}
	if name == target {
		m.Score += scoreFullName
		m.Reasons = append(m.Reasons, "full name")
	}
	if inst != "" {
		for _, aff := range c.Affiliations {
			a := matcher.Normalize(aff)
			if a == "" {
				continue
			}
			if strings.Contains(a, inst) || strings.Contains(inst, a) {
				m.Score += scoreAffiliation
				m.Reasons = append(m.Reasons, "affiliation")
				break
			}
		}
	}
	if c.CitationCount > citationThreshold {
		m.Score += scoreCitations
		m.Reasons = append(m.Reasons, "citations")
	}
	return m
}
