// internal/models/contact.go
package models

import "strings"

// Contact is a CRM record awaiting enrichment.
type Contact struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
	Title     string `json:"title"`
}

// Name joins first and last name.
func (c Contact) Name() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// Domain is the lower-cased host part of the email address, or "".
func (c Contact) Domain() string {
	at := strings.LastIndex(c.Email, "@")
	if at < 0 || at == len(c.Email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(c.Email[at+1:]))
}

// ContactOutcome is the per-contact line of a batch result.
type ContactOutcome struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Status  string   `json:"status"`
	Sources []string `json:"sources,omitempty"`
	Error   string   `json:"error,omitempty"`
}

const (
	OutcomeEnriched = "enriched"
	OutcomeFailed   = "failed"
	OutcomeSkipped  = "skipped"
)
