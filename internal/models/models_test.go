package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContact_NameAndDomain(t *testing.T) {
	tests := []struct {
		contact Contact
		name    string
		domain  string
	}{
		{Contact{FirstName: " Jane ", LastName: "Doe", Email: "jdoe@Example.EDU"}, "Jane Doe", "example.edu"},
		{Contact{FirstName: "Jane", Email: "a@b@mail.example.edu"}, "Jane", "mail.example.edu"},
		{Contact{LastName: "Doe", Email: "jdoe@"}, "Doe", ""},
		{Contact{Email: "no-at-sign"}, "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.contact.Name())
		assert.Equal(t, tt.domain, tt.contact.Domain())
	}
}

func TestCollectSources_FixedOrder(t *testing.T) {
	b := &EnrichmentBundle{
		Bio:    &BioPage{Content: "x"},
		News:   []NewsItem{{Headline: "h"}},
		Stats:  &InstitutionStats{},
		Author: &AuthorProfile{},
	}

	assert.Equal(t, []string{SourceIPEDS, SourceScholar, SourceNews, SourceBio}, b.CollectSources())
	assert.Equal(t, b.Sources, b.CollectSources())

	empty := &EnrichmentBundle{News: []NewsItem{}}
	assert.Empty(t, empty.CollectSources())
	assert.NotNil(t, empty.Sources)
}
