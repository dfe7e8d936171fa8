// internal/workers/sources/author-profile/models.go
package authorprofile

// Author is one candidate from the author search endpoint.
type Author struct {
	AuthorID      string   `json:"authorId"`
	Name          string   `json:"name"`
	Affiliations  []string `json:"affiliations"`
	PaperCount    int      `json:"paperCount"`
	CitationCount int      `json:"citationCount"`
	HIndex        int      `json:"hIndex"`
}

type searchResponse struct {
	Data []Author `json:"data"`
}

type papersResponse struct {
	Papers []struct {
		FieldsOfStudy []string `json:"fieldsOfStudy"`
	} `json:"papers"`
}
