package hubspot

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prospect-enricher/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, url string) *CRMClient {
	t.Helper()
	c, err := NewCRMClient(Config{BaseURL: url, AccessToken: "test-token", Timeout: time.Second})
	require.NoError(t, err)
	return c
}

func contactJSON(vid int64, first, last, company, summary string) map[string]interface{} {
	props := map[string]interface{}{
		"email":     map[string]string{"value": first + "@example.edu"},
		"firstname": map[string]string{"value": first},
		"lastname":  map[string]string{"value": last},
		"company":   map[string]string{"value": company},
		"jobtitle":  map[string]string{"value": "Dean"},
	}
	if summary != "" {
		props["prospect_research_summary"] = map[string]string{"value": summary}
	}
	return map[string]interface{}{"vid": vid, "properties": props}
}

func TestListUnprocessedContacts_FiltersAndTruncates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contacts/v1/lists/1241/contacts/all", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "6", r.URL.Query().Get("count"))
		assert.Contains(t, r.URL.Query()["property"], "prospect_research_summary")

		json.NewEncoder(w).Encode(map[string]interface{}{
			"contacts": []interface{}{
				contactJSON(1, "ada", "lovelace", "Example University", "already done"),
				contactJSON(2, "grace", "hopper", "Example University", ""),
				contactJSON(3, "alan", "turing", "Example College", ""),
				contactJSON(4, "edsger", "dijkstra", "Example Institute", ""),
			},
		})
	}))
	defer server.Close()

	contacts, err := newTestClient(t, server.URL).ListUnprocessedContacts(context.Background(), "1241", 2)

	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "2", contacts[0].ID)
	assert.Equal(t, "grace", contacts[0].FirstName)
	assert.Equal(t, "Dean", contacts[0].Title)
	assert.Equal(t, "example.edu", contacts[0].Domain())
	assert.Equal(t, "3", contacts[1].ID)
}

func TestListUnprocessedContacts_CountCappedAt100(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("count"))
		w.Write([]byte(`{"contacts":[]}`))
	}))
	defer server.Close()

	contacts, err := newTestClient(t, server.URL).ListUnprocessedContacts(context.Background(), "9", 50)
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestListUnprocessedContacts_ErrorIsFatalRead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).ListUnprocessedContacts(context.Background(), "1241", 8)

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeCRMReadFailed))
	assert.Contains(t, err.Error(), "401")
}

func TestUpdateResearchSummary(t *testing.T) {
	var got map[string]map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/crm/v3/objects/contacts/42", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{"id":"42"}`))
	}))
	defer server.Close()

	err := newTestClient(t, server.URL).UpdateResearchSummary(context.Background(), "42", "brief text")

	require.NoError(t, err)
	assert.Equal(t, "brief text", got["properties"]["prospect_research_summary"])
}

func TestUpdateResearchSummary_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Property does not exist"}`))
	}))
	defer server.Close()

	err := newTestClient(t, server.URL).UpdateResearchSummary(context.Background(), "42", "brief")

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeCRMWriteFailed))
	assert.Equal(t, "42", errors.AsStandard(err).Metadata["contactId"])
}

func TestNewCRMClient_RequiresToken(t *testing.T) {
	_, err := NewCRMClient(Config{})
	assert.True(t, errors.HasCode(err, errors.ErrCodeCRMNotConfigured))
}
