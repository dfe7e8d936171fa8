package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"prospect-enricher/internal/common/cache"
	"prospect-enricher/internal/common/config"
	"prospect-enricher/internal/common/errors"
	"prospect-enricher/internal/common/logger"
	"prospect-enricher/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearCredentials(t *testing.T) {
	for _, name := range []string{
		"HUBSPOT_ACCESS_TOKEN", "HUBSPOT_LIST_ID", "OPENAI_API_KEY", "GENAI_API_KEY",
		"GOOGLE_API_KEY", "WEB_SEARCH_API_KEY", "GOOGLE_CSE_ID", "WEB_SEARCH_ENGINE_ID",
		"DATA_GOV_API_KEY", "REDIS_URL", "REDIS_ADDRESS", "CRON_SECRET",
	} {
		t.Setenv(name, "")
	}
}

func loadConfig(t *testing.T, body string) *config.Config {
	t.Helper()
	clearCredentials(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	return cfg
}

func TestBuild_WithoutCredentials(t *testing.T) {
	cfg := loadConfig(t, "app:\n  name: enrich-test\n")

	a := Build(cfg, logger.NewTestLogger(t), Options{})

	assert.Nil(t, a.CRM)
	assert.Nil(t, a.Summarizer)
	assert.Nil(t, a.Cache)
	assert.Nil(t, a.Lock)
	assert.False(t, a.Search.Enabled())
	assert.NoError(t, a.Ready(context.Background()))

	_, err := a.Queue.Run(context.Background())
	assert.True(t, errors.HasCode(err, errors.ErrCodeCRMNotConfigured))
}

func TestBuild_RedisBackedCacheAndLock(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := loadConfig(t, `
cache:
  enabled: true
database:
  redis:
    address: `+mr.Addr()+`
`)
	rdb, err := cache.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)

	a := Build(cfg, logger.NewTestLogger(t), Options{Redis: rdb})
	defer a.Close()

	assert.NotNil(t, a.Cache)
	assert.NotNil(t, a.Lock)
	require.NoError(t, a.Ready(context.Background()))

	mr.Close()
	assert.Error(t, a.Ready(context.Background()))
}

// fakeBackends serves the CRM, Scorecard, author search and chat-completions
// endpoints from one server.
type fakeBackends struct {
	mu      sync.Mutex
	written map[string]string
}

func (f *fakeBackends) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/contacts/v1/lists/42/contacts/all", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer pat-test", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"contacts":[
			{"vid":101,"properties":{"firstname":{"value":"Jane"},"lastname":{"value":"Doe"},"company":{"value":"Example University"},"jobtitle":{"value":"Provost"}}},
			{"vid":102,"properties":{"firstname":{"value":"Old"},"lastname":{"value":"Record"},"company":{"value":"Example University"},"prospect_research_summary":{"value":"done"}}}
		],"has-more":false}`)
	})
	mux.HandleFunc("/crm/v3/objects/contacts/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var body struct {
			Properties map[string]string `json:"properties"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		f.written[strings.TrimPrefix(r.URL.Path, "/crm/v3/objects/contacts/")] = body.Properties["prospect_research_summary"]
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/scorecard", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Example University", r.URL.Query().Get("school.name"))
		_, _ = io.WriteString(w, `{"results":[{"school.name":"Example University","school.city":"Springfield","school.state":"IL","school.ownership":2,"latest.student.size":12000}]}`)
	})
	mux.HandleFunc("/s2/author/search", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[]}`)
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		analysis := `{"executive_summary":"Strong fit for online expansion.","contact_profile":{"scope_level":"institution-wide","division":"Academic Affairs"}}`
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": analysis}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	return mux
}

func TestQueue_EndToEnd(t *testing.T) {
	fake := &fakeBackends{written: map[string]string{}}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	cfg := loadConfig(t, `
batch:
  list_id: "42"
sources:
  institution_stats:
    base_url: `+srv.URL+`/scorecard
  author_profile:
    base_url: `+srv.URL+`/s2
  completions:
    csv_path: `+filepath.Join(t.TempDir(), "missing.csv")+`
integrations:
  hubspot:
    base_url: `+srv.URL+`
    access_token: pat-test
apis:
  genai:
    base_url: `+srv.URL+`/v1
    api_key: sk-test
`)

	a := Build(cfg, logger.NewTestLogger(t), Options{})
	require.NotNil(t, a.CRM)
	require.NotNil(t, a.Summarizer)

	resp, err := a.Queue.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Processed)
	assert.Equal(t, 0, resp.Failed)
	assert.Equal(t, []string{"Jane Doe"}, resp.Contacts)
	require.Len(t, resp.Outcomes, 1)
	assert.Equal(t, []string{models.SourceIPEDS}, resp.Outcomes[0].Sources)

	summary := fake.written["101"]
	assert.Contains(t, summary, "ALLCAMPUS - STRATEGIC OUTREACH PLAN")
	assert.Contains(t, summary, "Strong fit for online expansion.")
	assert.Contains(t, summary, "Division: Academic Affairs")
	assert.NotContains(t, fake.written, "102")
}

func TestContact_DryRunSkipsWrite(t *testing.T) {
	fake := &fakeBackends{written: map[string]string{}}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	cfg := loadConfig(t, `
sources:
  institution_stats:
    base_url: `+srv.URL+`/scorecard
  author_profile:
    base_url: `+srv.URL+`/s2
  completions:
    csv_path: `+filepath.Join(t.TempDir(), "missing.csv")+`
integrations:
  hubspot:
    base_url: `+srv.URL+`
    access_token: pat-test
apis:
  genai:
    base_url: `+srv.URL+`/v1
    api_key: sk-test
`)

	a := Build(cfg, logger.NewTestLogger(t), Options{DryRun: true})
	result, err := a.Contact.Enrich(context.Background(), models.Contact{
		ID: "101", FirstName: "Jane", LastName: "Doe", Company: "Example University",
	})

	require.NoError(t, err)
	assert.False(t, result.Written)
	require.NotNil(t, result.Summary)
	assert.Contains(t, result.Summary.ResearchSummary, "Strong fit for online expansion.")
	assert.Empty(t, fake.written)
}
