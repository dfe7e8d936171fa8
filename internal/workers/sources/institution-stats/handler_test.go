// internal/workers/sources/institution-stats/handler_test.go
package institutionstats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prospect-enricher/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHandler(t *testing.T, baseURL string) *Handler {
	t.Helper()
	cfg := LoadConfig()
	cfg.BaseURL = baseURL
	cfg.APIKey = "test-key"
	cfg.Timeout = time.Second
	return NewHandler(cfg, nil, logger.NewTestLogger(t))
}

func TestHandler_Lookup_ExactMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Example State University", q.Get("school.name"))
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "5", q.Get("per_page"))
		assert.Contains(t, q.Get("fields"), "latest.cost.tuition.out_of_state")
		w.Write([]byte(`{"results":[
			{"school.name":"Example State University-Online","school.ownership":1},
			{"school.name":"Example State University","school.city":"Springfield","school.state":"IL",
			 "school.ownership":2,"latest.student.size":21450,"latest.student.enrollment.grad_12_month":5300,
			 "latest.admissions.admission_rate.overall":0.6213,"latest.cost.tuition.in_state":11200,
			 "latest.cost.tuition.out_of_state":29800}
		]}`))
	}))
	defer server.Close()

	stats, err := createTestHandler(t, server.URL).Lookup(context.Background(), "Example State University")

	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, "Example State University", stats.Name)
	assert.Equal(t, "Springfield", stats.Location.City)
	assert.Equal(t, "Private nonprofit", stats.Type)
	assert.Equal(t, 21450, *stats.Enrollment.Total)
	assert.Equal(t, 5300, *stats.Enrollment.Graduate)
	assert.InDelta(t, 0.6213, *stats.Admissions.AcceptanceRate, 1e-9)
	assert.Equal(t, 29800, *stats.Cost.OutOfState)
}

func TestHandler_Lookup_WordOverlapAndNulls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[
			{"school.name":"Springfield Community College","school.ownership":1},
			{"school.name":"Example State University Main Campus","school.ownership":9,
			 "latest.student.size":null}
		]}`))
	}))
	defer server.Close()

	stats, err := createTestHandler(t, server.URL).Lookup(context.Background(), "Example State University")

	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, "Example State University Main Campus", stats.Name)
	assert.Equal(t, "Unknown", stats.Type)
	assert.Nil(t, stats.Enrollment.Total)
}

func TestHandler_Lookup_NoConfidentMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"school.name":"Example College of Art"}]}`))
	}))
	defer server.Close()

	stats, err := createTestHandler(t, server.URL).Lookup(context.Background(), "Example University")

	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestHandler_Lookup_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	h := createTestHandler(t, server.URL)

	_, err := h.Lookup(context.Background(), "Example University")
	assert.Error(t, err)

	stats, err := h.Lookup(context.Background(), "  ")
	assert.NoError(t, err)
	assert.Nil(t, stats)
}
