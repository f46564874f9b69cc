package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scrape renders the registry in text format
func scrape(t *testing.T, reg *prometheus.Registry) string {
	rec := httptest.NewRecorder()
	NewRouter(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMetrics_IncQuestionAnswered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncQuestionAnswered("Rust", "Q1")
	m.IncQuestionAnswered("Rust", "Q1")
	m.IncQuestionAnswered("Go", "Q2")

	body := scrape(t, reg)
	assert.Contains(t, body, `qnabot_questions_answered_total{category="Rust",question="Q1"} 2`)
	assert.Contains(t, body, `qnabot_questions_answered_total{category="Go",question="Q2"} 1`)
}

func TestMetrics_ObserveUpdate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveUpdate("start", nil, time.Millisecond)
	m.ObserveUpdate("start", errors.New("boom"), time.Millisecond)
	m.ObserveUpdate("", nil, time.Millisecond)

	body := scrape(t, reg)
	assert.Contains(t, body, `qnabot_updates_total{endpoint="start",outcome="ok"} 1`)
	assert.Contains(t, body, `qnabot_updates_total{endpoint="start",outcome="error"} 1`)
	assert.Contains(t, body, `qnabot_updates_total{endpoint="default",outcome="ok"} 1`)
	assert.Contains(t, body, `qnabot_update_duration_seconds_count 3`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncQuestionAnswered("Rust", "Q1")
		m.ObserveUpdate("start", nil, time.Second)
	})
}

func TestRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.IncQuestionAnswered("Rust", "Q1")

	router := NewRouter(reg)

	tests := []struct {
		name         string
		path         string
		expectedCode int
		contains     string
	}{
		{name: "health", path: "/healthz", expectedCode: http.StatusOK, contains: "ok"},
		{name: "metrics", path: "/metrics", expectedCode: http.StatusOK, contains: `qnabot_questions_answered_total{category="Rust",question="Q1"} 1`},
		{name: "unknown", path: "/nope", expectedCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.expectedCode, rec.Code)
			assert.True(t, strings.Contains(rec.Body.String(), tt.contains), rec.Body.String())
		})
	}
}
