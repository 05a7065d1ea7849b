package advisor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachpulse/internal/analysis"
	"coachpulse/internal/models"
)

func TestAnalyzeParsesResponse(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/analyze", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
		  "strengths": [{"kind": "strength", "title": "Consistent training", "priority": "high"}],
		  "warnings": [],
		  "suggestions": [],
		  "goals": [],
		  "overall_score": 7.4,
		  "trend": "improving"
		}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, APIKey: "secret", HTTPClient: ts.Client()}
	result, err := c.Analyze(context.Background(), []models.CheckinRecord{{TotalScore: 7}})
	require.NoError(t, err)
	assert.Equal(t, analysis.TrendImproving, result.Trend)
	assert.InDelta(t, 7.4, result.OverallScore, 1e-9)
	require.Len(t, result.Strengths, 1)
	assert.Equal(t, "Consistent training", result.Strengths[0].Title)
}

func TestAnalyzeFailsOnServerError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	_, err := c.Analyze(context.Background(), nil)
	assert.ErrorContains(t, err, "status 502")
}

func TestAnalyzeFailsOnMalformedResponse(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"trend": ""}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client()}
	_, err := c.Analyze(context.Background(), nil)
	assert.ErrorContains(t, err, "missing trend")
}

func TestAnalyzeRequiresBaseURL(t *testing.T) {
	t.Parallel()

	c := &Client{}
	_, err := c.Analyze(context.Background(), nil)
	assert.ErrorContains(t, err, "missing advisor base URL")
}
