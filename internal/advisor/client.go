// Package advisor is an HTTP client for an external advisory service that
// can produce progress reports. It implements analysis.Provider; the scorer
// treats every failure here as a cue to fall back to its local rules, so the
// client only has to fail cleanly, never recover.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"coachpulse/internal/analysis"
	"coachpulse/internal/models"
)

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

type analyzeRequest struct {
	Checkins []models.CheckinRecord `json:"checkins"`
}

// Analyze posts the check-in window to the advisory service and returns its
// report.
func (c *Client) Analyze(ctx context.Context, checkins []models.CheckinRecord) (analysis.AnalysisResult, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		return analysis.AnalysisResult{}, fmt.Errorf("missing advisor base URL")
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	payload, err := json.Marshal(analyzeRequest{Checkins: checkins})
	if err != nil {
		return analysis.AnalysisResult{}, fmt.Errorf("marshal advisor payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/analyze", bytes.NewReader(payload))
	if err != nil {
		return analysis.AnalysisResult{}, fmt.Errorf("create advisor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return analysis.AnalysisResult{}, fmt.Errorf("execute advisor request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return analysis.AnalysisResult{}, fmt.Errorf("read advisor response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return analysis.AnalysisResult{}, fmt.Errorf("advisor request failed with status %d", resp.StatusCode)
	}

	var result analysis.AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		return analysis.AnalysisResult{}, fmt.Errorf("parse advisor response: %w", err)
	}
	if result.Trend == "" {
		return analysis.AnalysisResult{}, fmt.Errorf("advisor response missing trend")
	}
	return result, nil
}
