package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"legalintake-backend/models"

	"go.uber.org/zap"
)

// ErrAnalysisUnavailable is returned when the analysis backend is
// unreachable, times out, or answers with a non-2xx status. Callers
// absorb this error and proceed without AI fields.
var ErrAnalysisUnavailable = errors.New("analysis backend unavailable")

const analysisTimeout = 90 * time.Second

// analysisResponse mirrors the assessment payload produced by the
// analysis backend
type analysisResponse struct {
	Summary          string                   `json:"summary"`
	Score            *int                     `json:"score"`
	ScoreBreakdown   *models.AIScoreBreakdown `json:"scoreBreakdown"`
	Reasoning        string                   `json:"reasoning"`
	Warnings         []string                 `json:"warnings"`
	RecommendedFirms models.RecommendedFirms  `json:"recommendedFirms"`
	ApplicableLaws   models.ApplicableLaws    `json:"applicableLaws"`
}

// toAssessment converts a backend response into persisted AI fields.
// Empty strings map to absent fields rather than empty values.
func (r *analysisResponse) toAssessment() *models.AIAssessment {
	a := &models.AIAssessment{
		AIScore:          r.Score,
		AIScoreBreakdown: r.ScoreBreakdown,
		AIWarnings:       r.Warnings,
		RecommendedFirms: r.RecommendedFirms,
		ApplicableLaws:   r.ApplicableLaws,
	}
	if r.Summary != "" {
		summary := r.Summary
		a.AISummary = &summary
	}
	if r.Reasoning != "" {
		reasoning := r.Reasoning
		a.AIReasoning = &reasoning
	}
	return a
}

// AnalysisClient posts intake facts to the external scoring backend and
// parses its structured response
type AnalysisClient struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

// NewAnalysisClient creates a new analysis client for the given backend
// base URL
func NewAnalysisClient(baseURL string, log *zap.SugaredLogger) *AnalysisClient {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &AnalysisClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: analysisTimeout},
		log:        log,
	}
}

// Analyze posts the intake facts to the backend. Any transport or
// protocol failure is reported as ErrAnalysisUnavailable.
func (c *AnalysisClient) Analyze(ctx context.Context, analysisReq AnalysisRequest) (*models.AIAssessment, error) {
	jsonData, err := json.Marshal(analysisReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/intakes/analyze", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.Warnw("analysis backend error", "status", resp.StatusCode, "body", string(bodyBytes))
		return nil, fmt.Errorf("%w: status %d", ErrAnalysisUnavailable, resp.StatusCode)
	}

	var apiResp analysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrAnalysisUnavailable, err)
	}

	return apiResp.toAssessment(), nil
}
