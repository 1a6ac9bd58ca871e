package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"legalintake-backend/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	generationAPI  = "https://generativelanguage.googleapis.com/v1beta/models/gemini-3-pro-preview:generateContent"
	maxRetries     = 3
	initialBackoff = time.Second
)

// GeminiAnalyzer implements Analyzer against the Gemini API directly,
// for deployments that run without the external analysis backend
type GeminiAnalyzer struct {
	client *genai.Client
	apiKey string
	log    *zap.SugaredLogger
}

// NewGeminiAnalyzer creates a new Gemini-backed analyzer
func NewGeminiAnalyzer(ctx context.Context, apiKey string, log *zap.SugaredLogger) (*GeminiAnalyzer, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	return &GeminiAnalyzer{
		client: client,
		apiKey: apiKey,
		log:    log,
	}, nil
}

// Analyze builds a case assessment prompt, calls the generation API and
// parses the JSON assessment out of the model response. Failures are
// reported as ErrAnalysisUnavailable so the submission workflow can
// degrade the same way it does for the remote backend.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, req AnalysisRequest) (*models.AIAssessment, error) {
	prompt := buildAssessmentPrompt(req)

	raw, err := a.callGenerationAPI(ctx, prompt, 0.2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisUnavailable, err)
	}

	var apiResp analysisResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &apiResp); err != nil {
		a.log.Warnw("failed to parse assessment from model output", "error", err)
		return nil, fmt.Errorf("%w: failed to parse assessment: %v", ErrAnalysisUnavailable, err)
	}

	return apiResp.toAssessment(), nil
}

// buildAssessmentPrompt builds the standardized case assessment prompt.
// The criteria sub-ranges must match the scoring contract the frontend
// renders (legalMerit 0-30, evidenceQuality 0-20, damagesPotential 0-25,
// proceduralViability 0-15, likelihoodOfSuccess 0-10).
func buildAssessmentPrompt(req AnalysisRequest) string {
	return fmt.Sprintf(`You are a legal intake analyst. Analyze this intake submission and provide a standardized assessment.

CLIENT INFORMATION:
- Name: %s
- Location/Jurisdiction: %s
- Matter Type: %s
- Incident Date: %s

CASE DESCRIPTION:
%s

Score case strength 0-100 across these criteria:
- Legal Merit (0-30): strength of applicable laws, clear violations, precedent
- Evidence Quality (0-20): available evidence, documentation, witnesses
- Damages Potential (0-25): severity of harm, quantifiable losses
- Procedural Viability (0-15): statute of limitations, jurisdiction, procedural barriers
- Likelihood of Success (0-10): overall probability of favorable outcome

Also provide: a 2-3 sentence case summary, detailed reasoning with legal
citations, time-sensitive warnings (statute of limitations deadlines,
filing deadlines), 5-7 recommended law firms in the client's jurisdiction
that specialize in this matter type, and applicable statutes.

Respond with ONLY a JSON object in this exact shape:
{
  "summary": "...",
  "score": 75,
  "scoreBreakdown": {
    "legalMerit": 25,
    "evidenceQuality": 15,
    "damagesPotential": 20,
    "proceduralViability": 10,
    "likelihoodOfSuccess": 5,
    "explanation": "..."
  },
  "reasoning": "...",
  "warnings": ["..."],
  "recommendedFirms": [
    {"name": "...", "location": "...", "practiceAreas": ["..."], "website": "...", "reasoning": "...", "source": "..."}
  ],
  "applicableLaws": [
    {"statute": "...", "summary": "...", "relevance": "..."}
  ]
}`,
		orDefault(req.Name),
		orDefault(req.Location),
		orDefault(req.MatterType),
		orDefault(req.IncidentDate),
		orDefault(req.Description),
	)
}

func orDefault(s string) string {
	if s == "" {
		return "Not provided"
	}
	return s
}

// extractJSON strips markdown fences and any prose around the JSON
// object in a model response
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// callGenerationAPI calls the Gemini generation API directly via HTTP
func (a *GeminiAnalyzer) callGenerationAPI(ctx context.Context, prompt string, temperature float64) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      temperature,
			"responseMimeType": "application/json",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, "POST", generationAPI, bytes.NewBuffer(jsonData))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", a.apiKey)

		client := &http.Client{Timeout: 120 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			if attempt == maxRetries-1 {
				return "", fmt.Errorf("failed to send request after %d attempts: %w", maxRetries, err)
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			text, err := decodeGenerationResponse(resp.Body)
			resp.Body.Close()
			if err != nil {
				if attempt == maxRetries-1 {
					return "", err
				}
				continue
			}
			return text, nil
		}

		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()

		// Don't retry on 400 or 401 errors
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return "", fmt.Errorf("API error: %d - %s", resp.StatusCode, string(bodyBytes))
		}

		if attempt == maxRetries-1 {
			return "", fmt.Errorf("API error after %d attempts: %d", maxRetries, resp.StatusCode)
		}
	}

	return "", fmt.Errorf("generation failed")
}

func decodeGenerationResponse(body io.Reader) (string, error) {
	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason,omitempty"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason,omitempty"`
		} `json:"promptFeedback,omitempty"`
		Error struct {
			Code    int    `json:"code,omitempty"`
			Message string `json:"message,omitempty"`
		} `json:"error,omitempty"`
	}

	if err := json.NewDecoder(body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Error.Message != "" {
		return "", fmt.Errorf("API error: %s (code: %d)", apiResp.Error.Message, apiResp.Error.Code)
	}

	if apiResp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("API blocked prompt: %s", apiResp.PromptFeedback.BlockReason)
	}

	if len(apiResp.Candidates) == 0 {
		return "", fmt.Errorf("API returned no candidates")
	}

	var text strings.Builder
	for _, candidate := range apiResp.Candidates {
		for _, part := range candidate.Content.Parts {
			text.WriteString(part.Text)
		}
	}

	if text.Len() == 0 {
		return "", fmt.Errorf("API returned empty content")
	}

	return text.String(), nil
}
