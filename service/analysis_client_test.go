package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAnalysisJSON = `{
	"summary": "Workplace slip and fall with clear employer liability.",
	"score": 72,
	"scoreBreakdown": {
		"legalMerit": 24,
		"evidenceQuality": 14,
		"damagesPotential": 18,
		"proceduralViability": 10,
		"likelihoodOfSuccess": 6,
		"explanation": "Strong liability facts, moderate damages."
	},
	"reasoning": "California premises liability law applies.",
	"warnings": ["Statute of limitations expires in 14 months"],
	"recommendedFirms": [
		{"name": "Smith & Associates", "location": "San Francisco, CA", "practiceAreas": ["personal injury"], "website": "https://smith.example.com", "reasoning": "Specializes in workplace injuries", "source": "State Bar of California"}
	],
	"applicableLaws": [
		{"statute": "CA Civil Code 1714", "summary": "General negligence standard", "relevance": "Establishes duty of care"}
	]
}`

func TestAnalyze_Success(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/intakes/analyze", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleAnalysisJSON))
	}))
	defer server.Close()

	client := NewAnalysisClient(server.URL, nil)
	assessment, err := client.Analyze(context.Background(), AnalysisRequest{
		Name:        "Jane Doe",
		Email:       "jane@x.com",
		MatterType:  "personal injury",
		Description: "Slipped at work\n\nGoals: Compensation",
		Location:    "California",
	})
	require.NoError(t, err)

	assert.Equal(t, "Slipped at work\n\nGoals: Compensation", gotBody["description"])
	assert.Equal(t, "personal injury", gotBody["matterType"])

	require.NotNil(t, assessment.AIScore)
	assert.Equal(t, 72, *assessment.AIScore)
	assert.GreaterOrEqual(t, *assessment.AIScore, 0)
	assert.LessOrEqual(t, *assessment.AIScore, 100)

	bd := assessment.AIScoreBreakdown
	require.NotNil(t, bd)
	assert.LessOrEqual(t, bd.LegalMerit, 30)
	assert.LessOrEqual(t, bd.EvidenceQuality, 20)
	assert.LessOrEqual(t, bd.DamagesPotential, 25)
	assert.LessOrEqual(t, bd.ProceduralViability, 15)
	assert.LessOrEqual(t, bd.LikelihoodOfSuccess, 10)

	require.Len(t, assessment.RecommendedFirms, 1)
	assert.Equal(t, "Smith & Associates", assessment.RecommendedFirms[0].Name)
	require.Len(t, assessment.ApplicableLaws, 1)
	assert.Equal(t, "CA Civil Code 1714", assessment.ApplicableLaws[0].Statute)
	require.NotNil(t, assessment.AISummary)
	require.NotNil(t, assessment.AIReasoning)
	assert.Len(t, assessment.AIWarnings, 1)
}

func TestAnalyze_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewAnalysisClient(server.URL, nil)
	_, err := client.Analyze(context.Background(), AnalysisRequest{Description: "x"})
	assert.ErrorIs(t, err, ErrAnalysisUnavailable)
}

func TestAnalyze_BackendUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewAnalysisClient(server.URL, nil)
	_, err := client.Analyze(context.Background(), AnalysisRequest{Description: "x"})
	assert.ErrorIs(t, err, ErrAnalysisUnavailable)
}

func TestAnalyze_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewAnalysisClient(server.URL, nil)
	_, err := client.Analyze(context.Background(), AnalysisRequest{Description: "x"})
	assert.ErrorIs(t, err, ErrAnalysisUnavailable)
}

func TestAnalyze_PartialResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"score": 40}`))
	}))
	defer server.Close()

	client := NewAnalysisClient(server.URL, nil)
	assessment, err := client.Analyze(context.Background(), AnalysisRequest{Description: "x"})
	require.NoError(t, err)

	require.NotNil(t, assessment.AIScore)
	assert.Equal(t, 40, *assessment.AIScore)
	// Missing fields stay absent, not zero-filled
	assert.Nil(t, assessment.AISummary)
	assert.Nil(t, assessment.AIReasoning)
	assert.Nil(t, assessment.AIScoreBreakdown)
	assert.Nil(t, assessment.AIWarnings)
}
