package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"legalintake-backend/models"
	"legalintake-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatRouter(backendURL string) *gin.Engine {
	relay := service.NewChatRelay(backendURL, nil)
	h := NewChatHandler(relay, nil)

	r := gin.New()
	r.POST("/api/chat", h.RelayChat)
	return r
}

func postChat(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRelayChat_StreamsUpstreamBody(t *testing.T) {
	var gotBody []byte
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		flusher := w.(http.Flusher)
		w.Write([]byte(`0:"Hello"` + "\n"))
		flusher.Flush()
		w.Write([]byte(`0:" world"` + "\n"))
		flusher.Flush()
	}))
	defer backend.Close()

	r := newChatRouter(backend.URL)
	payload, err := json.Marshal(gin.H{
		"messages": []models.ChatMessage{{
			Role:    "user",
			Content: "Summarize the attached contract",
			Attachments: []models.Attachment{{
				Name: "contract.pdf",
				Type: "application/pdf",
				URL:  "/api/blob/local/contract-abc.pdf",
			}},
		}},
		"data": gin.H{"intakeId": "abc"},
	})
	require.NoError(t, err)
	w := postChat(r, "/api/chat", string(payload))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "v1", w.Header().Get("x-vercel-ai-data-stream"))
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `0:"Hello"`+"\n"+`0:" world"`+"\n", w.Body.String())

	// The payload reaches the backend byte-for-byte, attachment keys
	// included
	assert.JSONEq(t, string(payload), string(gotBody))
	assert.Contains(t, string(gotBody), `"experimental_attachments"`)
}

func TestRelayChat_ChatModePassthrough(t *testing.T) {
	var gotMode string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMode = r.URL.Query().Get("chat_mode")
	}))
	defer backend.Close()

	r := newChatRouter(backend.URL)
	w := postChat(r, "/api/chat?chat_mode=lawyer", `{"messages":[]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "lawyer", gotMode)
}

func TestRelayChat_UpstreamError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer backend.Close()

	r := newChatRouter(backend.URL)
	w := postChat(r, "/api/chat", `{"messages":[]}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	// A clean JSON error body, never a partially-streamed one
	assert.JSONEq(t, `{"error": "Chat backend error"}`, w.Body.String())
}

func TestRelayChat_UpstreamUnreachable(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close() // connection refused from here on

	r := newChatRouter(backend.URL)
	w := postChat(r, "/api/chat", `{"messages":[]}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error": "Chat backend unreachable"}`, w.Body.String())
}
