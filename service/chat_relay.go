package service

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// ChatRelay forwards chat payloads to the remote streaming chat backend.
// The payload and the streamed response pass through untouched; the
// caller's request context carries cancellation to the upstream call so
// an early client disconnect stops the upstream stream.
type ChatRelay struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

// NewChatRelay creates a new chat relay for the given backend base URL
func NewChatRelay(baseURL string, log *zap.SugaredLogger) *ChatRelay {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ChatRelay{
		baseURL: baseURL,
		// No client timeout: streams are long-lived and bounded by
		// the request context instead.
		httpClient: &http.Client{},
		log:        log,
	}
}

// Relay posts the raw payload to the chat backend and returns the
// upstream response for streaming. chatMode, when non-empty, is passed
// through as a query discriminator and never interpreted locally.
func (r *ChatRelay) Relay(ctx context.Context, payload io.Reader, chatMode string) (*http.Response, error) {
	endpoint := r.baseURL + "/api/chat"
	if chatMode != "" {
		endpoint += "?chat_mode=" + url.QueryEscape(chatMode)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.Warnw("chat backend unreachable", "error", err)
		return nil, err
	}

	return resp, nil
}
