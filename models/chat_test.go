package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatMessage_MarshalWireKeys(t *testing.T) {
	msg := ChatMessage{
		Role:    "user",
		Content: "Please review the attached timeline",
		Attachments: []Attachment{{
			Name: "timeline.txt",
			Type: "text/plain",
			URL:  "/api/blob/local/timeline-abc.txt",
		}},
	}

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"role": "user",
		"content": "Please review the attached timeline",
		"experimental_attachments": [
			{"name": "timeline.txt", "contentType": "text/plain", "url": "/api/blob/local/timeline-abc.txt"}
		]
	}`, string(raw))
}

func TestChatMessage_MarshalWithoutAttachments(t *testing.T) {
	raw, err := json.Marshal(ChatMessage{Role: "assistant", Content: "Reviewed."})
	require.NoError(t, err)

	// No attachments means no experimental_attachments key at all
	assert.JSONEq(t, `{"role": "assistant", "content": "Reviewed."}`, string(raw))
}
