package models

// Attachment references an uploaded file by URL. Attachment bytes never
// travel in the chat payload; the file is uploaded out-of-band and only
// the resulting URL is attached.
type Attachment struct {
	Name string `json:"name"`
	Type string `json:"contentType"`
	URL  string `json:"url"`
}

// ChatMessage represents a single message in a chat transcript
type ChatMessage struct {
	Role        string       `json:"role"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"experimental_attachments,omitempty"`
}
