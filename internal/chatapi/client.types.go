package chatapi

import "encoding/json"

// Message is a single conversational message exchanged with the chat
// backend. Proposals are carried as raw JSON: the protocol layer decodes
// and validates them one by one so a single malformed proposal never
// poisons the whole message.
type Message struct {
	Role           string            `json:"role"`
	Content        string            `json:"content"`
	Proposals      []json.RawMessage `json:"proposals,omitempty"`
	PreviewContext map[string]any    `json:"previewContext,omitempty"`
}

// HasProposals reports whether the message carries action proposals.
func (m *Message) HasProposals() bool {
	return m != nil && len(m.Proposals) > 0
}

type sendMessageRequest struct {
	Content string `json:"content"`
}
