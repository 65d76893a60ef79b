package models

import "encoding/json"

// Role is the speaker of a provider message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// HumanSender is the history sender value the browser client uses for the person typing.
const HumanSender = "Usuario"

// HistoryEntry is one past turn as supplied by the client.
type HistoryEntry struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// ProviderMessage is a turn in the shape Gemini expects. Parts always holds exactly one string.
type ProviderMessage struct {
	Role  Role     `json:"role"`
	Parts []string `json:"parts"`
}

// ChatRequest is the payload sent to the chat endpoint.
// History keeps the raw JSON so it can be echoed back untouched.
type ChatRequest struct {
	Message string
	History json.RawMessage
}

// Entries extracts history entries from the raw JSON. Anything that is not
// an array yields no entries; elements that are not objects, and fields that
// are not strings, become empty strings.
func (r *ChatRequest) Entries() []HistoryEntry {
	var items []json.RawMessage
	if err := json.Unmarshal(r.History, &items); err != nil {
		return nil
	}

	entries := make([]HistoryEntry, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			entries = append(entries, HistoryEntry{})
			continue
		}
		entries = append(entries, HistoryEntry{
			Sender: stringField(fields, "sender"),
			Text:   stringField(fields, "text"),
		})
	}
	return entries
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// ChatResponse is the reply from the chat endpoint. Response is set only on
// success, Error only on failure.
type ChatResponse struct {
	Success  bool            `json:"success"`
	Response *string         `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`
	History  json.RawMessage `json:"history,omitempty"`
}

func NewChatSuccess(text string, history json.RawMessage) ChatResponse {
	return ChatResponse{Success: true, Response: &text, History: history}
}

func NewChatFailure(message string) ChatResponse {
	return ChatResponse{Success: false, Error: message}
}
