package models

// Conversation roles accepted on the wire. Anything else (system, tool)
// stays internal to the agent and never crosses /api/chat.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
	Model    string        `json:"model,omitempty"`
}

// ChatResponse is the success body of /api/chat: the assistant's reply plus
// the full normalized conversation including it.
type ChatResponse struct {
	Assistant ChatMessage   `json:"assistant"`
	Messages  []ChatMessage `json:"messages"`
}

// ErrorBody is the flat failure payload of /api/chat. Clients prefer
// Message, then Error, then fall back to the HTTP status.
type ErrorBody struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
