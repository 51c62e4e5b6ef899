package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"scrapp/internal/models"
)

// ChatAgent runs one assistant turn for a normalized history.
type ChatAgent interface {
	ChatWithTools(ctx context.Context, history []models.ChatMessage, model string) (string, error)
}

type ChatHandler struct {
	agent ChatAgent
}

func NewChatHandler(agent ChatAgent) *ChatHandler {
	return &ChatHandler{agent: agent}
}

// Chat handles POST /api/chat. The request carries the full conversation;
// the server is stateless and replies with the normalized conversation plus
// the new assistant message.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorBody{Error: "invalid_json"})
		return
	}
	if req.Messages == nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorBody{Error: "messages_must_be_list"})
		return
	}

	normalized := normalizeMessages(req.Messages)
	if len(normalized) == 0 || normalized[len(normalized)-1].Role != models.RoleUser {
		writeJSON(w, http.StatusBadRequest, models.ErrorBody{Error: "last_message_must_be_user"})
		return
	}

	reply, err := h.agent.ChatWithTools(r.Context(), normalized, req.Model)
	if err != nil {
		log.Printf("Chat turn failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorBody{
			Error:   "backend_error",
			Message: err.Error(),
		})
		return
	}

	assistant := models.ChatMessage{Role: models.RoleAssistant, Content: reply}
	writeJSON(w, http.StatusOK, models.ChatResponse{
		Assistant: assistant,
		Messages:  append(normalized, assistant),
	})
}

// normalizeMessages keeps only user/assistant entries; anything else a
// client might send (system or tool roles) is dropped before it reaches
// the agent.
func normalizeMessages(in []models.ChatMessage) []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(in))
	for _, m := range in {
		if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
			continue
		}
		out = append(out, models.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

// Health is the liveness probe.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
