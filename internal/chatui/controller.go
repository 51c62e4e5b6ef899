package chatui

import (
	"strings"

	"scrapp/internal/models"
)

// Controller owns the client-side conversation state: the message list,
// the in-flight flag and the error banner. A send is two-phase so the UI
// can run the network call asynchronously: BeginSend applies the
// optimistic update and yields the outbound request, FinishSend
// reconciles with the server's answer.
type Controller struct {
	messages []models.ChatMessage
	loading  bool
	errText  string
	model    string
}

func NewController(model string) *Controller {
	return &Controller{model: model}
}

func (c *Controller) Messages() []models.ChatMessage { return c.messages }
func (c *Controller) Loading() bool                  { return c.loading }
func (c *Controller) Err() string                    { return c.errText }

// BeginSend starts a send. It returns nil (a no-op) when a request is
// already in flight or the trimmed text is empty. Otherwise it clears any
// prior error, raises the in-flight flag, optimistically appends the user
// message and returns the request to issue, carrying the local history
// filtered to wire roles.
func (c *Controller) BeginSend(text string) *models.ChatRequest {
	text = strings.TrimSpace(text)
	if c.loading || text == "" {
		return nil
	}

	c.errText = ""
	c.loading = true
	c.messages = append(c.messages, models.ChatMessage{Role: models.RoleUser, Content: text})

	return &models.ChatRequest{Messages: c.outbound(), Model: c.model}
}

// FinishSend reconciles the conversation once the request settles. On
// failure the optimistic message is rolled back and the error surfaced;
// on success the server's list replaces the local one wholesale. A
// success without a list keeps the optimistic local history. The
// in-flight flag clears either way.
func (c *Controller) FinishSend(resp *models.ChatResponse, err error) {
	defer func() { c.loading = false }()

	if err != nil {
		c.errText = err.Error()
		if len(c.messages) > 0 {
			c.messages = c.messages[:len(c.messages)-1]
		}
		return
	}

	if resp != nil && resp.Messages != nil {
		c.messages = resp.Messages
	}
}

// outbound filters the local history down to user/assistant roles; any
// other role stays local and is never sent.
func (c *Controller) outbound() []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(c.messages))
	for _, m := range c.messages {
		if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
			continue
		}
		out = append(out, m)
	}
	return out
}
