package agent

import "context"

// Message is a provider-neutral chat message, including the tool plumbing
// that never leaves the agent.
type Message struct {
	Role       string // "system", "user", "assistant" or "tool"
	Content    string
	ToolCalls  []ToolCall // set on assistant messages that requested tools
	ToolCallID string     // set on tool messages, echoes the call answered
	Name       string     // tool name on tool messages
}

// ToolCall is one function invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON
}

// ToolDefinition describes a function tool as a JSON Schema parameter map.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// Response is one model turn: either content, tool calls, or both.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// Provider abstracts an LLM chat backend with function calling.
type Provider interface {
	Chat(ctx context.Context, model string, messages []Message, tools []ToolDefinition) (*Response, error)
	DefaultModel() string
}
