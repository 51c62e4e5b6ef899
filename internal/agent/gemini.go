package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider adapts Google's Gemini API to the Provider interface.
// It is used as a fallback when a Gemini key is configured.
type GeminiProvider struct {
	client       *genai.Client
	defaultModel string
}

func NewGeminiProvider(ctx context.Context, apiKey, defaultModel string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client, defaultModel: defaultModel}, nil
}

func (p *GeminiProvider) Close() {
	p.client.Close()
}

func (p *GeminiProvider) DefaultModel() string {
	return p.defaultModel
}

func (p *GeminiProvider) Chat(ctx context.Context, model string, messages []Message, tools []ToolDefinition) (*Response, error) {
	if model == "" {
		model = p.defaultModel
	}

	m := p.client.GenerativeModel(model)
	m.SetTemperature(0.3)

	var decls []*genai.FunctionDeclaration
	for _, td := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        td.Name,
			Description: td.Description,
			Parameters:  schemaFromMap(td.Parameters),
		})
	}
	if len(decls) > 0 {
		m.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	var history []*genai.Content
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(msg.Content)}}
		case "user":
			history = append(history, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(msg.Content)},
			})
		case "assistant":
			var parts []genai.Part
			if msg.Content != "" {
				parts = append(parts, genai.Text(msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				var args map[string]interface{}
				json.Unmarshal([]byte(tc.Arguments), &args)
				parts = append(parts, genai.FunctionCall{Name: tc.Name, Args: args})
			}
			if len(parts) == 0 {
				parts = append(parts, genai.Text(""))
			}
			history = append(history, &genai.Content{Role: "model", Parts: parts})
		case "tool":
			var result map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Content), &result); err != nil {
				result = map[string]interface{}{"content": msg.Content}
			}
			history = append(history, &genai.Content{
				Role:  "function",
				Parts: []genai.Part{genai.FunctionResponse{Name: msg.Name, Response: result}},
			})
		}
	}

	if len(history) == 0 {
		return nil, fmt.Errorf("no messages to send")
	}

	last := history[len(history)-1]
	cs := m.StartChat()
	cs.History = history[:len(history)-1]

	genResp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini chat: %w", err)
	}
	if len(genResp.Candidates) == 0 || genResp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	resp := &Response{}
	for _, part := range genResp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			resp.Content += string(v)
		case genai.FunctionCall:
			args, _ := json.Marshal(v.Args)
			resp.ToolCalls = append(resp.ToolCalls, ToolCall{
				ID:        v.Name, // Gemini has no call IDs; the name is stable enough
				Name:      v.Name,
				Arguments: string(args),
			})
		}
	}
	return resp, nil
}

// schemaFromMap converts a JSON Schema parameter map into the genai schema
// type. Only the subset used by tool definitions is handled.
func schemaFromMap(raw map[string]interface{}) *genai.Schema {
	if raw == nil {
		return nil
	}

	schema := &genai.Schema{Type: schemaType(raw["type"])}
	if desc, ok := raw["description"].(string); ok {
		schema.Description = desc
	}
	if props, ok := raw["properties"].(map[string]interface{}); ok {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for name, p := range props {
			if pm, ok := p.(map[string]interface{}); ok {
				schema.Properties[name] = schemaFromMap(pm)
			}
		}
	}
	if items, ok := raw["items"].(map[string]interface{}); ok {
		schema.Items = schemaFromMap(items)
	}
	if req, ok := raw["required"].([]string); ok {
		schema.Required = req
	} else if reqAny, ok := raw["required"].([]interface{}); ok {
		for _, r := range reqAny {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}
	return schema
}

func schemaType(v interface{}) genai.Type {
	name, _ := v.(string)
	if names, ok := v.([]interface{}); ok {
		// Nullable unions like ["string","null"]: use the first concrete type.
		for _, n := range names {
			if s, ok := n.(string); ok && s != "null" {
				name = s
				break
			}
		}
	}
	switch name {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "string":
		return genai.TypeString
	default:
		return genai.TypeUnspecified
	}
}
