package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"scrapp/internal/models"
	"scrapp/internal/pubmed"
)

const systemPrompt = "You are a helpful assistant.\n\n" +
	"If the user asks for PubMed search results (articles/papers/studies from PubMed), you MUST call the `pubmed_search` tool.\n\n" +
	"When returning PubMed results, return ONLY valid JSON (no markdown, no backticks, no extra commentary).\n" +
	"For other questions, answer normally.\n"

// maxToolRounds caps the tool-calling loop so a model that keeps asking
// for searches cannot spin forever.
const maxToolRounds = 8

// Searcher runs a PubMed search. Satisfied by *pubmed.Client.
type Searcher interface {
	Search(ctx context.Context, params pubmed.SearchParams) (*pubmed.Payload, error)
}

// Agent runs one assistant turn with tool calling. The caller owns the
// conversation history; the agent is stateless between turns.
type Agent struct {
	provider Provider
	searcher Searcher
}

func New(provider Provider, searcher Searcher) *Agent {
	return &Agent{provider: provider, searcher: searcher}
}

func pubmedTool() ToolDefinition {
	return ToolDefinition{
		Name:        "pubmed_search",
		Description: "Fetch PubMed search results using NCBI E-utilities (free PubMed API) and return a JSON object.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"terms": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Search terms/phrases, e.g. ['older', 'alzheimer', 'factor analysis']",
				},
				"max_results": map[string]interface{}{
					"type": "integer", "minimum": 1, "maximum": 200, "default": 10,
				},
				"pub_date_start": map[string]interface{}{
					"type":        []interface{}{"string", "null"},
					"description": "Optional publication start date in YYYY or YYYY/MM/DD.",
				},
				"pub_date_end": map[string]interface{}{
					"type":        []interface{}{"string", "null"},
					"description": "Optional publication end date in YYYY or YYYY/MM/DD.",
				},
			},
			"required": []string{"terms"},
		},
	}
}

// ChatWithTools produces the assistant content for the given normalized
// history, executing pubmed_search calls as the model requests them.
func (a *Agent) ChatWithTools(ctx context.Context, history []models.ChatMessage, model string) (string, error) {
	msgs := make([]Message, 0, len(history)+1)
	msgs = append(msgs, Message{Role: "system", Content: systemPrompt})
	for _, m := range history {
		msgs = append(msgs, Message{Role: m.Role, Content: m.Content})
	}
	tools := []ToolDefinition{pubmedTool()}

	resp, err := a.provider.Chat(ctx, model, msgs, tools)
	if err != nil {
		return "", err
	}

	for rounds := 0; len(resp.ToolCalls) > 0; rounds++ {
		if rounds >= maxToolRounds {
			return "", fmt.Errorf("tool call limit exceeded after %d rounds", maxToolRounds)
		}

		msgs = append(msgs, Message{Role: "assistant", Content: resp.Content, ToolCalls: resp.ToolCalls})
		for _, tc := range resp.ToolCalls {
			if tc.Name != "pubmed_search" {
				return "", fmt.Errorf("unknown tool: %s", tc.Name)
			}
			result := a.runPubMedSearch(ctx, tc.Arguments)
			msgs = append(msgs, Message{Role: "tool", ToolCallID: tc.ID, Name: tc.Name, Content: result})
		}

		resp, err = a.provider.Chat(ctx, model, msgs, tools)
		if err != nil {
			return "", err
		}
	}

	return resp.Content, nil
}

type searchArgs struct {
	Terms        []string `json:"terms"`
	MaxResults   int      `json:"max_results"`
	PubDateStart string   `json:"pub_date_start"`
	PubDateEnd   string   `json:"pub_date_end"`
}

// runPubMedSearch executes the tool and always hands JSON back to the
// model; a failed search becomes an error object, not a failed turn.
func (a *Agent) runPubMedSearch(ctx context.Context, rawArgs string) string {
	if rawArgs == "" {
		rawArgs = "{}"
	}
	var args searchArgs
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return toolError("invalid_arguments", err)
	}

	maxResults := args.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	if maxResults > 200 {
		maxResults = 200
	}

	payload, err := a.searcher.Search(ctx, pubmed.SearchParams{
		Terms:        args.Terms,
		MaxResults:   maxResults,
		PubDateStart: args.PubDateStart,
		PubDateEnd:   args.PubDateEnd,
	})
	if err != nil {
		log.Printf("pubmed_search failed: %v", err)
		return toolError("pubmed_search_failed", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return toolError("pubmed_search_failed", err)
	}
	return string(data)
}

func toolError(code string, err error) string {
	data, _ := json.Marshal(map[string]string{
		"error":   code,
		"message": err.Error(),
	})
	return string(data)
}
