package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"scrapp/internal/models"
	"scrapp/internal/pubmed"
)

// scriptedProvider replays canned responses and records what it was sent.
type scriptedProvider struct {
	responses []*Response
	errs      []error
	calls     [][]Message
}

func (p *scriptedProvider) DefaultModel() string { return "scripted" }

func (p *scriptedProvider) Chat(_ context.Context, _ string, messages []Message, _ []ToolDefinition) (*Response, error) {
	p.calls = append(p.calls, append([]Message(nil), messages...))
	i := len(p.calls) - 1
	if i < len(p.errs) && p.errs[i] != nil {
		return nil, p.errs[i]
	}
	if i >= len(p.responses) {
		return &Response{Content: "out of script"}, nil
	}
	return p.responses[i], nil
}

type fakeSearcher struct {
	params  []pubmed.SearchParams
	payload *pubmed.Payload
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, params pubmed.SearchParams) (*pubmed.Payload, error) {
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func TestChatWithToolsPlainAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []*Response{{Content: "hello there"}}}
	a := New(provider, &fakeSearcher{})

	out, err := a.ChatWithTools(context.Background(), []models.ChatMessage{
		{Role: "user", Content: "hi"},
	}, "")
	if err != nil {
		t.Fatalf("ChatWithTools failed: %v", err)
	}
	if out != "hello there" {
		t.Errorf("Expected plain answer, got %q", out)
	}

	sent := provider.calls[0]
	if sent[0].Role != "system" || !strings.Contains(sent[0].Content, "pubmed_search") {
		t.Errorf("Expected system prompt first, got %+v", sent[0])
	}
	if sent[1].Role != "user" || sent[1].Content != "hi" {
		t.Errorf("Expected user message after system prompt, got %+v", sent[1])
	}
}

func TestChatWithToolsRunsSearch(t *testing.T) {
	provider := &scriptedProvider{responses: []*Response{
		{ToolCalls: []ToolCall{{
			ID:        "call_1",
			Name:      "pubmed_search",
			Arguments: `{"terms":["older","alzheimer"],"max_results":5,"pub_date_start":"2019"}`,
		}}},
		{Content: `{"total_results":1,"results":[]}`},
	}}
	searcher := &fakeSearcher{payload: &pubmed.Payload{
		Source: "eutils", Query: `"older" AND "alzheimer"`, TotalResults: 1, Results: []pubmed.Result{},
	}}
	a := New(provider, searcher)

	out, err := a.ChatWithTools(context.Background(), []models.ChatMessage{
		{Role: "user", Content: "find alzheimer papers"},
	}, "")
	if err != nil {
		t.Fatalf("ChatWithTools failed: %v", err)
	}
	if out != `{"total_results":1,"results":[]}` {
		t.Errorf("Unexpected final content %q", out)
	}

	if len(searcher.params) != 1 {
		t.Fatalf("Expected one search, got %d", len(searcher.params))
	}
	got := searcher.params[0]
	if len(got.Terms) != 2 || got.Terms[0] != "older" {
		t.Errorf("Unexpected terms %v", got.Terms)
	}
	if got.MaxResults != 5 {
		t.Errorf("Expected max_results 5, got %d", got.MaxResults)
	}
	if got.PubDateStart != "2019" {
		t.Errorf("Expected pub_date_start passthrough, got %q", got.PubDateStart)
	}

	// Second provider call must carry the assistant tool request and a tool
	// result whose content is the payload JSON.
	second := provider.calls[1]
	last := second[len(second)-1]
	if last.Role != "tool" || last.ToolCallID != "call_1" {
		t.Fatalf("Expected trailing tool message for call_1, got %+v", last)
	}
	var payload pubmed.Payload
	if err := json.Unmarshal([]byte(last.Content), &payload); err != nil {
		t.Fatalf("Tool result is not JSON: %v", err)
	}
	if payload.TotalResults != 1 {
		t.Errorf("Unexpected tool payload %+v", payload)
	}
}

func TestChatWithToolsSearchFailureIsReportedToModel(t *testing.T) {
	provider := &scriptedProvider{responses: []*Response{
		{ToolCalls: []ToolCall{{ID: "call_1", Name: "pubmed_search", Arguments: `{"terms":["x"]}`}}},
		{Content: "sorry, the search failed"},
	}}
	searcher := &fakeSearcher{err: errors.New("eutils down")}
	a := New(provider, searcher)

	out, err := a.ChatWithTools(context.Background(), []models.ChatMessage{
		{Role: "user", Content: "search pubmed"},
	}, "")
	if err != nil {
		t.Fatalf("A failing search must not fail the turn: %v", err)
	}
	if out != "sorry, the search failed" {
		t.Errorf("Unexpected content %q", out)
	}

	second := provider.calls[1]
	last := second[len(second)-1]
	if !strings.Contains(last.Content, "pubmed_search_failed") || !strings.Contains(last.Content, "eutils down") {
		t.Errorf("Expected error object in tool result, got %q", last.Content)
	}
}

func TestChatWithToolsUnknownTool(t *testing.T) {
	provider := &scriptedProvider{responses: []*Response{
		{ToolCalls: []ToolCall{{ID: "call_1", Name: "launch_missiles", Arguments: "{}"}}},
	}}
	a := New(provider, &fakeSearcher{})

	_, err := a.ChatWithTools(context.Background(), []models.ChatMessage{
		{Role: "user", Content: "hi"},
	}, "")
	if err == nil || !strings.Contains(err.Error(), "unknown tool") {
		t.Fatalf("Expected unknown tool error, got %v", err)
	}
}

func TestRunPubMedSearchClampsMaxResults(t *testing.T) {
	searcher := &fakeSearcher{payload: &pubmed.Payload{}}
	a := New(&scriptedProvider{}, searcher)

	a.runPubMedSearch(context.Background(), `{"terms":["x"],"max_results":9999}`)
	a.runPubMedSearch(context.Background(), `{"terms":["x"]}`)

	if searcher.params[0].MaxResults != 200 {
		t.Errorf("Expected clamp to 200, got %d", searcher.params[0].MaxResults)
	}
	if searcher.params[1].MaxResults != 10 {
		t.Errorf("Expected default 10, got %d", searcher.params[1].MaxResults)
	}
}

func TestFallbackProvider(t *testing.T) {
	primary := &scriptedProvider{errs: []error{errors.New("quota")}}
	backup := &scriptedProvider{responses: []*Response{{Content: "from backup"}}}
	fb := NewFallbackProvider(primary, backup)

	resp, err := fb.Chat(context.Background(), "some-model", []Message{{Role: "user", Content: "hi"}}, nil)
	if err != nil {
		t.Fatalf("Fallback chat failed: %v", err)
	}
	if resp.Content != "from backup" {
		t.Errorf("Expected backup response, got %q", resp.Content)
	}
}

func TestFallbackProviderAllFail(t *testing.T) {
	primary := &scriptedProvider{errs: []error{errors.New("quota")}}
	backup := &scriptedProvider{errs: []error{errors.New("down")}}
	fb := NewFallbackProvider(primary, backup)

	_, err := fb.Chat(context.Background(), "", []Message{{Role: "user", Content: "hi"}}, nil)
	if err == nil || !strings.Contains(err.Error(), "all providers failed") {
		t.Fatalf("Expected aggregate error, got %v", err)
	}
}
