package chatui

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ResultSet is the PubMed-shaped payload recognized inside assistant text.
// Fields beyond these are ignored; total_results stays a pointer so an
// absent count renders blank instead of zero.
type ResultSet struct {
	TotalResults *int          `json:"total_results"`
	Query        string        `json:"query"`
	Results      []ResultEntry `json:"results"`
}

// ResultEntry is one rendered card.
type ResultEntry struct {
	PMID            string `json:"pmid"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	Authors         string `json:"authors"`
	JournalCitation string `json:"journal_citation"`
	Snippet         string `json:"snippet"`
}

var fencedBlockRE = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// TryParsePubMed sniffs message content for an embedded PubMed payload.
// The heuristic is deliberately best-effort: trim, prefer the interior of
// the first fenced block, take the first "{" through the last "}", and
// require a results array. Anything that fails along the way means plain
// text; this function never errors.
func TryParsePubMed(content string) (*ResultSet, bool) {
	text := strings.TrimSpace(content)
	if text == "" {
		return nil, false
	}

	if m := fencedBlockRE.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	candidate := text[start : end+1]

	var probe struct {
		TotalResults *int            `json:"total_results"`
		Query        string          `json:"query"`
		Results      json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal([]byte(candidate), &probe); err != nil {
		return nil, false
	}

	// results must be present and must be an array.
	raw := strings.TrimSpace(string(probe.Results))
	if raw == "" || !strings.HasPrefix(raw, "[") {
		return nil, false
	}
	var entries []ResultEntry
	if err := json.Unmarshal(probe.Results, &entries); err != nil {
		return nil, false
	}
	if entries == nil {
		entries = []ResultEntry{}
	}

	return &ResultSet{
		TotalResults: probe.TotalResults,
		Query:        probe.Query,
		Results:      entries,
	}, true
}
