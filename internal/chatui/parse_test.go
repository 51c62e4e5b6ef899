package chatui

import "testing"

func TestTryParsePubMedPlainText(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "not json"},
		{"empty", ""},
		{"whitespace", "   \n  "},
		{"no braces", "results: none"},
		{"unbalanced braces", "oops {"},
		{"invalid json in braces", "{nope}"},
		{"json without results", `{"total_results":3}`},
		{"results not an array", `{"results":{"a":1}}`},
		{"results null", `{"results":null}`},
		{"results wrong element type", `{"results":[1,2,3]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if rs, ok := TryParsePubMed(tc.content); ok {
				t.Errorf("Expected plain text, got %+v", rs)
			}
		})
	}
}

func TestTryParsePubMedStructured(t *testing.T) {
	rs, ok := TryParsePubMed(`{"total_results":2,"results":[{"title":"A","url":"http://x"},{"title":"B","url":"http://y"}]}`)
	if !ok {
		t.Fatal("Expected structured parse")
	}
	if rs.TotalResults == nil || *rs.TotalResults != 2 {
		t.Errorf("Expected total_results 2, got %v", rs.TotalResults)
	}
	if len(rs.Results) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(rs.Results))
	}
	if rs.Results[0].Title != "A" || rs.Results[1].Title != "B" {
		t.Errorf("Order must be preserved, got %q then %q", rs.Results[0].Title, rs.Results[1].Title)
	}
}

func TestTryParsePubMedFencedBlock(t *testing.T) {
	rs, ok := TryParsePubMed("```json\n{\"results\":[]}\n```")
	if !ok {
		t.Fatal("Expected structured parse from fenced block")
	}
	if len(rs.Results) != 0 {
		t.Errorf("Expected zero entries, got %d", len(rs.Results))
	}
	if rs.TotalResults != nil {
		t.Errorf("Absent count must stay nil, got %d", *rs.TotalResults)
	}
}

func TestTryParsePubMedUntaggedFence(t *testing.T) {
	rs, ok := TryParsePubMed("```\n{\"results\":[{\"url\":\"http://x\"}]}\n```")
	if !ok {
		t.Fatal("Expected structured parse from untagged fence")
	}
	if len(rs.Results) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(rs.Results))
	}
}

func TestTryParsePubMedSurroundingProse(t *testing.T) {
	rs, ok := TryParsePubMed(`Here is what I found: {"total_results":1,"query":"\"aging\"","results":[{"pmid":"42","title":"T","url":"http://x"}]} let me know!`)
	if !ok {
		t.Fatal("Expected structured parse with surrounding prose")
	}
	if rs.Query != `"aging"` {
		t.Errorf("Unexpected query %q", rs.Query)
	}
	if rs.Results[0].PMID != "42" {
		t.Errorf("Unexpected pmid %q", rs.Results[0].PMID)
	}
}

func TestTryParsePubMedFenceWinsOverOuterBraces(t *testing.T) {
	content := "intro {decoy}\n```json\n{\"results\":[]}\n```"
	rs, ok := TryParsePubMed(content)
	if !ok {
		t.Fatal("Expected the fenced interior to be used")
	}
	if len(rs.Results) != 0 {
		t.Errorf("Expected empty result set from fence, got %+v", rs)
	}
}
