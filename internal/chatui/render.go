package chatui

import (
	"fmt"
	"strconv"
	"strings"

	"scrapp/internal/models"
)

// RenderContent returns the display form of one message body: a card list
// when the content carries a PubMed payload, the raw text otherwise.
func RenderContent(content string) string {
	if rs, ok := TryParsePubMed(content); ok {
		return renderResultSet(rs)
	}
	return content
}

func renderResultSet(rs *ResultSet) string {
	count := ""
	if rs.TotalResults != nil {
		count = strconv.Itoa(*rs.TotalResults)
	}
	header := fmt.Sprintf("PubMed results (total: %s)", count)
	if rs.Query != "" {
		header += fmt.Sprintf(" for %s", rs.Query)
	}

	var b strings.Builder
	b.WriteString(resultHeaderStyle.Render(header))

	for i, r := range rs.Results {
		key := r.PMID
		if key == "" {
			key = strconv.Itoa(i + 1)
		}
		title := r.Title
		if title == "" {
			title = "Untitled"
		}

		b.WriteString("\n\n")
		b.WriteString(resultTitleStyle.Render(fmt.Sprintf("[%s] %s", key, title)))
		if r.Authors != "" {
			b.WriteString("\n" + dimStyle.Render(r.Authors))
		}
		if r.JournalCitation != "" {
			b.WriteString("\n" + dimStyle.Render(r.JournalCitation))
		}
		if r.Snippet != "" {
			b.WriteString("\n" + r.Snippet)
		}
		b.WriteString("\n" + linkStyle.Render(r.URL))
	}

	return b.String()
}

// RenderMessage prepends the role banner to a rendered body.
func RenderMessage(m models.ChatMessage) string {
	role := userRoleStyle.Render("you")
	if m.Role == models.RoleAssistant {
		role = assistantRoleStyle.Render("assistant")
	}
	return role + "\n" + RenderContent(m.Content)
}
