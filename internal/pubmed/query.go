package pubmed

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	yearRE       = regexp.MustCompile(`\b(18|19|20)\d{2}\b`)
	yearOnlyRE   = regexp.MustCompile(`^\d{4}$`)
	fullDateRE   = regexp.MustCompile(`^(\d{4})[-/](\d{2})[-/](\d{2})$`)
)

func cleanText(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// BuildQuery turns search terms into a PubMed term expression:
// one term stays quoted, several are quoted and AND-joined.
func BuildQuery(terms []string) (string, error) {
	var cleaned []string
	for _, t := range terms {
		if c := cleanText(t); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return "", fmt.Errorf("no terms provided")
	}
	quoted := make([]string, len(cleaned))
	for i, t := range cleaned {
		quoted[i] = `"` + t + `"`
	}
	return strings.Join(quoted, " AND "), nil
}

// NormalizeDate accepts YYYY, YYYY/MM/DD or YYYY-MM-DD and returns
// YYYY/MM/DD. Bare years widen to Jan 1 for "start" and Dec 31 for "end".
// Anything unrecognized passes through untouched, same as the E-utilities
// caller would send it.
func NormalizeDate(s, kind string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if yearOnlyRE.MatchString(s) {
		if kind == "start" {
			return s + "/01/01"
		}
		return s + "/12/31"
	}
	if m := fullDateRE.FindStringSubmatch(s); m != nil {
		return m[1] + "/" + m[2] + "/" + m[3]
	}
	return s
}

func parsePublicationYear(pubdate string) *int {
	m := yearRE.FindString(pubdate)
	if m == "" {
		return nil
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &y
}

// formatJournalCitation builds "Source. pubdate; vol(issue): pages." from an
// esummary document, skipping whatever is missing.
func formatJournalCitation(doc esummaryDoc) string {
	source := cleanText(doc.Source)
	pubdate := cleanText(doc.PubDate)
	volume := cleanText(doc.Volume)
	issue := cleanText(doc.Issue)
	pages := cleanText(doc.Pages)
	elocation := cleanText(doc.ELocationID)

	var parts []string
	if source != "" {
		parts = append(parts, source+".")
	}
	if pubdate != "" {
		parts = append(parts, pubdate+";")
	}
	volIssue := ""
	if volume != "" {
		volIssue = volume
	}
	if issue != "" {
		if volume != "" {
			volIssue += "(" + issue + ")"
		} else {
			volIssue = issue
		}
	}
	if volIssue != "" {
		parts = append(parts, volIssue+":")
	}
	if pages != "" {
		parts = append(parts, pages+".")
	} else if elocation != "" {
		parts = append(parts, elocation+".")
	}
	return strings.Trim(cleanText(strings.Join(parts, " ")), ";")
}
