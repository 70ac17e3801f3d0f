package history

import (
	"strings"

	"github.com/sandevgo/counsel/internal/core"
)

const (
	// relevanceThreshold is a hard cutoff: no partial credit below it.
	relevanceThreshold = 0.3

	// sameToolWeight prefers history from the tool doing the asking.
	sameToolWeight = 2.0

	minKeywordLen = 4
)

var stopWords = map[string]bool{
	"this":   true,
	"that":   true,
	"with":   true,
	"from":   true,
	"what":   true,
	"when":   true,
	"where":  true,
	"which":  true,
	"have":   true,
	"will":   true,
	"would":  true,
	"could":  true,
	"should": true,
	"about":  true,
	"there":  true,
	"their":  true,
	"does":   true,
	"using":  true,
}

// Select keeps the entries whose keyword overlap with query clears the
// weighted threshold, preserving newest-first order and truncating to
// limit. This is a keyword heuristic, not semantic search: ties fall to
// recency.
func Select(entries []core.ConversationEntry, query, tool string, limit int) []core.ConversationEntry {
	keywords := extractKeywords(query)
	if len(keywords) == 0 {
		return nil
	}

	var out []core.ConversationEntry
	for _, entry := range entries {
		if len(out) >= limit {
			break
		}
		if scoreEntry(entry, keywords, tool) > relevanceThreshold {
			out = append(out, entry)
		}
	}
	return out
}

func scoreEntry(entry core.ConversationEntry, keywords []string, tool string) float64 {
	text := strings.ToLower(entry.Query + " " + entry.Response)

	matched := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matched++
		}
	}

	score := float64(matched) / float64(max(1, len(keywords)))
	if entry.Tool == tool {
		score *= sameToolWeight
	}
	return score
}

func extractKeywords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	var keywords []string
	for _, field := range fields {
		word := strings.Trim(field, ".,;:!?\"'()[]{}")
		if len(word) < minKeywordLen || stopWords[word] {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}
