// Package assembler composes project context and relevant conversation
// history into one bounded prompt block.
package assembler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/counsel/internal/core"
	"github.com/sandevgo/counsel/internal/history"
	"github.com/sandevgo/counsel/pkg/log"
	"github.com/sandevgo/counsel/pkg/tokens"
)

const (
	// Per-field character budgets keep any single long field from
	// swallowing the whole block.
	manifestBudget        = 500
	readmeBudget          = 800
	historyQueryBudget    = 200
	historyResponseBudget = 300

	// tokenBudget bounds the assembled block, estimated at 4 chars/token.
	tokenBudget = 8000

	// historyFetchLimit entries are pulled from the store before
	// relevance filtering narrows them to historyInjectLimit.
	historyFetchLimit  = 10
	historyInjectLimit = 5

	PlaceholderNoHistory        = "No previous conversation history"
	placeholderHistoryCollapsed = "[conversation history omitted: context budget exceeded]"
	truncationMarker            = "\n[context truncated]"
)

type ProjectSource interface {
	Get(ctx context.Context) core.ProjectContext
}

type HistorySource interface {
	Recent(ctx context.Context, limit int, maxAge time.Duration) []core.ConversationEntry
}

type Assembler struct {
	project ProjectSource
	history HistorySource
}

func NewAssembler(project ProjectSource, historyStore HistorySource) *Assembler {
	return &Assembler{
		project: project,
		history: historyStore,
	}
}

// Build assembles the context block for query. When query is non-empty
// the injected history is relevance-filtered against it; otherwise the
// most recent entries are taken as-is.
func (a *Assembler) Build(ctx context.Context, query, tool string) string {
	snapshot := a.project.Get(ctx)

	recent := a.history.Recent(ctx, historyFetchLimit, history.FreshnessWindow)
	var selected []core.ConversationEntry
	if query != "" {
		selected = history.Select(recent, query, tool, historyInjectLimit)
	} else if len(recent) > historyInjectLimit {
		selected = recent[:historyInjectLimit]
	} else {
		selected = recent
	}

	block := render(snapshot, historySection(selected), contextFiles(selected), query)

	if tokens.Estimate(len(block)) <= tokenBudget {
		return block
	}

	// Over budget: drop the history section first, keeping the project
	// overview and the current query verbatim.
	log.FromCtx(ctx).Debug().Int("chars", len(block)).Msg("context block over budget, collapsing history")
	block = render(snapshot, placeholderHistoryCollapsed, nil, query)
	if tokens.Estimate(len(block)) <= tokenBudget {
		return block
	}

	// Still over: hard character cut with a marker.
	runes := []rune(block)
	limit := tokenBudget * 4
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes) + truncationMarker
}

func render(snapshot core.ProjectContext, historyText string, files []string, query string) string {
	var sb strings.Builder

	sb.WriteString("## Project Overview\n\n")
	sb.WriteString("Manifest:\n")
	sb.WriteString(truncate(snapshot.Manifest, manifestBudget))
	sb.WriteString("\n\nREADME:\n")
	sb.WriteString(truncate(snapshot.Readme, readmeBudget))
	sb.WriteString("\n\nStructure:\n")
	sb.WriteString(snapshot.Structure)
	sb.WriteString("\n")

	if len(files) > 0 {
		sb.WriteString("\n## Relevant Files\n\n")
		for _, f := range files {
			sb.WriteString("- " + f + "\n")
		}
	}

	sb.WriteString("\n## Conversation History\n\n")
	sb.WriteString(historyText)
	sb.WriteString("\n")

	sb.WriteString("\n## Current Query\n\n")
	sb.WriteString(query)
	sb.WriteString("\n")

	return sb.String()
}

func historySection(entries []core.ConversationEntry) string {
	if len(entries) == 0 {
		return PlaceholderNoHistory
	}

	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		parts = append(parts, fmt.Sprintf("[%s] %s via %s\nQ: %s\nA: %s",
			entry.Timestamp.Format(time.RFC3339),
			entry.Tool,
			entry.Provider,
			truncate(entry.Query, historyQueryBudget),
			truncate(entry.Response, historyResponseBudget),
		))
	}
	return strings.Join(parts, "\n\n")
}

func contextFiles(entries []core.ConversationEntry) []string {
	seen := make(map[string]bool)
	var files []string
	for _, entry := range entries {
		for _, f := range entry.ContextFiles {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
