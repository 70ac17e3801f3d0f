package assembler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/counsel/internal/core"
)

type stubProject struct {
	snapshot core.ProjectContext
}

func (s *stubProject) Get(ctx context.Context) core.ProjectContext { return s.snapshot }

type stubHistory struct {
	entries []core.ConversationEntry
}

func (s *stubHistory) Recent(ctx context.Context, limit int, maxAge time.Duration) []core.ConversationEntry {
	if len(s.entries) > limit {
		return s.entries[:limit]
	}
	return s.entries
}

func historyEntry(tool, query, response string) core.ConversationEntry {
	return core.ConversationEntry{
		Timestamp: time.Now(),
		Tool:      tool,
		Provider:  "openai",
		Query:     query,
		Response:  response,
	}
}

func TestBuild_EmptyHistoryPlaceholder(t *testing.T) {
	a := NewAssembler(
		&stubProject{snapshot: core.ProjectContext{Readme: "readme", Manifest: "manifest", Structure: "src/"}},
		&stubHistory{},
	)

	block := a.Build(context.Background(), "how do i add a handler", "consult")

	if !strings.Contains(block, PlaceholderNoHistory) {
		t.Errorf("expected %q in block:\n%s", PlaceholderNoHistory, block)
	}
	if !strings.Contains(block, "how do i add a handler") {
		t.Error("current query must appear verbatim")
	}
}

func TestBuild_SectionsPresent(t *testing.T) {
	a := NewAssembler(
		&stubProject{snapshot: core.ProjectContext{
			Readme:    "A broker for AI consultation.",
			Manifest:  "go.mod:\nmodule example.com/thing",
			Structure: "cmd/\ninternal/",
		}},
		&stubHistory{entries: []core.ConversationEntry{
			{
				Timestamp:    time.Now(),
				Tool:         "consult",
				Provider:     "anthropic",
				Query:        "workspace resolver ordering question",
				Response:     "explicit state wins",
				ContextFiles: []string{"internal/workspace/resolver.go"},
			},
		}},
	)

	block := a.Build(context.Background(), "workspace resolver ordering", "consult")

	for _, want := range []string{
		"## Project Overview",
		"## Relevant Files",
		"internal/workspace/resolver.go",
		"## Conversation History",
		"explicit state wins",
		"## Current Query",
		"workspace resolver ordering",
	} {
		if !strings.Contains(block, want) {
			t.Errorf("expected %q in block:\n%s", want, block)
		}
	}
}

func TestBuild_FieldTruncation(t *testing.T) {
	longReadme := strings.Repeat("r", 2000)
	longResponse := strings.Repeat("a", 1000)

	a := NewAssembler(
		&stubProject{snapshot: core.ProjectContext{Readme: longReadme, Manifest: "m", Structure: "s"}},
		&stubHistory{entries: []core.ConversationEntry{
			historyEntry("consult", "truncation budget behavior", longResponse),
		}},
	)

	block := a.Build(context.Background(), "truncation budget behavior", "consult")

	if strings.Contains(block, longReadme) {
		t.Error("readme should be truncated to its budget")
	}
	if !strings.Contains(block, strings.Repeat("r", 800)+"...") {
		t.Error("readme should be cut at 800 chars with an ellipsis")
	}
	if strings.Contains(block, longResponse) {
		t.Error("history response should be truncated to its budget")
	}
}

func TestBuild_OverBudgetCollapsesHistory(t *testing.T) {
	// 10k-char readme truncates to 800, so the bulk must come from
	// history entries to push past the 8000-token (32000-char) budget.
	bigEntries := make([]core.ConversationEntry, 50)
	for i := range bigEntries {
		bigEntries[i] = historyEntry("consult",
			"massive history payload entry "+strings.Repeat("query ", 30),
			strings.Repeat("x", 300))
	}

	a := NewAssembler(
		&stubProject{snapshot: core.ProjectContext{
			Readme:    strings.Repeat("readme ", 1500),
			Manifest:  strings.Repeat("manifest ", 200),
			Structure: strings.Repeat("dir/\n", 6000),
		}},
		&stubHistory{entries: bigEntries},
	)

	query := "does the history collapse over budget"
	block := a.Build(context.Background(), query, "consult")

	if (len(block)+3)/4 > tokenBudget {
		t.Errorf("block still over budget: %d chars", len(block))
	}
	if !strings.Contains(block, placeholderHistoryCollapsed) {
		t.Error("expected the history section to collapse to its placeholder")
	}
	if !strings.Contains(block, query) {
		t.Error("query must survive the collapse verbatim")
	}
}

func TestBuild_HistoryCollapsePreservesQuery(t *testing.T) {
	bigEntries := make([]core.ConversationEntry, 50)
	for i := range bigEntries {
		bigEntries[i] = historyEntry("consult",
			"collapse preserving current query section "+strings.Repeat("pad ", 60),
			strings.Repeat("response ", 40))
	}

	// Structure sized so the block overflows with history injected but
	// fits once the history section collapses to its placeholder.
	a := NewAssembler(
		&stubProject{snapshot: core.ProjectContext{
			Readme:    strings.Repeat("r", 10000),
			Manifest:  "manifest",
			Structure: strings.Repeat("pkg/\n", 6100),
		}},
		&stubHistory{entries: bigEntries},
	)

	query := "collapse preserving current query section"
	block := a.Build(context.Background(), query, "consult")

	if !strings.Contains(block, placeholderHistoryCollapsed) {
		t.Error("expected the collapsed-history placeholder")
	}
	if !strings.Contains(block, query) {
		t.Error("collapsing history must preserve the current query verbatim")
	}
	if !strings.Contains(block, strings.Repeat("r", 800)+"...") {
		t.Error("project overview must survive the collapse")
	}
}

func TestBuild_HardCutWhenCollapseInsufficient(t *testing.T) {
	a := NewAssembler(
		&stubProject{snapshot: core.ProjectContext{
			Readme:    "r",
			Manifest:  "m",
			Structure: strings.Repeat("deeply/nested/dir\n", 3000),
		}},
		&stubHistory{},
	)

	block := a.Build(context.Background(), "hard cut fallback", "consult")

	if !strings.HasSuffix(block, truncationMarker) {
		t.Error("expected the hard-cut truncation marker")
	}
	if len([]rune(block)) > tokenBudget*4+len(truncationMarker) {
		t.Errorf("hard cut did not bound the block: %d chars", len(block))
	}
}

func TestBuild_NoQuerySkipsRelevanceFilter(t *testing.T) {
	entries := []core.ConversationEntry{
		historyEntry("consult", "completely unrelated topic alpha", "answer alpha"),
		historyEntry("research", "another unrelated topic beta", "answer beta"),
	}

	a := NewAssembler(
		&stubProject{snapshot: core.ProjectContext{Readme: "r", Manifest: "m", Structure: "s"}},
		&stubHistory{entries: entries},
	)

	block := a.Build(context.Background(), "", "consult")

	// Without a query the recent entries are injected unfiltered.
	if !strings.Contains(block, "answer alpha") || !strings.Contains(block, "answer beta") {
		t.Errorf("expected unfiltered recent history in block:\n%s", block)
	}
}
