// Package broker orchestrates the consultation operations: it assembles
// context, enforces provider budgets, wraps upstream calls in retry and
// records the conversation history.
package broker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sandevgo/counsel/internal/core"
	"github.com/sandevgo/counsel/internal/ratelimit"
	"github.com/sandevgo/counsel/internal/workspace"
	"github.com/sandevgo/counsel/pkg/log"
	"github.com/sandevgo/counsel/pkg/retry"
	"github.com/sandevgo/counsel/pkg/tokens"
)

const (
	ToolConsult  = "consult"
	ToolResearch = "research"
	ToolExecute  = "execute"
)

type ContextBuilder interface {
	Build(ctx context.Context, query, tool string) string
}

type HistoryStore interface {
	Append(ctx context.Context, entry core.ConversationEntry)
	Repoint()
}

type Invalidator interface {
	Invalidate()
}

type Broker struct {
	providers core.ProviderSet
	limiter   *ratelimit.Limiter
	retrier   *retry.Retrier
	builder   ContextBuilder
	store     HistoryStore
	state     *workspace.State
	cache     Invalidator
	now       func() time.Time
}

func NewBroker(
	providers core.ProviderSet,
	limiter *ratelimit.Limiter,
	retrier *retry.Retrier,
	builder ContextBuilder,
	store HistoryStore,
	state *workspace.State,
	cache Invalidator,
) *Broker {
	return &Broker{
		providers: providers,
		limiter:   limiter,
		retrier:   retrier,
		builder:   builder,
		store:     store,
		state:     state,
		cache:     cache,
		now:       time.Now,
	}
}

// Providers returns the configured provider ids, sorted.
func (b *Broker) Providers() []string {
	names := b.providers.Names()
	sort.Strings(names)
	return names
}

// Remaining exposes the provider's unused call budget.
func (b *Broker) Remaining(provider string) int {
	return b.limiter.Remaining(provider)
}

// Consult sends one prompt to one provider with assembled context.
// An unconfigured provider fails before the rate tracker is touched;
// a denied budget comes back as a QuotaError the caller can render as a
// non-fatal result.
func (b *Broker) Consult(ctx context.Context, provider, prompt, extraContext string, contextFiles []string) (string, error) {
	b.HintWorkspace(ctx, contextFiles)

	p, ok := b.providers[provider]
	if !ok {
		return "", &core.NotConfiguredError{Provider: provider}
	}

	if !b.limiter.CanCall(provider) {
		return "", &core.QuotaError{
			Provider:  provider,
			Remaining: b.limiter.Remaining(provider),
			ResetAt:   b.limiter.ResetAt(provider),
		}
	}

	block := b.builder.Build(ctx, prompt, ToolConsult)
	if extraContext != "" {
		block += "\n## Additional Context\n\n" + extraContext + "\n"
	}

	b.limiter.RecordCall(provider)

	response, err := b.generate(ctx, provider, p, block)
	if err != nil {
		return "", err
	}

	b.record(ctx, ToolConsult, provider, prompt, response, contextFiles)
	return response, nil
}

// Research fans the question out to several providers and aggregates
// their answers. Per-provider failures (unconfigured, out of budget,
// upstream error) become sections of the report instead of failing the
// whole run.
func (b *Broker) Research(ctx context.Context, question string, subset []string) (string, error) {
	targets := subset
	if len(targets) == 0 {
		targets = b.Providers()
	}
	if len(targets) == 0 {
		return "", fmt.Errorf("no providers configured: set at least one API key (e.g. OPENAI_API_KEY) and restart")
	}

	block := b.builder.Build(ctx, question, ToolResearch)

	var sections []string
	var responses []string
	var succeeded []string

	for _, name := range targets {
		p, ok := b.providers[name]
		if !ok {
			sections = append(sections, fmt.Sprintf("### %s\n\nskipped: provider is not configured", name))
			continue
		}
		if !b.limiter.CanCall(name) {
			sections = append(sections, fmt.Sprintf("### %s\n\nskipped: call limit reached, window resets at %s",
				name, b.limiter.ResetAt(name).Format(time.RFC3339)))
			continue
		}

		b.limiter.RecordCall(name)

		response, err := b.generate(ctx, name, p, block)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("provider", name).Msg("research provider failed")
			sections = append(sections, fmt.Sprintf("### %s\n\nfailed: %v", name, err))
			continue
		}

		sections = append(sections, fmt.Sprintf("### %s\n\n%s", name, response))
		responses = append(responses, response)
		succeeded = append(succeeded, name)
	}

	report := fmt.Sprintf("## Research: %s\n\n%s", question, strings.Join(sections, "\n\n"))

	if len(succeeded) > 0 {
		recordedProvider := succeeded[0]
		if len(succeeded) > 1 {
			recordedProvider = core.ProviderMultiple
		}
		b.record(ctx, ToolResearch, recordedProvider, question, strings.Join(responses, "\n\n"), nil)
	}
	return report, nil
}

// Execute routes a raw command to a named operation. It exists so a host
// that only forwards free-form commands can still reach every operation.
func (b *Broker) Execute(ctx context.Context, command, operation string, args map[string]any) (string, error) {
	switch operation {
	case ToolConsult:
		provider, _ := args["provider"].(string)
		if provider == "" {
			return "", fmt.Errorf("execute: operation %q requires a provider argument", operation)
		}
		extra, _ := args["context"].(string)
		return b.Consult(ctx, provider, command, extra, stringSlice(args["context_files"]))
	case ToolResearch:
		return b.Research(ctx, command, stringSlice(args["providers"]))
	case "set_workspace":
		path, _ := args["path"].(string)
		if path == "" {
			path = command
		}
		return b.SetWorkspace(ctx, path)
	default:
		return "", fmt.Errorf("execute: unknown operation %q (supported: consult, research, set_workspace)", operation)
	}
}

// SetWorkspace pins the active workspace, invalidates the project cache
// and re-points the history store at the new workspace's file.
func (b *Broker) SetWorkspace(ctx context.Context, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid workspace path %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("workspace %q does not exist: check the path and try again", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workspace %q is not a directory", abs)
	}

	b.state.Set(abs)
	b.cache.Invalidate()
	b.store.Repoint()

	log.FromCtx(ctx).Info().Str("workspace", abs).Msg("workspace pinned")
	return fmt.Sprintf("Workspace set to %s", abs), nil
}

// HintWorkspace pins the workspace from a request-embedded file path
// when no workspace has been set explicitly.
func (b *Broker) HintWorkspace(ctx context.Context, contextFiles []string) {
	if b.state.Get() != "" {
		return
	}
	for _, file := range contextFiles {
		if !filepath.IsAbs(file) {
			continue
		}
		dir := filepath.Dir(file)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			if _, err := b.SetWorkspace(ctx, dir); err == nil {
				return
			}
		}
	}
}

func (b *Broker) generate(ctx context.Context, name string, p core.Provider, prompt string) (string, error) {
	var response string
	err := b.retrier.Do(ctx, func() error {
		r, err := p.Generate(ctx, prompt)
		if err != nil {
			return fmt.Errorf("provider %s: %w", name, err)
		}
		response = r
		return nil
	})
	return response, err
}

func (b *Broker) record(ctx context.Context, tool, provider, query, response string, files []string) {
	b.store.Append(ctx, core.ConversationEntry{
		Timestamp:    b.now(),
		Tool:         tool,
		Provider:     provider,
		Query:        query,
		Response:     response,
		ContextFiles: files,
		TokenCount:   tokens.Count(query + response),
	})
}

func stringSlice(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
