package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sandevgo/counsel/internal/core"
	"github.com/sandevgo/counsel/pkg/log"
)

const (
	// FileName is the per-workspace history file, owned exclusively by
	// this store for the lifetime of the process.
	FileName = ".mcp-conversation-history.json"

	// maxEntries caps the in-memory sequence; insertion is at the front
	// and eviction trims the tail.
	maxEntries = 20

	// retentionCeiling is the storage eviction horizon applied at load.
	retentionCeiling = 24 * time.Hour

	// FreshnessWindow is the shorter horizon used when surfacing history
	// into new prompts, independent of the retention ceiling.
	FreshnessWindow = 6 * time.Hour
)

// PathResolver yields the active workspace directory.
type PathResolver interface {
	Resolve() string
}

// Store is the durable, per-workspace conversation log. The file is read
// once per workspace and rewritten wholesale on every append. Two
// processes appending to the same workspace race last-writer-wins; that
// is accepted, not guaranteed against.
type Store struct {
	mu        sync.Mutex
	resolver  PathResolver
	now       func() time.Time
	entries   []core.ConversationEntry // newest first
	loadedFor string
}

func NewStore(resolver PathResolver) *Store {
	return &Store{
		resolver: resolver,
		now:      time.Now,
	}
}

// Append records a new entry at the front, evicting past capacity, and
// rewrites the backing file. A write failure is logged and does not roll
// back memory: the entry stays for the rest of the process even if
// durability failed.
func (s *Store) Append(ctx context.Context, entry core.ConversationEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	workspace := s.ensureLoaded(ctx)

	s.entries = append([]core.ConversationEntry{entry}, s.entries...)
	if len(s.entries) > maxEntries {
		s.entries = s.entries[:maxEntries]
	}

	if err := s.persist(workspace); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("workspace", workspace).Msg("failed to persist conversation history")
	}
}

// Recent returns up to limit entries newer than maxAge, newest first.
func (s *Store) Recent(ctx context.Context, limit int, maxAge time.Duration) []core.ConversationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded(ctx)

	cutoff := s.now().Add(-maxAge)
	var out []core.ConversationEntry
	for _, entry := range s.entries {
		if len(out) >= limit {
			break
		}
		if entry.Timestamp.After(cutoff) {
			out = append(out, entry)
		}
	}
	return out
}

// All returns every retained entry, newest first, unfiltered by age
// beyond the load-time retention ceiling.
func (s *Store) All(ctx context.Context) []core.ConversationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded(ctx)

	out := make([]core.ConversationEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Repoint drops the loaded sequence so the next access reads the file of
// the newly resolved workspace.
func (s *Store) Repoint() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.loadedFor = ""
}

// ensureLoaded loads the history file for the currently resolved
// workspace if it is not the one already in memory. Callers hold s.mu.
func (s *Store) ensureLoaded(ctx context.Context) string {
	workspace := s.resolver.Resolve()
	if workspace == s.loadedFor {
		return workspace
	}

	s.entries = nil
	s.loadedFor = workspace

	data, err := os.ReadFile(filepath.Join(workspace, FileName))
	if err != nil {
		if !os.IsNotExist(err) {
			log.FromCtx(ctx).Warn().Err(err).Str("workspace", workspace).Msg("failed to load conversation history")
		}
		return workspace
	}

	var loaded []core.ConversationEntry
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("workspace", workspace).Msg("conversation history file is corrupt, starting fresh")
		return workspace
	}

	// Drop entries past the retention ceiling; re-persist only when the
	// trim actually removed something.
	cutoff := s.now().Add(-retentionCeiling)
	kept := loaded[:0]
	for _, entry := range loaded {
		if entry.Timestamp.After(cutoff) {
			kept = append(kept, entry)
		}
	}
	if len(kept) > maxEntries {
		kept = kept[:maxEntries]
	}
	s.entries = kept

	if len(kept) < len(loaded) {
		if err := s.persist(workspace); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("workspace", workspace).Msg("failed to re-persist trimmed history")
		}
	}
	return workspace
}

func (s *Store) persist(workspace string) error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(workspace, FileName), data, 0o644)
}
