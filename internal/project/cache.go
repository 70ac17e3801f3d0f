package project

import (
	"context"
	"sync"
	"time"

	"github.com/sandevgo/counsel/internal/core"
	"github.com/sandevgo/counsel/pkg/log"
)

const cacheTTL = 5 * time.Minute

// PathResolver yields the active workspace directory.
type PathResolver interface {
	Resolve() string
}

// Cache holds one workspace snapshot at a time. Get serves the snapshot
// while it is younger than the TTL and rebuilds it otherwise; the snapshot
// is replaced wholesale, never patched field by field.
type Cache struct {
	mu       sync.Mutex
	resolver PathResolver
	now      func() time.Time
	ttl      time.Duration
	snapshot *core.ProjectContext
}

func NewCache(resolver PathResolver) *Cache {
	return &Cache{
		resolver: resolver,
		now:      time.Now,
		ttl:      cacheTTL,
	}
}

func (c *Cache) Get(ctx context.Context) core.ProjectContext {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot != nil && c.now().Sub(c.snapshot.CapturedAt) < c.ttl {
		return *c.snapshot
	}

	workspace := c.resolver.Resolve()
	log.FromCtx(ctx).Debug().Str("workspace", workspace).Msg("refreshing project context")

	snapshot := readSnapshot(workspace)
	snapshot.CapturedAt = c.now()
	c.snapshot = &snapshot
	return snapshot
}

// Invalidate forces the next Get to refresh regardless of TTL. Must be
// called whenever the workspace changes.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
}
