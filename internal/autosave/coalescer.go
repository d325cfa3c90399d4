// Package autosave batches rapid in-memory edits into single delayed
// persistence writes, one pending timer per project.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/rowanmb/jobsite/internal/domain/project"
)

// DefaultDelay is the quiet period after the last edit before a write
// fires.
const DefaultDelay = 600 * time.Millisecond

// SaveFunc persists a project snapshot for the given owner.
type SaveFunc func(ctx context.Context, ownerID string, snapshot project.Project) error

type pending struct {
	timer    *clock.Timer
	ownerID  string
	snapshot project.Project
}

// Coalescer debounces writes per project id. Scheduling while a timer is
// pending cancels and replaces it, so a burst of edits collapses into one
// write carrying the state after the last edit. Writes are not serialized
// against each other: if a timer fires while a previous write for the same
// key is still in flight, the new write goes out anyway and the
// repository's whole-record overwrite decides the outcome.
type Coalescer struct {
	mu      sync.Mutex
	delay   time.Duration
	clock   clock.Clock
	save    SaveFunc
	logger  *slog.Logger
	pending map[string]*pending
}

// New creates a coalescer. A zero delay falls back to DefaultDelay; a nil
// clock falls back to the wall clock.
func New(delay time.Duration, clk clock.Clock, save SaveFunc, logger *slog.Logger) *Coalescer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Coalescer{
		delay:   delay,
		clock:   clk,
		save:    save,
		logger:  logger,
		pending: make(map[string]*pending),
	}
}

// Schedule records the snapshot and (re)starts the delay timer for the
// project's key. The snapshot captured here is what the eventual write
// persists, even if the project is switched away from or deleted before
// the timer fires.
func (c *Coalescer) Schedule(ownerID string, snapshot project.Project) {
	key := snapshot.ID

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.pending[key]; ok {
		entry.timer.Stop()
	}
	entry := &pending{ownerID: ownerID, snapshot: snapshot}
	entry.timer = c.clock.AfterFunc(c.delay, func() {
		c.fire(key)
	})
	c.pending[key] = entry
}

// Pending reports how many keys have a scheduled write.
func (c *Coalescer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Flush fires every pending write immediately. Called on shutdown so the
// quiet period doesn't swallow the last edits.
func (c *Coalescer) Flush() {
	c.mu.Lock()
	keys := make([]string, 0, len(c.pending))
	for key, entry := range c.pending {
		entry.timer.Stop()
		keys = append(keys, key)
	}
	c.mu.Unlock()

	for _, key := range keys {
		c.fire(key)
	}
}

func (c *Coalescer) fire(key string) {
	c.mu.Lock()
	entry, ok := c.pending[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.pending, key)
	c.mu.Unlock()

	// Failures are surfaced here and dropped: no retry, no queue. The
	// in-memory state stays as edited.
	if err := c.save(context.Background(), entry.ownerID, entry.snapshot); err != nil {
		c.logger.Error("autosave failed", "project_id", key, "error", err)
	}
}
