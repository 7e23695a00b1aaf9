package service

import (
	"context"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const (
	defaultWorkspaceCapacity = 1024
	// evictedMemory is how many evicted profiles are remembered per live slot.
	evictedMemory = 4
)

// draftLookup is the part of DraftService the registry needs beyond a workspace's own.
type draftLookup interface {
	draftPersister
	Exists(ctx context.Context, profileID string) (bool, error)
}

// WorkspaceRegistry keeps the most recently used workspaces in memory. An evicted
// workspace flushes its pending save, and the next Get for that profile rebuilds the
// workspace from its stored draft. A profile seen for the first time starts from the
// default form and only reports that a draft exists.
type WorkspaceRegistry struct {
	mu      sync.Mutex
	cache   *lru.Cache[string, *Workspace]
	evicted *lru.Cache[string, struct{}]
	closing atomic.Bool
	drafts  draftLookup
	opts    WorkspaceOptions
	metrics *MetricsService
	logger  *zap.Logger
}

// NewWorkspaceRegistry builds a registry holding at most capacity workspaces.
func NewWorkspaceRegistry(capacity int, drafts draftLookup, opts WorkspaceOptions, metrics *MetricsService, logger *zap.Logger) (*WorkspaceRegistry, error) {
	if capacity <= 0 {
		capacity = defaultWorkspaceCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}
	r := &WorkspaceRegistry{drafts: drafts, opts: opts, metrics: metrics, logger: logger}
	cache, err := lru.NewWithEvict[string, *Workspace](capacity, r.onEvict)
	if err != nil {
		return nil, err
	}
	r.cache = cache
	evicted, err := lru.New[string, struct{}](capacity * evictedMemory)
	if err != nil {
		return nil, err
	}
	r.evicted = evicted
	return r, nil
}

func (r *WorkspaceRegistry) onEvict(profileID string, ws *Workspace) {
	r.logger.Debug("workspace evicted", zap.String("profile_id", profileID))
	ws.Close()
	if !r.closing.Load() {
		r.evicted.Add(profileID, struct{}{})
	}
}

// Get returns the profile's workspace. A profile whose workspace was evicted gets its
// stored draft back; any other new profile starts from the default form.
func (r *WorkspaceRegistry) Get(ctx context.Context, profileID string) *Workspace {
	if ws, ok := r.cache.Get(profileID); ok {
		return ws
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.cache.Get(profileID); ok {
		return ws
	}

	hasDraft, err := r.drafts.Exists(ctx, profileID)
	if err != nil {
		r.logger.Warn("draft lookup failed", zap.String("profile_id", profileID), zap.Error(err))
	}
	ws := NewWorkspace(profileID, r.drafts, hasDraft, r.opts)
	if r.evicted.Contains(profileID) {
		r.evicted.Remove(profileID)
		if _, restored := ws.LoadDraft(ctx); restored {
			r.logger.Debug("workspace restored from draft", zap.String("profile_id", profileID))
		}
	}
	r.cache.Add(profileID, ws)
	r.metrics.SetActiveWorkspaces(r.cache.Len())
	return ws
}

// Peek returns an existing workspace without creating one or touching recency.
func (r *WorkspaceRegistry) Peek(profileID string) (*Workspace, bool) {
	return r.cache.Peek(profileID)
}

// Len reports the number of live workspaces.
func (r *WorkspaceRegistry) Len() int {
	return r.cache.Len()
}

// HasDraft reports whether a snapshot exists, preferring the live workspace's view.
func (r *WorkspaceRegistry) HasDraft(ctx context.Context, profileID string) (bool, error) {
	if ws, ok := r.cache.Peek(profileID); ok {
		return ws.State().HasDraft, nil
	}
	return r.drafts.Exists(ctx, profileID)
}

// Close flushes and drops every workspace. Used on shutdown.
func (r *WorkspaceRegistry) Close() {
	r.closing.Store(true)
	r.cache.Purge()
	r.evicted.Purge()
	r.metrics.SetActiveWorkspaces(0)
}

var _ draftLookup = (*DraftService)(nil)
