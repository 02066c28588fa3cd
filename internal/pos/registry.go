package pos

import (
	"context"
	"sync"
	"time"

	"dinedesk-pos-service/internal/session"
	"dinedesk-pos-service/internal/upstream"

	"go.uber.org/zap"
)

// Registry owns the live workspaces, one per operator session. Opening a
// workspace starts its polling refresh; closing it cancels the poller so no
// ticker outlives the session.
type Registry struct {
	client   *upstream.Client
	logger   *zap.Logger
	interval time.Duration

	mu      sync.Mutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	workspace *Workspace
	cancel    context.CancelFunc
}

func NewRegistry(client *upstream.Client, logger *zap.Logger, pollInterval time.Duration) *Registry {
	return &Registry{
		client:   client,
		logger:   logger,
		interval: pollInterval,
		entries:  make(map[string]*registryEntry),
	}
}

// Open returns the session's workspace, creating it and starting its poller
// on first use. The session context is refreshed on every call so upstream
// requests always carry the operator's current credential.
func (r *Registry) Open(ctx context.Context, sess *session.Context) (*Workspace, error) {
	r.mu.Lock()
	if entry, ok := r.entries[sess.SessionID]; ok {
		entry.workspace.updateSession(sess)
		r.mu.Unlock()
		return entry.workspace, nil
	}

	workspace := newWorkspace(r.client, r.logger, sess)
	pollCtx, cancel := context.WithCancel(context.Background())
	r.entries[sess.SessionID] = &registryEntry{workspace: workspace, cancel: cancel}
	r.mu.Unlock()

	if err := workspace.Refresh(ctx); err != nil {
		r.Close(sess.SessionID)
		return nil, err
	}

	go r.poll(pollCtx, workspace)
	return workspace, nil
}

// Get returns an already-open workspace without creating one.
func (r *Registry) Get(sess *session.Context) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[sess.SessionID]
	if !ok {
		return nil, false
	}
	entry.workspace.updateSession(sess)
	return entry.workspace, true
}

// Close tears the session's workspace down and stops its poller.
func (r *Registry) Close(sessionID string) {
	r.mu.Lock()
	entry, ok := r.entries[sessionID]
	delete(r.entries, sessionID)
	r.mu.Unlock()

	if ok {
		entry.workspace.close()
		entry.cancel()
	}
}

// Shutdown closes every workspace; used on process exit.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	entries := make([]*registryEntry, 0, len(r.entries))
	for id, entry := range r.entries {
		entries = append(entries, entry)
		delete(r.entries, id)
	}
	r.mu.Unlock()

	for _, entry := range entries {
		entry.workspace.close()
		entry.cancel()
	}
}

func (r *Registry) poll(ctx context.Context, workspace *Workspace) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refreshCtx, cancel := context.WithTimeout(ctx, r.interval)
			if err := workspace.Refresh(refreshCtx); err != nil {
				r.logger.Warn("workspace poll failed", zap.Error(err))
			}
			cancel()
		}
	}
}
