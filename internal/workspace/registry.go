// Package workspace holds each signed-in user's analysis state: the section
// cache, the roadmap tracker and the mentor chat, all bound to one profile.
package workspace

import (
	"context"
	"sync"
	"time"

	"apex-business/internal/common/logger"
	"apex-business/internal/common/metrics"
	"apex-business/internal/gateway"
	"apex-business/internal/models"
	"apex-business/internal/sessions"
)

// ProfileSource loads the stored profile of a user.
type ProfileSource interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
}

// Workspace is one user's session. Its profile never changes; a profile
// update discards the workspace instead.
type Workspace struct {
	UserID   string
	Profile  models.Profile
	Sections *Orchestrator
	Roadmap  *Roadmap
	Chat     *ChatThread
	Sessions *sessions.Store
}

// Dashboard is the payload of the dashboard section.
type Dashboard struct {
	Stats Stats  `json:"stats"`
	Quote string `json:"quote"`
}

func (w *Workspace) Dashboard(now time.Time) Dashboard {
	return Dashboard{Stats: ComputeStats(w.Profile), Quote: DailyQuote(now)}
}

// RegistryConfig names where chat sessions are kept.
type RegistryConfig struct {
	SessionKeyPrefix string
	MaxSessions      int
}

// Registry maps user ids to live workspaces, creating them on first use.
type Registry struct {
	gateway  gateway.Gateway
	profiles ProfileSource
	kv       sessions.KV
	cfg      RegistryConfig
	logger   logger.Logger
	now      func() time.Time

	mu          sync.RWMutex
	workspaces  map[string]*Workspace
	generations map[string]uint64
}

func NewRegistry(gw gateway.Gateway, profiles ProfileSource, kv sessions.KV, cfg RegistryConfig, log logger.Logger) *Registry {
	if cfg.MaxSessions < 1 {
		cfg.MaxSessions = sessions.DefaultMaxSessions
	}
	return &Registry{
		gateway:     gw,
		profiles:    profiles,
		kv:          kv,
		cfg:         cfg,
		logger:      log,
		now:         time.Now,
		workspaces:  make(map[string]*Workspace),
		generations: make(map[string]uint64),
	}
}

// Get returns the user's workspace, building it from the stored profile
// when none is live. A missing profile is returned as the source's error.
// A profile loaded across a Discard is dropped and read again.
func (r *Registry) Get(ctx context.Context, userID string) (*Workspace, error) {
	for {
		r.mu.RLock()
		ws, ok := r.workspaces[userID]
		generation := r.generations[userID]
		r.mu.RUnlock()
		if ok {
			return ws, nil
		}

		profile, err := r.profiles.Get(ctx, userID)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		if existing, ok := r.workspaces[userID]; ok {
			r.mu.Unlock()
			return existing, nil
		}
		if r.generations[userID] != generation {
			r.mu.Unlock()
			r.logger.Debug("Profile changed while loading, reloading", map[string]interface{}{"userId": userID})
			continue
		}
		ws = r.build(userID, *profile)
		r.workspaces[userID] = ws
		metrics.WorkspacesActive.Set(float64(len(r.workspaces)))
		r.mu.Unlock()

		r.logger.Info("Workspace created", map[string]interface{}{"userId": userID})
		return ws, nil
	}
}

// Sessions returns the user's session store without building a workspace.
func (r *Registry) Sessions(userID string) *sessions.Store {
	r.mu.RLock()
	ws, ok := r.workspaces[userID]
	r.mu.RUnlock()
	if ok {
		return ws.Sessions
	}
	return r.newStore(userID)
}

// Discard drops the user's workspace; the next Get starts fresh. Loads
// already in flight will not install what they read.
func (r *Registry) Discard(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generations[userID]++
	if _, ok := r.workspaces[userID]; !ok {
		return
	}
	delete(r.workspaces, userID)
	metrics.WorkspacesActive.Set(float64(len(r.workspaces)))
	r.logger.Info("Workspace discarded", map[string]interface{}{"userId": userID})
}

func (r *Registry) build(userID string, profile models.Profile) *Workspace {
	log := r.logger.WithFields(map[string]interface{}{"userId": userID})
	store := r.newStore(userID)
	roadmap := NewRoadmap()
	return &Workspace{
		UserID:   userID,
		Profile:  profile,
		Sections: NewOrchestrator(r.gateway, profile, roadmap, log),
		Roadmap:  roadmap,
		Chat:     NewChatThread(r.gateway, profile, store, log, r.now),
		Sessions: store,
	}
}

func (r *Registry) newStore(userID string) *sessions.Store {
	return sessions.NewStore(r.kv, sessions.KeyFor(r.cfg.SessionKeyPrefix, userID), r.cfg.MaxSessions, r.logger)
}
