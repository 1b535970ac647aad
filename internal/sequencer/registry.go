package sequencer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kroneus/kroneus-site/internal/model"
)

var (
	ErrSessionNotFound = errors.New("demo session not found")
	ErrTooManySessions = errors.New("too many demo sessions")
)

// RegistryConfig bounds the set of live demo sessions.
type RegistryConfig struct {
	Interval    time.Duration
	TTL         time.Duration
	MaxSessions int
}

// Session is one viewer's demo player.
type Session struct {
	ID      string
	Created time.Time
	player  *Player
}

// Player returns the session's player.
func (s *Session) Player() *Player {
	return s.player
}

// Registry tracks demo sessions by id and reaps idle ones.
type Registry struct {
	cfg      RegistryConfig
	logger   *zap.Logger
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig, logger *zap.Logger) *Registry {
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new idle session on the given scenario.
func (r *Registry) Create(s model.Scenario) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg.MaxSessions > 0 && len(r.sessions) >= r.cfg.MaxSessions {
		return nil, ErrTooManySessions
	}

	p := NewPlayer(r.cfg.Interval)
	p.Select(s)

	sess := &Session{
		ID:      uuid.NewString(),
		Created: time.Now().UTC(),
		player:  p,
	}
	r.sessions[sess.ID] = sess
	return sess, nil
}

// Get returns a live session.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Delete stops and removes a session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	sess.player.Stop()
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Reap stops sessions idle longer than the TTL as of now. Returns the count removed.
func (r *Registry) Reap(now time.Time) int {
	r.mu.Lock()
	var stale []*Session
	for id, sess := range r.sessions {
		if now.Sub(sess.player.LastActive()) > r.cfg.TTL {
			stale = append(stale, sess)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, sess := range stale {
		sess.player.Stop()
	}
	if len(stale) > 0 {
		r.logger.Debug("reaped idle demo sessions", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Run reaps idle sessions periodically until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) {
	every := r.cfg.TTL / 2
	if every < time.Second {
		every = time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Reap(now)
		}
	}
}

// Close stops every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, sess := range sessions {
		sess.player.Stop()
	}
}
