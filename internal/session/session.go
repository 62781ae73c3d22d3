// Package session keeps one record store per browser session.
//
// Sessions are identified by a random UUID carried in a cookie and held in an
// LRU cache with a sliding idle TTL. When a session is evicted, expires or is
// ended its store is released back to the backend, which for SQLite purges
// the session's rows.
package session

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/log"
	"fintrack/internal/records"

	"github.com/google/uuid"
)

const (
	CookieName = "fintrack_session"

	DefaultTTL         = 30 * time.Minute
	DefaultMaxSessions = 1000

	releaseTimeout = 5 * time.Second
)

type Session struct {
	ID        string
	Store     records.Store
	CreatedAt time.Time

	store *closableStore
}

type Config struct {
	TTL         time.Duration
	MaxSessions int
}

type Stats struct {
	Active  int
	Created int64
	Ended   int64
}

type Manager struct {
	backend  records.Backend
	sessions *cache.LRUCache[*Session]
	logger   *log.Logger

	created atomic.Int64
	ended   atomic.Int64
}

func NewManager(backend records.Backend, cfg Config, logger *log.Logger) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	m := &Manager{
		backend:  backend,
		sessions: cache.NewLRUCache[*Session](cfg.MaxSessions, cfg.TTL),
		logger:   logger.WithComponent(log.ComponentSession),
	}
	m.sessions.OnEvict(m.release)
	return m
}

// Cleaner exposes the session cache to a cache.Manager for periodic expiry.
func (m *Manager) Cleaner() cache.Cleaner {
	return m.sessions
}

// Get returns a live session and refreshes its idle deadline.
func (m *Manager) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	return m.sessions.Get(id)
}

// Create starts an empty session.
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	store := newClosableStore(m.backend.ForSession(id))
	s := &Session{
		ID:        id,
		Store:     store,
		CreatedAt: time.Now(),
		store:     store,
	}
	m.sessions.Set(id, s)
	m.created.Add(1)
	m.logger.Debug("Session started", log.FieldSessionID, id)
	return s
}

// Resolve returns the session for id, creating a fresh one when id is
// unknown, expired or malformed. The boolean reports whether it was created.
func (m *Manager) Resolve(id string) (*Session, bool) {
	if _, err := uuid.Parse(id); err == nil {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}
	return m.Create(), true
}

// End discards a session and releases its store.
func (m *Manager) End(id string) {
	m.sessions.Delete(id)
}

func (m *Manager) Stats() Stats {
	return Stats{
		Active:  m.sessions.Size(),
		Created: m.created.Load(),
		Ended:   m.ended.Load(),
	}
}

// release closes the session's store before purging it, so a request still
// holding the session cannot append rows that would outlive it.
func (m *Manager) release(id string, s *Session) {
	m.ended.Add(1)
	if s != nil && s.store != nil {
		s.store.close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	if err := m.backend.Release(ctx, id); err != nil {
		m.logger.Error("Failed to release session store",
			log.FieldSessionID, id,
			log.FieldOperation, log.OpPurge,
			log.FieldError, err)
		return
	}
	m.logger.Debug("Session ended", log.FieldSessionID, id)
}

type contextKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session attached by Middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}

// Middleware resolves the session cookie, issuing a new one when needed,
// and attaches the session to the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(CookieName); err == nil {
			id = c.Value
		}
		s, created := m.Resolve(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    s.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}
