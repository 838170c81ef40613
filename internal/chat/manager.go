package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager tracks live sessions by ID. Sessions are fully isolated from one
// another; the only shared state behind them is the read-only roster and
// corpus.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	svc      *Service
	logger   *slog.Logger
}

// NewManager creates a session manager.
func NewManager(svc *Service, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		svc:      svc,
		logger:   logger,
	}
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// Get returns the live session for id, or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// GetOrCreate returns the live session for id, restoring it from a
// persisted transcript when one exists, or creating a fresh unassigned
// session otherwise.
func (m *Manager) GetOrCreate(ctx context.Context, id string) *Session {
	m.mu.RLock()
	s := m.sessions[id]
	m.mu.RUnlock()
	if s != nil {
		return s
	}

	s = NewSession(id)
	if m.svc != nil && m.svc.repo != nil {
		if t, err := m.svc.repo.GetChatTranscript(ctx, id); err != nil {
			m.logger.Warn("failed to load persisted transcript", "session_id", id, "error", err)
		} else if t != nil {
			if err := restoreFromTranscript(s, t); err != nil {
				m.logger.Warn("failed to restore transcript, starting fresh", "session_id", id, "error", err)
			}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		// Lost the race; keep the first one.
		return existing
	}
	m.sessions[id] = s
	m.logger.Info("session created", "session_id", id)
	return s
}

// Remove drops a session from the registry.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// sweep drops sessions idle for longer than ttl and returns how many.
func (m *Manager) sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.UpdatedAt().Before(cutoff) && s.State() != StateAwaitingAnswer {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper drops idle sessions and expired transcripts on an interval
// until ctx is cancelled.
func (m *Manager) StartSweeper(ctx context.Context, ttl time.Duration) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := m.sweep(ttl); removed > 0 {
					m.logger.Info("idle sessions swept", "removed", removed)
				}
				if m.svc != nil && m.svc.repo != nil {
					n, err := m.svc.repo.CleanupExpiredTranscripts(ctx, ttl)
					if err != nil {
						m.logger.Warn("transcript cleanup failed", "error", err)
					} else if n > 0 {
						m.logger.Info("expired transcripts cleaned up", "removed", n)
					}
				}
			}
		}
	}()
}
