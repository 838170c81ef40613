// Package chat implements conversation sessions and the turn mediator.
package chat

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/ashureev/saleswizz/internal/domain"
)

var (
	// ErrBusy is returned when a submit arrives while another is in
	// flight for the same session. Recoverable; the user retries.
	ErrBusy = errors.New("a question is already being answered for this session")
	// ErrNoIdentity is returned when a submit arrives before an identity
	// has been assigned.
	ErrNoIdentity = errors.New("session has no identity assigned")
)

// State is the session lifecycle state.
type State int

const (
	// StateUnassigned means no identity has been picked yet.
	StateUnassigned State = iota
	// StateReady means the session can accept a question.
	StateReady
	// StateAwaitingAnswer means a question is in flight; further submits
	// fail fast with ErrBusy.
	StateAwaitingAnswer
)

// Session binds one identity to an ordered, append-only message history.
// All mutation goes through the service; the embedded mutex makes each
// session single-threaded cooperative.
type Session struct {
	id string

	mu        sync.Mutex
	state     State
	identity  *domain.Identity
	messages  []domain.Message
	updatedAt time.Time
}

// NewSession creates an empty session in StateUnassigned.
func NewSession(id string) *Session {
	return &Session{id: id, updatedAt: time.Now()}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns the current identity, or nil before assignment.
func (s *Session) Identity() *domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// Messages returns a copy of the ordered message history.
func (s *Session) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// UpdatedAt returns the time of the last session activity.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// reset installs a new identity and collapses history to the greeting.
func (s *Session) reset(identity domain.Identity) domain.Message {
	greeting := domain.Greeting(identity)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = &identity
	s.messages = []domain.Message{greeting}
	s.state = StateReady
	s.updatedAt = time.Now()
	return greeting
}

// restore rebuilds a session from a persisted transcript.
func (s *Session) restore(identity domain.Identity, messages []domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = &identity
	s.messages = slices.Clone(messages)
	s.state = StateReady
	s.updatedAt = time.Now()
}

// beginTurn appends the user message and transitions to AwaitingAnswer.
// It fails fast when another turn is in flight.
func (s *Session) beginTurn(question string) (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil {
		return domain.Identity{}, ErrNoIdentity
	}
	if s.state == StateAwaitingAnswer {
		return domain.Identity{}, ErrBusy
	}

	s.messages = append(s.messages, domain.Message{
		Role:      domain.MessageRoleUser,
		Content:   question,
		AvatarRef: s.identity.AvatarRef,
		CreatedAt: time.Now(),
	})
	s.state = StateAwaitingAnswer
	s.updatedAt = time.Now()
	return *s.identity, nil
}

// finishTurn appends the assistant message and returns to Ready.
func (s *Session) finishTurn(content string) domain.Message {
	msg := domain.Message{
		Role:      domain.MessageRoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	s.state = StateReady
	s.updatedAt = time.Now()
	return msg
}

// abortTurn rolls back to Ready after an engine failure. The user message
// stays appended; no assistant message is produced.
func (s *Session) abortTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateReady
	s.updatedAt = time.Now()
}
