package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ashureev/saleswizz/internal/answer"
	"github.com/ashureev/saleswizz/internal/corpus"
	"github.com/ashureev/saleswizz/internal/domain"
	"github.com/ashureev/saleswizz/internal/policy"
	"github.com/ashureev/saleswizz/internal/roster"
	"github.com/ashureev/saleswizz/internal/scope"
	"github.com/ashureev/saleswizz/internal/store"
)

// Service mediates every conversation turn: it asks the policy engine for
// the active decision, pre-filters the corpus to the granted scope, invokes
// the answer engine, and appends the result to the session history.
type Service struct {
	roster        *roster.Roster
	policy        *policy.Engine
	corpus        *corpus.Corpus
	engine        answer.Engine
	repo          store.Repository
	answerTimeout time.Duration
	logger        *slog.Logger
}

// ServiceConfig holds the service dependencies.
type ServiceConfig struct {
	Roster *roster.Roster
	Policy *policy.Engine
	Corpus *corpus.Corpus
	Engine answer.Engine
	// Repo persists transcripts; nil disables persistence.
	Repo          store.Repository
	AnswerTimeout time.Duration
	Logger        *slog.Logger
}

// NewService creates the turn mediator.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Roster == nil || cfg.Policy == nil || cfg.Corpus == nil || cfg.Engine == nil {
		return nil, errors.New("chat service requires roster, policy engine, corpus and answer engine")
	}
	if cfg.AnswerTimeout <= 0 {
		cfg.AnswerTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Service{
		roster:        cfg.Roster,
		policy:        cfg.Policy,
		corpus:        cfg.Corpus,
		engine:        cfg.Engine,
		repo:          cfg.Repo,
		answerTimeout: cfg.AnswerTimeout,
		logger:        cfg.Logger,
	}, nil
}

// AssignIdentity picks a random identity for the session and resets the
// history to the greeting.
func (svc *Service) AssignIdentity(ctx context.Context, s *Session) (domain.Identity, error) {
	identity, err := svc.roster.PickRandom(nil)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("assign identity: %w", err)
	}
	s.reset(identity)
	svc.persist(ctx, s)
	svc.logger.Info("identity assigned", "session_id", s.ID(),
		"role", string(identity.Role), "region", string(identity.Region))
	return identity, nil
}

// Shuffle re-picks the identity, excluding the current one when the roster
// allows a visibly different result, and clears the history.
func (svc *Service) Shuffle(ctx context.Context, s *Session) (domain.Identity, error) {
	identity, err := svc.roster.PickRandom(s.Identity())
	if err != nil {
		return domain.Identity{}, fmt.Errorf("shuffle identity: %w", err)
	}
	s.reset(identity)
	svc.persist(ctx, s)
	svc.logger.Info("identity shuffled", "session_id", s.ID(),
		"role", string(identity.Role), "region", string(identity.Region))
	return identity, nil
}

// Submit runs one conversation turn. On engine failure the user message
// stays appended, no assistant message is produced, and the session rolls
// back to Ready so the caller can retry.
func (svc *Service) Submit(ctx context.Context, s *Session, question string) (domain.Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Message{}, errors.New("question cannot be empty")
	}

	identity, err := s.beginTurn(question)
	if err != nil {
		return domain.Message{}, err
	}

	requests := scope.Extract(question)
	ev := svc.policy.Evaluate(identity, requests)

	svc.logger.Info("policy evaluated", "session_id", s.ID(),
		"role", string(identity.Role), "region", string(identity.Region),
		"requests", len(requests), "granted", len(ev.Granted), "denied", len(ev.Denied))

	// Nothing granted: answer locally, the engine never sees the question.
	if len(ev.Granted) == 0 {
		msg := s.finishTurn(denialText(ev))
		svc.persist(ctx, s)
		return msg, nil
	}

	docs := svc.corpus.Filter(ev.Granted)
	callCtx, cancel := context.WithTimeout(ctx, svc.answerTimeout)
	defer cancel()

	resp, err := svc.engine.Answer(callCtx, answer.Request{
		Question:      question,
		PolicyContext: policy.ContextString(identity, ev),
		Documents:     docs,
	})
	if err != nil {
		s.abortTurn()
		svc.persist(ctx, s)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, answer.ErrTimeout) {
			return domain.Message{}, fmt.Errorf("%w: %v", answer.ErrTimeout, err)
		}
		return domain.Message{}, fmt.Errorf("%w: %v", answer.ErrUnavailable, err)
	}

	msg := s.finishTurn(resp.Text)
	svc.persist(ctx, s)
	return msg, nil
}

// denialText renders the polite refusal for a fully denied question. Raw
// errors never reach the user.
func denialText(ev policy.Evaluation) string {
	reason := policy.DefaultDenyReason
	if len(ev.Denied) > 0 {
		reason = ev.Denied[0].Reason
	}
	text := "I'm sorry, I can't share that sales data with you: " + reason
	if !strings.Contains(reason, "manager") {
		text += ". Please refer to your manager"
	}
	return text + "."
}

func (svc *Service) persist(ctx context.Context, s *Session) {
	if svc.repo == nil {
		return
	}
	identity := s.Identity()
	if identity == nil {
		return
	}

	identityJSON, err := json.Marshal(identity)
	if err != nil {
		svc.logger.Warn("failed to encode session identity", "session_id", s.ID(), "error", err)
		return
	}
	messagesJSON, err := json.Marshal(s.Messages())
	if err != nil {
		svc.logger.Warn("failed to encode session messages", "session_id", s.ID(), "error", err)
		return
	}

	if err := svc.repo.UpsertChatTranscript(ctx, &domain.ChatTranscript{
		SessionID:    s.ID(),
		IdentityJSON: string(identityJSON),
		MessagesJSON: string(messagesJSON),
	}); err != nil {
		svc.logger.Warn("failed to persist transcript", "session_id", s.ID(), "error", err)
	}
}

// restoreFromTranscript rebuilds session state from a persisted transcript.
func restoreFromTranscript(s *Session, t *domain.ChatTranscript) error {
	var identity domain.Identity
	if err := json.Unmarshal([]byte(t.IdentityJSON), &identity); err != nil {
		return fmt.Errorf("decode transcript identity: %w", err)
	}
	var messages []domain.Message
	if err := json.Unmarshal([]byte(t.MessagesJSON), &messages); err != nil {
		return fmt.Errorf("decode transcript messages: %w", err)
	}
	s.restore(identity, messages)
	return nil
}
