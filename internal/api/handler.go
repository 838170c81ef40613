// Package api provides HTTP handlers for the SalesWizz API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/saleswizz/internal/answer"
	"github.com/ashureev/saleswizz/internal/chat"
	"github.com/ashureev/saleswizz/internal/domain"
	"github.com/ashureev/saleswizz/internal/websession"
	"github.com/go-chi/chi/v5"
)

// Handler serves the chat and identity endpoints.
type Handler struct {
	svc    *chat.Service
	mgr    *chat.Manager
	logger *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(svc *chat.Service, mgr *chat.Manager, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, mgr: mgr, logger: logger}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/identity", h.GetIdentity)
		r.Post("/identity/shuffle", h.Shuffle)
		r.Post("/chat", h.Chat)
		r.Get("/chat/history", h.History)
		r.Get("/chat/sample", h.Sample)
	})
}

type identityResponse struct {
	Name           string `json:"name"`
	FirstName      string `json:"first_name"`
	Role           string `json:"role"`
	Region         string `json:"region"`
	EmploymentType string `json:"employment_type"`
	AvatarRef      string `json:"avatar_ref,omitempty"`
}

func identityPayload(id domain.Identity) identityResponse {
	return identityResponse{
		Name:           id.Name,
		FirstName:      id.FirstName(),
		Role:           string(id.Role),
		Region:         string(id.Region),
		EmploymentType: string(id.EmploymentType),
		AvatarRef:      id.AvatarRef,
	}
}

// session resolves the caller's session, assigning an identity on first use.
func (h *Handler) session(ctx context.Context) (*chat.Session, error) {
	id := websession.SessionIDFromContext(ctx)
	if id == "" {
		return nil, errors.New("no session id in request context")
	}

	s := h.mgr.GetOrCreate(ctx, id)
	if s.Identity() == nil {
		if _, err := h.svc.AssignIdentity(ctx, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// GetIdentity returns the session's current identity.
func (h *Handler) GetIdentity(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r.Context())
	if err != nil {
		h.logger.Error("failed to resolve session", "error", err)
		Error(w, http.StatusInternalServerError, "failed to assign identity")
		return
	}
	JSON(w, http.StatusOK, identityPayload(*s.Identity()))
}

// Shuffle re-picks the identity and resets the history.
func (h *Handler) Shuffle(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r.Context())
	if err != nil {
		h.logger.Error("failed to resolve session", "error", err)
		Error(w, http.StatusInternalServerError, "failed to assign identity")
		return
	}

	identity, err := h.svc.Shuffle(r.Context(), s)
	if err != nil {
		h.logger.Error("shuffle failed", "session_id", s.ID(), "error", err)
		Error(w, http.StatusInternalServerError, "failed to shuffle identity")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"identity": identityPayload(identity),
		"messages": s.Messages(),
	})
}

type chatRequest struct {
	Question string `json:"question"`
}

// Chat submits one question and returns the assistant message. Denials are
// normal answers; engine failures map to retryable HTTP errors.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		Error(w, http.StatusBadRequest, "request must carry a non-empty question")
		return
	}

	s, err := h.session(r.Context())
	if err != nil {
		h.logger.Error("failed to resolve session", "error", err)
		Error(w, http.StatusInternalServerError, "failed to assign identity")
		return
	}

	msg, err := h.svc.Submit(r.Context(), s, req.Question)
	if err != nil {
		h.writeSubmitError(w, s, err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"message": msg})
}

func (h *Handler) writeSubmitError(w http.ResponseWriter, s *chat.Session, err error) {
	switch {
	case errors.Is(err, chat.ErrBusy):
		Error(w, http.StatusConflict, "a question is already being answered; please wait")
	case errors.Is(err, answer.ErrTimeout):
		h.logger.Warn("answer engine timed out", "session_id", s.ID())
		Error(w, http.StatusGatewayTimeout, "the assistant took too long to answer; please try again")
	case errors.Is(err, answer.ErrUnavailable):
		h.logger.Warn("answer engine unavailable", "session_id", s.ID(), "error", err)
		Error(w, http.StatusBadGateway, "the assistant is unavailable right now; please try again")
	default:
		h.logger.Error("submit failed", "session_id", s.ID(), "error", err)
		Error(w, http.StatusInternalServerError, "failed to answer the question")
	}
}

// History returns the ordered message history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r.Context())
	if err != nil {
		h.logger.Error("failed to resolve session", "error", err)
		Error(w, http.StatusInternalServerError, "failed to assign identity")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"messages": s.Messages()})
}

// Sample returns a random canned question.
func (h *Handler) Sample(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"question": domain.PickSampleQuestion()})
}
