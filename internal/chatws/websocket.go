// Package chatws provides a WebSocket transport for chat turns.
package chatws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ashureev/saleswizz/internal/answer"
	"github.com/ashureev/saleswizz/internal/chat"
	"github.com/ashureev/saleswizz/internal/domain"
	"github.com/ashureev/saleswizz/internal/websession"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Handler upgrades chat sessions to WebSocket and streams turn events.
type Handler struct {
	svc           *chat.Service
	mgr           *chat.Manager
	conns         *ConnManager
	allowedOrigin string
	isDev         bool
	logger        *slog.Logger
}

// NewHandler creates a WebSocket chat handler.
func NewHandler(svc *chat.Service, mgr *chat.Manager, conns *ConnManager, allowedOrigin string, isDev bool, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		svc:           svc,
		mgr:           mgr,
		conns:         conns,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
		logger:        logger,
	}
}

// clientMessage is what the browser sends.
type clientMessage struct {
	Type     string `json:"type"` // "ask" | "shuffle" | "sample"
	Question string `json:"question,omitempty"`
}

// serverEvent is what the server streams back.
type serverEvent struct {
	Type     string           `json:"type"` // "identity" | "message" | "error"
	Identity interface{}      `json:"identity,omitempty"`
	Message  *domain.Message  `json:"message,omitempty"`
	Messages []domain.Message `json:"messages,omitempty"`
	Error    string           `json:"error,omitempty"`
	Code     string           `json:"code,omitempty"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := websession.SessionIDFromContext(r.Context())
	if sessionID == "" {
		http.Error(w, "no session", http.StatusBadRequest)
		return
	}

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Error("failed to accept WebSocket", "error", err, "session_id", sessionID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			h.logger.Debug("failed to close websocket", "error", closeErr, "session_id", sessionID)
		}
	}()

	h.conns.Register(sessionID, ws)
	defer h.conns.Unregister(sessionID, ws)

	ctx := r.Context()
	s := h.mgr.GetOrCreate(ctx, sessionID)
	if s.Identity() == nil {
		if _, err := h.svc.AssignIdentity(ctx, s); err != nil {
			h.send(ctx, ws, serverEvent{Type: "error", Code: "identity_unavailable", Error: "failed to assign identity"})
			return
		}
	}

	// Replay current state on connect.
	h.send(ctx, ws, serverEvent{Type: "identity", Identity: s.Identity(), Messages: s.Messages()})

	for {
		var msg clientMessage
		if err := wsjson.Read(ctx, ws, &msg); err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				h.logger.Debug("websocket read failed", "error", err, "session_id", sessionID)
			}
			return
		}
		h.handleMessage(ctx, ws, s, msg)
	}
}

func (h *Handler) handleMessage(ctx context.Context, ws *websocket.Conn, s *chat.Session, msg clientMessage) {
	switch msg.Type {
	case "ask":
		h.ask(ctx, ws, s, msg.Question)
	case "sample":
		h.ask(ctx, ws, s, domain.PickSampleQuestion())
	case "shuffle":
		identity, err := h.svc.Shuffle(ctx, s)
		if err != nil {
			h.send(ctx, ws, serverEvent{Type: "error", Code: "shuffle_failed", Error: "failed to shuffle identity"})
			return
		}
		h.send(ctx, ws, serverEvent{Type: "identity", Identity: identity, Messages: s.Messages()})
	default:
		h.send(ctx, ws, serverEvent{Type: "error", Code: "unknown_type", Error: "unknown message type"})
	}
}

func (h *Handler) ask(ctx context.Context, ws *websocket.Conn, s *chat.Session, question string) {
	question = strings.TrimSpace(question)
	if question == "" {
		h.send(ctx, ws, serverEvent{Type: "error", Code: "empty_question", Error: "question cannot be empty"})
		return
	}

	// Echo the user message before the answer arrives.
	messages := s.Messages()
	assistant, err := h.svc.Submit(ctx, s, question)
	if err != nil {
		// The user message was appended unless the session was busy.
		if !errors.Is(err, chat.ErrBusy) {
			if all := s.Messages(); len(all) > len(messages) {
				user := all[len(all)-1]
				h.send(ctx, ws, serverEvent{Type: "message", Message: &user})
			}
		}
		h.send(ctx, ws, serverEvent{Type: "error", Code: errorCode(err), Error: userFacing(err)})
		return
	}

	if all := s.Messages(); len(all) >= 2 {
		user := all[len(all)-2]
		h.send(ctx, ws, serverEvent{Type: "message", Message: &user})
	}
	h.send(ctx, ws, serverEvent{Type: "message", Message: &assistant})
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, chat.ErrBusy):
		return "busy"
	case errors.Is(err, answer.ErrTimeout):
		return "answer_timeout"
	case errors.Is(err, answer.ErrUnavailable):
		return "answer_unavailable"
	}
	return "internal"
}

func userFacing(err error) string {
	switch {
	case errors.Is(err, chat.ErrBusy):
		return "a question is already being answered; please wait"
	case errors.Is(err, answer.ErrTimeout):
		return "the assistant took too long to answer; please try again"
	case errors.Is(err, answer.ErrUnavailable):
		return "the assistant is unavailable right now; please try again"
	}
	return "failed to answer the question"
}

func (h *Handler) send(ctx context.Context, ws *websocket.Conn, ev serverEvent) {
	if err := wsjson.Write(ctx, ws, ev); err != nil {
		h.logger.Debug("websocket write failed", "error", err)
	}
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev || h.allowedOrigin == "" {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	allowed, err := url.Parse(h.allowedOrigin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, allowed.Host)
}
