// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ashureev/saleswizz/internal/domain"
)

// ErrUnavailable wraps any failure to reach the underlying database.
// It is fatal at startup and surfaced to the operator, never to chat users.
var ErrUnavailable = errors.New("data source unavailable")

// Repository defines the interface for the roster, the sales facts, and
// persisted chat transcripts. The roster and sales tables are read-only
// after load and safe for concurrent reads.
type Repository interface {
	// ListEmployees returns every roster row as an Identity. The
	// employee_id column is never selected; it must not leave the store.
	ListEmployees(ctx context.Context) ([]domain.Identity, error)

	// ListSalesRecords returns the full sales fact table.
	ListSalesRecords(ctx context.Context) ([]domain.SalesRecord, error)

	// GetChatTranscript retrieves a persisted session transcript, or nil
	// if none exists.
	GetChatTranscript(ctx context.Context, sessionID string) (*domain.ChatTranscript, error)

	// UpsertChatTranscript creates or updates a session transcript.
	UpsertChatTranscript(ctx context.Context, t *domain.ChatTranscript) error

	// DeleteChatTranscript removes a session transcript.
	DeleteChatTranscript(ctx context.Context, sessionID string) error

	// CleanupExpiredTranscripts removes transcripts idle for longer than ttl.
	CleanupExpiredTranscripts(ctx context.Context, ttl time.Duration) (int64, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
