// Package answer defines the external answer engine boundary.
//
// The engine is a black box that turns a natural-language question plus a
// policy context into a natural-language answer. It only ever receives the
// records the policy decision granted.
package answer

import (
	"context"
	"errors"

	"github.com/ashureev/saleswizz/internal/corpus"
)

var (
	// ErrUnavailable means the engine could not be reached. Recoverable;
	// the caller may re-submit the same question.
	ErrUnavailable = errors.New("answer engine unavailable")
	// ErrTimeout means the engine did not answer within the deadline.
	ErrTimeout = errors.New("answer engine timed out")
)

// Request is one answer-engine invocation.
type Request struct {
	Question      string            `json:"question"`
	PolicyContext string            `json:"policy_context"`
	Documents     []corpus.Document `json:"documents"`
}

// Response is the engine's answer.
type Response struct {
	Text string `json:"answer"`
}

// Engine is the answer engine port.
type Engine interface {
	Answer(ctx context.Context, req Request) (*Response, error)
}
