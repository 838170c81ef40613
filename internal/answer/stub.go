package answer

import (
	"context"
	"sync"
	"time"
)

// Stub is a configurable engine double for tests: an optional delay, a
// forced error, and a canned reply. The last request is recorded so tests
// can assert on what crossed the boundary.
type Stub struct {
	Delay time.Duration
	Err   error
	Reply string

	mu       sync.Mutex
	requests []Request
}

// Answer implements Engine.
func (s *Stub) Answer(ctx context.Context, req Request) (*Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if s.Err != nil {
		return nil, s.Err
	}

	reply := s.Reply
	if reply == "" {
		reply = "stub answer"
	}
	return &Response{Text: reply}, nil
}

// Requests returns a copy of every request seen so far.
func (s *Stub) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, or nil.
func (s *Stub) LastRequest() *Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	req := s.requests[len(s.requests)-1]
	return &req
}
