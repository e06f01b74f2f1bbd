package llm

import (
	"context"
	"sync"
)

// Spy is a scripted Client for tests. It records every request it
// receives and replies with a fixed response (or error), letting tests
// assert both the content of the prompts and the number of backend calls.
// Safe for concurrent use.
type Spy struct {
	mu       sync.Mutex
	Requests []ChatRequest
	Response string
	Err      error
}

// Complete records the request and returns the scripted response.
func (s *Spy) Complete(_ context.Context, req ChatRequest) (string, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	return s.Response, nil
}

// Close is a no-op.
func (s *Spy) Close() error { return nil }

// Calls returns how many completion requests the spy has received.
func (s *Spy) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}
