package gateway

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sync"
)

// MockProvider is a deterministic in-process provider used when live
// sending is disabled. Message ids are derived from the destination and
// body so a replayed send produces the same id.
type MockProvider struct {
	mu   sync.Mutex
	sent []*SendRequest

	// FailNumbers lists destinations whose sends are rejected.
	FailNumbers map[string]bool
}

func NewMockProvider() *MockProvider {
	return &MockProvider{FailNumbers: map[string]bool{}}
}

func (m *MockProvider) Send(_ context.Context, req *SendRequest) (*SendResponse, error) {
	m.mu.Lock()
	m.sent = append(m.sent, req)
	m.mu.Unlock()

	if m.FailNumbers[req.To] {
		return nil, fmt.Errorf("mock provider: number %s blocked", req.To)
	}

	sum := sha1.Sum([]byte(req.To + "|" + req.Body))
	return &SendResponse{
		MessageID: "mock-" + hex.EncodeToString(sum[:8]),
		Status:    "sent",
	}, nil
}

func (m *MockProvider) Health(context.Context) error { return nil }

// Sent returns a copy of everything the mock accepted, in order.
func (m *MockProvider) Sent() []*SendRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*SendRequest, len(m.sent))
	copy(out, m.sent)
	return out
}
