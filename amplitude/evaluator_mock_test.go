package amplitude

import (
	"context"
	"errors"
	"sync"

	experiment "github.com/amplitude/experiment-go-server/pkg/experiment"
)

// mockEvaluator is a mock implementation of evaluator for testing.
// It is safe for concurrent use by the watcher goroutine.
type mockEvaluator struct {
	// StartFunc is called when Start is called. If nil, Start returns nil.
	StartFunc func() error
	// StopFunc is called when Stop is called. If nil, Stop returns nil.
	StopFunc func() error
	// EvaluateFunc is called when Evaluate is called.
	// If nil, Evaluate returns an empty map and nil error.
	EvaluateFunc func(ctx context.Context, user *experiment.User, flagKeys []string) (map[string]experiment.Variant, error)

	mu            sync.Mutex
	startCalls    int
	stopCalls     int
	evaluateCalls []mockEvaluateCall
}

// mockEvaluateCall records the arguments to an Evaluate call.
type mockEvaluateCall struct {
	User     *experiment.User
	FlagKeys []string
}

// Start implements evaluator.
func (m *mockEvaluator) Start() error {
	m.mu.Lock()
	m.startCalls++
	m.mu.Unlock()
	if m.StartFunc != nil {
		return m.StartFunc()
	}
	return nil
}

// Stop implements evaluator.
func (m *mockEvaluator) Stop() error {
	m.mu.Lock()
	m.stopCalls++
	m.mu.Unlock()
	if m.StopFunc != nil {
		return m.StopFunc()
	}
	return nil
}

// Evaluate implements evaluator.
func (m *mockEvaluator) Evaluate(ctx context.Context, user *experiment.User, flagKeys []string) (map[string]experiment.Variant, error) {
	m.mu.Lock()
	m.evaluateCalls = append(m.evaluateCalls, mockEvaluateCall{
		User:     user,
		FlagKeys: flagKeys,
	})
	m.mu.Unlock()
	if m.EvaluateFunc != nil {
		return m.EvaluateFunc(ctx, user, flagKeys)
	}
	return map[string]experiment.Variant{}, nil
}

func (m *mockEvaluator) calls() []mockEvaluateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mockEvaluateCall(nil), m.evaluateCalls...)
}

func (m *mockEvaluator) stops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

// Verify mockEvaluator implements evaluator.
var _ evaluator = (*mockEvaluator)(nil)

// Common errors for testing.
var (
	errMockEvaluate = errors.New("mock evaluate error")
	errMockStart    = errors.New("mock start error")
)

// makeVariant creates a variant with specific properties.
func makeVariant(key string, value string, payload any) experiment.Variant {
	return experiment.Variant{
		Key:     key,
		Value:   value,
		Payload: payload,
	}
}

// withMockEvaluator injects the mock evaluator into the client.
func withMockEvaluator(mock *mockEvaluator) Option {
	return func(c *Config) {
		c.testEvaluator = mock
	}
}
