package mock

import "context"

// MockReasoner is a test double for ai.Reasoner.
// It allows custom behavior injection via function fields.
type MockReasoner struct {
	// CompleteFunc is called by Complete if set.
	// If nil, Complete returns a fixed placeholder answer.
	CompleteFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// LastSystemPrompt and LastUserPrompt record the most recent call, so
	// tests can assert on the exact content crossing the reasoning boundary.
	LastSystemPrompt string
	LastUserPrompt   string

	callCount int
}

// NewMockReasoner creates a mock reasoner with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockReasoner() *MockReasoner {
	return &MockReasoner{}
}

// Complete records the prompts and returns either the injected behavior's
// result or a fixed answer.
func (m *MockReasoner) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.callCount++
	m.LastSystemPrompt = systemPrompt
	m.LastUserPrompt = userPrompt

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, userPrompt)
	}

	return "mock answer", nil
}

// CallCount returns the number of times Complete was called.
func (m *MockReasoner) CallCount() int {
	return m.callCount
}

// Reset clears recorded prompts, the call count, and injected behavior.
func (m *MockReasoner) Reset() {
	m.callCount = 0
	m.LastSystemPrompt = ""
	m.LastUserPrompt = ""
	m.CompleteFunc = nil
}
