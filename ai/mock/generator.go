package mock

import "context"

// DefaultAnswer is the canned answer returned by MockGenerator when no
// GenerateFunc is injected.
const DefaultAnswer = "You can apply at your local Panchayat office."

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via the GenerateFunc field.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, returns DefaultAnswer.
	GenerateFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// LastSystemPrompt and LastUserPrompt record the most recent call.
	LastSystemPrompt string
	LastUserPrompt   string

	callCount int
}

// NewMockGenerator creates a mock generator that returns DefaultAnswer.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate records the prompts and returns the injected or default answer.
func (m *MockGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.callCount++
	m.LastSystemPrompt = systemPrompt
	m.LastUserPrompt = userPrompt

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, systemPrompt, userPrompt)
	}

	return DefaultAnswer, nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count, recorded prompts, and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.LastSystemPrompt = ""
	m.LastUserPrompt = ""
	m.GenerateFunc = nil
}
