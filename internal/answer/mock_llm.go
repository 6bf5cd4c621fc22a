package answer

import (
	"context"
	"sync"
	"time"
)

// MockLLM is a deterministic LLM implementation for testing.
// Each call consumes the next scripted response, so a single mock can play
// the generator on one call and the critic on the next.
type MockLLM struct {
	mu sync.Mutex

	// Responses are returned in order; the last one repeats once the
	// script is exhausted.
	Responses []string

	// Error, if set, is returned by Generate instead of a response.
	Error error

	// Delay, if set, makes Generate block before responding. Used to
	// exercise the timeout path.
	Delay time.Duration

	// Prompts stores every prompt passed to Generate, in call order.
	Prompts []string
}

// NewMockLLM creates a mock LLM that replays the given responses in order.
func NewMockLLM(responses ...string) *MockLLM {
	return &MockLLM{Responses: responses}
}

// NewMockLLMWithError creates a mock LLM that always returns an error.
func NewMockLLMWithError(err error) *MockLLM {
	return &MockLLM{Error: err}
}

// Generate returns the next scripted response.
func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if m.Error != nil {
		return "", m.Error
	}
	if len(m.Responses) == 0 {
		return "", nil
	}

	i := len(m.Prompts) - 1
	if i >= len(m.Responses) {
		i = len(m.Responses) - 1
	}
	return m.Responses[i], nil
}

// CallCount returns how many times Generate has been invoked.
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// PromptAt returns the i-th recorded prompt, or empty string if out of range.
func (m *MockLLM) PromptAt(i int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.Prompts) {
		return ""
	}
	return m.Prompts[i]
}
