package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rkanzaki/shopscout/internal/domain"
)

// MockLLM is a deterministic stand-in for GeminiClient, used in local
// mode and tests.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Predict(_ context.Context, _ []domain.Turn, utterance string) (string, error) {
	return fmt.Sprintf("Got it, you said %q. What else matters to you about this purchase?", utterance), nil
}

// Complete answers extraction prompts with the first user utterance it
// finds, and everything else with a canned line.
func (m *MockLLM) Complete(_ context.Context, prompt string) (string, error) {
	for _, line := range strings.Split(prompt, "\n") {
		if rest, ok := strings.CutPrefix(line, "user: "); ok {
			return rest, nil
		}
	}
	return "a solid pick for what you described", nil
}
