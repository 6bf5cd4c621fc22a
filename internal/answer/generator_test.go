package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestGenerateTrimsResponse(t *testing.T) {
	mock := NewMockLLM("  The answer.  \n")
	gen := NewGenerator(mock)

	got := gen.Generate(context.Background(), "prompt", "context")
	if got != "The answer." {
		t.Errorf("Expected trimmed answer, got %q", got)
	}
	if mock.CallCount() != 1 {
		t.Errorf("Expected 1 call, got %d", mock.CallCount())
	}
}

func TestGenerateErrorFallback(t *testing.T) {
	mock := NewMockLLMWithError(errors.New("rate limited"))
	gen := NewGenerator(mock)

	got := gen.Generate(context.Background(), "prompt", "episode context here")
	if !strings.HasPrefix(got, "I'm having trouble generating a response.") {
		t.Errorf("Expected error fallback, got %q", got)
	}
	if !strings.Contains(got, "episode context here") {
		t.Errorf("Fallback should carry the context snippet, got %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Fallback should end with ellipsis, got %q", got)
	}
	if !IsFallback(got) {
		t.Error("Error fallback should be detected by IsFallback")
	}
}

func TestGenerateTimeoutFallback(t *testing.T) {
	mock := NewMockLLM("too late")
	mock.Delay = 200 * time.Millisecond
	gen := NewGenerator(mock)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got := gen.Generate(ctx, "prompt", "episode context")
	if !strings.HasPrefix(got, "I apologize, but I'm experiencing high response times") {
		t.Errorf("Expected timeout fallback, got %q", got)
	}
	if !IsFallback(got) {
		t.Error("Timeout fallback should be detected by IsFallback")
	}
}

func TestFallbackSnippetTruncation(t *testing.T) {
	long := strings.Repeat("x", 800)
	mock := NewMockLLMWithError(errors.New("boom"))
	gen := NewGenerator(mock)

	got := gen.Generate(context.Background(), "prompt", long)
	body := strings.TrimPrefix(got, errorFallbackPrefix)
	if body != strings.Repeat("x", 500)+"..." {
		t.Errorf("Expected 500-char snippet plus ellipsis, got %d chars", len(body))
	}
}

func TestIsFallbackRejectsNormalAnswers(t *testing.T) {
	for _, answer := range []string{
		"## TL;DR\nA normal answer with [Paper] citations.",
		InsufficientMsg,
		"",
	} {
		if IsFallback(answer) {
			t.Errorf("IsFallback(%q) = true, want false", answer)
		}
	}
}
