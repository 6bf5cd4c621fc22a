package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kochi-labs/episode-companion/internal/behavior"
)

func strictPolicy() behavior.Policy {
	return behavior.DerivePolicy(behavior.PersonaFounderTakeaway, behavior.IntentMVP)
}

func relaxedPolicy() behavior.Policy {
	return behavior.DerivePolicy(behavior.PersonaPlainEnglish, behavior.IntentTLDR)
}

func TestReviewParsesVerdict(t *testing.T) {
	mock := NewMockLLM(`{"grounded": true, "structure_ok": true, "has_citation": false, "issues": ["no citation"]}`)
	critic := NewCritic(mock)

	got := critic.Review(context.Background(), "q", "ctx", "answer", strictPolicy())
	if !got.Grounded || !got.StructureOK || got.HasCitation {
		t.Errorf("Verdict mismatch: %+v", got)
	}
	if len(got.Issues) != 1 || got.Issues[0] != "no citation" {
		t.Errorf("Expected issue list preserved, got %v", got.Issues)
	}
}

func TestReviewHandlesFencedJSON(t *testing.T) {
	mock := NewMockLLM("Here is my verdict:\n```json\n{\"grounded\": true, \"structure_ok\": false, \"has_citation\": true, \"issues\": []}\n```\nDone.")
	critic := NewCritic(mock)

	got := critic.Review(context.Background(), "q", "ctx", "answer", strictPolicy())
	if !got.Grounded || got.StructureOK || !got.HasCitation {
		t.Errorf("Verdict mismatch: %+v", got)
	}
}

func TestReviewUnparseableIsConservative(t *testing.T) {
	for _, raw := range []string{
		"The answer looks fine to me.",
		"{not json at all]",
		"",
	} {
		mock := NewMockLLM(raw)
		critic := NewCritic(mock)

		got := critic.Review(context.Background(), "q", "ctx", "answer", strictPolicy())
		if got.Grounded || got.StructureOK || got.HasCitation {
			t.Errorf("Unparseable output %q must fail all checks, got %+v", raw, got)
		}
		if len(got.Issues) != 1 || got.Issues[0] != "parse_error" {
			t.Errorf("Expected parse_error issue for %q, got %v", raw, got.Issues)
		}
	}
}

func TestReviewCallFailure(t *testing.T) {
	mock := NewMockLLMWithError(errors.New("timeout"))
	critic := NewCritic(mock)

	got := critic.Review(context.Background(), "q", "ctx", "answer", strictPolicy())
	if got.Grounded {
		t.Error("Failed critic call must not count as grounded")
	}
	if len(got.Issues) != 1 || got.Issues[0] != "critic_failed" {
		t.Errorf("Expected critic_failed issue, got %v", got.Issues)
	}
}

func TestCriticPromptStructureWording(t *testing.T) {
	mock := NewMockLLM(`{"grounded": true, "structure_ok": true, "has_citation": true, "issues": []}`)
	critic := NewCritic(mock)

	critic.Review(context.Background(), "q", "ctx", "answer", strictPolicy())
	strict := mock.PromptAt(0)
	if !strings.Contains(strict, "expected sections") {
		t.Error("Strict policy prompt should name the expected sections")
	}
	if !strings.Contains(strict, "Big Idea") {
		t.Error("Strict policy prompt should list the required sections")
	}

	critic.Review(context.Background(), "q", "ctx", "answer", relaxedPolicy())
	relaxed := mock.PromptAt(1)
	if !strings.Contains(relaxed, "free-form prose without headings is fine") {
		t.Error("Relaxed policy prompt should soften the structure check")
	}
}
