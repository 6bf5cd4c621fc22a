package guardrail

import "testing"

func TestCheckBlocksAbsentTerm(t *testing.T) {
	term := Check(
		"How do I implement SDXL from this episode?",
		"Kandinsky 5.0 is a family of video generation models.",
		[]string{"Kandinsky 5.0"},
	)
	if term != "sdxl" {
		t.Errorf("Expected sdxl to trigger, got %q", term)
	}
	if Reason(term) != "sdxl not in episode papers" {
		t.Errorf("Unexpected reason: %q", Reason(term))
	}
}

func TestCheckAllowsTermPresentInContext(t *testing.T) {
	term := Check(
		"What does GPT-4o do according to the episode?",
		"The paper benchmarks against GPT-4o on multimodal tasks.",
		nil,
	)
	if term != "" {
		t.Errorf("Term present in context must not trigger, got %q", term)
	}
}

func TestCheckAllowsTermPresentInTitle(t *testing.T) {
	term := Check(
		"How does the llama fine-tune work?",
		"Some unrelated chunk text.",
		[]string{"Llama-Adapter: Efficient Fine-tuning"},
	)
	if term != "" {
		t.Errorf("Term present in a title must not trigger, got %q", term)
	}
}

func TestCheckIgnoresGenericQuestions(t *testing.T) {
	for _, q := range []string{
		"What are the main ideas in this episode?",
		"Give me a TL;DR",
		"Which paper should I pay attention to?",
	} {
		if term := Check(q, "episode context", nil); term != "" {
			t.Errorf("Generic question %q triggered on %q", q, term)
		}
	}
}

func TestCheckBlocksPythonGC(t *testing.T) {
	term := Check(
		"Explain Python's garbage collector using today's episode only.",
		"Papers about diffusion models and retrieval.",
		[]string{"Kandinsky 5.0"},
	)
	if term != "garbage collector" {
		t.Errorf("Expected garbage collector to trigger, got %q", term)
	}
}

func TestCheckCaseInsensitive(t *testing.T) {
	if term := Check("Tell me about MidJourney", "nothing relevant", nil); term != "midjourney" {
		t.Errorf("Expected case-insensitive match, got %q", term)
	}
}
