package answer

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/kochi-labs/episode-companion/internal/behavior"
)

// Critique is the reviewer verdict on a generated answer.
type Critique struct {
	Grounded    bool
	StructureOK bool
	HasCitation bool
	Issues      []string
}

// Critic reviews generated answers against the retrieved context using a
// second model call. Verdicts are parsed defensively: anything the model
// returns that cannot be read as JSON counts as a failed check, never a
// pass.
type Critic struct {
	llm LLM
}

func NewCritic(llm LLM) *Critic {
	return &Critic{llm: llm}
}

// Review asks the model to judge grounding, structure, and citations. The
// policy softens the structural wording for conversational answer shapes
// so short free-form answers are not flagged for missing headings.
func (c *Critic) Review(ctx context.Context, question, contextText, answer string, policy behavior.Policy) Critique {
	prompt := buildCriticPrompt(question, contextText, answer, policy)

	raw, err := c.llm.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[Critic] review call failed: %v", err)
		return Critique{Issues: []string{"critic_failed"}}
	}

	verdict, ok := parseCritique(raw)
	if !ok {
		log.Printf("[Critic] unparseable verdict: %.80s", raw)
		return Critique{Issues: []string{"parse_error"}}
	}
	return verdict
}

func buildCriticPrompt(question, contextText, answer string, policy behavior.Policy) string {
	var b strings.Builder
	b.WriteString("You are a strict reviewer checking an AI-generated answer about a research podcast episode.\n\n")
	b.WriteString("Context from the episode:\n")
	b.WriteString(contextText + "\n\n")
	b.WriteString("User question: " + question + "\n\n")
	b.WriteString("Answer to review:\n")
	b.WriteString(answer + "\n\n")
	b.WriteString("Check the answer and respond with ONLY a JSON object, no prose:\n")
	b.WriteString("{\n")
	b.WriteString("  \"grounded\": true/false,  // every claim is supported by the context; no invented papers, names, or numbers\n")
	if policy.RelaxedCritique {
		b.WriteString("  \"structure_ok\": true/false,  // the answer is readable and coherent; free-form prose without headings is fine\n")
	} else {
		b.WriteString("  \"structure_ok\": true/false,  // the answer includes the expected sections: " + strings.Join(policy.RequiredSections, ", ") + "\n")
	}
	b.WriteString("  \"has_citation\": true/false,  // at least one [Paper Name] style citation appears\n")
	b.WriteString("  \"issues\": [\"short issue descriptions\"]\n")
	b.WriteString("}\n")
	return b.String()
}

// parseCritique pulls the first JSON object out of the model output.
// Models often wrap JSON in markdown fences or commentary.
func parseCritique(raw string) (Critique, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return Critique{}, false
	}

	var wire struct {
		Grounded    bool     `json:"grounded"`
		StructureOK bool     `json:"structure_ok"`
		HasCitation bool     `json:"has_citation"`
		Issues      []string `json:"issues"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &wire); err != nil {
		return Critique{}, false
	}

	return Critique{
		Grounded:    wire.Grounded,
		StructureOK: wire.StructureOK,
		HasCitation: wire.HasCitation,
		Issues:      wire.Issues,
	}, true
}
