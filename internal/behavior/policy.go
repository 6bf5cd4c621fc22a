package behavior

// Policy constrains the shape of an answer for one (persona, intent) pair.
// It is a value object derived per request and never mutated afterwards.
// The same policy drives both the prompt instructions and the post-hoc
// structure validation.
type Policy struct {
	MinWords int
	MaxWords int

	// RequiredSections lists section labels the answer must contain,
	// in order of appearance.
	RequiredSections []string

	ToneInstruction string
	AddCommentary   bool

	// RelaxedCritique marks explanatory intents where the critic's
	// structural check is loosened and a failed critique does not trigger a
	// retry. Critic models produce false negatives on open-ended
	// conversational answers.
	RelaxedCritique bool

	// LearningMode marks intents handled by a single non-generative-loop
	// model call (quiz generation, explanation feedback).
	LearningMode bool
}

// relaxedIntents are the explanatory intents exempt from strict critique.
var relaxedIntents = map[Intent]bool{
	IntentWhyHow:         true,
	IntentSummary:        true,
	IntentGeneral:        true,
	IntentBrainstorm:     true,
	IntentTLDR:           true,
	IntentRelevance:      true,
	IntentCoreIdea:       true,
	IntentBuilderInsight: true,
	IntentHalfAttention:  true,
	IntentSideProject:    true,
	IntentAging:          true,
}

// DerivePolicy returns the answer policy for a persona/intent pair. It is a
// pure, total function: unknown personas fall back to the baseline policy.
// MinWords <= MaxWords holds for every derivable policy.
func DerivePolicy(persona Persona, intent Intent) Policy {
	policy := Policy{
		MinWords:        50,
		MaxWords:        300,
		ToneInstruction: "Helpful and concise.",
	}

	switch persona {
	case PersonaPlainEnglish:
		policy.ToneInstruction = "Simple, accessible, radio-host style."
		policy.RequiredSections = []string{"TL;DR", "Key Ideas", "Why this matters"}
		switch intent {
		case IntentWhyHow:
			policy.RequiredSections = []string{"Explanation", "Analogy"}
			policy.MaxWords = 300
		case IntentBrainstorm:
			policy.RequiredSections = []string{"Explanation", "Ideas"}
			policy.MaxWords = 400
		}
	case PersonaFounderTakeaway:
		policy.ToneInstruction = "Strategic, business-focused, visionary."
		policy.AddCommentary = true
		policy.RequiredSections = []string{"Big Idea", "Product Directions", "Why this paper", "Risks & Unknowns"}
		if intent == IntentBrainstorm {
			policy.MaxWords = 500
		}
	case PersonaEngineerAngle:
		policy.ToneInstruction = "Technical, precise, implementation-focused."
		policy.RequiredSections = []string{"Core Principle", "Architecture", "Training Setup", "Inference Pipeline", "Integration Tips", "Trade-offs"}
		switch intent {
		case IntentCompare:
			policy.RequiredSections = append(policy.RequiredSections, "Performance")
		case IntentBrainstorm:
			policy.MaxWords = 500
		}
	}

	policy.RelaxedCritique = relaxedIntents[intent]
	policy.LearningMode = intent == IntentQuizMe || intent == IntentSelfExplain

	return policy
}
