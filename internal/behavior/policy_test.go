package behavior

import "testing"

var allIntents = []Intent{
	IntentQuizMe, IntentSelfExplain, IntentTLDR,
	IntentBuilderInsight, IntentHalfAttention, IntentSideProject, IntentAging,
	IntentCoreIdea,
	IntentMVP, IntentPrototype, IntentMonth, IntentPaidProduct, IntentMoat,
	IntentRisks, IntentOverhype, IntentSoloIndie, IntentPMFintech,
	IntentPipeline, IntentAPI, IntentArchitecture, IntentIntegration,
	IntentMetrics, IntentExperiment, IntentTradeoffs, IntentLimitations,
	IntentBackendPG, IntentHealthcare,
	IntentBrainstorm, IntentSummary, IntentWhyHow, IntentBuildImplement,
	IntentCompare, IntentRelevance, IntentGeneral,
}

func TestDerivePolicy_BoundsHoldForAllPairs(t *testing.T) {
	personas := append([]Persona{Persona("unknown")}, KnownPersonas...)

	for _, persona := range personas {
		for _, intent := range allIntents {
			policy := DerivePolicy(persona, intent)
			if policy.MinWords > policy.MaxWords {
				t.Errorf("DerivePolicy(%s, %s): min_words %d > max_words %d",
					persona, intent, policy.MinWords, policy.MaxWords)
			}
			if policy.MinWords <= 0 {
				t.Errorf("DerivePolicy(%s, %s): non-positive min_words %d",
					persona, intent, policy.MinWords)
			}
		}
	}
}

func TestDerivePolicy_UnknownPersonaBaseline(t *testing.T) {
	policy := DerivePolicy(Persona("martian"), IntentSummary)

	if policy.MinWords != 50 || policy.MaxWords != 300 {
		t.Errorf("Expected baseline 50-300 words, got %d-%d", policy.MinWords, policy.MaxWords)
	}
	if len(policy.RequiredSections) != 0 {
		t.Errorf("Expected no required sections for unknown persona, got %v", policy.RequiredSections)
	}
}

func TestDerivePolicy_PlainEnglish(t *testing.T) {
	policy := DerivePolicy(PersonaPlainEnglish, IntentSummary)

	expected := []string{"TL;DR", "Key Ideas", "Why this matters"}
	if len(policy.RequiredSections) != len(expected) {
		t.Fatalf("Expected %d sections, got %v", len(expected), policy.RequiredSections)
	}
	for i, section := range expected {
		if policy.RequiredSections[i] != section {
			t.Errorf("Expected section %q at %d, got %q", section, i, policy.RequiredSections[i])
		}
	}
}

func TestDerivePolicy_WhyHowNarrowsSections(t *testing.T) {
	policy := DerivePolicy(PersonaPlainEnglish, IntentWhyHow)

	if len(policy.RequiredSections) != 2 ||
		policy.RequiredSections[0] != "Explanation" ||
		policy.RequiredSections[1] != "Analogy" {
		t.Errorf("Expected [Explanation Analogy], got %v", policy.RequiredSections)
	}
}

func TestDerivePolicy_BrainstormWidensMaxWords(t *testing.T) {
	for _, persona := range KnownPersonas {
		base := DerivePolicy(persona, IntentGeneral)
		brainstorm := DerivePolicy(persona, IntentBrainstorm)
		if brainstorm.MaxWords <= base.MaxWords {
			t.Errorf("persona %s: expected brainstorm to widen max_words, base=%d brainstorm=%d",
				persona, base.MaxWords, brainstorm.MaxWords)
		}
	}
}

func TestDerivePolicy_EngineerCompareAddsPerformance(t *testing.T) {
	policy := DerivePolicy(PersonaEngineerAngle, IntentCompare)

	last := policy.RequiredSections[len(policy.RequiredSections)-1]
	if last != "Performance" {
		t.Errorf("Expected Performance section appended, got %v", policy.RequiredSections)
	}
}

func TestDerivePolicy_RelaxedCritique(t *testing.T) {
	relaxed := []Intent{IntentWhyHow, IntentSummary, IntentGeneral, IntentBrainstorm, IntentTLDR, IntentRelevance}
	for _, intent := range relaxed {
		if !DerivePolicy(PersonaPlainEnglish, intent).RelaxedCritique {
			t.Errorf("Expected %s to be relaxed", intent)
		}
	}

	strict := []Intent{IntentCompare, IntentMVP, IntentPipeline, IntentArchitecture, IntentMoat}
	for _, intent := range strict {
		if DerivePolicy(PersonaEngineerAngle, intent).RelaxedCritique {
			t.Errorf("Expected %s to be strict", intent)
		}
	}
}

func TestDerivePolicy_LearningModes(t *testing.T) {
	if !DerivePolicy(PersonaPlainEnglish, IntentQuizMe).LearningMode {
		t.Error("Expected quiz_me to be a learning mode")
	}
	if !DerivePolicy(PersonaPlainEnglish, IntentSelfExplain).LearningMode {
		t.Error("Expected self_explain to be a learning mode")
	}
	if DerivePolicy(PersonaPlainEnglish, IntentSummary).LearningMode {
		t.Error("Expected summary not to be a learning mode")
	}
}

func TestDerivePolicy_Deterministic(t *testing.T) {
	// Derivation must not leak state between calls: appending Performance
	// for compare must never grow the table's own slice.
	first := DerivePolicy(PersonaEngineerAngle, IntentCompare)
	_ = DerivePolicy(PersonaEngineerAngle, IntentCompare)
	base := DerivePolicy(PersonaEngineerAngle, IntentGeneral)

	for _, section := range base.RequiredSections {
		if section == "Performance" {
			t.Error("Performance section leaked into the base engineer policy")
		}
	}
	if len(first.RequiredSections) != 7 {
		t.Errorf("Expected 7 sections for engineer compare, got %d", len(first.RequiredSections))
	}
}
