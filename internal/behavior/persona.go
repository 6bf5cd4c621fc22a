package behavior

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPersona reports a persona mode outside the known set. Supplying
// a valid persona is part of the caller contract, so this surfaces as an
// error instead of a degraded answer.
var ErrUnknownPersona = errors.New("unknown persona mode")

// Persona is a named answer style profile.
type Persona string

const (
	// PersonaAuto asks the pipeline to infer the persona from the question.
	PersonaAuto Persona = "auto"

	PersonaPlainEnglish    Persona = "plain_english"
	PersonaFounderTakeaway Persona = "founder_takeaway"
	PersonaEngineerAngle   Persona = "engineer_angle"
)

// KnownPersonas lists the personas with prompt templates, in display order.
var KnownPersonas = []Persona{PersonaPlainEnglish, PersonaFounderTakeaway, PersonaEngineerAngle}

// ParsePersona validates a caller-supplied persona string. Empty input maps
// to PersonaAuto.
func ParsePersona(s string) (Persona, error) {
	switch Persona(strings.ToLower(strings.TrimSpace(s))) {
	case "", PersonaAuto:
		return PersonaAuto, nil
	case PersonaPlainEnglish:
		return PersonaPlainEnglish, nil
	case PersonaFounderTakeaway:
		return PersonaFounderTakeaway, nil
	case PersonaEngineerAngle:
		return PersonaEngineerAngle, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPersona, s)
}

// intentPersonas routes each intent to its natural persona. Intents missing
// from the table fall through to keyword detection.
var intentPersonas = map[Intent]Persona{
	// Plain English
	IntentTLDR:      PersonaPlainEnglish,
	IntentGeneral:   PersonaPlainEnglish,
	IntentSummary:   PersonaPlainEnglish,
	IntentRelevance: PersonaPlainEnglish,
	IntentCoreIdea:  PersonaPlainEnglish,
	IntentWhyHow:    PersonaPlainEnglish,

	// Learning modes
	IntentQuizMe:      PersonaPlainEnglish,
	IntentSelfExplain: PersonaPlainEnglish,

	// Founder
	IntentMVP:         PersonaFounderTakeaway,
	IntentMonth:       PersonaFounderTakeaway,
	IntentPaidProduct: PersonaFounderTakeaway,
	IntentMoat:        PersonaFounderTakeaway,
	IntentRisks:       PersonaFounderTakeaway,
	IntentOverhype:    PersonaFounderTakeaway,
	IntentSoloIndie:   PersonaFounderTakeaway,
	IntentPMFintech:   PersonaFounderTakeaway,

	// Engineer
	IntentPrototype:    PersonaEngineerAngle,
	IntentArchitecture: PersonaEngineerAngle,
	IntentPipeline:     PersonaEngineerAngle,
	IntentAPI:          PersonaEngineerAngle,
	IntentIntegration:  PersonaEngineerAngle,
	IntentMetrics:      PersonaEngineerAngle,
	IntentExperiment:   PersonaEngineerAngle,
	IntentTradeoffs:    PersonaEngineerAngle,
	IntentLimitations:  PersonaEngineerAngle,
	IntentBackendPG:    PersonaEngineerAngle,
	IntentHealthcare:   PersonaEngineerAngle,
}

// InferPersona picks the best persona for an auto-mode request. The intent
// table wins when it has an opinion; otherwise keyword detection applies
// with engineer > founder > plain precedence.
func InferPersona(query string, intent Intent) Persona {
	if p, ok := intentPersonas[intent]; ok {
		return p
	}

	q := strings.ToLower(query)

	engineerKeywords := []string{"implement", "code", "architecture", "train", "benchmark", "stack", "tech", "how to", "latency", "gpu"}
	founderKeywords := []string{"build", "startup", "market", "opportunity", "product", "business", "idea", "sell", "money", "cost"}

	if containsAny(q, engineerKeywords...) {
		return PersonaEngineerAngle
	}
	if containsAny(q, founderKeywords...) {
		return PersonaFounderTakeaway
	}
	return PersonaPlainEnglish
}

// SuggestedFollowups returns a short static list of follow-up prompts that
// fit the persona. Attached to the response envelope for the UI to render.
func SuggestedFollowups(persona Persona) []string {
	switch persona {
	case PersonaFounderTakeaway:
		return []string{
			"If I only had a weekend, what MVP would you build from this?",
			"What's a realistic moat for a small team using this research?",
			"What are the top 3 risks and unknowns here?",
		}
	case PersonaEngineerAngle:
		return []string{
			"Describe a minimal data pipeline for this paper.",
			"What metrics and logs should I track in production?",
			"What are the limitations or weak points of this approach?",
		}
	default:
		return []string{
			"Give me a 3-bullet TL;DR of this episode.",
			"Explain one of the core ideas using a real-world example.",
			"If I only remember one thing from this episode, what should it be?",
		}
	}
}
