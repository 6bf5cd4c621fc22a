// Package behavior maps free-text questions onto the closed intent taxonomy
// and derives the answer policy (length, sections, tone) for each
// persona/intent pair. Everything here is a pure function over fixed tables
// so classification and validation can never drift apart.
package behavior

import "strings"

// Intent is the classified purpose of a user question.
type Intent string

const (
	IntentQuizMe      Intent = "quiz_me"
	IntentSelfExplain Intent = "self_explain"
	IntentTLDR        Intent = "tldr"

	// Episode-native flavor questions
	IntentBuilderInsight Intent = "episode_builder_insight"
	IntentHalfAttention  Intent = "episode_half_attention"
	IntentSideProject    Intent = "episode_side_project"
	IntentAging          Intent = "episode_aging"

	IntentCoreIdea Intent = "core_idea"

	// Founder-mode canonical prompts
	IntentMVP          Intent = "mvp"
	IntentPrototype    Intent = "prototype"
	IntentMonth        Intent = "month"
	IntentPaidProduct  Intent = "paid_product"
	IntentMoat         Intent = "moat"
	IntentRisks        Intent = "risks"
	IntentOverhype     Intent = "overhype_failure"
	IntentSoloIndie    Intent = "role_solo_indie"
	IntentPMFintech    Intent = "role_pm_fintech"

	// Engineer-mode canonical prompts
	IntentPipeline     Intent = "pipeline"
	IntentAPI          Intent = "api"
	IntentArchitecture Intent = "architecture"
	IntentIntegration  Intent = "integration"
	IntentMetrics      Intent = "metrics"
	IntentExperiment   Intent = "experiment"
	IntentTradeoffs    Intent = "tradeoffs"
	IntentLimitations  Intent = "limitations"
	IntentBackendPG    Intent = "role_backend_python_pg"
	IntentHealthcare   Intent = "role_healthcare"

	IntentBrainstorm     Intent = "brainstorm"
	IntentSummary        Intent = "summary"
	IntentWhyHow         Intent = "why_how"
	IntentBuildImplement Intent = "build_implement"
	IntentCompare        Intent = "compare"
	IntentRelevance      Intent = "relevance"
	IntentGeneral        Intent = "general"
)

var quizTriggers = []string{
	"quiz me",
	"test me",
	"ask me questions",
	"questions to test if i understood",
	"multiple-choice questions",
	"multiple choice questions",
	"mcq",
	"spaced-repetition",
	"spaced repetition",
	"mix easy and hard questions",
}

var selfExplainTriggers = []string{
	"let me explain",
	"did i get this right",
	"tell me if i understood",
	"grade my explanation",
	"give me feedback on my explanation",
	"what i got right and wrong",
	"rewrite it and highlight what i missed",
	"highlight what i missed",
	"give me feedback and a better version",
}

func containsAny(q string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(q, t) {
			return true
		}
	}
	return false
}

// quizFiller are connective words that carry no topic information once the
// trigger phrase is removed from a quiz request.
var quizFiller = map[string]bool{
	"on": true, "about": true, "the": true, "this": true, "that": true,
	"a": true, "an": true, "of": true, "from": true, "in": true,
	"episode": true, "today's": true, "todays": true, "please": true,
	"can": true, "you": true, "me": true, "and": true,
}

// QuizTopic extracts the subject of a quiz request: whatever remains after
// stripping the trigger phrase and connective filler. Empty means quiz the
// whole episode.
func QuizTopic(query string) string {
	q := strings.ToLower(query)
	for _, t := range quizTriggers {
		if i := strings.Index(q, t); i >= 0 {
			q = q[:i] + " " + q[i+len(t):]
			break
		}
	}

	var kept []string
	for _, w := range strings.Fields(q) {
		w = strings.Trim(w, ".,!?")
		if w == "" || quizFiller[w] {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// Classify maps a query onto the intent taxonomy. Rules are checked in
// priority order and the first match wins; unmatched input is IntentGeneral.
// The function is total and deterministic.
func Classify(query string) Intent {
	q := strings.ToLower(query)

	// Learning modes first, they have dedicated non-generative branches.
	if containsAny(q, quizTriggers...) {
		return IntentQuizMe
	}
	if containsAny(q, selfExplainTriggers...) {
		return IntentSelfExplain
	}

	// TL;DR requests (before generic summary)
	if strings.Contains(q, "tldr") || strings.Contains(q, "tl;dr") ||
		(strings.Contains(q, "3") && strings.Contains(q, "bullet")) {
		return IntentTLDR
	}

	// Episode-native flavor questions
	if strings.Contains(q, "builder-friendly insight") {
		return IntentBuilderInsight
	}
	if strings.Contains(q, "half paying attention") {
		return IntentHalfAttention
	}
	if containsAny(q, "crazy but plausible side-project", "crazy but plausible side project") {
		return IntentSideProject
	}
	if containsAny(q, "age the best", "look silly in 2 years") {
		return IntentAging
	}

	// Core idea with example
	if strings.Contains(q, "core idea") && strings.Contains(q, "example") {
		return IntentCoreIdea
	}

	// Founder-mode canonical prompts
	if strings.Contains(q, "if i only had a weekend") && strings.Contains(q, "mvp") {
		return IntentMVP
	}
	if containsAny(q, "one 4-hour project", "one 4 hour project") {
		return IntentPrototype
	}
	if containsAny(q, "next thing you'd build in a month", "build in a month") {
		return IntentMonth
	}
	if containsAny(q, "paid product", "turn this episode into a paid product") {
		return IntentPaidProduct
	}
	if strings.Contains(q, "customer segment would pay right now") {
		return IntentPaidProduct
	}
	if strings.Contains(q, "pricing model") && strings.Contains(q, "go-to-market") {
		return IntentPaidProduct
	}
	if containsAny(q, "realistic moat", "closest existing products", "differentiate using this research") {
		return IntentMoat
	}
	if containsAny(q, "top 3 risks", "top three risks", "unknowns") {
		return IntentRisks
	}
	if containsAny(q, "over-hyped", "overhyped") {
		return IntentOverhype
	}
	if strings.Contains(q, "solo indie dev") {
		return IntentSoloIndie
	}
	if strings.Contains(q, "pm at a saas startup in fintech") {
		return IntentPMFintech
	}

	// Engineer-mode canonical prompts
	if strings.Contains(q, "one simple prototype") {
		return IntentPrototype
	}
	if strings.Contains(q, "minimal data pipeline") {
		return IntentPipeline
	}
	if strings.Contains(q, "sketch a minimal api") {
		return IntentAPI
	}
	if strings.Contains(q, "implement this with python + fastapi + postgresql") {
		return IntentArchitecture
	}
	if strings.Contains(q, "integrate this paper into an existing microservice") {
		return IntentIntegration
	}
	if strings.Contains(q, "metrics and logs should i track") {
		return IntentMetrics
	}
	if strings.Contains(q, "bottlenecks or failure modes") {
		return IntentRisks
	}
	if strings.Contains(q, "small-scale experiment") {
		return IntentExperiment
	}
	if strings.Contains(q, "trade-offs between this approach") {
		return IntentTradeoffs
	}
	if strings.Contains(q, "limitations or weak points") {
		return IntentLimitations
	}
	if strings.Contains(q, "backend engineer working mostly with python + postgres") {
		return IntentBackendPG
	}
	if strings.Contains(q, "i'm at a healthcare startup") {
		return IntentHealthcare
	}

	// Broad keyword buckets, checked after every canonical prompt.
	if containsAny(q, "brainstorm", "idea", "project", "prototype", "4 hour", "4-hour") {
		return IntentBrainstorm
	}
	if containsAny(q, "summary", "summarize", "overview", "what is") {
		return IntentSummary
	}
	if containsAny(q, "why", "how", "explain", "reason") {
		return IntentWhyHow
	}
	if containsAny(q, "build", "implement", "code", "stack", "architecture") {
		return IntentBuildImplement
	}
	if containsAny(q, "compare", "difference", "versus", "vs") {
		return IntentCompare
	}
	if containsAny(q, "relevance", "matter", "care", "impact", "remember one thing") {
		return IntentRelevance
	}

	return IntentGeneral
}
