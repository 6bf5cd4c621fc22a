// Package orchestrator sequences the answer pipeline: classify the
// question, check the guardrail, retrieve and fuse context, generate under
// policy instructions, critique, retry once with wider context, and
// assemble the response envelope.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kochi-labs/episode-companion/internal/answer"
	"github.com/kochi-labs/episode-companion/internal/behavior"
	"github.com/kochi-labs/episode-companion/internal/corpus"
	"github.com/kochi-labs/episode-companion/internal/guardrail"
	"github.com/kochi-labs/episode-companion/internal/retrieval"
)

const (
	// primaryK is the fused-chunk budget for the first generation attempt.
	// retryK widens the context for the single critic-driven retry.
	primaryK = 5
	retryK   = 10
)

// Orchestrator runs the full answer pipeline over one corpus store and one
// language model. Safe for concurrent use: all per-request state is local.
type Orchestrator struct {
	store     corpus.Store
	engine    *retrieval.Engine
	generator *answer.Generator
	critic    *answer.Critic
	model     string
}

// New wires the pipeline stages together. The model name is only recorded
// in response metadata.
func New(store corpus.Store, llm answer.LLM, model string) (*Orchestrator, error) {
	if store == nil {
		return nil, fmt.Errorf("orchestrator requires a corpus store")
	}
	if llm == nil {
		return nil, fmt.Errorf("orchestrator requires an LLM")
	}
	engine, err := retrieval.NewEngine(store)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		store:     store,
		engine:    engine,
		generator: answer.NewGenerator(llm),
		critic:    answer.NewCritic(llm),
		model:     model,
	}, nil
}

// AnswerRequest is one listener question about one episode.
type AnswerRequest struct {
	EpisodeID           string
	Mode                string
	Query               string
	ConversationHistory string
	Profile             *answer.UserProfile
}

// Answer runs the state machine end to end. The only error it returns is
// the invalid-persona precondition; every runtime failure degrades into
// the envelope instead.
func (o *Orchestrator) Answer(ctx context.Context, req AnswerRequest) (*AnswerEnvelope, error) {
	traceID := uuid.NewString()
	start := time.Now()

	intent := behavior.Classify(req.Query)
	persona, err := behavior.ParsePersona(req.Mode)
	if err != nil {
		return nil, err
	}
	if persona == behavior.PersonaAuto {
		persona = behavior.InferPersona(req.Query, intent)
	}
	policy := behavior.DerivePolicy(persona, intent)

	log.Printf("[Orchestrator] trace=%s episode=%s mode=%s type=%s", traceID, req.EpisodeID, persona, intent)

	var lat StageLatencies

	retrievalStart := time.Now()
	results, err := o.engine.Retrieve(ctx, req.EpisodeID, req.Query, primaryK)
	lat.Retrieval = msSince(retrievalStart)
	if err != nil || len(results) == 0 {
		if err != nil {
			log.Printf("[Orchestrator] trace=%s retrieval failed: %v", traceID, err)
		}
		return o.assemble(req.EpisodeID, persona, intent, answer.InsufficientMsg, envelopeInputs{
			traceID: traceID,
			start:   start,
			lat:     lat,
			quality: QualityChecks{"grounded": false, "reason": "no retrievable context"},
		}), nil
	}

	contextText := retrieval.ContextText(results)
	titles := retrieval.SourceTitles(results)

	if term := guardrail.Check(req.Query, contextText, titles); term != "" {
		log.Printf("[Orchestrator] trace=%s guardrail triggered on %q", traceID, term)
		return o.assemble(req.EpisodeID, persona, intent, answer.InsufficientMsg, envelopeInputs{
			traceID: traceID,
			start:   start,
			lat:     lat,
			chunks:  len(results),
			papers:  titles,
			quality: QualityChecks{
				"grounded":                          false,
				"reason":                            guardrail.Reason(term),
				"hallucination_guardrail_triggered": true,
			},
		}), nil
	}

	if policy.LearningMode {
		return o.answerLearningMode(ctx, req, persona, intent, contextText, titles, traceID, start, lat, len(results))
	}

	prompt, err := answer.BuildPrompt(persona, answer.PromptInputs{
		Context:             contextText,
		Question:            req.Query,
		ConversationHistory: req.ConversationHistory,
		Intent:              intent,
		Policy:              policy,
		Profile:             req.Profile,
	})
	if err != nil {
		return nil, err
	}

	llmStart := time.Now()
	text := o.generator.Generate(ctx, prompt, contextText)
	lat.LLM = msSince(llmStart)

	groundingFailed := false
	if !policy.RelaxedCritique {
		criticStart := time.Now()
		verdict := o.critic.Review(ctx, req.Query, contextText, text, policy)
		lat.Critic = msSince(criticStart)

		if !verdict.Grounded {
			log.Printf("[Orchestrator] trace=%s critique failed (%v), retrying with k=%d", traceID, verdict.Issues, retryK)

			retrievalStart = time.Now()
			wider, rerr := o.engine.Retrieve(ctx, req.EpisodeID, req.Query, retryK)
			lat.Retrieval += msSince(retrievalStart)
			if rerr == nil && len(wider) > 0 {
				results = wider
				contextText = retrieval.ContextText(results)
				titles = retrieval.SourceTitles(results)
			}

			prompt, _ = answer.BuildPrompt(persona, answer.PromptInputs{
				Context:             contextText,
				Question:            req.Query,
				ConversationHistory: req.ConversationHistory,
				Intent:              intent,
				Policy:              policy,
				Profile:             req.Profile,
			})

			llmStart = time.Now()
			text = o.generator.Generate(ctx, prompt, contextText)
			lat.LLM += msSince(llmStart)

			criticStart = time.Now()
			verdict = o.critic.Review(ctx, req.Query, contextText, text, policy)
			lat.Critic += msSince(criticStart)

			if !verdict.Grounded {
				log.Printf("[Orchestrator] trace=%s retry still ungrounded, refusing", traceID)
				text = answer.InsufficientMsg
				groundingFailed = true
			}
		}
	}

	text = collapseRefusal(text)

	quality := validate(text, policy)
	if groundingFailed {
		quality["grounding_failed"] = true
	}

	return o.assemble(req.EpisodeID, persona, intent, text, envelopeInputs{
		traceID:     traceID,
		start:       start,
		lat:         lat,
		chunks:      len(results),
		papers:      titles,
		contextText: contextText,
		quality:     quality,
	}), nil
}

// answerLearningMode handles quiz_me and self_explain with a single
// differently-prompted model call, no critic loop.
func (o *Orchestrator) answerLearningMode(ctx context.Context, req AnswerRequest, persona behavior.Persona, intent behavior.Intent, contextText string, titles []string, traceID string, start time.Time, lat StageLatencies, chunks int) (*AnswerEnvelope, error) {
	var prompt string
	if intent == behavior.IntentQuizMe {
		prompt = answer.BuildQuizPrompt(contextText, behavior.QuizTopic(req.Query))
	} else {
		prompt = answer.BuildSelfExplainPrompt(contextText, req.Query)
	}

	llmStart := time.Now()
	text := o.generator.Generate(ctx, prompt, contextText)
	lat.LLM = msSince(llmStart)

	text = collapseRefusal(text)

	quality := QualityChecks{
		"has_substance":  len(text) > 120,
		"not_deflecting": notDeflecting(text),
	}
	if answer.IsFallback(text) {
		quality = QualityChecks{"error": "Timeout or generation error, returned fallback"}
	}

	return o.assemble(req.EpisodeID, persona, intent, text, envelopeInputs{
		traceID:     traceID,
		start:       start,
		lat:         lat,
		chunks:      chunks,
		papers:      titles,
		contextText: contextText,
		quality:     quality,
	}), nil
}

// collapseRefusal enforces the strict refusal format: when the model pads
// the canonical insufficient-context message with commentary, and the total
// stays within 1.5x the message length, the answer collapses to exactly
// the canonical message.
func collapseRefusal(text string) string {
	if !strings.Contains(strings.ToLower(text), strings.ToLower(answer.InsufficientMsg)) {
		return text
	}
	if len(text)*2 <= len(answer.InsufficientMsg)*3 {
		return answer.InsufficientMsg
	}
	return text
}

func notDeflecting(text string) bool {
	lower := strings.ToLower(text)
	return !strings.Contains(lower, "does not give enough detail") &&
		!strings.Contains(lower, "i don't have that information")
}

// validate runs the deterministic quality checks. Fallback answers carry an
// error state instead of check results.
func validate(text string, policy behavior.Policy) QualityChecks {
	if answer.IsFallback(text) {
		return QualityChecks{"error": "Timeout or generation error, returned fallback"}
	}
	return QualityChecks{
		"has_substance":  len(text) > 120,
		"not_deflecting": notDeflecting(text),
		"cites_papers":   strings.Contains(text, "[") && strings.Contains(text, "]"),
		"structure_ok":   structureOK(policy, text),
	}
}

// structureOK checks the same policy table that drove the prompt. Relaxed
// intents and section-free policies always pass.
func structureOK(policy behavior.Policy, text string) bool {
	if policy.RelaxedCritique || len(policy.RequiredSections) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, section := range policy.RequiredSections {
		if !strings.Contains(lower, strings.ToLower(section)) {
			return false
		}
	}
	return true
}

type envelopeInputs struct {
	traceID     string
	start       time.Time
	lat         StageLatencies
	chunks      int
	papers      []string
	contextText string
	quality     QualityChecks
}

func (o *Orchestrator) assemble(episodeID string, persona behavior.Persona, intent behavior.Intent, text string, in envelopeInputs) *AnswerEnvelope {
	papers := in.papers
	if papers == nil {
		papers = []string{}
	}
	return &AnswerEnvelope{
		EpisodeID: episodeID,
		Mode:      persona,
		Answer:    text,
		Metadata: Metadata{
			TraceID:            in.traceID,
			LatencyMS:          msSince(in.start),
			StageLatency:       in.lat,
			UsedChunks:         in.chunks,
			Quality:            in.quality,
			SourcePapers:       papers,
			TokensIn:           len(in.contextText) / 4,
			TokensOut:          len(text) / 4,
			Model:              o.model,
			QuestionType:       intent,
			SuggestedFollowups: behavior.SuggestedFollowups(persona),
		},
	}
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
