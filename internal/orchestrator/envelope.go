package orchestrator

import "github.com/kochi-labs/episode-companion/internal/behavior"

// QualityChecks carries the post-hoc verdict on an answer. Shapes differ by
// outcome (deterministic checks, guardrail refusal, fallback error), so this
// stays an open map rather than a fixed struct.
type QualityChecks map[string]any

// StageLatencies records per-stage wall time in milliseconds.
type StageLatencies struct {
	Retrieval float64 `json:"retrieval"`
	LLM       float64 `json:"llm"`
	Critic    float64 `json:"critic"`
}

// Metadata is the observability envelope attached to every answer.
type Metadata struct {
	TraceID      string          `json:"trace_id"`
	LatencyMS    float64         `json:"latency_ms"`
	StageLatency StageLatencies  `json:"stage_latency"`
	UsedChunks   int             `json:"used_chunks"`
	Quality      QualityChecks   `json:"quality_checks"`
	SourcePapers []string        `json:"source_papers"`

	// Token counts are a chars/4 approximation, not a real tokenizer.
	TokensIn  int `json:"tokens_in"`
	TokensOut int `json:"tokens_out"`

	Model              string          `json:"model"`
	QuestionType       behavior.Intent `json:"question_type"`
	SuggestedFollowups []string        `json:"suggested_followups"`
}

// AnswerEnvelope is the single response shape this pipeline returns.
// Constructed once per request and never persisted here.
type AnswerEnvelope struct {
	EpisodeID string           `json:"episode_id"`
	Mode      behavior.Persona `json:"mode"`
	Answer    string           `json:"answer"`
	Metadata  Metadata         `json:"metadata"`
}
