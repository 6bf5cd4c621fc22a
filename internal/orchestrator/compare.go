package orchestrator

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kochi-labs/episode-companion/internal/answer"
	"github.com/kochi-labs/episode-companion/internal/behavior"
	"github.com/kochi-labs/episode-companion/internal/corpus"
)

// reportChunkLimit caps how many stored chunks are pulled per episode when
// building cross-episode context.
const reportChunkLimit = 50

// multiEpisodePatterns are phrasings that always mean "across episodes".
var multiEpisodePatterns = []string{
	"yesterday",
	"last episode",
	"previous episode",
	"last few episodes",
	"this week",
	"past few days",
	"last 3 days",
	"across episodes",
	"over time",
	"this month",
	"timeline",
}

// IsTimelineQuery reports whether the question spans multiple episodes.
// Within-episode comparisons ("compare this paper to that one") must not
// match; only explicit multi-episode or time-period phrasings do.
func IsTimelineQuery(text string) bool {
	t := strings.ToLower(text)

	for _, p := range multiEpisodePatterns {
		if strings.Contains(t, p) {
			return true
		}
	}

	if strings.Contains(t, "in this episode") ||
		strings.Contains(t, "in the episode") ||
		strings.Contains(t, "from this episode") {
		return false
	}

	if strings.Contains(t, "compare") &&
		(strings.Contains(t, "episode") || strings.Contains(t, "today") || strings.Contains(t, "week")) {
		return true
	}

	return false
}

// CompareRequest is one question spanning several episodes.
type CompareRequest struct {
	EpisodeIDs []string
	Mode       string
	Query      string
}

// Compare answers a cross-episode question from stored report summaries
// instead of live retrieval. Single-pass generation only: there is no
// per-episode grounding oracle to critique against, and the guardrail's
// term check does not apply across mixed corpora.
func (o *Orchestrator) Compare(ctx context.Context, req CompareRequest) (*AnswerEnvelope, error) {
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

	log.Printf("[Compare] trace=%s episodes=%v mode=%s", traceID, req.EpisodeIDs, persona)

	var lat StageLatencies
	var sections []string
	var papers []string
	chunks := 0

	retrievalStart := time.Now()
	for _, episodeID := range req.EpisodeIDs {
		all, err := o.store.ListAll(ctx, episodeID, reportChunkLimit)
		if err != nil {
			log.Printf("[Compare] trace=%s listing %s failed: %v", traceID, episodeID, err)
			continue
		}
		var texts []string
		for _, chunk := range all {
			if chunk.SourceType != corpus.SourceReport {
				continue
			}
			texts = append(texts, chunk.Text)
			papers = appendDistinct(papers, chunk.Title())
			chunks++
		}
		if len(texts) == 0 {
			continue
		}
		sections = append(sections, "## Episode "+episodeID+"\n\n"+strings.Join(texts, "\n\n"))
	}
	lat.Retrieval = msSince(retrievalStart)

	if len(sections) == 0 {
		return o.assemble(joinEpisodeIDs(req.EpisodeIDs), persona, intent, answer.InsufficientMsg, envelopeInputs{
			traceID: traceID,
			start:   start,
			lat:     lat,
			quality: QualityChecks{"grounded": false, "reason": "no stored summaries for requested episodes"},
		}), nil
	}

	contextText := strings.Join(sections, "\n\n---\n\n")

	prompt, err := answer.BuildPrompt(persona, answer.PromptInputs{
		Context:  contextText,
		Question: req.Query,
		Intent:   intent,
		Policy:   policy,
	})
	if err != nil {
		return nil, err
	}

	llmStart := time.Now()
	text := o.generator.Generate(ctx, prompt, contextText)
	lat.LLM = msSince(llmStart)

	text = collapseRefusal(text)

	return o.assemble(joinEpisodeIDs(req.EpisodeIDs), persona, intent, text, envelopeInputs{
		traceID:     traceID,
		start:       start,
		lat:         lat,
		chunks:      chunks,
		papers:      papers,
		contextText: contextText,
		quality:     validate(text, policy),
	}), nil
}

func joinEpisodeIDs(ids []string) string {
	return strings.Join(ids, ",")
}

func appendDistinct(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
