package retrieval

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/kochi-labs/episode-companion/internal/corpus"
)

// Fusion constants. The RRF constant dampens the gap between adjacent
// ranks; the priority boost lets ingestion-time curation nudge ranking
// without overwhelming relevance.
const (
	rrfK          = 60
	priorityBoost = 0.005

	// candidateFactor is how many candidates each signal contributes per
	// requested result.
	candidateFactor = 3

	// lexicalCorpusCap bounds the unranked episode listing used to build
	// the BM25 index.
	lexicalCorpusCap = 200
)

// FusedResult is a chunk annotated with its aggregated fusion score and a
// citation header prepended to its text.
type FusedResult struct {
	Chunk corpus.Chunk
	Score float64
}

// Engine merges the dense and lexical retrieval signals for one episode.
type Engine struct {
	store corpus.Store
}

// NewEngine creates a fusion engine over the given corpus store.
func NewEngine(store corpus.Store) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("corpus store cannot be nil")
	}
	return &Engine{store: store}, nil
}

// fusionEntry accumulates RRF score for one logical chunk across signals.
// Entries are request-scoped and discarded after ranking.
type fusionEntry struct {
	chunk corpus.Chunk
	score float64
	order int // first-insertion order, breaks score ties
}

// Retrieve runs both signals, fuses them with Reciprocal Rank Fusion, and
// returns at most k deduplicated, citation-annotated chunks in descending
// score order. Either signal may fail independently; fusion proceeds with
// whatever succeeded, and an empty result means insufficient context, not
// an error.
func (e *Engine) Retrieve(ctx context.Context, episodeID, query string, k int) ([]FusedResult, error) {
	if episodeID == "" {
		return nil, fmt.Errorf("episode ID cannot be empty")
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	// The two signals share nothing but read-only corpus access, so they
	// run concurrently.
	var (
		wg      sync.WaitGroup
		dense   []corpus.ScoredChunk
		lexical []corpus.Chunk
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		results, err := e.store.SimilaritySearch(ctx, episodeID, query, k*candidateFactor)
		if err != nil {
			log.Printf("[Retrieval] Dense search failed for episode %s: %v", episodeID, err)
			return
		}
		dense = results
	}()
	go func() {
		defer wg.Done()
		lexical = e.lexicalSignal(ctx, episodeID, query, k*candidateFactor)
	}()
	wg.Wait()

	entries := make(map[string]*fusionEntry)
	var keys []string

	accumulate := func(rank int, chunk corpus.Chunk) {
		id := chunk.Identity()
		entry, ok := entries[id]
		if !ok {
			entry = &fusionEntry{chunk: chunk, order: len(keys)}
			entries[id] = entry
			keys = append(keys, id)
		}
		entry.score += 1.0/float64(rank+rrfK) + float64(chunk.Priority)*priorityBoost
	}

	for rank, candidate := range dense {
		accumulate(rank, candidate.Chunk)
	}
	for rank, chunk := range lexical {
		accumulate(rank, chunk)
	}

	ranked := make([]*fusionEntry, 0, len(keys))
	for _, id := range keys {
		ranked = append(ranked, entries[id])
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}

	results := make([]FusedResult, 0, len(ranked))
	for _, entry := range ranked {
		entry.chunk.Text = injectCitationHeader(entry.chunk)
		results = append(results, FusedResult{Chunk: entry.chunk, Score: entry.score})
	}
	return results, nil
}

// lexicalSignal scores the episode's listed chunks with BM25 and returns the
// top candidates. Any failure degrades to an empty list so fusion can
// proceed on the dense signal alone.
func (e *Engine) lexicalSignal(ctx context.Context, episodeID, query string, n int) []corpus.Chunk {
	all, err := e.store.ListAll(ctx, episodeID, lexicalCorpusCap)
	if err != nil {
		log.Printf("[Retrieval] BM25 listing failed for episode %s, using only dense results: %v", episodeID, err)
		return nil
	}
	if len(all) == 0 {
		log.Printf("[Retrieval] No chunks found for episode %s for BM25", episodeID)
		return nil
	}

	docs := make([][]string, len(all))
	for i, chunk := range all {
		docs[i] = Tokenize(chunk.Text)
	}

	index := NewBM25Index(docs)
	top := index.TopN(Tokenize(query), n)

	results := make([]corpus.Chunk, 0, len(top))
	for _, i := range top {
		results = append(results, all[i])
	}
	return results
}

// injectCitationHeader prepends "[<title>] (source)" to the chunk text so
// generated answers can cite their sources. Injection is idempotent: a text
// already starting with the bracketed title is returned unchanged.
func injectCitationHeader(chunk corpus.Chunk) string {
	title := chunk.Title()
	if strings.HasPrefix(strings.TrimSpace(chunk.Text), "["+title+"]") {
		return chunk.Text
	}
	return fmt.Sprintf("[%s] (source)\n%s", title, chunk.Text)
}

// ContextText joins fused chunk texts into the prompt context block.
func ContextText(results []FusedResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.Chunk.Text
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// SourceTitles returns the distinct citation titles of the fused chunks in
// first-seen order.
func SourceTitles(results []FusedResult) []string {
	seen := make(map[string]bool)
	var titles []string
	for _, r := range results {
		title := r.Chunk.Title()
		if !seen[title] {
			seen[title] = true
			titles = append(titles, title)
		}
	}
	return titles
}
