// Package corpus provides read access to the chunked text of ingested
// episodes. It defines the chunk model shared by the retrieval pipeline and
// a Milvus-backed store implementing semantic search and exhaustive listing.
// Ingestion writes chunks; this package only ever reads them.
package corpus

import (
	"context"
	"fmt"
)

// SourceType describes where a chunk originated during ingestion.
type SourceType string

const (
	SourceReport       SourceType = "report"
	SourceAudio        SourceType = "audio"
	SourcePaperSection SourceType = "paper_section"
	SourcePaperStub    SourceType = "paper_stub"
)

// Chunk is an immutable unit of retrievable episode text.
// Chunks are created at ingestion time and treated as read-only here.
type Chunk struct {
	Text          string     `json:"text"`
	EpisodeID     string     `json:"episode_id"`
	SourceType    SourceType `json:"source_type"`
	PaperTitle    string     `json:"paper_title,omitempty"`
	Priority      int        `json:"priority"`
	SequenceIndex int        `json:"sequence_index"`

	// TimeStart and TimeEnd are seconds into the audio track, set only for
	// audio-sourced chunks.
	TimeStart float64 `json:"time_start,omitempty"`
	TimeEnd   float64 `json:"time_end,omitempty"`
}

// Identity returns the deduplication key for fusion. Chunks with a paper
// title are identified by (title, sequence index); untitled chunks fall
// back to a text prefix so report filler still dedupes across signals.
func (c Chunk) Identity() string {
	if c.PaperTitle != "" {
		return fmt.Sprintf("%s#%d", c.PaperTitle, c.SequenceIndex)
	}
	text := c.Text
	if len(text) > 50 {
		text = text[:50]
	}
	return text
}

// Title returns the citation title for the chunk, substituting the episode
// overview label when the chunk is not tied to a specific paper.
func (c Chunk) Title() string {
	if c.PaperTitle != "" {
		return c.PaperTitle
	}
	return "Episode Overview"
}

// ScoredChunk pairs a chunk with the relevance score assigned by a single
// retrieval signal. Scores from different signals are not comparable.
type ScoredChunk struct {
	Chunk Chunk
	Score float32
}

// Store exposes the two read operations the answer pipeline needs.
// Implementations must return empty results, never an error, when an
// episode has no matching chunks.
type Store interface {
	// SimilaritySearch performs top-K semantic search scoped to one episode.
	SimilaritySearch(ctx context.Context, episodeID, query string, topK int) ([]ScoredChunk, error)

	// ListAll returns up to limit chunks of an episode without relevance
	// ranking. Used as the corpus for lexical scoring.
	ListAll(ctx context.Context, episodeID string, limit int) ([]Chunk, error)

	// Close releases resources and closes connections
	Close() error
}
