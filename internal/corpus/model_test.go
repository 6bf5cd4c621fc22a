package corpus

import (
	"strings"
	"testing"
)

func TestChunkIdentity(t *testing.T) {
	tests := []struct {
		name     string
		chunk    Chunk
		expected string
	}{
		{
			name: "titled chunk uses title and sequence",
			chunk: Chunk{
				Text:          "Latent diffusion reduces compute cost.",
				PaperTitle:    "Latent Diffusion Models",
				SequenceIndex: 3,
			},
			expected: "Latent Diffusion Models#3",
		},
		{
			name: "untitled chunk falls back to text prefix",
			chunk: Chunk{
				Text: "Today's episode covers three papers about efficient inference and training.",
			},
			expected: "Today's episode covers three papers about efficien",
		},
		{
			name: "short untitled chunk uses full text",
			chunk: Chunk{
				Text: "Short chunk.",
			},
			expected: "Short chunk.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.chunk.Identity()
			if got != tt.expected {
				t.Errorf("Expected identity %q, got %q", tt.expected, got)
			}
			if len(got) > 50 {
				t.Errorf("Identity longer than 50 chars for untitled chunk: %d", len(got))
			}
		})
	}
}

func TestChunkIdentity_SameTitleDifferentSequence(t *testing.T) {
	a := Chunk{PaperTitle: "Kandinsky 5.0", SequenceIndex: 0, Text: "intro"}
	b := Chunk{PaperTitle: "Kandinsky 5.0", SequenceIndex: 1, Text: "details"}

	if a.Identity() == b.Identity() {
		t.Error("Expected different identities for different sequence indices")
	}
}

func TestChunkTitle(t *testing.T) {
	titled := Chunk{PaperTitle: "Attention Is All You Need"}
	if titled.Title() != "Attention Is All You Need" {
		t.Errorf("Expected paper title, got %q", titled.Title())
	}

	untitled := Chunk{Text: "general episode banter"}
	if untitled.Title() != "Episode Overview" {
		t.Errorf("Expected Episode Overview fallback, got %q", untitled.Title())
	}
}

func TestDefaultMilvusConfig(t *testing.T) {
	config := DefaultMilvusConfig()

	if config.Address == "" {
		t.Error("Expected non-empty address")
	}

	if config.CollectionName == "" {
		t.Error("Expected non-empty collection name")
	}

	if config.Dimension != 3072 {
		t.Errorf("Expected dimension 3072, got %d", config.Dimension)
	}

	if config.IndexType != "HNSW" {
		t.Errorf("Expected index type HNSW, got %s", config.IndexType)
	}

	if config.MetricType != "COSINE" {
		t.Errorf("Expected metric type COSINE, got %s", config.MetricType)
	}
}

func TestChunkIdentity_PrefixStableAcrossSignals(t *testing.T) {
	// The same logical chunk observed by both retrieval signals must
	// resolve to one identity even when one copy carries a citation header.
	text := strings.Repeat("x", 80)
	a := Chunk{Text: text}
	b := Chunk{Text: text}

	if a.Identity() != b.Identity() {
		t.Error("Expected identical identities for identical text")
	}
}
