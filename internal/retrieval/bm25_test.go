package retrieval

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	got := Tokenize("Latent   Diffusion reduces\ncompute COST")
	expected := []string{"latent", "diffusion", "reduces", "compute", "cost"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestBM25Index_RanksMatchingDocHigher(t *testing.T) {
	docs := [][]string{
		Tokenize("the cat sat on the mat"),
		Tokenize("diffusion models generate images from noise"),
		Tokenize("transformers use attention to process sequences"),
	}
	index := NewBM25Index(docs)

	scores := index.Scores(Tokenize("diffusion noise"))
	if scores[1] <= scores[0] || scores[1] <= scores[2] {
		t.Errorf("Expected doc 1 to score highest, got %v", scores)
	}
}

func TestBM25Index_TopN(t *testing.T) {
	// The query term must be rarer than half the corpus so its IDF stays
	// positive and the matching docs outrank the rest.
	docs := [][]string{
		Tokenize("alpha beta gamma"),
		Tokenize("attention attention attention mechanism"),
		Tokenize("attention is all you need"),
		Tokenize("unrelated text about cooking"),
		Tokenize("diffusion models generate images"),
	}
	index := NewBM25Index(docs)

	top := index.TopN(Tokenize("attention"), 2)
	if len(top) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(top))
	}
	for _, i := range top {
		if i != 1 && i != 2 {
			t.Errorf("Expected docs 1 and 2 in top results, got %v", top)
		}
	}
}

func TestBM25Index_TopN_NLargerThanCorpus(t *testing.T) {
	index := NewBM25Index([][]string{Tokenize("only one document")})

	top := index.TopN(Tokenize("document"), 10)
	if len(top) != 1 {
		t.Errorf("Expected 1 result, got %d", len(top))
	}
}

func TestBM25Index_UnknownQueryTermsScoreZero(t *testing.T) {
	docs := [][]string{
		Tokenize("first document"),
		Tokenize("second document"),
	}
	index := NewBM25Index(docs)

	scores := index.Scores(Tokenize("zzz qqq"))
	for i, s := range scores {
		if s != 0 {
			t.Errorf("Expected zero score for doc %d, got %f", i, s)
		}
	}

	// Zero-score ties keep original document order.
	top := index.TopN(Tokenize("zzz"), 2)
	if !reflect.DeepEqual(top, []int{0, 1}) {
		t.Errorf("Expected stable order [0 1], got %v", top)
	}
}

func TestBM25Index_CommonTermsKeepPositiveIDF(t *testing.T) {
	// A term in every document would get a negative IDF without the
	// epsilon floor.
	docs := [][]string{
		Tokenize("model training data"),
		Tokenize("model inference cost"),
		Tokenize("model evaluation suite"),
	}
	index := NewBM25Index(docs)

	scores := index.Scores(Tokenize("model"))
	for i, s := range scores {
		if s < 0 {
			t.Errorf("Expected non-negative score for doc %d, got %f", i, s)
		}
	}
}

func TestBM25Index_EmptyCorpus(t *testing.T) {
	index := NewBM25Index(nil)

	if got := index.TopN(Tokenize("anything"), 5); len(got) != 0 {
		t.Errorf("Expected no results from empty corpus, got %v", got)
	}
}
