// Package retrieval implements hybrid chunk retrieval for a single episode:
// a dense similarity signal from the corpus store and an in-process BM25
// lexical signal, merged with Reciprocal Rank Fusion.
package retrieval

import (
	"math"
	"sort"
	"strings"
)

// Okapi BM25 parameters. k1 controls term-frequency saturation, b controls
// document-length normalization; the values are the conventional defaults.
const (
	bm25K1      = 1.5
	bm25B       = 0.75
	bm25Epsilon = 0.25
)

// BM25Index scores documents against a query using Okapi BM25. The index is
// built once per request over one episode's chunks and discarded afterwards.
type BM25Index struct {
	docFreqs []map[string]int
	docLens  []int
	avgLen   float64
	idf      map[string]float64
}

// Tokenize splits text into lower-cased whitespace tokens.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// NewBM25Index builds an index over pre-tokenized documents.
func NewBM25Index(docs [][]string) *BM25Index {
	idx := &BM25Index{
		docFreqs: make([]map[string]int, len(docs)),
		docLens:  make([]int, len(docs)),
		idf:      make(map[string]float64),
	}

	df := make(map[string]int)
	totalLen := 0
	for i, doc := range docs {
		freqs := make(map[string]int, len(doc))
		for _, term := range doc {
			freqs[term]++
		}
		for term := range freqs {
			df[term]++
		}
		idx.docFreqs[i] = freqs
		idx.docLens[i] = len(doc)
		totalLen += len(doc)
	}
	if len(docs) > 0 {
		idx.avgLen = float64(totalLen) / float64(len(docs))
	}

	// IDF with the rank-bm25 negative-value fix: terms appearing in more
	// than half the corpus get a small positive epsilon-scaled IDF instead
	// of a negative score.
	n := float64(len(docs))
	idfSum := 0.0
	var negative []string
	for term, freq := range df {
		idf := math.Log((n - float64(freq) + 0.5) / (float64(freq) + 0.5))
		idx.idf[term] = idf
		idfSum += idf
		if idf < 0 {
			negative = append(negative, term)
		}
	}
	if len(df) > 0 {
		floor := bm25Epsilon * idfSum / float64(len(df))
		for _, term := range negative {
			idx.idf[term] = floor
		}
	}

	return idx
}

// Scores returns the BM25 score of every document for the query tokens.
func (idx *BM25Index) Scores(query []string) []float64 {
	scores := make([]float64, len(idx.docFreqs))
	for _, term := range query {
		idf, ok := idx.idf[term]
		if !ok {
			continue
		}
		for i, freqs := range idx.docFreqs {
			tf := float64(freqs[term])
			if tf == 0 {
				continue
			}
			norm := 1 - bm25B + bm25B*float64(idx.docLens[i])/idx.avgLen
			scores[i] += idf * tf * (bm25K1 + 1) / (tf + bm25K1*norm)
		}
	}
	return scores
}

// TopN returns the indices of the n highest-scoring documents, ties broken
// by original document order.
func (idx *BM25Index) TopN(query []string, n int) []int {
	scores := idx.Scores(query)

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if n > len(order) {
		n = len(order)
	}
	return order[:n]
}
