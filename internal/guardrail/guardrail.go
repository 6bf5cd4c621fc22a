// Package guardrail implements the lexical anti-hallucination pre-check.
// It blocks questions about well-known systems the model loves to explain
// from general knowledge when the episode never covers them. The check is
// conservative: it only ever blocks, it never force-allows an answer.
package guardrail

import "strings"

// guardedTerms are names commonly mis-asked about across episodes. A term
// here means "if the listener asks about this and the episode does not
// mention it, refuse rather than let the model improvise".
var guardedTerms = []string{
	"sdxl",
	"stable diffusion",
	"gpt-4o",
	"gpt-4",
	"gpt-3",
	"chatgpt",
	"claude",
	"gemini",
	"llama",
	"midjourney",
	"dall-e",
	"sora",
	"alphafold",
	"alphago",
	"garbage collector",
	"python gc",
	"kubernetes",
	"jvm",
}

// Check scans the query for guarded terms absent from both the retrieved
// context and the retrieved paper titles. It returns the first offending
// term, or "" when the query passes.
func Check(query, contextText string, titles []string) string {
	q := strings.ToLower(query)
	haystack := strings.ToLower(contextText)
	for _, t := range titles {
		haystack += "\n" + strings.ToLower(t)
	}

	for _, term := range guardedTerms {
		if strings.Contains(q, term) && !strings.Contains(haystack, term) {
			return term
		}
	}
	return ""
}

// Reason renders the quality-check reason string recorded when a term
// triggers the block.
func Reason(term string) string {
	return term + " not in episode papers"
}
