package answer

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
)

// InsufficientMsg is the canonical refusal when retrieved context cannot
// support an answer. The orchestrator matches against it verbatim, so it
// must never be reworded casually.
const InsufficientMsg = "This episode excerpt does not give enough detail to answer that."

const (
	generateTimeout = 60 * time.Second

	timeoutFallbackPrefix = "I apologize, but I'm experiencing high response times right now. Based on the episode content, here's a brief summary:\n\n"
	errorFallbackPrefix   = "I'm having trouble generating a response. Here's what I found in the episode:\n\n"

	fallbackSnippetLen = 500
)

// Generator wraps an LLM with the wall-clock timeout and degradation rules
// for answer generation. Generation never surfaces an error to the caller;
// failures produce a fallback answer built from the retrieved context, and
// the pipeline detects those via IsFallback.
type Generator struct {
	llm LLM
}

func NewGenerator(llm LLM) *Generator {
	return &Generator{llm: llm}
}

// Generate runs the prompt with a 60 second budget. On timeout or model
// error it returns a canned apology carrying the first 500 characters of
// the episode context so the listener still gets something grounded.
func (g *Generator) Generate(ctx context.Context, prompt, contextText string) string {
	type result struct {
		text string
		err  error
	}

	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	ch := make(chan result, 1)
	go func() {
		text, err := g.llm.Generate(genCtx, prompt)
		ch <- result{text: text, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) {
				log.Printf("[Generate] timed out: %v", res.err)
				return timeoutFallbackPrefix + contextSnippet(contextText)
			}
			log.Printf("[Generate] LLM call failed: %v", res.err)
			return errorFallbackPrefix + contextSnippet(contextText)
		}
		return strings.TrimSpace(res.text)
	case <-genCtx.Done():
		log.Printf("[Generate] timed out after %s", generateTimeout)
		return timeoutFallbackPrefix + contextSnippet(contextText)
	}
}

// IsFallback reports whether an answer is one of the degraded responses
// produced when the model times out or errors.
func IsFallback(answer string) bool {
	return strings.HasPrefix(answer, timeoutFallbackPrefix) ||
		strings.HasPrefix(answer, errorFallbackPrefix)
}

func contextSnippet(contextText string) string {
	if len(contextText) > fallbackSnippetLen {
		contextText = contextText[:fallbackSnippetLen]
	}
	return contextText + "..."
}
