package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kochi-labs/episode-companion/internal/answer"
	"github.com/kochi-labs/episode-companion/internal/corpus"
	"github.com/kochi-labs/episode-companion/internal/orchestrator"
)

var (
	mode    string
	history string
	role    string
	domain  string
	stack   string
	verbose bool
)

var (
	headerColor   = lipgloss.Color("#F780FF") // Bright pink
	questionColor = lipgloss.Color("#8BE9FD") // Cyan
	answerColor   = lipgloss.Color("#E9E9F4") // Light purple/white
	contextColor  = lipgloss.Color("#6272A4") // Muted purple
	errorColor    = lipgloss.Color("#FF5555") // Red
	successColor  = lipgloss.Color("#50FA7B") // Green

	headerStyle   = lipgloss.NewStyle().Foreground(headerColor).Bold(true)
	questionStyle = lipgloss.NewStyle().Foreground(questionColor).Italic(true)
	answerStyle   = lipgloss.NewStyle().Foreground(answerColor)
	contextStyle  = lipgloss.NewStyle().Foreground(contextColor).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(successColor)
)

var askCmd = &cobra.Command{
	Use:   "ask [episode-id] [question]",
	Short: "Ask a question about one episode",
	Long: `Ask a natural language question about a single episode of the digest.

This command:
1. Classifies the question and derives an answer policy
2. Retrieves episode chunks with fused dense + lexical search (Milvus)
3. Generates a persona-flavored answer with an LLM (OpenAI)
4. Verifies grounding with a critic pass, retrying once with wider context

Required environment variables:
  OPENAI_API_KEY     - OpenAI API key for embeddings and LLM
  MILVUS_ADDRESS     - Milvus server address (default: localhost:19530)

Examples:
  companion ask ep-2025-11-18 "Give me a tl;dr of the episode"
  companion ask ep-2025-11-18 "What would I build as an MVP?" --mode founder_takeaway
  companion ask ep-2025-11-18 "How does Kandinsky 5.0 work?" --verbose`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&mode, "mode", "auto", "Answer persona: auto, plain_english, founder_takeaway, engineer_angle")
	askCmd.Flags().StringVar(&history, "history", "", "Prior conversation turns to carry into the prompt")
	askCmd.Flags().StringVar(&role, "role", "", "Listener role hint (e.g. backend engineer)")
	askCmd.Flags().StringVar(&domain, "domain", "", "Listener domain hint (e.g. fintech)")
	askCmd.Flags().StringVar(&stack, "stack", "", "Listener stack hint (e.g. Go and Postgres)")
	askCmd.Flags().BoolVar(&verbose, "verbose", false, "Show retrieval and quality details")
}

// buildOrchestrator wires the Milvus-backed pipeline from environment
// configuration. Shared by ask and compare.
func buildOrchestrator(ctx context.Context) (*orchestrator.Orchestrator, *corpus.MilvusStore, string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, nil, "", fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	milvusConfig := corpus.DefaultMilvusConfig()
	if addr := os.Getenv("MILVUS_ADDRESS"); addr != "" {
		milvusConfig.Address = addr
	}

	embedder, err := corpus.NewOpenAIEmbedder("text-embedding-3-large", milvusConfig.Dimension)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to create embedder: %w", err)
	}

	store, err := corpus.NewMilvusStore(ctx, milvusConfig, embedder)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to connect to vector store: %w", err)
	}

	llmConfig := answer.DefaultLLMConfig()
	llmConfig.APIKey = apiKey
	llm, err := answer.NewOpenAILLM(llmConfig)
	if err != nil {
		store.Close()
		return nil, nil, "", fmt.Errorf("failed to create LLM client: %w", err)
	}

	orch, err := orchestrator.New(store, llm, llmConfig.Model)
	if err != nil {
		store.Close()
		return nil, nil, "", err
	}
	return orch, store, llmConfig.Model, nil
}

func userProfile() *answer.UserProfile {
	if role == "" && domain == "" && stack == "" {
		return nil
	}
	return &answer.UserProfile{Role: role, Domain: domain, Stack: stack}
}

func runAsk(cmd *cobra.Command, args []string) error {
	episodeID := args[0]
	question := args[1]
	ctx := context.Background()

	fmt.Println()
	fmt.Println(headerStyle.Render("Question:"))
	fmt.Println(questionStyle.Render(question))
	fmt.Println()

	if orchestrator.IsTimelineQuery(question) {
		fmt.Println(contextStyle.Render("This looks like a cross-episode question; consider `companion compare`."))
		fmt.Println()
	}

	if verbose {
		fmt.Println(contextStyle.Render("→ Connecting to vector store..."))
	}
	orch, store, _, err := buildOrchestrator(ctx)
	if err != nil {
		return fmt.Errorf("%s %w", errorStyle.Render("Error:"), err)
	}
	defer store.Close()

	if verbose {
		fmt.Println(successStyle.Render("✓ Pipeline initialized"))
		fmt.Println(contextStyle.Render("→ Retrieving context and generating answer..."))
	}

	env, err := orch.Answer(ctx, orchestrator.AnswerRequest{
		EpisodeID:           episodeID,
		Mode:                mode,
		Query:               question,
		ConversationHistory: history,
		Profile:             userProfile(),
	})
	if err != nil {
		return fmt.Errorf("%s %w", errorStyle.Render("Error:"), err)
	}

	printEnvelope(env)
	return nil
}

func printEnvelope(env *orchestrator.AnswerEnvelope) {
	fmt.Println(headerStyle.Render("Answer:"))
	fmt.Println()
	fmt.Println(answerStyle.Render(strings.TrimSpace(env.Answer)))
	fmt.Println()

	if verbose {
		md := env.Metadata
		fmt.Println(contextStyle.Render(fmt.Sprintf("trace=%s mode=%s type=%s", md.TraceID, env.Mode, md.QuestionType)))
		fmt.Println(contextStyle.Render(fmt.Sprintf("latency=%.0fms (retrieval %.0f, llm %.0f, critic %.0f)",
			md.LatencyMS, md.StageLatency.Retrieval, md.StageLatency.LLM, md.StageLatency.Critic)))
		fmt.Println(contextStyle.Render(fmt.Sprintf("chunks=%d tokens_in=%d tokens_out=%d", md.UsedChunks, md.TokensIn, md.TokensOut)))
		if len(md.SourcePapers) > 0 {
			fmt.Println(contextStyle.Render("papers: " + strings.Join(md.SourcePapers, "; ")))
		}
		fmt.Println(contextStyle.Render(fmt.Sprintf("quality: %v", md.Quality)))
		fmt.Println()
	}

	if len(env.Metadata.SuggestedFollowups) > 0 {
		fmt.Println(contextStyle.Render("Try asking:"))
		for _, followup := range env.Metadata.SuggestedFollowups {
			fmt.Println(contextStyle.Render("  - " + followup))
		}
		fmt.Println()
	}
}
