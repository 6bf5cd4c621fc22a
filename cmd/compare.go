package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kochi-labs/episode-companion/internal/orchestrator"
)

var compareCmd = &cobra.Command{
	Use:   "compare [episode-ids] [question]",
	Short: "Ask a question across several episodes",
	Long: `Answer a question that spans multiple episodes, using each episode's
stored report summary instead of live chunk retrieval.

Episode ids are comma separated. Cross-episode answers are single-pass:
no guardrail or critic, since there is no single-episode grounding oracle.

Examples:
  companion compare ep-2025-11-17,ep-2025-11-18 "What changed between these episodes?"
  companion compare ep-2025-11-17,ep-2025-11-18 "Which themes kept coming back?" --mode founder_takeaway`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVar(&mode, "mode", "auto", "Answer persona: auto, plain_english, founder_takeaway, engineer_angle")
	compareCmd.Flags().BoolVar(&verbose, "verbose", false, "Show retrieval and quality details")
}

func runCompare(cmd *cobra.Command, args []string) error {
	episodeIDs := strings.Split(args[0], ",")
	question := args[1]
	ctx := context.Background()

	for i, id := range episodeIDs {
		episodeIDs[i] = strings.TrimSpace(id)
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("Question:"))
	fmt.Println(questionStyle.Render(question))
	fmt.Println()

	if verbose {
		fmt.Println(contextStyle.Render(fmt.Sprintf("→ Comparing %d episodes...", len(episodeIDs))))
	}
	orch, store, _, err := buildOrchestrator(ctx)
	if err != nil {
		return fmt.Errorf("%s %w", errorStyle.Render("Error:"), err)
	}
	defer store.Close()

	env, err := orch.Compare(ctx, orchestrator.CompareRequest{
		EpisodeIDs: episodeIDs,
		Mode:       mode,
		Query:      question,
	})
	if err != nil {
		return fmt.Errorf("%s %w", errorStyle.Render("Error:"), err)
	}

	printEnvelope(env)
	return nil
}
