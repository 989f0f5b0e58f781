package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var similarCmd = &cobra.Command{
	Use:   "similar [id]",
	Short: "Recompute the recommendations of a stored document",
	Long: `Re-run the similarity scan for a stored document against the most
recent corpus documents and persist the refreshed recommendations.

Example:
  comdoc similar 4f1c2a7e-...`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

func init() {
	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := newPipeline(GetConfig())
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	recs, err := p.RecomputeSimilar(ctx, args[0])
	if err != nil {
		return err
	}

	if len(recs) == 0 {
		fmt.Println("No related documents found.")
		return nil
	}

	fmt.Printf("Found %d related documents:\n", len(recs))
	for _, rec := range recs {
		fmt.Printf("  %.2f  %s  %s\n", rec.Similarity, rec.ID, rec.Title)
	}

	return nil
}
