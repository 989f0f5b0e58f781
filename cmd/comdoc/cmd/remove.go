package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a document from the corpus",
	Long: `Delete a stored document and its PDF file.

Example:
  comdoc remove 4f1c2a7e-...`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := newPipeline(GetConfig())
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	if err := p.Remove(ctx, args[0]); err != nil {
		return err
	}

	fmt.Printf("Removed: %s\n", args[0])
	return nil
}
