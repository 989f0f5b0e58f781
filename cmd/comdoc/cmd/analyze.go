package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/icu-platform/comdoc/internal/analysis"
	"github.com/icu-platform/comdoc/internal/extractor"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Run the analysis pipeline on a local file",
	Long: `Run the NLP analysis stages over a local PDF or plain-text file and
print the result as JSON. Nothing is stored.

Examples:
  comdoc analyze acta.pdf
  comdoc analyze borrador.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := args[0]

	var text string
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		if err := extractor.CheckAvailable(); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), extractor.InstallInstructions())
			return err
		}
		var err error
		text, err = extractor.New().Extract(ctx, path)
		if err != nil {
			return fmt.Errorf("text extraction failed: %w", err)
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		text = string(data)
	}

	result := analysis.Analyze(ctx, text)

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))

	return nil
}
