package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/icu-platform/comdoc/internal/elasticsearch"
	"github.com/spf13/cobra"
)

var (
	searchLimit  int
	searchFormat string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the document corpus",
	Long: `Search stored committee documents by title, extracted text and
keywords.

Examples:
  # Basic search
  comdoc search "becas estudiantiles"

  # Limit results
  comdoc search "presupuesto" --limit 5

  # JSON output for scripting
  comdoc search "reglamento" --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchFormat, "format", "text", "Output format: text or json")
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	query := args[0]
	cfg := GetConfig()

	esClient, err := elasticsearch.New(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Index:     cfg.Elasticsearch.Index,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}

	docs, err := esClient.Search(ctx, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(docs) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	if searchFormat == "json" {
		output, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
	} else {
		fmt.Printf("Found %d results:\n\n", len(docs))
		for i, doc := range docs {
			fmt.Printf("─── Result %d ───\n", i+1)
			fmt.Printf("Title:      %s\n", doc.Title)
			fmt.Printf("ID:         %s\n", doc.ID)
			if doc.Commission != "" {
				fmt.Printf("Commission: %s\n", doc.Commission)
			}
			fmt.Printf("Uploaded:   %s\n", doc.UploadedAt.Format("2006-01-02"))
			if len(doc.Keywords) > 0 {
				fmt.Printf("Keywords:   %v\n", doc.Keywords)
			}

			// Truncate content for display
			content := doc.Content
			if len(content) > 500 {
				content = content[:500] + "..."
			}
			fmt.Printf("Content:\n%s\n\n", content)
		}
	}

	return nil
}
