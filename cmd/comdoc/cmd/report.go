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
	reportType  string
	reportLimit int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print corpus-wide reports",
	Long: `Print aggregate reports over the document corpus.

Report types:
  resumen         totals: documents, this month, analyzed, averages
  temporal        documents per month
  comisiones      documents per commission
  palabras-clave  most frequent keywords
  nlp             aggregate sentiment, complexity and topics
  recientes       most recently uploaded documents

Example:
  comdoc report --type comisiones`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportType, "type", "resumen", "Report type")
	reportCmd.Flags().IntVar(&reportLimit, "limit", 10, "Result limit for the recientes report")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	switch reportType {
	case "resumen":
		summary, err := esClient.GetSummary(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Documents:          %d\n", summary.TotalDocuments)
		fmt.Printf("This month:         %d\n", summary.DocumentsThisMonth)
		fmt.Printf("With analysis:      %d\n", summary.DocumentsWithAnalysis)
		fmt.Printf("Avg words:          %.1f\n", summary.AverageWordCount)
		fmt.Printf("Keyword instances:  %d\n", summary.TotalKeywordInstances)

	case "temporal":
		months, err := esClient.GetMonthlyCounts(ctx)
		if err != nil {
			return err
		}
		for _, m := range months {
			fmt.Printf("%s  %d\n", m.Month, m.Count)
		}

	case "comisiones":
		commissions, err := esClient.GetCommissionCounts(ctx)
		if err != nil {
			return err
		}
		for _, c := range commissions {
			fmt.Printf("%-30s %d\n", c.Commission, c.Count)
		}

	case "palabras-clave":
		keywords, err := esClient.GetTopKeywords(ctx)
		if err != nil {
			return err
		}
		for _, kw := range keywords {
			fmt.Printf("%-30s %d\n", kw.Keyword, kw.Count)
		}

	case "nlp":
		stats, err := esClient.GetNLPStats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Avg sentiment:   %.3f\n", stats.AverageSentiment)
		fmt.Printf("Avg complexity:  %.2f\n", stats.AverageComplexity)
		fmt.Printf("Avg words:       %.1f\n", stats.AverageWordCount)
		for _, topic := range stats.TopTopics {
			fmt.Printf("Topic:           %-20s %d\n", topic.Topic, topic.Count)
		}

	case "recientes":
		docs, err := esClient.Recent(ctx, reportLimit)
		if err != nil {
			return err
		}
		output, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))

	default:
		return fmt.Errorf("unknown report type %q", reportType)
	}

	return nil
}
