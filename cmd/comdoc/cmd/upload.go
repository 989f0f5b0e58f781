package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/icu-platform/comdoc/internal/config"
	"github.com/icu-platform/comdoc/internal/elasticsearch"
	"github.com/icu-platform/comdoc/internal/extractor"
	"github.com/icu-platform/comdoc/internal/pipeline"
	"github.com/icu-platform/comdoc/internal/storage"
	"github.com/spf13/cobra"
)

var (
	uploadTitle      string
	uploadSender     string
	uploadCommission string
	uploadUser       string
)

var uploadCmd = &cobra.Command{
	Use:   "upload [pdf]",
	Short: "Upload and analyze a PDF document",
	Long: `Upload a committee document: extract its text, run the analysis
pipeline, store the PDF and index the result with related-document
recommendations.

Examples:
  # Upload with metadata
  comdoc upload acta.pdf --title "Acta de sesión" --commission "asuntos estudiantiles"

  # Title derived from the document text
  comdoc upload solicitud.pdf --sender decanato`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVar(&uploadTitle, "title", "", "Document title (derived from the text when empty)")
	uploadCmd.Flags().StringVar(&uploadSender, "sender", "", "Sending person or office")
	uploadCmd.Flags().StringVar(&uploadCommission, "commission", "", "Commission the document belongs to")
	uploadCmd.Flags().StringVar(&uploadUser, "user", "", "Uploading user")
}

// newPipeline builds a Pipeline from the loaded configuration.
func newPipeline(cfg config.Config) (*pipeline.Pipeline, error) {
	return pipeline.New(pipeline.Config{
		ES: elasticsearch.Config{
			Addresses: cfg.Elasticsearch.Addresses,
			Index:     cfg.Elasticsearch.Index,
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
		},
		Storage: storage.Config{
			Endpoint:        cfg.Storage.Endpoint,
			Bucket:          cfg.Storage.Bucket,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			UseSSL:          cfg.Storage.UseSSL,
		},
		AnalysisBudget: cfg.Pipeline.AnalysisBudget,
	})
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := extractor.CheckAvailable(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), extractor.InstallInstructions())
		return err
	}

	p, err := newPipeline(GetConfig())
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	result, err := p.Upload(ctx, pipeline.UploadRequest{
		Path:       args[0],
		Title:      uploadTitle,
		Sender:     uploadSender,
		Commission: uploadCommission,
		UploadedBy: uploadUser,
	})
	if err != nil {
		return err
	}

	doc := result.Document
	fmt.Printf("Uploaded: %s\n", doc.ID)
	fmt.Printf("  Title:           %s\n", doc.Title)
	fmt.Printf("  Keywords:        %v\n", doc.Keywords)
	if doc.Analysis != nil {
		fmt.Printf("  Words:           %d\n", doc.Analysis.WordCount)
		fmt.Printf("  Sentiment:       %.3f\n", doc.Analysis.Sentiment)
		fmt.Printf("  Complexity:      %.2f\n", doc.Analysis.Complexity.Score)
		for _, topic := range doc.Analysis.Topics {
			fmt.Printf("  Topic:           %s (%d)\n", topic.Name, topic.Relevance)
		}
	}
	for _, rec := range doc.Recommendations {
		fmt.Printf("  Related:         %s (%.2f) %s\n", rec.ID, rec.Similarity, rec.Title)
	}
	for _, warn := range result.Warnings {
		fmt.Printf("  Warning:         %s\n", warn)
	}
	fmt.Printf("  Duration:        %v\n", result.Duration)

	return nil
}
