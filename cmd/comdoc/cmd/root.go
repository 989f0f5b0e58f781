package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/icu-platform/comdoc/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
)

// GetConfig returns the loaded configuration.
func GetConfig() config.Config {
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "comdoc",
	Short: "comdoc: committee document analysis service",
	Long: `comdoc manages a university council's committee documents: PDF uploads
are text-extracted, analyzed with a heuristic Spanish NLP pipeline,
stored, and cross-referenced for similar-document recommendations.

Commands:
  upload   Upload and analyze a PDF document
  analyze  Run the analysis pipeline on a local file, without storing
  search   Search the document corpus
  similar  Recompute the recommendations of a stored document
  remove   Remove a document and its PDF from the corpus
  report   Print corpus-wide reports
  serve    Start the MCP server for document retrieval`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func initConfig() {
	// Start with defaults
	cfg = config.Defaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/comdoc")
		viper.AddConfigPath(".")
	}

	// Environment variable overrides
	// COMDOC_ELASTICSEARCH_ADDRESSES -> elasticsearch.addresses
	viper.SetEnvPrefix("COMDOC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Explicitly bind nested env vars
	viper.BindEnv("elasticsearch.addresses", "COMDOC_ELASTICSEARCH_ADDRESSES")
	viper.BindEnv("elasticsearch.index", "COMDOC_ELASTICSEARCH_INDEX")
	viper.BindEnv("elasticsearch.username", "COMDOC_ELASTICSEARCH_USERNAME")
	viper.BindEnv("elasticsearch.password", "COMDOC_ELASTICSEARCH_PASSWORD")
	viper.BindEnv("storage.endpoint", "COMDOC_STORAGE_ENDPOINT")
	viper.BindEnv("storage.bucket", "COMDOC_STORAGE_BUCKET")
	viper.BindEnv("storage.access_key_id", "COMDOC_STORAGE_ACCESS_KEY_ID")
	viper.BindEnv("storage.secret_access_key", "COMDOC_STORAGE_SECRET_ACCESS_KEY")
	viper.BindEnv("storage.use_ssl", "COMDOC_STORAGE_USE_SSL")
	viper.BindEnv("pipeline.analysis_budget", "COMDOC_PIPELINE_ANALYSIS_BUDGET")
	viper.BindEnv("mcp.name", "COMDOC_MCP_NAME")
	viper.BindEnv("mcp.version", "COMDOC_MCP_VERSION")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("config file error", "error", err)
		}
		// No config file - use defaults + env vars
	}

	// Unmarshal into struct (merges config file with defaults)
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Warn("failed to parse config", "error", err)
	}

	// Handle special case: addresses as comma-separated string from env
	if addrs := os.Getenv("COMDOC_ELASTICSEARCH_ADDRESSES"); addrs != "" {
		cfg.Elasticsearch.Addresses = strings.Split(addrs, ",")
	}
}
