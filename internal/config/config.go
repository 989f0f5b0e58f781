package config

import "time"

// Config holds all application configuration.
type Config struct {
	Elasticsearch Elasticsearch `mapstructure:"elasticsearch"`
	Storage       Storage       `mapstructure:"storage"`
	Pipeline      Pipeline      `mapstructure:"pipeline"`
	MCP           MCP           `mapstructure:"mcp"`
}

// Elasticsearch holds ES connection configuration.
type Elasticsearch struct {
	Addresses []string `mapstructure:"addresses"`
	Index     string   `mapstructure:"index"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

// Storage holds S3/MinIO storage configuration.
type Storage struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Pipeline holds upload pipeline configuration.
type Pipeline struct {
	// AnalysisBudget is the wall-clock limit for the advisory
	// analysis and similarity stages of one upload.
	AnalysisBudget time.Duration `mapstructure:"analysis_budget"`
}

// MCP holds MCP server configuration.
type MCP struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Elasticsearch: Elasticsearch{
			Addresses: []string{"http://localhost:9200"},
			Index:     "comdoc-documents",
		},
		Storage: Storage{
			Endpoint:        "localhost:9000",
			Bucket:          "comdoc",
			AccessKeyID:     "minioadmin",
			SecretAccessKey: "minioadmin",
			UseSSL:          false,
		},
		Pipeline: Pipeline{
			AnalysisBudget: 30 * time.Second,
		},
		MCP: MCP{
			Name:    "comdoc",
			Version: "1.0.0",
		},
	}
}
