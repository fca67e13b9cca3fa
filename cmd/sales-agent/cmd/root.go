package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sachinhub/saas-sales-agent/internal/config"
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
	Use:   "sales-agent",
	Short: "Sales assistant for ElasticRun products and industries",
	Long: `sales-agent answers sales questions from a structured product catalog,
optionally enriched by crawling the company website.

Commands:
  crawl   Crawl the website and save a snapshot
  ingest  Merge a snapshot into the catalog
  ask     Answer one question
  search  Show raw retrieval hits
  serve   Start the HTTP chat server or the MCP server
  update  Crawl, persist and ingest in one run`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return cfg.Validate()
	},
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

// envKeys are bound explicitly so viper.Unmarshal sees them without a config file.
var envKeys = []string{
	"crawler.seed_url",
	"crawler.delay",
	"crawler.max_pages",
	"crawler.snapshot_path",
	"retrieval.backend",
	"retrieval.top_k",
	"embeddings.provider",
	"embeddings.socket_path",
	"embeddings.model",
	"llm.provider",
	"llm.socket_path",
	"llm.model",
	"gemini.api_key",
	"gemini.model",
	"elasticsearch.alias",
	"elasticsearch.username",
	"elasticsearch.password",
	"storage.endpoint",
	"storage.bucket",
	"storage.access_key_id",
	"storage.secret_access_key",
	"catalog.file",
	"http.addr",
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
		viper.AddConfigPath("/etc/sales-agent")
		viper.AddConfigPath(".")
	}

	// SALESAGENT_LLM_PROVIDER -> llm.provider
	viper.SetEnvPrefix("SALESAGENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range envKeys {
		viper.BindEnv(key)
	}

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
	if addrs := os.Getenv("SALESAGENT_ELASTICSEARCH_ADDRESSES"); addrs != "" {
		cfg.Elasticsearch.Addresses = strings.Split(addrs, ",")
	}
}
