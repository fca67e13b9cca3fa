package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sachinhub/saas-sales-agent/internal/ingestion"
	"github.com/sachinhub/saas-sales-agent/internal/pipeline"
)

var (
	updateURL          string
	updateS3           bool
	updateWriteCatalog string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Crawl, persist and ingest in one run",
	Long: `Crawl the website, save the snapshot (and optionally store it in S3),
merge the extracted facts into the catalog and rebuild the index.

Examples:
  sales-agent update
  sales-agent update --s3 --write-catalog data/catalog.yaml`,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVar(&updateURL, "url", "", "seed URL (default from config)")
	updateCmd.Flags().BoolVar(&updateS3, "s3", false, "also store the snapshot in S3")
	updateCmd.Flags().StringVar(&updateWriteCatalog, "write-catalog", "", "save the merged catalog to this YAML file")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	seed := firstNonEmpty(updateURL, cfg.Crawler.SeedURL)
	slog.Debug("update command starting", "seed", seed, "s3", updateS3)

	o, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}

	opts := []pipeline.Option{pipeline.WithSnapshotFile(cfg.Crawler.SnapshotPath)}
	if updateS3 {
		store, err := newStorage(ctx, cfg)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithStore(store))
	}

	p := pipeline.New(newCrawler(cfg, cfg.Crawler.MaxPages), ingestion.New(o), opts...)

	fmt.Printf("Updating from: %s\n", seed)
	result, err := p.Run(ctx, seed)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Printf("  Pages: %d, Failed: %d\n", result.PagesCrawled, result.PagesFailed)
	if result.SnapshotPath != "" {
		fmt.Printf("  Snapshot: %s\n", result.SnapshotPath)
	}
	if result.Prefix != "" {
		fmt.Printf("  Prefix: %s\n", result.Prefix)
	}
	printIngest(result.Ingest)

	if updateWriteCatalog != "" {
		if err := o.Catalog().Save(updateWriteCatalog); err != nil {
			return err
		}
		fmt.Printf("  Catalog: %s\n", updateWriteCatalog)
	}
	return nil
}
