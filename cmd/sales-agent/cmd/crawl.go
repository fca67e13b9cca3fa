package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sachinhub/saas-sales-agent/internal/crawler"
	"github.com/sachinhub/saas-sales-agent/internal/storage"
)

var (
	crawlURL      string
	crawlOut      string
	crawlMaxPages int
	crawlS3       bool
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl the website and save a snapshot",
	Long: `Crawl every same-host page reachable from the seed URL and save the
page records as a JSON snapshot.

Examples:
  # Crawl the configured seed URL
  sales-agent crawl

  # Crawl a specific URL into a specific file
  sales-agent crawl --url https://saas.elastic.run/ --out data/snapshot.json

  # Also store the snapshot in S3
  sales-agent crawl --s3`,
	RunE: runCrawl,
}

func init() {
	rootCmd.AddCommand(crawlCmd)

	crawlCmd.Flags().StringVar(&crawlURL, "url", "", "seed URL (default from config)")
	crawlCmd.Flags().StringVar(&crawlOut, "out", "", "snapshot file (default from config)")
	crawlCmd.Flags().IntVar(&crawlMaxPages, "max-pages", 0, "stop after this many fetches (0 means unlimited)")
	crawlCmd.Flags().BoolVar(&crawlS3, "s3", false, "also store the snapshot in S3")
}

func runCrawl(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	seed := firstNonEmpty(crawlURL, cfg.Crawler.SeedURL)
	out := firstNonEmpty(crawlOut, cfg.Crawler.SnapshotPath)
	maxPages := cfg.Crawler.MaxPages
	if cmd.Flags().Changed("max-pages") {
		maxPages = crawlMaxPages
	}
	slog.Debug("crawl command starting", "seed", seed, "out", out, "max_pages", maxPages)

	c := newCrawler(cfg, maxPages)
	start := time.Now()

	fmt.Printf("Crawling: %s\n", seed)
	snap, crawlErr := c.Crawl(ctx, seed)
	if snap == nil {
		return crawlErr
	}

	if err := crawler.SaveSnapshot(out, snap); err != nil {
		return err
	}
	stats := c.Stats()
	fmt.Printf("  Pages: %d, Failed: %d, Snapshot: %s\n", stats.Pages, stats.Failed, out)

	if crawlS3 {
		store, err := newStorage(ctx, cfg)
		if err != nil {
			return err
		}
		prefix, err := storage.NewPrefix(seed, start)
		if err != nil {
			return err
		}
		meta := storage.CrawlMetadata{
			SourceURL: seed,
			Timestamp: start.UTC().Format(time.RFC3339),
			Failed:    stats.Failed,
		}
		if err := store.PutSnapshot(context.WithoutCancel(ctx), prefix, snap, meta); err != nil {
			return err
		}
		fmt.Printf("  Prefix: %s\n", prefix)
		fmt.Println("Run 'sales-agent ingest --prefix <prefix>' to merge this crawl")
	}

	if crawlErr != nil {
		return fmt.Errorf("crawl interrupted: %w", crawlErr)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
