package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sachinhub/saas-sales-agent/internal/ingestion"
)

var (
	ingestSnapshot     string
	ingestPrefix       string
	ingestLatest       bool
	ingestWriteCatalog string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Merge a crawl snapshot into the catalog",
	Long: `Extract product and industry facts from a crawl snapshot, merge them
into the catalog and rebuild the index.

Examples:
  # Ingest a local snapshot file
  sales-agent ingest --snapshot data/snapshot.json

  # Ingest a stored crawl by prefix
  sales-agent ingest --prefix crawls/saas.elastic.run/2026-03-04T12-00-05-1a2b3c4d

  # Ingest the most recent stored crawl of the seed host and save the catalog
  sales-agent ingest --latest --write-catalog data/catalog.yaml`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestSnapshot, "snapshot", "", "snapshot file to ingest")
	ingestCmd.Flags().StringVar(&ingestPrefix, "prefix", "", "S3 prefix to ingest")
	ingestCmd.Flags().BoolVar(&ingestLatest, "latest", false, "ingest the latest stored crawl of the seed host")
	ingestCmd.Flags().StringVar(&ingestWriteCatalog, "write-catalog", "", "save the merged catalog to this YAML file")
	ingestCmd.MarkFlagsMutuallyExclusive("snapshot", "prefix", "latest")
	ingestCmd.MarkFlagsOneRequired("snapshot", "prefix", "latest")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	slog.Debug("ingest command starting", "snapshot", ingestSnapshot, "prefix", ingestPrefix, "latest", ingestLatest)

	o, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}
	engine := ingestion.New(o)

	var result *ingestion.Result
	if ingestSnapshot != "" {
		fmt.Printf("Ingesting: %s\n", ingestSnapshot)
		result, err = engine.IngestFile(ctx, ingestSnapshot)
	} else {
		store, serr := newStorage(ctx, cfg)
		if serr != nil {
			return serr
		}
		prefix := ingestPrefix
		if ingestLatest {
			u, perr := url.Parse(cfg.Crawler.SeedURL)
			if perr != nil {
				return fmt.Errorf("invalid seed URL: %w", perr)
			}
			if prefix, err = store.LatestPrefix(ctx, u.Host); err != nil {
				return err
			}
		}
		fmt.Printf("Ingesting: %s\n", prefix)
		result, err = engine.IngestPrefix(ctx, store, prefix)
	}
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	printIngest(result)

	if ingestWriteCatalog != "" {
		if err := o.Catalog().Save(ingestWriteCatalog); err != nil {
			return err
		}
		fmt.Printf("  Catalog: %s\n", ingestWriteCatalog)
	}
	return nil
}

func printIngest(result *ingestion.Result) {
	fmt.Printf("\nIngestion complete:\n")
	fmt.Printf("  Pages: %d\n", result.Pages)
	fmt.Printf("  Products updated: %d %s\n", len(result.ProductsUpdated), strings.Join(result.ProductsUpdated, ", "))
	fmt.Printf("  Industries updated: %d %s\n", len(result.IndustriesUpdated), strings.Join(result.IndustriesUpdated, ", "))
	if len(result.Unknown) > 0 {
		fmt.Printf("  Unknown entities: %s\n", strings.Join(result.Unknown, ", "))
	}
	fmt.Printf("  Duration: %v\n", result.Duration)
}
