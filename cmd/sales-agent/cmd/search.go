package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sachinhub/saas-sales-agent/internal/catalog"
)

var (
	searchLimit    int
	searchFormat   string
	searchSnapshot string
	searchCatalog  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Show raw retrieval hits",
	Long: `Search the knowledge base index and print the nearest chunks.

Examples:
  # Basic search
  sales-agent search "route optimization"

  # Limit results
  sales-agent search "fmcg distribution" --limit 5

  # JSON output for scripting
  sales-agent search "tracking" --format json

  # Exact text lookup in the catalog instead of the index
  sales-agent search "returns" --catalog`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 3, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchFormat, "format", "text", "Output format: text or json")
	searchCmd.Flags().StringVar(&searchSnapshot, "snapshot", "", "snapshot file to merge before searching")
	searchCmd.Flags().BoolVar(&searchCatalog, "catalog", false, "search catalog text instead of the index")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	o, err := prepare(ctx, GetConfig(), searchSnapshot)
	if err != nil {
		return err
	}

	if searchCatalog {
		return printMatches(o.Catalog().Search(args[0]))
	}

	hits, err := o.Search(ctx, args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	if searchFormat == "json" {
		output, err := json.MarshalIndent(hits, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Found %d results:\n\n", len(hits))
	for i, h := range hits {
		fmt.Printf("─── Result %d ───\n", i+1)
		fmt.Printf("Score:   %.4f\n", h.Score)
		if h.Chunk.SourceLabel != "" {
			fmt.Printf("Source:  %s\n", h.Chunk.SourceLabel)
		}
		fmt.Printf("ID:      %s\n", h.Chunk.ID)
		fmt.Printf("Content:\n%s\n\n", truncate(h.Chunk.Text, 500))
	}
	return nil
}

func printMatches(matches []catalog.Match) error {
	if len(matches) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	if searchFormat == "json" {
		output, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Found %d catalog facts:\n\n", len(matches))
	for _, m := range matches {
		fmt.Printf("%s %s (%s): %s\n", m.Kind, m.Entity, m.Field, m.Text)
	}
	return nil
}
