package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	askFormat   string
	askSnapshot string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question",
	Long: `Answer a sales question from the catalog.

Examples:
  sales-agent ask "Which product helps with route optimization?"

  # Enrich the catalog from a snapshot first, print JSON
  sales-agent ask "What does Libera do?" --snapshot data/snapshot.json --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVar(&askFormat, "format", "text", "Output format: text or json")
	askCmd.Flags().StringVar(&askSnapshot, "snapshot", "", "snapshot file to merge before answering")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	o, err := prepare(ctx, GetConfig(), askSnapshot)
	if err != nil {
		return err
	}

	answer := o.Query(ctx, strings.Join(args, " "))

	if askFormat == "json" {
		output, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(answer.Answer)
	if len(answer.Sources) > 0 {
		fmt.Printf("\nSources (%s):\n", answer.Classification)
		for i, s := range answer.Sources {
			fmt.Printf("─── %d ───\n%s\n", i+1, truncate(s, 300))
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
