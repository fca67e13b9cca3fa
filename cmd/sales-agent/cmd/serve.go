package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sachinhub/saas-sales-agent/internal/httpapi"
	"github.com/sachinhub/saas-sales-agent/internal/mcp"
)

var (
	serveMCP      bool
	serveSnapshot string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chat server or the MCP server",
	Long: `Start the sales assistant.

By default an HTTP server answers POST /chat with {"question": "..."}.
With --mcp the server communicates via stdio and provides five tools:
  - ask_question: Answer a sales question
  - search_knowledge: Search the knowledge base
  - relevant_products: Products related to a query
  - relevant_industries: Industries related to a query
  - search_catalog: Exact text lookup in the catalog

Examples:
  sales-agent serve
  sales-agent serve --mcp --snapshot data/snapshot.json`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "serve MCP over stdio instead of HTTP")
	serveCmd.Flags().StringVar(&serveSnapshot, "snapshot", "", "snapshot file to merge at startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	o, err := prepare(ctx, cfg, serveSnapshot)
	if err != nil {
		return err
	}

	if serveMCP {
		server, err := mcp.NewServer(cfg.MCP, o)
		if err != nil {
			return fmt.Errorf("failed to create MCP server: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Starting MCP server...")
		return server.ServeStdio()
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Starting chat server on %s...\n", cfg.HTTP.Addr)
	return httpapi.New(cfg.HTTP, o).Run(ctx)
}
