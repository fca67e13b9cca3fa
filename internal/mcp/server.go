// Package mcp exposes the sales assistant as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sachinhub/saas-sales-agent/internal/catalog"
	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

// DefaultLimit is the number of hits search_knowledge returns by default.
const DefaultLimit = 3

// Assistant answers questions over the knowledge base.
// *orchestrator.Orchestrator satisfies it.
type Assistant interface {
	Query(ctx context.Context, question string) models.Answer
	Search(ctx context.Context, query string, k int) ([]models.Hit, error)
	RelevantProducts(ctx context.Context, query string) ([]models.Product, error)
	RelevantIndustries(ctx context.Context, query string) ([]models.Industry, error)
	Catalog() *catalog.Catalog
}

// Config holds MCP server configuration.
type Config struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// Server wraps the MCP server around an Assistant.
type Server struct {
	mcpServer *server.MCPServer
	assistant Assistant
}

// NewServer creates a new MCP server with the assistant tools registered.
func NewServer(config Config, assistant Assistant) (*Server, error) {
	if assistant == nil {
		return nil, fmt.Errorf("assistant is required")
	}
	if config.Name == "" {
		config.Name = "sales-agent"
	}
	if config.Version == "" {
		config.Version = "dev"
	}

	mcpServer := server.NewMCPServer(
		config.Name,
		config.Version,
		server.WithToolCapabilities(true),
	)

	s := &Server{
		mcpServer: mcpServer,
		assistant: assistant,
	}

	askTool := mcp.NewTool("ask_question",
		mcp.WithDescription("Answer a sales question about ElasticRun products and industries. Returns the answer with its sources."),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Natural-language question"),
		),
	)
	mcpServer.AddTool(askTool, s.askHandler)

	searchTool := mcp.NewTool("search_knowledge",
		mcp.WithDescription("Search the knowledge base and return the most similar passages with scores."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query string"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of passages to return (default: 3)"),
		),
	)
	mcpServer.AddTool(searchTool, s.searchHandler)

	productsTool := mcp.NewTool("relevant_products",
		mcp.WithDescription("List the catalog products most relevant to a query."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query string"),
		),
	)
	mcpServer.AddTool(productsTool, s.productsHandler)

	industriesTool := mcp.NewTool("relevant_industries",
		mcp.WithDescription("List the served industries most relevant to a query."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query string"),
		),
	)
	mcpServer.AddTool(industriesTool, s.industriesHandler)

	catalogTool := mcp.NewTool("search_catalog",
		mcp.WithDescription("Find catalog facts that contain the query text exactly (case-insensitive)."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to look for"),
		),
	)
	mcpServer.AddTool(catalogTool, s.catalogHandler)

	return s, nil
}

// askHandler handles the ask_question tool call.
func (s *Server) askHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question parameter is required"), nil
	}

	answer := s.assistant.Query(ctx, question)
	if answer.Classification == models.ClassificationError {
		return mcp.NewToolResultError(answer.Answer), nil
	}
	return jsonResult(answer)
}

// searchHandler handles the search_knowledge tool call.
func (s *Server) searchHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	limit := req.GetInt("limit", DefaultLimit)

	hits, err := s.assistant.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return jsonResult(hits)
}

// productsHandler handles the relevant_products tool call.
func (s *Server) productsHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	products, err := s.assistant.RelevantProducts(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	return jsonResult(products)
}

// industriesHandler handles the relevant_industries tool call.
func (s *Server) industriesHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	industries, err := s.assistant.RelevantIndustries(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	return jsonResult(industries)
}

// catalogHandler handles the search_catalog tool call.
func (s *Server) catalogHandler(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	matches := s.assistant.Catalog().Search(query)
	if matches == nil {
		matches = []catalog.Match{}
	}
	return jsonResult(matches)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(result)), nil
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
