// Package mcp exposes the document corpus to MCP clients over stdio:
// full-text search, single-document retrieval and the stored
// similar-document recommendations.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/icu-platform/comdoc/internal/elasticsearch"
	"github.com/icu-platform/comdoc/pkg/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Config holds MCP server configuration.
type Config struct {
	Name        string
	Version     string
	ESAddresses []string
	ESIndex     string
	ESUsername  string
	ESPassword  string
}

// Server wraps the MCP server with corpus access.
type Server struct {
	mcpServer *server.MCPServer
	esClient  *elasticsearch.Client
}

// NewServer creates a new MCP server with document tools.
func NewServer(config Config) (*Server, error) {
	esClient, err := elasticsearch.New(elasticsearch.Config{
		Addresses: config.ESAddresses,
		Index:     config.ESIndex,
		Username:  config.ESUsername,
		Password:  config.ESPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	mcpServer := server.NewMCPServer(
		config.Name,
		config.Version,
		server.WithToolCapabilities(true),
	)

	s := &Server{
		mcpServer: mcpServer,
		esClient:  esClient,
	}

	searchTool := mcp.NewTool("search_documents",
		mcp.WithDescription("Search committee documents by query over title, extracted text and keywords."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query string"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 10)"),
		),
	)
	mcpServer.AddTool(searchTool, s.searchHandler)

	getDocTool := mcp.NewTool("get_document",
		mcp.WithDescription("Get a committee document by ID, including its NLP analysis and recommendations"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Document ID to retrieve"),
		),
	)
	mcpServer.AddTool(getDocTool, s.getDocumentHandler)

	similarTool := mcp.NewTool("similar_documents",
		mcp.WithDescription("List the stored similar-document recommendations of a committee document"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Document ID whose recommendations to list"),
		),
	)
	mcpServer.AddTool(similarTool, s.similarHandler)

	return s, nil
}

// searchHandler handles the search_documents tool call.
func (s *Server) searchHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	limit := req.GetInt("limit", 10)

	docs, err := s.handleSearch(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	result, err := json.Marshal(docs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(result)), nil
}

// getDocumentHandler handles the get_document tool call.
func (s *Server) getDocumentHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	doc, err := s.handleGetDocument(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get document failed: %v", err)), nil
	}

	if doc == nil {
		return mcp.NewToolResultError(fmt.Sprintf("document not found: %s", id)), nil
	}

	result, err := json.Marshal(doc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal document: %v", err)), nil
	}

	return mcp.NewToolResultText(string(result)), nil
}

// similarHandler handles the similar_documents tool call.
func (s *Server) similarHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	recs, err := s.handleSimilar(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("similar documents failed: %v", err)), nil
	}

	result, err := json.Marshal(recs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal recommendations: %v", err)), nil
	}

	return mcp.NewToolResultText(string(result)), nil
}

// handleSearch searches for documents matching the query.
func (s *Server) handleSearch(ctx context.Context, query string, limit int) ([]models.Document, error) {
	return s.esClient.Search(ctx, query, limit)
}

// handleGetDocument retrieves a document by ID.
func (s *Server) handleGetDocument(ctx context.Context, id string) (*models.Document, error) {
	return s.esClient.GetDocument(ctx, id)
}

// handleSimilar returns the stored recommendations of a document. An
// analyzed document without related neighbors yields an empty list.
func (s *Server) handleSimilar(ctx context.Context, id string) ([]models.SimilarityCandidate, error) {
	doc, err := s.esClient.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document not found: %s", id)
	}
	if doc.Recommendations == nil {
		return []models.SimilarityCandidate{}, nil
	}
	return doc.Recommendations, nil
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
