package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pagesmith/internal/domain"
	"pagesmith/internal/service"
)

// Server is the MCP authoring server. It exposes tools so AI agents can
// compose documents: create them, stack typed sections, reorder, and save.
type Server struct {
	mcp     *server.MCPServer
	emitter service.EventEmitter

	// Services (injected from app layer)
	store     domain.DocumentStore
	documents *service.DocumentService

	// One editor session per opened document. Tool calls arrive
	// sequentially over stdio, so no locking is needed here.
	sessions map[string]*service.EditorSession

	// Active document context (set by open_document)
	activeDocID string
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter   service.EventEmitter
	Store     domain.DocumentStore
	Documents *service.DocumentService
}

// New creates and configures a new MCP server with all tools registered.
func New(deps Deps) *Server {
	s := &Server{
		emitter:   deps.Emitter,
		store:     deps.Store,
		documents: deps.Documents,
		sessions:  make(map[string]*service.EditorSession),
	}

	s.mcp = server.NewMCPServer(
		"pagesmith-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerDocumentTools()
	s.registerSectionTools()
	s.registerLayoutTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// emitDocumentChanged notifies the frontend that a document changed.
func (s *Server) emitDocumentChanged(ctx context.Context, docID string) {
	s.emitter.Emit(ctx, "mcp:document-changed", map[string]string{"documentId": docID})
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// resolveDocID returns the documentId from tool args or falls back to the
// active document.
func (s *Server) resolveDocID(args map[string]any) (string, error) {
	if id, ok := args["documentId"].(string); ok && id != "" {
		return id, nil
	}
	if s.activeDocID != "" {
		return s.activeDocID, nil
	}
	return "", fmt.Errorf("no documentId provided and no active document set (use open_document first)")
}
