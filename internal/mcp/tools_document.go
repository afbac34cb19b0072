package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"pagesmith/internal/domain"
	"pagesmith/internal/service"
)

func (s *Server) registerDocumentTools() {
	// ── list_documents ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List all documents with their status and section count"),
	), s.handleListDocuments)

	// ── create_document ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a new draft document and make it the active document"),
		mcp.WithString("title", mcp.Description("Document title"), mcp.Required()),
	), s.handleCreateDocument)

	// ── open_document ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_document",
		mcp.WithDescription("Open a document for editing and make it the active document"),
		mcp.WithString("documentId", mcp.Description("Document ID"), mcp.Required()),
	), s.handleOpenDocument)

	// ── get_document ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Get a document with its full ordered section list"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleGetDocument)

	// ── save_document ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_document",
		mcp.WithDescription("Persist the active document's in-memory edits. The whole document is written in one call."),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleSaveDocument)

	// ── publish_document ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("publish_document",
		mcp.WithDescription("Publish a document immediately, or schedule it with publishAt (RFC 3339)"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithString("publishAt", mcp.Description("Publication time in RFC 3339 (optional, omit for immediate)")),
	), s.handlePublishDocument)

	// ── delete_document (destructive) ──────────────────
	s.mcp.AddTool(mcp.NewTool("delete_document",
		mcp.WithDescription("🛑 DESTRUCTIVE: Permanently delete a document and all of its sections."),
		mcp.WithString("documentId", mcp.Description("Document ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteDocument)

	// ── duplicate_document ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_document",
		mcp.WithDescription("Duplicate a document into a new draft with fresh section IDs"),
		mcp.WithString("documentId", mcp.Description("Document ID to duplicate"), mcp.Required()),
	), s.handleDuplicateDocument)
}

func boolPtr(v bool) *bool { return &v }

// documentSummary is the compact listing shape returned by list_documents.
type documentSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Status    string `json:"status"`
	Sections  int    `json:"sections"`
	UpdatedAt string `json:"updatedAt"`
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := s.documents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	summaries := make([]documentSummary, len(docs))
	for i, d := range docs {
		summaries[i] = documentSummary{
			ID:        d.ID,
			Title:     d.Title,
			Slug:      d.Slug,
			Status:    string(d.Status),
			Sections:  len(d.Sections),
			UpdatedAt: d.UpdatedAt.Format(time.RFC3339),
		}
	}
	return jsonResult(summaries)
}

func (s *Server) handleCreateDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	title, _ := args["title"].(string)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	doc, err := s.documents.Create(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	sess, err := service.OpenSession(ctx, s.store, s.emitter, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	s.sessions[doc.ID] = sess
	s.activeDocID = doc.ID

	s.emitDocumentChanged(ctx, doc.ID)
	return jsonResult(doc)
}

func (s *Server) handleOpenDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	docID, _ := args["documentId"].(string)
	if docID == "" {
		return nil, fmt.Errorf("documentId is required")
	}

	sess, err := service.OpenSession(ctx, s.store, s.emitter, docID)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	s.sessions[docID] = sess
	s.activeDocID = docID

	doc := sess.Document()
	return textResult(fmt.Sprintf("Opened %q (%d sections). It is now the active document.", doc.Title, len(doc.Sections))), nil
}

func (s *Server) handleGetDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.sessionForTool(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return jsonResult(sess.Document())
}

func (s *Server) handleSaveDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.sessionForTool(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	if err := sess.Save(ctx); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	doc := sess.Document()
	s.emitDocumentChanged(ctx, doc.ID)
	return textResult(fmt.Sprintf("Saved %q (%d sections)", doc.Title, len(doc.Sections))), nil
}

func (s *Server) handlePublishDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sess, err := s.sessionForTool(ctx, args)
	if err != nil {
		return nil, err
	}

	if raw, ok := args["publishAt"].(string); ok && raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("parse publishAt: %w", err)
		}
		sess.Schedule(at)
	} else {
		sess.Publish()
	}

	if err := sess.Save(ctx); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	doc := sess.Document()
	s.emitDocumentChanged(ctx, doc.ID)
	if doc.Status == domain.StatusScheduled {
		return textResult(fmt.Sprintf("Scheduled %q for %s", doc.Title, doc.PublishAt.Format(time.RFC3339))), nil
	}
	return textResult(fmt.Sprintf("Published %q", doc.Title)), nil
}

func (s *Server) handleDeleteDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	docID, _ := args["documentId"].(string)
	if docID == "" {
		return nil, fmt.Errorf("documentId is required")
	}

	if err := s.documents.Delete(ctx, docID); err != nil {
		return nil, fmt.Errorf("delete document: %w", err)
	}
	delete(s.sessions, docID)
	if s.activeDocID == docID {
		s.activeDocID = ""
	}
	s.emitDocumentChanged(ctx, docID)
	return textResult(fmt.Sprintf("Document %s deleted", docID)), nil
}

func (s *Server) handleDuplicateDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	docID, _ := args["documentId"].(string)
	if docID == "" {
		return nil, fmt.Errorf("documentId is required")
	}

	dup, err := s.documents.Duplicate(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("duplicate document: %w", err)
	}
	s.emitDocumentChanged(ctx, dup.ID)
	return jsonResult(dup)
}

// sessionForTool resolves the target document and returns its open session,
// opening one on demand.
func (s *Server) sessionForTool(ctx context.Context, args map[string]any) (*service.EditorSession, error) {
	docID, err := s.resolveDocID(args)
	if err != nil {
		return nil, err
	}
	if sess, ok := s.sessions[docID]; ok {
		return sess, nil
	}
	sess, err := service.OpenSession(ctx, s.store, s.emitter, docID)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	s.sessions[docID] = sess
	return sess, nil
}
