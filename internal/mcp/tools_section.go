package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"pagesmith/internal/domain"
	"pagesmith/internal/schema"
	"pagesmith/internal/section"
)

func (s *Server) registerSectionTools() {
	// ── list_section_types ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_section_types",
		mcp.WithDescription("List all available section types with their labels"),
	), s.handleListSectionTypes)

	// ── add_sections ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_sections",
		mcp.WithDescription("Append sections to the document in one batch. Each section starts with its type's default content."),
		mcp.WithString("types",
			mcp.Description("Comma-separated section types, e.g. \"hero,feature,cta\""),
			mcp.Required(),
		),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleAddSections)

	// ── update_section_content ─────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_section_content",
		mcp.WithDescription("Replace a section's content. The content JSON must match the section's type."),
		mcp.WithString("sectionId", mcp.Description("Section ID"), mcp.Required()),
		mcp.WithString("content", mcp.Description("Content as a JSON object"), mcp.Required()),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleUpdateSectionContent)

	// ── move_section ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_section",
		mcp.WithDescription("Move the section at an index one step up or down. Moves past either end are no-ops."),
		mcp.WithNumber("index", mcp.Description("Current section index (0-based)"), mcp.Required()),
		mcp.WithString("direction", mcp.Description("\"up\" or \"down\""), mcp.Required()),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleMoveSection)

	// ── toggle_section_visibility ──────────────────────
	s.mcp.AddTool(mcp.NewTool("toggle_section_visibility",
		mcp.WithDescription("Flip a section's visibility without changing its position"),
		mcp.WithString("sectionId", mcp.Description("Section ID"), mcp.Required()),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
	), s.handleToggleSectionVisibility)

	// ── delete_section (destructive) ───────────────────
	s.mcp.AddTool(mcp.NewTool("delete_section",
		mcp.WithDescription("🛑 DESTRUCTIVE: Remove a section from the document. Remaining sections are renumbered."),
		mcp.WithString("sectionId", mcp.Description("Section ID to delete"), mcp.Required()),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to active document)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteSection)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListSectionTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type typeInfo struct {
		Type  string `json:"type"`
		Label string `json:"label"`
	}
	types := schema.Types()
	infos := make([]typeInfo, len(types))
	for i, t := range types {
		infos[i] = typeInfo{Type: string(t), Label: schema.LabelFor(t)}
	}
	return jsonResult(infos)
}

func (s *Server) handleAddSections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	raw, _ := args["types"].(string)
	if raw == "" {
		return nil, fmt.Errorf("types is required")
	}
	var types []domain.SectionType
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			types = append(types, domain.SectionType(trimmed))
		}
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("types is required")
	}

	sess, err := s.sessionForTool(ctx, args)
	if err != nil {
		return nil, err
	}
	added, err := sess.AddSections(ctx, types...)
	if err != nil {
		return nil, fmt.Errorf("add sections: %w", err)
	}

	s.emitDocumentChanged(ctx, sess.Document().ID)
	return jsonResult(added)
}

func (s *Server) handleUpdateSectionContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sectionID, _ := args["sectionId"].(string)
	if sectionID == "" {
		return nil, fmt.Errorf("sectionId is required")
	}
	contentJSON, _ := args["content"].(string)
	if contentJSON == "" {
		return nil, fmt.Errorf("content is required")
	}

	sess, err := s.sessionForTool(ctx, args)
	if err != nil {
		return nil, err
	}

	target, ok := findSection(sess.Document().Sections, sectionID)
	if !ok {
		return textResult(fmt.Sprintf("Section %s no longer exists; nothing changed", sectionID)), nil
	}
	content, err := domain.DecodeContent(target.Type, json.RawMessage(contentJSON))
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := sess.UpdateSectionContent(ctx, sectionID, content); err != nil {
		return nil, fmt.Errorf("update section: %w", err)
	}

	s.emitDocumentChanged(ctx, sess.Document().ID)
	return textResult(fmt.Sprintf("Section %s content updated", sectionID)), nil
}

func (s *Server) handleMoveSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	index, ok := args["index"].(float64)
	if !ok {
		return nil, fmt.Errorf("index is required")
	}
	dirRaw, _ := args["direction"].(string)
	var dir section.Direction
	switch dirRaw {
	case "up":
		dir = section.MoveUp
	case "down":
		dir = section.MoveDown
	default:
		return nil, fmt.Errorf("direction must be \"up\" or \"down\"")
	}

	sess, err := s.sessionForTool(ctx, args)
	if err != nil {
		return nil, err
	}
	sess.MoveSection(ctx, int(index), dir)

	s.emitDocumentChanged(ctx, sess.Document().ID)
	return jsonResult(sess.Document().Sections)
}

func (s *Server) handleToggleSectionVisibility(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sectionID, _ := args["sectionId"].(string)
	if sectionID == "" {
		return nil, fmt.Errorf("sectionId is required")
	}

	sess, err := s.sessionForTool(ctx, args)
	if err != nil {
		return nil, err
	}
	sess.ToggleSectionVisibility(ctx, sectionID)

	s.emitDocumentChanged(ctx, sess.Document().ID)
	return textResult(fmt.Sprintf("Section %s visibility toggled", sectionID)), nil
}

func (s *Server) handleDeleteSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sectionID, _ := args["sectionId"].(string)
	if sectionID == "" {
		return nil, fmt.Errorf("sectionId is required")
	}

	sess, err := s.sessionForTool(ctx, args)
	if err != nil {
		return nil, err
	}
	sess.DeleteSection(ctx, sectionID)

	s.emitDocumentChanged(ctx, sess.Document().ID)
	return textResult(fmt.Sprintf("Section %s deleted", sectionID)), nil
}

func findSection(sections []domain.Section, id string) (domain.Section, bool) {
	for _, sec := range sections {
		if sec.ID == id {
			return sec, true
		}
	}
	return domain.Section{}, false
}
