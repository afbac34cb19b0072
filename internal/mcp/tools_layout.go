package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pagesmith/internal/icons"
	"pagesmith/internal/layout"
)

func (s *Server) registerLayoutTools() {
	// ── resolve_layout ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("resolve_layout",
		mcp.WithDescription("Resolve a section's effective layout. Pass \"default\" (or omit) for any parameter to use the template's default; explicit values win except where the template forces one."),
		mcp.WithString("template", mcp.Description("Layout template name"), mcp.Required()),
		mcp.WithString("variant", mcp.Description("Rendering variant: \"default\" or \"embedded\"")),
		mcp.WithString("width", mcp.Description("Requested width (optional)")),
		mcp.WithString("padding", mcp.Description("Requested padding (optional)")),
		mcp.WithString("background", mcp.Description("Requested background (optional)")),
		mcp.WithString("border", mcp.Description("Requested border (optional)")),
	), s.handleResolveLayout)

	// ── list_layout_templates ──────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_layout_templates",
		mcp.WithDescription("List the known layout templates"),
	), s.handleListLayoutTemplates)

	// ── list_icons ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_icons",
		mcp.WithDescription("List the available icon names"),
	), s.handleListIcons)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleResolveLayout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	template, _ := args["template"].(string)
	if template == "" {
		return nil, fmt.Errorf("template is required")
	}

	variant := layout.VariantDefault
	if v, ok := args["variant"].(string); ok && v == string(layout.VariantEmbedded) {
		variant = layout.VariantEmbedded
	}

	requested := layout.Requested()
	if v, ok := args["width"].(string); ok && v != "" {
		requested.Width = v
	}
	if v, ok := args["padding"].(string); ok && v != "" {
		requested.Padding = v
	}
	if v, ok := args["background"].(string); ok && v != "" {
		requested.Background = v
	}
	if v, ok := args["border"].(string); ok && v != "" {
		requested.Border = v
	}

	return jsonResult(layout.Resolve(template, variant, requested))
}

func (s *Server) handleListLayoutTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(layout.Templates())
}

func (s *Server) handleListIcons(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type iconInfo struct {
		Name  string `json:"name"`
		Glyph string `json:"glyph"`
	}
	names := icons.Names()
	infos := make([]iconInfo, len(names))
	for i, name := range names {
		infos[i] = iconInfo{Name: name, Glyph: icons.Lookup(name)}
	}
	return jsonResult(infos)
}
