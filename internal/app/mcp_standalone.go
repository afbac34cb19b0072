package app

import (
	"context"
	"log"

	"pagesmith/internal/config"
	mcpserver "pagesmith/internal/mcp"
	"pagesmith/internal/service"
	"pagesmith/internal/storage"
)

// ServeMCP runs the process as a standalone MCP server on stdin/stdout.
// It opens storage, wires the services, and serves until stdin closes.
func ServeMCP(ctx context.Context, cfg config.Config) error {
	store, err := storage.Open(ctx, cfg.Storage())
	if err != nil {
		return err
	}
	defer store.Close()

	emitter := service.NopEmitter{}
	documents := service.NewDocumentService(store, emitter)

	srv := mcpserver.New(mcpserver.Deps{
		Emitter:   emitter,
		Store:     store,
		Documents: documents,
	})

	log.Println("[MCP] Starting standalone stdio server...")
	return srv.ServeStdio()
}
