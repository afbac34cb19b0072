package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"pagesmith/internal/config"
	"pagesmith/internal/domain"
	"pagesmith/internal/service"
	"pagesmith/internal/storage"
)

// App wires the storage backend, services and the HTTP surface together.
type App struct {
	cfg    config.Config
	logger *zap.Logger

	store      storage.Store
	emitter    service.EventEmitter
	documents  *service.DocumentService
	automation *service.AutomationService

	mu       sync.Mutex
	sessions map[string]*service.EditorSession
}

// New opens the configured storage backend and builds the service graph.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store, err := storage.Open(context.Background(), cfg.Storage())
	if err != nil {
		return nil, err
	}

	emitter := service.NopEmitter{}
	return &App{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		emitter:    emitter,
		documents:  service.NewDocumentService(store, emitter),
		automation: service.NewAutomationService(store, emitter),
		sessions:   make(map[string]*service.EditorSession),
	}, nil
}

// Run starts the background automation and serves HTTP until ctx is
// cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.automation.Start(ctx, a.cfg.PublishCron, a.cfg.ImportDir); err != nil {
		return err
	}
	defer a.automation.Stop()

	srv := &http.Server{
		Addr:    a.cfg.HTTPAddr,
		Handler: a.routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", zap.String("addr", a.cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.store.Close()
}

// session returns the open editor session for a document, opening one on
// demand. Sessions are cached so sequential edits hit the same in-memory
// document.
func (a *App) session(ctx context.Context, docID string) (*service.EditorSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.sessions[docID]; ok {
		return s, nil
	}
	s, err := service.OpenSession(ctx, a.store, a.emitter, docID)
	if err != nil {
		return nil, err
	}
	a.sessions[docID] = s
	return s, nil
}

// dropSession forgets the cached session for a deleted document.
func (a *App) dropSession(docID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, docID)
}

// Store exposes the document store for the MCP standalone mode.
func (a *App) Store() domain.DocumentStore { return a.store }

// Documents exposes the document service for the MCP standalone mode.
func (a *App) Documents() *service.DocumentService { return a.documents }
