package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"pagesmith/internal/domain"
	"pagesmith/internal/section"
)

// ─────────────────────────────────────────────────────────────
// Automation Service — scheduled publishing + import watching
// ─────────────────────────────────────────────────────────────

// errMissingImportFields rejects import files without the minimum identity
// fields for an upsert.
var errMissingImportFields = errors.New("import file missing id or title")

// AutomationService owns the background machinery around the document
// collection: a cron loop that promotes due scheduled documents to
// published, and an optional fsnotify watcher over a drop directory from
// which JSON document files are imported.
type AutomationService struct {
	store   domain.DocumentStore
	emitter EventEmitter

	// watcher / cron lifecycle
	watchCancel context.CancelFunc
	watcher     *fsnotify.Watcher
	cronSched   *cron.Cron
}

// NewAutomationService creates an AutomationService. Start must be called
// to begin the background loops.
func NewAutomationService(store domain.DocumentStore, emitter EventEmitter) *AutomationService {
	return &AutomationService{store: store, emitter: emitter}
}

// Start launches the cron schedule and, when importDir is non-empty, the
// drop-directory watcher. spec is a cron expression; an empty spec defaults
// to once a minute.
func (s *AutomationService) Start(ctx context.Context, spec, importDir string) error {
	s.Stop()

	if spec == "" {
		spec = "* * * * *"
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if n, err := s.PublishDue(ctx, time.Now()); err != nil {
			log.Printf("automation: publish due: %v", err)
		} else if n > 0 {
			log.Printf("automation: published %d scheduled document(s)", n)
		}
	}); err != nil {
		return err
	}
	c.Start()
	s.cronSched = c

	if importDir == "" {
		return nil
	}
	return s.startImportWatcher(ctx, importDir)
}

// Stop tears down the cron schedule and the watcher.
func (s *AutomationService) Stop() {
	if s.cronSched != nil {
		s.cronSched.Stop()
		s.cronSched = nil
	}
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}

// PublishDue promotes every scheduled document whose publish time has
// passed. Returns the number of documents published.
func (s *AutomationService) PublishDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.store.ListDueScheduled(ctx, now)
	if err != nil {
		return 0, err
	}
	published := 0
	for i := range due {
		doc := due[i]
		doc.Status = domain.StatusPublished
		doc.PublishAt = nil
		if err := s.store.UpdateDocument(ctx, &doc); err != nil {
			log.Printf("automation: publish %s: %v", doc.ID, err)
			continue
		}
		published++
		s.emitter.Emit(ctx, "document:published", doc.ID)
	}
	return published, nil
}

// ── import watcher ─────────────────────────────────────────

func (s *AutomationService) startImportWatcher(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}
	s.watcher = watcher

	watchCtx, cancel := context.WithCancel(ctx)
	s.watchCancel = cancel

	go func() {
		// Editors fire several writes per save; restart a per-path timer on
		// each event and import once the writes settle.
		timers := make(map[string]*time.Timer)
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if !strings.HasSuffix(event.Name, ".json") {
					continue
				}
				if t, exists := timers[event.Name]; exists {
					t.Stop()
				}
				path := event.Name
				timers[path] = time.AfterFunc(500*time.Millisecond, func() {
					if err := s.ImportFile(watchCtx, path); err != nil {
						log.Printf("automation: import %s: %v", filepath.Base(path), err)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("automation: watcher: %v", err)
			}
		}
	}()
	return nil
}

// ImportFile reads a JSON document file and upserts it into the store.
// Sections are normalized before the write so corrupted order values never
// reach persistence.
func (s *AutomationService) ImportFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.ID == "" || doc.Title == "" {
		return errMissingImportFields
	}
	if doc.Status == "" {
		doc.Status = domain.StatusDraft
	}
	doc.Sections = section.Normalize(doc.Sections)

	err = s.store.UpdateDocument(ctx, &doc)
	if errors.Is(err, domain.ErrNotFound) {
		err = s.store.CreateDocument(ctx, &doc)
	}
	if err != nil {
		return err
	}
	s.emitter.Emit(ctx, "document:imported", doc.ID)
	return nil
}
