package service_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pagesmith/internal/domain"
	"pagesmith/internal/service"
)

func scheduledDoc(id string, at time.Time) domain.Document {
	return domain.Document{
		ID:        id,
		Title:     "Doc " + id,
		Slug:      "doc-" + id,
		Status:    domain.StatusScheduled,
		PublishAt: &at,
		Sections:  []domain.Section{},
	}
}

func TestAutomation_PublishDue(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	emitter := &service.MockEmitter{}
	now := time.Now().UTC()

	due := scheduledDoc("due", now.Add(-time.Minute))
	future := scheduledDoc("future", now.Add(time.Hour))
	draft := domain.Document{ID: "draft", Title: "Draft", Slug: "draft", Status: domain.StatusDraft}
	for _, doc := range []*domain.Document{&due, &future, &draft} {
		if err := store.CreateDocument(ctx, doc); err != nil {
			t.Fatalf("CreateDocument: %v", err)
		}
	}

	auto := service.NewAutomationService(store, emitter)
	n, err := auto.PublishDue(ctx, now)
	if err != nil {
		t.Fatalf("PublishDue: %v", err)
	}
	if n != 1 {
		t.Fatalf("published %d documents, want 1", n)
	}

	got, err := store.GetDocument(ctx, "due")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Status != domain.StatusPublished || got.PublishAt != nil {
		t.Errorf("due doc = status %q publishAt %v, want published/nil", got.Status, got.PublishAt)
	}

	got, _ = store.GetDocument(ctx, "future")
	if got.Status != domain.StatusScheduled {
		t.Errorf("future doc promoted early: status %q", got.Status)
	}
	got, _ = store.GetDocument(ctx, "draft")
	if got.Status != domain.StatusDraft {
		t.Errorf("draft doc changed: status %q", got.Status)
	}

	if len(emitter.Events) != 1 || emitter.Events[0].Event != "document:published" {
		t.Errorf("events = %v, want one document:published", emitter.Events)
	}
}

func TestAutomation_ImportFileCreatesAndUpdates(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	auto := service.NewAutomationService(store, service.NopEmitter{})
	dir := t.TempDir()

	doc := domain.Document{
		ID:    "imported",
		Title: "Imported Page",
		Slug:  "imported-page",
		Sections: []domain.Section{
			{ID: "s1", Type: domain.SectionTypeHero, Order: 3, IsVisible: true, Content: &domain.HeroContent{Template: "style-1"}},
		},
	}
	path := filepath.Join(dir, "imported.json")
	writeImportFile(t, path, doc)

	if err := auto.ImportFile(ctx, path); err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	got, err := store.GetDocument(ctx, "imported")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Status != domain.StatusDraft {
		t.Errorf("status = %q, want draft default", got.Status)
	}
	if len(got.Sections) != 1 || got.Sections[0].Order != 0 {
		t.Errorf("sections not normalized on import: %+v", got.Sections)
	}

	// A second import of the same id replaces the stored copy.
	doc.Title = "Imported Page v2"
	writeImportFile(t, path, doc)
	if err := auto.ImportFile(ctx, path); err != nil {
		t.Fatalf("re-import: %v", err)
	}
	got, _ = store.GetDocument(ctx, "imported")
	if got.Title != "Imported Page v2" {
		t.Errorf("title after re-import = %q", got.Title)
	}
}

func TestAutomation_WatcherImportsChunkedWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := newMemStore()
	auto := service.NewAutomationService(store, service.NopEmitter{})
	dir := t.TempDir()
	if err := auto.Start(ctx, "@every 1h", dir); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer auto.Stop()

	doc := domain.Document{
		ID:       "chunked",
		Title:    "Chunked Write",
		Slug:     "chunked-write",
		Sections: []domain.Section{},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// An editor saving in chunks: the first write is truncated JSON, the
	// completing write lands before the settle window expires. Only the
	// settled file may be imported.
	path := filepath.Join(dir, "chunked.json")
	half := len(data) / 2
	if err := os.WriteFile(path, data[:half], 0644); err != nil {
		t.Fatalf("write first chunk: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("open for append: %v", err)
	}
	if _, err := f.Write(data[half:]); err != nil {
		t.Fatalf("write second chunk: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		got, err := store.GetDocument(ctx, "chunked")
		if err == nil {
			if got.Title != "Chunked Write" {
				t.Fatalf("imported title = %q", got.Title)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("settled file was never imported")
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestAutomation_ImportFileRejectsIncomplete(t *testing.T) {
	auto := service.NewAutomationService(newMemStore(), service.NopEmitter{})
	path := filepath.Join(t.TempDir(), "bad.json")
	writeImportFile(t, path, domain.Document{ID: "no-title"})

	if err := auto.ImportFile(context.Background(), path); err == nil {
		t.Error("expected error for import file without title")
	}
}

func writeImportFile(t *testing.T, path string, doc domain.Document) {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal import doc: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write import file: %v", err)
	}
}
