package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pagesmith/internal/domain"
	"pagesmith/internal/section"
	"pagesmith/internal/storage"
)

func openTestStore(t *testing.T) *storage.SQLStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "pagesmith.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testDocument(t *testing.T) *domain.Document {
	t.Helper()
	sections, _, err := section.Add(nil,
		domain.SectionTypeHero,
		domain.SectionTypePricing,
		domain.SectionTypeFAQ,
	)
	if err != nil {
		t.Fatalf("build sections: %v", err)
	}
	return &domain.Document{
		ID:       "doc-1",
		Title:    "Landing",
		Slug:     "landing",
		Status:   domain.StatusDraft,
		Tags:     []string{"marketing", "home"},
		Sections: sections,
	}
}

func TestSQLStore_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	doc := testDocument(t)

	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, err := store.GetDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Title != doc.Title || loaded.Slug != doc.Slug || loaded.Status != doc.Status {
		t.Errorf("metadata mismatch: %+v", loaded)
	}
	if len(loaded.Tags) != 2 {
		t.Errorf("expected 2 tags, got %v", loaded.Tags)
	}
	if len(loaded.Sections) != len(doc.Sections) {
		t.Fatalf("expected %d sections, got %d", len(doc.Sections), len(loaded.Sections))
	}
	if err := section.Validate(loaded.Sections); err != nil {
		t.Errorf("loaded sections violate order invariant: %v", err)
	}
	for i, s := range loaded.Sections {
		want := doc.Sections[i]
		if s.ID != want.ID || s.Type != want.Type || s.Order != want.Order || s.IsVisible != want.IsVisible {
			t.Errorf("section %d mismatch: got %+v want %+v", i, s, want)
		}
	}

	// Content decodes into the variant struct keyed by type.
	hero, ok := loaded.Sections[0].Content.(*domain.HeroContent)
	if !ok {
		t.Fatalf("expected *HeroContent, got %T", loaded.Sections[0].Content)
	}
	if hero.Template == "" {
		t.Error("hero content lost its template tag in the round trip")
	}
}

func TestSQLStore_UpdateReplacesWholeDocument(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	doc := testDocument(t)
	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("create: %v", err)
	}

	doc.Title = "Landing v2"
	doc.Sections = section.Delete(doc.Sections, doc.Sections[1].ID)
	if err := store.UpdateDocument(ctx, doc); err != nil {
		t.Fatalf("update: %v", err)
	}

	loaded, err := store.GetDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Title != "Landing v2" {
		t.Errorf("title not updated: %q", loaded.Title)
	}
	if len(loaded.Sections) != 2 {
		t.Fatalf("expected 2 sections after replace, got %d", len(loaded.Sections))
	}
	if err := section.Validate(loaded.Sections); err != nil {
		t.Errorf("replaced sections violate order invariant: %v", err)
	}
}

func TestSQLStore_GetMissingReturnsNotFound(t *testing.T) {
	store := openTestStore(t)
	_, err := store.GetDocument(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLStore_UpdateMissingReturnsNotFound(t *testing.T) {
	store := openTestStore(t)
	doc := testDocument(t)
	doc.ID = "never-created"
	if err := store.UpdateDocument(context.Background(), doc); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLStore_DeleteIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	doc := testDocument(t)
	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.DeleteDocument(ctx, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteDocument(ctx, doc.ID); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if _, err := store.GetDocument(ctx, doc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLStore_ListDueScheduled(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	past := time.Now().Add(-1 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	due := testDocument(t)
	due.ID = "due"
	due.Slug = "due"
	due.Status = domain.StatusScheduled
	due.PublishAt = &past

	notYet := testDocument(t)
	notYet.ID = "not-yet"
	notYet.Slug = "not-yet"
	notYet.Status = domain.StatusScheduled
	notYet.PublishAt = &future

	draft := testDocument(t)
	draft.ID = "draft"
	draft.Slug = "draft"

	for _, d := range []*domain.Document{due, notYet, draft} {
		if err := store.CreateDocument(ctx, d); err != nil {
			t.Fatalf("create %s: %v", d.ID, err)
		}
	}

	docs, err := store.ListDueScheduled(ctx, time.Now())
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "due" {
		t.Fatalf("expected only the overdue document, got %+v", docs)
	}
}
