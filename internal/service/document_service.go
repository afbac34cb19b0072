package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"pagesmith/internal/domain"
	"pagesmith/internal/section"
)

// ─────────────────────────────────────────────────────────────
// Document Service — document-level operations outside a session
// ─────────────────────────────────────────────────────────────

// DocumentService manages the document collection: listing, creation,
// deletion, duplication. Per-document editing goes through EditorSession.
type DocumentService struct {
	store   domain.DocumentStore
	emitter EventEmitter
}

// NewDocumentService creates a DocumentService.
func NewDocumentService(store domain.DocumentStore, emitter EventEmitter) *DocumentService {
	return &DocumentService{store: store, emitter: emitter}
}

// List returns all documents.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.store.ListDocuments(ctx)
}

// Get returns one document with its sections normalized.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Sections = section.Normalize(doc.Sections)
	return doc, nil
}

// Create persists a new empty draft immediately and returns it.
func (s *DocumentService) Create(ctx context.Context, title string) (*domain.Document, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}
	doc := &domain.Document{
		ID:       uuid.New().String(),
		Title:    title,
		Slug:     Slugify(title),
		Status:   domain.StatusDraft,
		Sections: []domain.Section{},
	}
	if err := s.store.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	s.emitter.Emit(ctx, "document:created", doc.ID)
	return doc, nil
}

// Delete removes a document. Deleting a missing id is a no-op.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteDocument(ctx, id); err != nil {
		return err
	}
	s.emitter.Emit(ctx, "document:deleted", id)
	return nil
}

// Duplicate copies a document into a new draft. Sections receive fresh ids;
// content values are carried over as-is.
func (s *DocumentService) Duplicate(ctx context.Context, id string) (*domain.Document, error) {
	src, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	dup := src.Clone()
	dup.ID = uuid.New().String()
	dup.Title = src.Title + " (copy)"
	dup.Slug = Slugify(dup.Title)
	dup.Status = domain.StatusDraft
	dup.PublishAt = nil
	for i := range dup.Sections {
		dup.Sections[i].ID = uuid.New().String()
	}
	dup.Sections = section.Normalize(dup.Sections)
	if err := s.store.CreateDocument(ctx, &dup); err != nil {
		return nil, fmt.Errorf("duplicate document: %w", err)
	}
	s.emitter.Emit(ctx, "document:created", dup.ID)
	return &dup, nil
}

// ── slugs ──────────────────────────────────────────────────

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases, collapses runs of non-alphanumerics to single hyphens
// and trims the result.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
