package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pagesmith/internal/domain"
	"pagesmith/internal/section"
)

// ─────────────────────────────────────────────────────────────
// Editor Session — one operator editing one document
// ─────────────────────────────────────────────────────────────

// SessionState is the editor session lifecycle state.
type SessionState string

const (
	StateLoading SessionState = "loading"
	StateReady   SessionState = "ready"
	StateSaving  SessionState = "saving"
	StateError   SessionState = "error"
)

var (
	// ErrSaveInProgress is returned when a save is attempted while one is
	// already in flight for the session's document.
	ErrSaveInProgress = errors.New("save already in progress")
	// ErrTitleRequired is a validation failure caught before any
	// persistence call.
	ErrTitleRequired = errors.New("document title is required")
	// ErrSlugRequired is a validation failure caught before any
	// persistence call.
	ErrSlugRequired = errors.New("document slug is required")
)

// EditorSession holds one document's in-memory editing state. All section
// mutations run on a single sequential control flow (one session, one
// mutator), apply to memory only, and every completed mutation leaves the
// section orders as a contiguous 0..N-1 permutation. Save serializes the
// whole document and replaces the persisted copy in one call.
type EditorSession struct {
	store   domain.DocumentStore
	emitter EventEmitter
	guard   saveGuard

	doc       domain.Document
	state     SessionState
	dirty     bool
	persisted bool
	lastErr   error
}

// NewSession starts a session for a brand-new, not-yet-persisted document.
// It begins directly in Ready with an empty section list.
func NewSession(store domain.DocumentStore, emitter EventEmitter, title string) *EditorSession {
	return &EditorSession{
		store:   store,
		emitter: emitter,
		doc: domain.Document{
			ID:       uuid.New().String(),
			Title:    title,
			Slug:     Slugify(title),
			Status:   domain.StatusDraft,
			Sections: []domain.Section{},
		},
		state: StateReady,
		dirty: true,
	}
}

// OpenSession loads an existing document. Sections are normalized on load
// even though the order invariant should already hold — this defends
// against externally corrupted data.
func OpenSession(ctx context.Context, store domain.DocumentStore, emitter EventEmitter, id string) (*EditorSession, error) {
	s := &EditorSession{store: store, emitter: emitter, state: StateLoading}
	doc, err := store.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	doc.Sections = section.Normalize(doc.Sections)
	s.doc = *doc
	s.state = StateReady
	s.persisted = true
	return s, nil
}

// Document returns a snapshot of the in-memory document. Presentation
// layers read snapshots; they never see intermediate mutation states.
func (s *EditorSession) Document() domain.Document { return s.doc.Clone() }

// State returns the current lifecycle state.
func (s *EditorSession) State() SessionState { return s.state }

// Dirty reports whether in-memory state has diverged from the store.
func (s *EditorSession) Dirty() bool { return s.dirty }

// LastError returns the most recent save failure, if any.
func (s *EditorSession) LastError() error { return s.lastErr }

// ── metadata ───────────────────────────────────────────────

func (s *EditorSession) SetTitle(title string) {
	s.doc.Title = title
	s.dirty = true
}

func (s *EditorSession) SetSlug(slug string) {
	s.doc.Slug = Slugify(slug)
	s.dirty = true
}

func (s *EditorSession) SetTags(tags []string) {
	s.doc.Tags = append([]string(nil), tags...)
	s.dirty = true
}

// Publish marks the document published immediately.
func (s *EditorSession) Publish() {
	s.doc.Status = domain.StatusPublished
	s.doc.PublishAt = nil
	s.dirty = true
}

// Schedule marks the document for publication at the given time.
func (s *EditorSession) Schedule(at time.Time) {
	s.doc.Status = domain.StatusScheduled
	at = at.UTC()
	s.doc.PublishAt = &at
	s.dirty = true
}

// Unpublish returns the document to draft.
func (s *EditorSession) Unpublish() {
	s.doc.Status = domain.StatusDraft
	s.doc.PublishAt = nil
	s.dirty = true
}

// ── section operations ─────────────────────────────────────

// AddSections appends one section per type in a single batch, so the whole
// batch receives contiguous orders.
func (s *EditorSession) AddSections(ctx context.Context, types ...domain.SectionType) ([]domain.Section, error) {
	next, added, err := section.Add(s.doc.Sections, types...)
	if err != nil {
		return nil, err
	}
	s.doc.Sections = next
	s.dirty = true
	s.emitter.Emit(ctx, "section:added", added)
	return added, nil
}

// UpdateSectionContent replaces the content of the section with the given
// id. A stale id is a deliberate no-op (the UI may race a delete against an
// in-flight edit); mismatched content types are rejected.
func (s *EditorSession) UpdateSectionContent(ctx context.Context, id string, content domain.SectionContent) error {
	next, err := section.UpdateContent(s.doc.Sections, id, content)
	if err != nil {
		return err
	}
	s.doc.Sections = next
	s.dirty = true
	s.emitter.Emit(ctx, "section:updated", id)
	return nil
}

// DeleteSection removes a section and renumbers the survivors. Deleting a
// missing id is a no-op.
func (s *EditorSession) DeleteSection(ctx context.Context, id string) {
	s.doc.Sections = section.Delete(s.doc.Sections, id)
	s.dirty = true
	s.emitter.Emit(ctx, "section:deleted", id)
}

// MoveSection swaps the section at index with its neighbor. Out-of-bounds
// moves are no-ops.
func (s *EditorSession) MoveSection(ctx context.Context, index int, dir section.Direction) {
	s.doc.Sections = section.Move(s.doc.Sections, index, dir)
	s.dirty = true
	s.emitter.Emit(ctx, "section:moved", index)
}

// ToggleSectionVisibility flips visibility without touching order.
func (s *EditorSession) ToggleSectionVisibility(ctx context.Context, id string) {
	s.doc.Sections = section.ToggleVisibility(s.doc.Sections, id)
	s.dirty = true
	s.emitter.Emit(ctx, "section:toggled", id)
}

// ── persistence ────────────────────────────────────────────

// Save validates metadata, then writes the whole document (metadata plus the
// full ordered section list) to the store in one replace. On failure the
// in-memory state is left untouched so retry is just "save again". A second
// save while one is outstanding is refused, not queued.
func (s *EditorSession) Save(ctx context.Context) error {
	if err := s.validate(); err != nil {
		return err
	}
	if !s.guard.TryLock(s.doc.ID) {
		return ErrSaveInProgress
	}
	defer s.guard.Unlock(s.doc.ID)

	s.state = StateSaving
	snapshot := s.doc.Clone()

	var err error
	if s.persisted {
		err = s.store.UpdateDocument(ctx, &snapshot)
	} else {
		err = s.store.CreateDocument(ctx, &snapshot)
	}
	if err != nil {
		s.lastErr = err
		s.state = StateError
		s.emitter.Emit(ctx, "document:save-failed", s.doc.ID)
		// The session stays usable: Error is surfaced, not terminal.
		s.state = StateReady
		return fmt.Errorf("save document: %w", err)
	}

	// Adopt store-assigned timestamps; sections and metadata are ours.
	s.doc.CreatedAt = snapshot.CreatedAt
	s.doc.UpdatedAt = snapshot.UpdatedAt
	s.persisted = true
	s.dirty = false
	s.lastErr = nil
	s.state = StateReady
	s.emitter.Emit(ctx, "document:saved", s.doc.ID)
	return nil
}

func (s *EditorSession) validate() error {
	if s.doc.Title == "" {
		return ErrTitleRequired
	}
	if s.doc.Slug == "" {
		return ErrSlugRequired
	}
	return nil
}
