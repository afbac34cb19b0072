package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"pagesmith/internal/domain"
	"pagesmith/internal/section"
	"pagesmith/internal/service"
)

// ─────────────────────────────────────────────────────────────
// Test doubles
// ─────────────────────────────────────────────────────────────

// memStore is an in-memory DocumentStore for service tests. failNext makes
// the next write call fail once, for exercising error paths.
type memStore struct {
	mu       sync.Mutex
	docs     map[string]domain.Document
	failNext error

	// release, when non-nil, blocks write calls until closed. entered is
	// signalled when the blocked call begins. Used to hold a save in flight.
	release chan struct{}
	entered chan struct{}
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]domain.Document)}
}

func (m *memStore) takeFailure() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *memStore) hold() {
	if m.release != nil {
		m.entered <- struct{}{}
		<-m.release
	}
}

func (m *memStore) CreateDocument(_ context.Context, doc *domain.Document) error {
	m.hold()
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	m.docs[doc.ID] = doc.Clone()
	return nil
}

func (m *memStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := doc.Clone()
	return &out, nil
}

func (m *memStore) UpdateDocument(_ context.Context, doc *domain.Document) error {
	m.hold()
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.ID]; !ok {
		return domain.ErrNotFound
	}
	doc.UpdatedAt = time.Now().UTC()
	m.docs[doc.ID] = doc.Clone()
	return nil
}

func (m *memStore) DeleteDocument(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

func (m *memStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Document, 0, len(m.docs))
	for _, doc := range m.docs {
		out = append(out, doc.Clone())
	}
	return out, nil
}

func (m *memStore) ListDueScheduled(_ context.Context, now time.Time) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Document
	for _, doc := range m.docs {
		if doc.Status == domain.StatusScheduled && doc.PublishAt != nil && !doc.PublishAt.After(now) {
			out = append(out, doc.Clone())
		}
	}
	return out, nil
}

func sectionsJSON(t *testing.T, sections []domain.Section) string {
	t.Helper()
	data, err := json.Marshal(sections)
	if err != nil {
		t.Fatalf("marshal sections: %v", err)
	}
	return string(data)
}

// ─────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────

func TestNewSession_StartsReadyAndDirty(t *testing.T) {
	s := service.NewSession(newMemStore(), service.NopEmitter{}, "Landing Page")

	if s.State() != service.StateReady {
		t.Errorf("state = %q, want %q", s.State(), service.StateReady)
	}
	if !s.Dirty() {
		t.Error("new session should be dirty until first save")
	}
	doc := s.Document()
	if doc.Slug != "landing-page" {
		t.Errorf("slug = %q, want %q", doc.Slug, "landing-page")
	}
	if doc.Status != domain.StatusDraft {
		t.Errorf("status = %q, want draft", doc.Status)
	}
}

func TestEditorSession_SaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	emitter := &service.MockEmitter{}
	s := service.NewSession(store, emitter, "Pricing")

	if _, err := s.AddSections(ctx, domain.SectionTypeHero, domain.SectionTypePricing); err != nil {
		t.Fatalf("AddSections: %v", err)
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if s.Dirty() {
		t.Error("session should be clean after save")
	}
	if s.State() != service.StateReady {
		t.Errorf("state = %q, want ready", s.State())
	}

	got, err := store.GetDocument(ctx, s.Document().ID)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if len(got.Sections) != 2 {
		t.Fatalf("persisted %d sections, want 2", len(got.Sections))
	}
	if got.Sections[0].Type != domain.SectionTypeHero || got.Sections[1].Type != domain.SectionTypePricing {
		t.Errorf("persisted types = %q, %q", got.Sections[0].Type, got.Sections[1].Type)
	}

	var sawSaved bool
	for _, e := range emitter.Events {
		if e.Event == "document:saved" {
			sawSaved = true
		}
	}
	if !sawSaved {
		t.Error("expected document:saved event")
	}
}

func TestEditorSession_SaveFailureLeavesMemoryUntouched(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s := service.NewSession(store, service.NopEmitter{}, "Draft")
	if err := s.Save(ctx); err != nil {
		t.Fatalf("initial save: %v", err)
	}

	if _, err := s.AddSections(ctx, domain.SectionTypeGallery, domain.SectionTypeFAQ); err != nil {
		t.Fatalf("AddSections: %v", err)
	}
	before := sectionsJSON(t, s.Document().Sections)

	storeErr := errors.New("disk full")
	store.failNext = storeErr
	err := s.Save(ctx)
	if !errors.Is(err, storeErr) {
		t.Fatalf("Save error = %v, want wrapped %v", err, storeErr)
	}

	after := sectionsJSON(t, s.Document().Sections)
	if before != after {
		t.Errorf("in-memory sections changed across failed save:\nbefore %s\nafter  %s", before, after)
	}
	if !s.Dirty() {
		t.Error("session should stay dirty after failed save")
	}
	if s.State() != service.StateReady {
		t.Errorf("state = %q, want ready (error is retryable)", s.State())
	}
	if !errors.Is(s.LastError(), storeErr) {
		t.Errorf("LastError = %v, want %v", s.LastError(), storeErr)
	}

	// Retry with the store healthy again.
	if err := s.Save(ctx); err != nil {
		t.Fatalf("retry save: %v", err)
	}
	if s.Dirty() {
		t.Error("session should be clean after successful retry")
	}
	got, err := store.GetDocument(ctx, s.Document().ID)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if len(got.Sections) != 2 {
		t.Errorf("persisted %d sections, want 2", len(got.Sections))
	}
}

func TestEditorSession_SaveRefusedWhileInFlight(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.release = make(chan struct{})
	store.entered = make(chan struct{})
	s := service.NewSession(store, service.NopEmitter{}, "Busy")

	firstDone := make(chan error, 1)
	go func() { firstDone <- s.Save(ctx) }()

	// Wait until the first save holds the guard.
	select {
	case <-store.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first save never reached the store")
	}

	if err := s.Save(ctx); !errors.Is(err, service.ErrSaveInProgress) {
		t.Errorf("second save error = %v, want ErrSaveInProgress", err)
	}

	close(store.release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first save: %v", err)
	}
}

func TestEditorSession_SaveValidation(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	s := service.NewSession(store, service.NopEmitter{}, "Valid")
	s.SetTitle("")
	if err := s.Save(ctx); !errors.Is(err, service.ErrTitleRequired) {
		t.Errorf("empty title: err = %v, want ErrTitleRequired", err)
	}

	s = service.NewSession(store, service.NopEmitter{}, "!!!")
	if err := s.Save(ctx); !errors.Is(err, service.ErrSlugRequired) {
		t.Errorf("unsluggable title: err = %v, want ErrSlugRequired", err)
	}
	if len(store.docs) != 0 {
		t.Error("validation failures must not reach the store")
	}
}

func TestOpenSession_NormalizesCorruptedOrders(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	doc := domain.Document{
		ID:    "doc-1",
		Title: "Corrupted",
		Slug:  "corrupted",
		Sections: []domain.Section{
			{ID: "b", Type: domain.SectionTypeCTA, Order: 7, IsVisible: true, Content: &domain.CTAContent{Template: "style-1"}},
			{ID: "a", Type: domain.SectionTypeHero, Order: 2, IsVisible: true, Content: &domain.HeroContent{Template: "style-1"}},
		},
	}
	if err := store.CreateDocument(ctx, &doc); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	s, err := service.OpenSession(ctx, store, service.NopEmitter{}, "doc-1")
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	got := s.Document().Sections
	if err := section.Validate(got); err != nil {
		t.Fatalf("loaded sections invalid: %v", err)
	}
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("order after normalize = [%s %s], want [a b]", got[0].ID, got[1].ID)
	}
}

func TestOpenSession_NotFound(t *testing.T) {
	_, err := service.OpenSession(context.Background(), newMemStore(), service.NopEmitter{}, "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestEditorSession_ScheduleAndPublish(t *testing.T) {
	s := service.NewSession(newMemStore(), service.NopEmitter{}, "Launch")

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.FixedZone("CET", 3600))
	s.Schedule(at)
	doc := s.Document()
	if doc.Status != domain.StatusScheduled {
		t.Errorf("status = %q, want scheduled", doc.Status)
	}
	if doc.PublishAt == nil || !doc.PublishAt.Equal(at) || doc.PublishAt.Location() != time.UTC {
		t.Errorf("publishAt = %v, want %v in UTC", doc.PublishAt, at.UTC())
	}

	s.Publish()
	doc = s.Document()
	if doc.Status != domain.StatusPublished || doc.PublishAt != nil {
		t.Errorf("after Publish: status = %q publishAt = %v", doc.Status, doc.PublishAt)
	}

	s.Unpublish()
	if got := s.Document().Status; got != domain.StatusDraft {
		t.Errorf("after Unpublish: status = %q, want draft", got)
	}
}

func TestEditorSession_SectionOpsEmitEvents(t *testing.T) {
	ctx := context.Background()
	emitter := &service.MockEmitter{}
	s := service.NewSession(newMemStore(), emitter, "Events")

	added, err := s.AddSections(ctx, domain.SectionTypeHero, domain.SectionTypeFAQ)
	if err != nil {
		t.Fatalf("AddSections: %v", err)
	}
	s.MoveSection(ctx, 1, section.MoveUp)
	s.ToggleSectionVisibility(ctx, added[0].ID)
	s.DeleteSection(ctx, added[1].ID)

	want := []string{"section:added", "section:moved", "section:toggled", "section:deleted"}
	if len(emitter.Events) != len(want) {
		t.Fatalf("recorded %d events, want %d", len(emitter.Events), len(want))
	}
	for i, name := range want {
		if emitter.Events[i].Event != name {
			t.Errorf("event[%d] = %q, want %q", i, emitter.Events[i].Event, name)
		}
	}
}
