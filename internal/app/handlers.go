package app

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pagesmith/internal/domain"
	"pagesmith/internal/icons"
	"pagesmith/internal/layout"
	"pagesmith/internal/schema"
	"pagesmith/internal/section"
	"pagesmith/internal/service"
)

// ── JSON plumbing ──────────────────────────────────────────

func (a *App) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("encode response", zap.Error(err))
	}
}

func (a *App) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrSaveInProgress):
		status = http.StatusConflict
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrSlugRequired),
		errors.Is(err, section.ErrUnknownType),
		errors.Is(err, section.ErrContentMismatch):
		status = http.StatusUnprocessableEntity
	}
	a.respondJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// withSession runs fn against the document's editor session while holding
// the app mutex. One document has one session; edits are serialized.
func (a *App) withSession(w http.ResponseWriter, r *http.Request, fn func(*service.EditorSession) error) {
	docID := chi.URLParam(r, "documentID")
	sess, err := a.session(r.Context(), docID)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.mu.Lock()
	err = fn(sess)
	a.mu.Unlock()
	if err != nil {
		a.respondError(w, err)
	}
}

// ── Documents ──────────────────────────────────────────────

func (a *App) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := a.documents.List(r.Context())
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, docs)
}

func (a *App) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title string `json:"title"`
	}
	if err := decodeBody(r, &body); err != nil {
		a.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	doc, err := a.documents.Create(r.Context(), body.Title)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusCreated, doc)
}

func (a *App) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	a.withSession(w, r, func(sess *service.EditorSession) error {
		a.respondJSON(w, http.StatusOK, sess.Document())
		return nil
	})
}

func (a *App) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "documentID")
	if err := a.documents.Delete(r.Context(), docID); err != nil {
		a.respondError(w, err)
		return
	}
	a.dropSession(docID)
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) handleDuplicateDocument(w http.ResponseWriter, r *http.Request) {
	dup, err := a.documents.Duplicate(r.Context(), chi.URLParam(r, "documentID"))
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusCreated, dup)
}

func (a *App) handleSaveDocument(w http.ResponseWriter, r *http.Request) {
	a.withSession(w, r, func(sess *service.EditorSession) error {
		if err := sess.Save(r.Context()); err != nil {
			return err
		}
		a.respondJSON(w, http.StatusOK, sess.Document())
		return nil
	})
}

func (a *App) handlePublishDocument(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PublishAt *time.Time `json:"publishAt"`
	}
	// An empty body means publish now.
	if err := decodeBody(r, &body); err != nil && !errors.Is(err, io.EOF) {
		a.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	a.withSession(w, r, func(sess *service.EditorSession) error {
		if body.PublishAt != nil {
			sess.Schedule(*body.PublishAt)
		} else {
			sess.Publish()
		}
		if err := sess.Save(r.Context()); err != nil {
			return err
		}
		a.respondJSON(w, http.StatusOK, sess.Document())
		return nil
	})
}

func (a *App) handleUnpublishDocument(w http.ResponseWriter, r *http.Request) {
	a.withSession(w, r, func(sess *service.EditorSession) error {
		sess.Unpublish()
		if err := sess.Save(r.Context()); err != nil {
			return err
		}
		a.respondJSON(w, http.StatusOK, sess.Document())
		return nil
	})
}

func (a *App) handleUpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title *string   `json:"title"`
		Slug  *string   `json:"slug"`
		Tags  *[]string `json:"tags"`
	}
	if err := decodeBody(r, &body); err != nil {
		a.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	a.withSession(w, r, func(sess *service.EditorSession) error {
		if body.Title != nil {
			sess.SetTitle(*body.Title)
		}
		if body.Slug != nil {
			sess.SetSlug(*body.Slug)
		}
		if body.Tags != nil {
			sess.SetTags(*body.Tags)
		}
		a.respondJSON(w, http.StatusOK, sess.Document())
		return nil
	})
}

// ── Sections ───────────────────────────────────────────────

func (a *App) handleAddSections(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Types []domain.SectionType `json:"types"`
	}
	if err := decodeBody(r, &body); err != nil || len(body.Types) == 0 {
		a.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "types is required"})
		return
	}
	a.withSession(w, r, func(sess *service.EditorSession) error {
		added, err := sess.AddSections(r.Context(), body.Types...)
		if err != nil {
			return err
		}
		a.respondJSON(w, http.StatusCreated, added)
		return nil
	})
}

func (a *App) handleUpdateSectionContent(w http.ResponseWriter, r *http.Request) {
	sectionID := chi.URLParam(r, "sectionID")
	var body struct {
		Content json.RawMessage `json:"content"`
	}
	if err := decodeBody(r, &body); err != nil || len(body.Content) == 0 {
		a.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "content is required"})
		return
	}
	a.withSession(w, r, func(sess *service.EditorSession) error {
		target, ok := findSection(sess.Document().Sections, sectionID)
		if !ok {
			// Stale id after a concurrent delete: report success, change
			// nothing.
			a.respondJSON(w, http.StatusOK, sess.Document().Sections)
			return nil
		}
		content, err := domain.DecodeContent(target.Type, body.Content)
		if err != nil {
			return err
		}
		if err := sess.UpdateSectionContent(r.Context(), sectionID, content); err != nil {
			return err
		}
		a.respondJSON(w, http.StatusOK, sess.Document().Sections)
		return nil
	})
}

func (a *App) handleMoveSection(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Index     int    `json:"index"`
		Direction string `json:"direction"`
	}
	if err := decodeBody(r, &body); err != nil {
		a.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	var dir section.Direction
	switch body.Direction {
	case "up":
		dir = section.MoveUp
	case "down":
		dir = section.MoveDown
	default:
		a.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "direction must be up or down"})
		return
	}
	a.withSession(w, r, func(sess *service.EditorSession) error {
		sess.MoveSection(r.Context(), body.Index, dir)
		a.respondJSON(w, http.StatusOK, sess.Document().Sections)
		return nil
	})
}

func (a *App) handleToggleSection(w http.ResponseWriter, r *http.Request) {
	sectionID := chi.URLParam(r, "sectionID")
	a.withSession(w, r, func(sess *service.EditorSession) error {
		sess.ToggleSectionVisibility(r.Context(), sectionID)
		a.respondJSON(w, http.StatusOK, sess.Document().Sections)
		return nil
	})
}

func (a *App) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	sectionID := chi.URLParam(r, "sectionID")
	a.withSession(w, r, func(sess *service.EditorSession) error {
		sess.DeleteSection(r.Context(), sectionID)
		a.respondJSON(w, http.StatusOK, sess.Document().Sections)
		return nil
	})
}

func findSection(sections []domain.Section, id string) (domain.Section, bool) {
	for _, sec := range sections {
		if sec.ID == id {
			return sec, true
		}
	}
	return domain.Section{}, false
}

// ── Registries and layout ──────────────────────────────────

func (a *App) handleListSectionTypes(w http.ResponseWriter, r *http.Request) {
	type typeInfo struct {
		Type  string `json:"type"`
		Label string `json:"label"`
	}
	types := schema.Types()
	infos := make([]typeInfo, len(types))
	for i, t := range types {
		infos[i] = typeInfo{Type: string(t), Label: schema.LabelFor(t)}
	}
	a.respondJSON(w, http.StatusOK, infos)
}

func (a *App) handleListIcons(w http.ResponseWriter, r *http.Request) {
	type iconInfo struct {
		Name  string `json:"name"`
		Glyph string `json:"glyph"`
	}
	names := icons.Names()
	infos := make([]iconInfo, len(names))
	for i, name := range names {
		infos[i] = iconInfo{Name: name, Glyph: icons.Lookup(name)}
	}
	a.respondJSON(w, http.StatusOK, infos)
}

func (a *App) handleListLayoutTemplates(w http.ResponseWriter, r *http.Request) {
	a.respondJSON(w, http.StatusOK, layout.Templates())
}

func (a *App) handleResolveLayout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Template string        `json:"template"`
		Variant  string        `json:"variant"`
		Params   layout.Params `json:"params"`
	}
	if err := decodeBody(r, &body); err != nil || body.Template == "" {
		a.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "template is required"})
		return
	}
	variant := layout.VariantDefault
	if body.Variant == string(layout.VariantEmbedded) {
		variant = layout.VariantEmbedded
	}
	req := body.Params
	if req.Width == "" {
		req.Width = layout.Default
	}
	if req.Padding == "" {
		req.Padding = layout.Default
	}
	if req.Background == "" {
		req.Background = layout.Default
	}
	if req.Border == "" {
		req.Border = layout.Default
	}
	a.respondJSON(w, http.StatusOK, layout.Resolve(body.Template, variant, req))
}
