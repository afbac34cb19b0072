package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// routes sets up the HTTP router for the admin API.
func (a *App) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/section-types", a.handleListSectionTypes)
		r.Get("/icons", a.handleListIcons)
		r.Get("/layout/templates", a.handleListLayoutTemplates)
		r.Post("/layout/resolve", a.handleResolveLayout)

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", a.handleListDocuments)
			r.Post("/", a.handleCreateDocument)

			r.Route("/{documentID}", func(r chi.Router) {
				r.Get("/", a.handleGetDocument)
				r.Delete("/", a.handleDeleteDocument)
				r.Post("/duplicate", a.handleDuplicateDocument)
				r.Post("/save", a.handleSaveDocument)
				r.Post("/publish", a.handlePublishDocument)
				r.Post("/unpublish", a.handleUnpublishDocument)
				r.Put("/metadata", a.handleUpdateMetadata)

				r.Route("/sections", func(r chi.Router) {
					r.Post("/", a.handleAddSections)
					r.Post("/move", a.handleMoveSection)
					r.Put("/{sectionID}", a.handleUpdateSectionContent)
					r.Post("/{sectionID}/toggle", a.handleToggleSection)
					r.Delete("/{sectionID}", a.handleDeleteSection)
				})
			})
		})
	})

	return r
}
