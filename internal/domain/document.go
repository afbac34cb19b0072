package domain

import (
	"context"
	"errors"
	"time"
)

// Document statuses.
const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusPublished = "published"
)

// ErrNotFound is returned by stores when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Document is the aggregate owner of an ordered section list. Sections have
// no identity outside their document; saving replaces the whole document.
type Document struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Status    string     `json:"status"`
	Tags      []string   `json:"tags,omitempty"`
	PublishAt *time.Time `json:"publishAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Sections  []Section  `json:"sections"`
}

// Clone returns a deep-enough copy for snapshot semantics: the section slice
// and tags are fresh, content values are shared (callers replace content
// wholesale, never mutate it in place).
func (d Document) Clone() Document {
	c := d
	c.Tags = append([]string(nil), d.Tags...)
	c.Sections = append([]Section(nil), d.Sections...)
	if d.PublishAt != nil {
		at := *d.PublishAt
		c.PublishAt = &at
	}
	return c
}

// IsPublished reports whether the document is live.
func (d *Document) IsPublished() bool { return d.Status == StatusPublished }

// DocumentStore is the persistence contract. Implementations treat the
// document as opaque: create/update write the full aggregate, reads return
// it whole.
type DocumentStore interface {
	CreateDocument(ctx context.Context, d *Document) error
	GetDocument(ctx context.Context, id string) (*Document, error)
	UpdateDocument(ctx context.Context, d *Document) error
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context) ([]Document, error)

	// ListDueScheduled returns documents in scheduled status whose publish
	// time is at or before now.
	ListDueScheduled(ctx context.Context, now time.Time) ([]Document, error)
}
