package section

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"pagesmith/internal/domain"
	"pagesmith/internal/schema"
)

// ─────────────────────────────────────────────────────────────
// Section list operations — pure snapshot-in / snapshot-out
// ─────────────────────────────────────────────────────────────
//
// Every operation takes a section slice, returns a fresh slice, and leaves
// Order as a contiguous 0..N-1 permutation equal to slice position. Callers
// (the editor session) swap the returned snapshot in; presentation layers
// read snapshots and never mutate shared state.

var (
	// ErrUnknownType rejects section types outside the schema registry.
	ErrUnknownType = errors.New("unknown section type")
	// ErrContentMismatch rejects content whose type differs from the
	// section it targets.
	ErrContentMismatch = errors.New("content does not match section type")
)

// Direction of a single-step move.
type Direction string

const (
	MoveUp   Direction = "up"
	MoveDown Direction = "down"
)

// Add appends one new section per type, in argument order, with fresh ids,
// default content from the schema registry, and contiguous orders past the
// current tail. Unknown types are rejected before anything is appended.
func Add(sections []domain.Section, types ...domain.SectionType) ([]domain.Section, []domain.Section, error) {
	for _, t := range types {
		if !schema.Known(t) {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
		}
	}

	out := clone(sections)
	added := make([]domain.Section, 0, len(types))
	for i, t := range types {
		s := domain.Section{
			ID:        uuid.New().String(),
			Type:      t,
			Order:     len(sections) + i,
			IsVisible: true,
			Content:   schema.DefaultContentFor(t),
		}
		out = append(out, s)
		added = append(added, s)
	}
	return out, added, nil
}

// UpdateContent replaces the content of the section with the given id. The
// replacement must match the section's type; a stale id is a deliberate
// no-op — the authoring UI may race a delete against an in-flight edit and
// that race is benign, not a corruption.
func UpdateContent(sections []domain.Section, id string, content domain.SectionContent) ([]domain.Section, error) {
	out := clone(sections)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		if content == nil || content.SectionType() != out[i].Type {
			return nil, fmt.Errorf("%w: %q", ErrContentMismatch, out[i].Type)
		}
		out[i].Content = content
		return out, nil
	}
	return out, nil
}

// Delete removes the section with the given id and renumbers the survivors.
// Deleting an id that is not present is a no-op.
func Delete(sections []domain.Section, id string) []domain.Section {
	out := make([]domain.Section, 0, len(sections))
	for _, s := range sections {
		if s.ID == id {
			continue
		}
		out = append(out, s)
	}
	return renumber(out)
}

// Move swaps the section at index with its neighbor in the given direction.
// A move that would leave the list is a no-op, not an error.
func Move(sections []domain.Section, index int, dir Direction) []domain.Section {
	out := clone(sections)
	target := index - 1
	if dir == MoveDown {
		target = index + 1
	}
	if index < 0 || index >= len(out) || target < 0 || target >= len(out) {
		return out
	}
	out[index], out[target] = out[target], out[index]
	return renumber(out)
}

// ToggleVisibility flips the visibility flag of the section with the given
// id. Order is untouched; hidden sections keep their slot.
func ToggleVisibility(sections []domain.Section, id string) []domain.Section {
	out := clone(sections)
	for i := range out {
		if out[i].ID == id {
			out[i].IsVisible = !out[i].IsVisible
			break
		}
	}
	return out
}

// Normalize sorts by the persisted Order and renumbers. The order invariant
// should already hold for anything this package produced; Normalize defends
// the load path against externally corrupted data (gaps, duplicates).
func Normalize(sections []domain.Section) []domain.Section {
	out := clone(sections)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return renumber(out)
}

// Validate reports whether Order forms the contiguous permutation the rest
// of the system relies on: order equals position for every section.
func Validate(sections []domain.Section) error {
	for i, s := range sections {
		if s.Order != i {
			return fmt.Errorf("section %s at position %d has order %d", s.ID, i, s.Order)
		}
	}
	return nil
}

func clone(sections []domain.Section) []domain.Section {
	return append([]domain.Section(nil), sections...)
}

func renumber(sections []domain.Section) []domain.Section {
	for i := range sections {
		sections[i].Order = i
	}
	return sections
}
