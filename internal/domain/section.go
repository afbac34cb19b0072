package domain

import (
	"encoding/json"
	"fmt"
)

type SectionType string

const (
	SectionTypeHero        SectionType = "hero"
	SectionTypeFeature     SectionType = "feature"
	SectionTypeGallery     SectionType = "gallery"
	SectionTypePricing     SectionType = "pricing"
	SectionTypeAccordion   SectionType = "accordion"
	SectionTypeTestimonial SectionType = "testimonial"
	SectionTypeCTA         SectionType = "cta"
	SectionTypeFAQ         SectionType = "faq"
	SectionTypeContact     SectionType = "contact"
	SectionTypeBanner      SectionType = "banner"
)

// Section is one content block within a Document. Order is zero-based and
// always equals the section's position in the document's slice; only the
// section list operations rewrite it. Hidden sections keep their slot and
// are skipped at render time only.
type Section struct {
	ID        string         `json:"id"`
	Type      SectionType    `json:"type"`
	Order     int            `json:"order"`
	IsVisible bool           `json:"isVisible"`
	Content   SectionContent `json:"content"`
}

// sectionJSON is the wire shape; content is decoded in a second pass once
// the type tag is known.
type sectionJSON struct {
	ID        string          `json:"id"`
	Type      SectionType     `json:"type"`
	Order     int             `json:"order"`
	IsVisible bool            `json:"isVisible"`
	Content   json.RawMessage `json:"content"`
}

func (s *Section) UnmarshalJSON(data []byte) error {
	var raw sectionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	content, err := DecodeContent(raw.Type, raw.Content)
	if err != nil {
		return fmt.Errorf("section %s: %w", raw.ID, err)
	}
	s.ID = raw.ID
	s.Type = raw.Type
	s.Order = raw.Order
	s.IsVisible = raw.IsVisible
	s.Content = content
	return nil
}

// DecodeContent unmarshals a raw content payload into the variant struct
// selected by the type tag. An empty payload yields the variant's zero value
// so partially-written documents still load.
func DecodeContent(t SectionType, raw json.RawMessage) (SectionContent, error) {
	content := newContent(t)
	if content == nil {
		return nil, fmt.Errorf("unknown section type %q", t)
	}
	if len(raw) == 0 {
		return content, nil
	}
	if err := json.Unmarshal(raw, content); err != nil {
		return nil, fmt.Errorf("decode %s content: %w", t, err)
	}
	return content, nil
}
