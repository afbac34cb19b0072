package schema

import (
	"fmt"

	"pagesmith/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Content Schema Registry — type tag → label + default content
// ─────────────────────────────────────────────────────────────

// types fixes the enumeration order used by authoring surfaces.
var types = []domain.SectionType{
	domain.SectionTypeHero,
	domain.SectionTypeFeature,
	domain.SectionTypeGallery,
	domain.SectionTypePricing,
	domain.SectionTypeAccordion,
	domain.SectionTypeTestimonial,
	domain.SectionTypeCTA,
	domain.SectionTypeFAQ,
	domain.SectionTypeContact,
	domain.SectionTypeBanner,
}

var labels = map[domain.SectionType]string{
	domain.SectionTypeHero:        "Hero",
	domain.SectionTypeFeature:     "Feature Grid",
	domain.SectionTypeGallery:     "Image Gallery",
	domain.SectionTypePricing:     "Pricing Table",
	domain.SectionTypeAccordion:   "Accordion",
	domain.SectionTypeTestimonial: "Testimonials",
	domain.SectionTypeCTA:         "Call to Action",
	domain.SectionTypeFAQ:         "FAQ",
	domain.SectionTypeContact:     "Contact",
	domain.SectionTypeBanner:      "Banner",
}

// defaults are constructors, not shared values — every new section gets a
// fresh content record.
var defaults = map[domain.SectionType]func() domain.SectionContent{
	domain.SectionTypeHero: func() domain.SectionContent {
		return &domain.HeroContent{
			Template:    domain.TemplateDefault,
			Heading:     "Welcome",
			ButtonLabel: "Learn more",
		}
	},
	domain.SectionTypeFeature: func() domain.SectionContent {
		return &domain.FeatureContent{
			Template: domain.TemplateDefault,
			Heading:  "Features",
			Items: []domain.FeatureItem{
				{Icon: "star", Title: "Feature", Text: "Describe the feature."},
			},
		}
	},
	domain.SectionTypeGallery: func() domain.SectionContent {
		return &domain.GalleryContent{
			Template: domain.TemplateDefault,
			Heading:  "Gallery",
			Images:   []domain.GalleryImage{},
		}
	},
	domain.SectionTypePricing: func() domain.SectionContent {
		return &domain.PricingContent{
			Template: domain.TemplateDefault,
			Heading:  "Pricing",
			Plans: []domain.PricingPlan{
				{Name: "Basic", Price: "0", Period: "month", Features: []string{"Get started"}},
			},
		}
	},
	domain.SectionTypeAccordion: func() domain.SectionContent {
		return &domain.AccordionContent{
			Template: domain.TemplateDefault,
			Items: []domain.AccordionItem{
				{Title: "Item", Body: "Details."},
			},
		}
	},
	domain.SectionTypeTestimonial: func() domain.SectionContent {
		return &domain.TestimonialContent{
			Template: domain.TemplateDefault,
			Heading:  "What people say",
			Quotes:   []domain.Testimonial{},
		}
	},
	domain.SectionTypeCTA: func() domain.SectionContent {
		return &domain.CTAContent{
			Template:    domain.TemplateDefault,
			Heading:     "Ready to start?",
			ButtonLabel: "Get started",
		}
	},
	domain.SectionTypeFAQ: func() domain.SectionContent {
		return &domain.FAQContent{
			Template: domain.TemplateDefault,
			Heading:  "Frequently asked questions",
			Items:    []domain.FAQItem{},
		}
	},
	domain.SectionTypeContact: func() domain.SectionContent {
		return &domain.ContactContent{
			Template: domain.TemplateDefault,
			Heading:  "Get in touch",
		}
	},
	domain.SectionTypeBanner: func() domain.SectionContent {
		return &domain.BannerContent{
			Template:    domain.TemplateDefault,
			Text:        "Announcement",
			Dismissible: true,
		}
	},
}

// Types returns the closed section type enumeration in display order.
func Types() []domain.SectionType {
	return append([]domain.SectionType(nil), types...)
}

// Known reports whether t is a member of the closed enumeration.
func Known(t domain.SectionType) bool {
	_, ok := defaults[t]
	return ok
}

// DefaultContentFor returns a fresh default content record for t. The
// registry is total over the enumeration: a missing entry means the enum and
// the map have drifted, which is a programming error, so it panics rather
// than handing a nil content to a render layer.
func DefaultContentFor(t domain.SectionType) domain.SectionContent {
	ctor, ok := defaults[t]
	if !ok {
		panic(fmt.Sprintf("schema registry: no default content for section type %q", t))
	}
	return ctor()
}

// LabelFor returns the human label for t, with the same totality rule as
// DefaultContentFor.
func LabelFor(t domain.SectionType) string {
	label, ok := labels[t]
	if !ok {
		panic(fmt.Sprintf("schema registry: no label for section type %q", t))
	}
	return label
}
