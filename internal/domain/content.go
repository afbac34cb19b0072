package domain

// SectionContent is the union of per-type content shapes, discriminated by
// SectionType. New variants are added here together with a newContent case
// and a schema registry entry.
type SectionContent interface {
	SectionType() SectionType
}

// Template variant tags carried inside content, orthogonal to the section
// type. Unknown tags fall back to the default presentation.
const (
	TemplateDefault = "style-1"
)

type HeroContent struct {
	Template    string `json:"template"`
	Heading     string `json:"heading"`
	Subheading  string `json:"subheading"`
	ImageURL    string `json:"imageUrl"`
	ButtonLabel string `json:"buttonLabel"`
	ButtonURL   string `json:"buttonUrl"`
}

type FeatureItem struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type FeatureContent struct {
	Template string        `json:"template"`
	Heading  string        `json:"heading"`
	Items    []FeatureItem `json:"items"`
}

type GalleryImage struct {
	URL     string `json:"url"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
}

type GalleryContent struct {
	Template string         `json:"template"`
	Heading  string         `json:"heading"`
	Images   []GalleryImage `json:"images"`
}

type PricingPlan struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Period      string   `json:"period"`
	Features    []string `json:"features"`
	Highlighted bool     `json:"highlighted"`
}

type PricingContent struct {
	Template string        `json:"template"`
	Heading  string        `json:"heading"`
	Plans    []PricingPlan `json:"plans"`
}

type AccordionItem struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Open  bool   `json:"open"`
}

type AccordionContent struct {
	Template string          `json:"template"`
	Heading  string          `json:"heading"`
	Items    []AccordionItem `json:"items"`
}

type Testimonial struct {
	Quote     string `json:"quote"`
	Author    string `json:"author"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl"`
}

type TestimonialContent struct {
	Template string        `json:"template"`
	Heading  string        `json:"heading"`
	Quotes   []Testimonial `json:"quotes"`
}

type CTAContent struct {
	Template    string `json:"template"`
	Heading     string `json:"heading"`
	Text        string `json:"text"`
	ButtonLabel string `json:"buttonLabel"`
	ButtonURL   string `json:"buttonUrl"`
}

type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type FAQContent struct {
	Template string    `json:"template"`
	Heading  string    `json:"heading"`
	Items    []FAQItem `json:"items"`
}

type ContactContent struct {
	Template string `json:"template"`
	Heading  string `json:"heading"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	ShowMap  bool   `json:"showMap"`
}

type BannerContent struct {
	Template    string `json:"template"`
	Text        string `json:"text"`
	LinkURL     string `json:"linkUrl"`
	Dismissible bool   `json:"dismissible"`
}

func (*HeroContent) SectionType() SectionType        { return SectionTypeHero }
func (*FeatureContent) SectionType() SectionType     { return SectionTypeFeature }
func (*GalleryContent) SectionType() SectionType     { return SectionTypeGallery }
func (*PricingContent) SectionType() SectionType     { return SectionTypePricing }
func (*AccordionContent) SectionType() SectionType   { return SectionTypeAccordion }
func (*TestimonialContent) SectionType() SectionType { return SectionTypeTestimonial }
func (*CTAContent) SectionType() SectionType         { return SectionTypeCTA }
func (*FAQContent) SectionType() SectionType         { return SectionTypeFAQ }
func (*ContactContent) SectionType() SectionType     { return SectionTypeContact }
func (*BannerContent) SectionType() SectionType      { return SectionTypeBanner }

// newContent returns a zero-valued content struct for the given type, or nil
// for an unknown tag. Keep the cases in sync with the SectionType constants.
func newContent(t SectionType) SectionContent {
	switch t {
	case SectionTypeHero:
		return &HeroContent{}
	case SectionTypeFeature:
		return &FeatureContent{}
	case SectionTypeGallery:
		return &GalleryContent{}
	case SectionTypePricing:
		return &PricingContent{}
	case SectionTypeAccordion:
		return &AccordionContent{}
	case SectionTypeTestimonial:
		return &TestimonialContent{}
	case SectionTypeCTA:
		return &CTAContent{}
	case SectionTypeFAQ:
		return &FAQContent{}
	case SectionTypeContact:
		return &ContactContent{}
	case SectionTypeBanner:
		return &BannerContent{}
	}
	return nil
}
