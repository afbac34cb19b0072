package layout

// ─────────────────────────────────────────────────────────────
// Layout Resolver — (template, variant, requested) → resolved
// ─────────────────────────────────────────────────────────────

// Default is the ambient sentinel for all four layout parameters. The
// resolver only overrides a parameter the caller left at this value; an
// explicit choice always survives template preference.
const Default = "default"

// Variant selects the rendering context a section is resolved for.
type Variant string

const (
	// VariantDefault is the ordinary full-page rendering context.
	VariantDefault Variant = "default"
	// VariantEmbedded is the constrained context of content placed inside a
	// larger reading flow; width and padding are pulled toward a readable
	// measure regardless of template.
	VariantEmbedded Variant = "embedded"
)

// Widths, paddings, backgrounds and border styles form closed vocabularies;
// rendering maps them to concrete CSS.
const (
	WidthNarrow   = "narrow"
	WidthReadable = "readable"
	WidthNormal   = "normal"
	WidthWide     = "wide"
	WidthFull     = "full"

	PaddingNone     = "none"
	PaddingCompact  = "compact"
	PaddingNormal   = "normal"
	PaddingSpacious = "spacious"

	BackgroundNone   = "none"
	BackgroundLight  = "light"
	BackgroundDark   = "dark"
	BackgroundMuted  = "muted"
	BackgroundAccent = "accent"

	BorderNone    = "none"
	BorderFramed  = "framed"
	BorderDivider = "divider"
)

// TemplateStructured is the technical/structured template. It forces a
// framed border irrespective of the requested value — a deliberate exception
// to the explicit-wins rule, kept out of the generic substitution table.
const TemplateStructured = "structured"

// Params holds the four layout parameters a section is rendered with.
type Params struct {
	Width      string `json:"width"`
	Padding    string `json:"padding"`
	Background string `json:"background"`
	Border     string `json:"border"`
}

// templateDefaults maps each known template tag to the values substituted
// for parameters the caller left at the sentinel. Unknown tags simply miss
// this table and resolve as the identity.
var templateDefaults = map[string]Params{
	"clean":            {Width: WidthNarrow, Padding: PaddingSpacious, Background: BackgroundLight, Border: BorderNone},
	"split":            {Width: WidthWide, Padding: PaddingNormal, Background: BackgroundMuted, Border: BorderNone},
	"showcase":         {Width: WidthFull, Padding: PaddingNone, Background: BackgroundDark, Border: BorderNone},
	"mosaic":           {Width: WidthWide, Padding: PaddingCompact, Background: BackgroundNone, Border: BorderDivider},
	TemplateStructured: {Width: WidthNormal, Padding: PaddingCompact, Background: BackgroundMuted, Border: BorderFramed},
}

// Resolve turns a template tag, a rendering variant and the four explicitly
// requested parameters into the four resolved parameters. It is a pure
// function; the precedence rules are applied top-down:
//
//  1. no template → requested values pass through unchanged
//  2. embedded variant → readable width (unless explicitly set) and compact
//     padding, regardless of template
//  3. template substitution table replaces sentinel values only
//  4. structured template forces a framed border even over an explicit value
func Resolve(template string, variant Variant, req Params) Params {
	defaults, known := templateDefaults[template]

	resolved := req
	if !known {
		// Rule 1: no template, or an unrecognized tag — identity.
		return resolved
	}

	if variant == VariantEmbedded {
		// Rule 2: constrained reading flow. An explicit non-default width
		// still wins; padding is always reduced.
		if resolved.Width == Default {
			resolved.Width = WidthReadable
		}
		resolved.Padding = PaddingCompact
	} else {
		// Rule 3: substitute only what the caller left at the sentinel.
		if resolved.Width == Default {
			resolved.Width = defaults.Width
		}
		if resolved.Padding == Default {
			resolved.Padding = defaults.Padding
		}
	}

	if resolved.Background == Default {
		if variant == VariantEmbedded {
			resolved.Background = BackgroundNone
		} else {
			resolved.Background = defaults.Background
		}
	}

	// Rule 4: border. The structured template always frames its sections;
	// everything else follows the sentinel-substitution rule.
	if template == TemplateStructured {
		resolved.Border = BorderFramed
	} else if resolved.Border == Default {
		resolved.Border = defaults.Border
	}

	return resolved
}

// Requested returns a Params with every field at the ambient sentinel.
func Requested() Params {
	return Params{Width: Default, Padding: Default, Background: Default, Border: Default}
}

// Templates returns the known template tags. Order is not significant.
func Templates() []string {
	tags := make([]string, 0, len(templateDefaults))
	for tag := range templateDefaults {
		tags = append(tags, tag)
	}
	return tags
}
