package icons

// ─────────────────────────────────────────────────────────────
// Icon registry — closed name → glyph lookup with a fallback
// ─────────────────────────────────────────────────────────────
//
// Feature items reference icons by name. Instead of resolving names
// dynamically against whatever the asset layer happens to export, the
// registry is a closed table with a defined fallback, the same shape as the
// content schema registry.

// Fallback is returned for any name outside the closed set.
const Fallback = "circle"

// names fixes the enumeration order for pickers.
var names = []string{
	"star",
	"check",
	"arrow-right",
	"mail",
	"phone",
	"map-pin",
	"quote",
	"image",
	"layers",
	"bolt",
}

var glyphs = map[string]string{
	"star":        "★",
	"check":       "✓",
	"arrow-right": "→",
	"mail":        "✉",
	"phone":       "☎",
	"map-pin":     "📍",
	"quote":       "❝",
	"image":       "🖼",
	"layers":      "▤",
	"bolt":        "⚡",
	Fallback:      "●",
}

// Names returns the closed icon enumeration, excluding the fallback.
func Names() []string {
	return append([]string(nil), names...)
}

// Lookup resolves an icon name to its glyph. Unknown names resolve to the
// fallback glyph rather than failing.
func Lookup(name string) string {
	if g, ok := glyphs[name]; ok {
		return g
	}
	return glyphs[Fallback]
}

// Known reports whether name is part of the closed set.
func Known(name string) bool {
	_, ok := glyphs[name]
	return ok
}
