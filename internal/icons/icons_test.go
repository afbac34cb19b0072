package icons

import "testing"

func TestLookup_EveryNameHasGlyph(t *testing.T) {
	for _, name := range Names() {
		if Lookup(name) == "" {
			t.Errorf("icon %q resolves to an empty glyph", name)
		}
		if !Known(name) {
			t.Errorf("enumerated icon %q reported unknown", name)
		}
	}
}

func TestLookup_UnknownNameFallsBack(t *testing.T) {
	if got := Lookup("definitely-not-an-icon"); got != glyphs[Fallback] {
		t.Errorf("unknown icon should resolve to the fallback glyph, got %q", got)
	}
}

func TestNames_DoesNotIncludeFallback(t *testing.T) {
	for _, name := range Names() {
		if name == Fallback {
			t.Error("fallback entry must not appear in the picker enumeration")
		}
	}
}
