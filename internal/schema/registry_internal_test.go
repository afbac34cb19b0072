package schema

import "testing"

// The enum slice and both registry maps must stay in bijection: every
// enumerated type has exactly one entry in each map, and neither map carries
// an entry for a type outside the enum.
func TestRegistryMapsMatchEnumExactly(t *testing.T) {
	if len(defaults) != len(types) {
		t.Errorf("defaults has %d entries, enum has %d", len(defaults), len(types))
	}
	if len(labels) != len(types) {
		t.Errorf("labels has %d entries, enum has %d", len(labels), len(types))
	}

	enum := make(map[string]bool, len(types))
	for _, typ := range types {
		enum[string(typ)] = true
	}
	for typ := range defaults {
		if !enum[string(typ)] {
			t.Errorf("defaults carries orphan type %q", typ)
		}
	}
	for typ := range labels {
		if !enum[string(typ)] {
			t.Errorf("labels carries orphan type %q", typ)
		}
	}
}
