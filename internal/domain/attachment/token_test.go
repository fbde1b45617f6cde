package attachment

import (
	"strings"
	"testing"
)

func TestNewID_Format(t *testing.T) {
	id, err := NewID(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(id) != 6 {
		t.Errorf("expected 6 characters, got %d (%q)", len(id), id)
	}
	for _, r := range id {
		if !strings.ContainsRune(idAlphabet, r) {
			t.Errorf("character %q outside the alphabet", r)
		}
	}
}

func TestNewID_AvoidsExisting(t *testing.T) {
	existing := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		id, err := NewID(existing)
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if _, taken := existing[id]; taken {
			t.Fatalf("draw %d returned an already-used id %q", i, id)
		}
		existing[id] = struct{}{}
	}
}
