package vt

import "testing"

func TestHyperlinkIntern(t *testing.T) {
	h := newHyperlinks()

	id := h.intern(";https://example.com")
	if id == 0 {
		t.Fatal("got the zero id for a real uri")
	}
	if got := h.uri(id); got != "https://example.com" {
		t.Errorf("uri: got %q", got)
	}

	// The same body maps to the same id.
	if again := h.intern(";https://example.com"); again != id {
		t.Errorf("re-intern: got %d, wanted %d", again, id)
	}

	// Distinct params make a distinct link even for the same uri.
	other := h.intern("id=x;https://example.com")
	if other == id {
		t.Error("distinct params shared an id")
	}
}

func TestHyperlinkEnd(t *testing.T) {
	h := newHyperlinks()
	if id := h.intern(";"); id != 0 {
		t.Errorf("empty uri: got id %d, wanted 0", id)
	}
	if id := h.intern(""); id != 0 {
		t.Errorf("no separator: got id %d, wanted 0", id)
	}
	if got := h.uri(0); got != "" {
		t.Errorf("zero id resolves to %q", got)
	}
	if got := h.uri(99); got != "" {
		t.Errorf("unknown id resolves to %q", got)
	}
}
