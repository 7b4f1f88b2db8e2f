package security

import (
	"strings"
	"testing"
)

func TestPlainEncoderIsIdentity(t *testing.T) {
	enc := NewPasswordEncoder("")

	if got := enc.Encode("p1"); got != "p1" {
		t.Fatalf("got %q, want %q", got, "p1")
	}
}

func TestPepperedEncoderIsDeterministic(t *testing.T) {
	enc := NewPasswordEncoder("pepper")

	a := enc.Encode("p1")
	b := enc.Encode("p1")

	if a != b {
		t.Fatalf("expected deterministic output, got %q and %q", a, b)
	}
	if !strings.HasPrefix(a, pepperedPrefix) {
		t.Fatalf("expected %q prefix, got %q", pepperedPrefix, a)
	}
	if a == enc.Encode("p2") {
		t.Fatalf("different passwords must not collide")
	}
	if a == NewPasswordEncoder("other").Encode("p1") {
		t.Fatalf("different peppers must produce different values")
	}
}
