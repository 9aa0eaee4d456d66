package ident

import (
	"strings"
	"testing"
)

func TestCreateID(t *testing.T) {
	id := CreateID("tip")
	if !strings.HasPrefix(id, "tip-") {
		t.Fatalf("expected prefix tip-, got %s", id)
	}
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %d (%s)", len(parts), id)
	}

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		next := CreateID("tip")
		if seen[next] {
			t.Fatalf("duplicate id generated: %s", next)
		}
		seen[next] = true
	}
}

func TestBuildQRToken(t *testing.T) {
	token := BuildQRToken()
	if !strings.HasPrefix(token, "motoboy-qr-") {
		t.Fatalf("expected prefix motoboy-qr-, got %s", token)
	}
	if token == BuildQRToken() {
		t.Fatal("tokens must not repeat")
	}
}
