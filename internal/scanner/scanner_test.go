package scanner

import (
	"testing"

	"WardrobeScanner/internal/domain"
)

type stubParser struct{ name string }

func (s stubParser) Name() string  { return s.name }
func (s stubParser) Brand() string { return "" }
func (s stubParser) ExtractProducts(domain.RawDocument) ([]domain.Candidate, error) {
	return nil, nil
}

func TestRegistryMatchUsesRegistrationOrder(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(stubParser{name: "amazon"}, "amazon")
	reg.Register(stubParser{name: "zara"}, "zara", " ", "ZARA.COM")

	p, ok := reg.Match("Zara <noreply@ZARA.com>")
	if !ok || p.Name() != "zara" {
		t.Fatalf("expected zara parser, got %v %v", p, ok)
	}

	p, ok = reg.Match("amazon-zara-marketplace@amazon.com")
	if !ok || p.Name() != "amazon" {
		t.Fatalf("expected first registered route to win, got %v", p)
	}

	if _, ok := reg.Match("orders@example.com"); ok {
		t.Fatalf("unexpected match for unknown sender")
	}
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(stubParser{name: "generic"})

	if _, err := reg.Resolve("generic"); err != nil {
		t.Fatalf("resolve generic: %v", err)
	}
	if _, err := reg.Resolve("missing"); err == nil {
		t.Fatalf("expected error for unknown parser")
	}
	if _, ok := reg.Match("anything"); ok {
		t.Fatalf("parser without sender keys must not be routed")
	}
}
