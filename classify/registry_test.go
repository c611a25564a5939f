package classify

import "testing"

func TestRegistryRegisterGet(t *testing.T) {
	reg := NewRegistry()

	if _, ok := reg.Get("missing"); ok {
		t.Fatalf("expected miss for unregistered name")
	}

	reg.Register("always", AlwaysRetry{})
	if c, ok := reg.Get("always"); !ok || c == nil {
		t.Fatalf("expected hit for registered name")
	}

	// names are trimmed on both sides
	reg.Register("  padded  ", AlwaysRetry{})
	if _, ok := reg.Get("padded"); !ok {
		t.Fatalf("expected trimmed registration to be retrievable")
	}
	if _, ok := reg.Get("  always  "); !ok {
		t.Fatalf("expected trimmed lookup to hit")
	}
}

func TestRegistryIgnoresInvalid(t *testing.T) {
	reg := NewRegistry()

	reg.Register("", AlwaysRetry{})
	reg.Register("   ", AlwaysRetry{})
	reg.Register("nilcls", nil)

	if _, ok := reg.Get(""); ok {
		t.Fatalf("empty name should not resolve")
	}
	if _, ok := reg.Get("nilcls"); ok {
		t.Fatalf("nil classifier should not resolve")
	}
}

func TestRegistryNilReceiver(t *testing.T) {
	var reg *Registry
	reg.Register("x", AlwaysRetry{})
	if _, ok := reg.Get("x"); ok {
		t.Fatalf("nil registry should never resolve")
	}
}
