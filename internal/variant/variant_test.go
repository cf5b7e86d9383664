package variant

import "testing"

func TestComputeStableUnderOrderAndCase(t *testing.T) {
	a := map[string]string{"EnableDebug": "true", "OptimizeForSize": "true"}
	b := map[string]string{"optimizeforsize": "true", "enabledebug": "true"}

	// Keys are sorted and serialized case-insensitively, so a different
	// declaration order and different key case give the same id.
	if Compute(a, true) != Compute(b, true) {
		t.Fatalf("expected equal ids for differently-cased keys")
	}

	c := map[string]string{"EnableDebug": "true", "OptimizeForSize": "true"}
	if got, want := Compute(a, true), Compute(c, true); got != want {
		t.Fatalf("Compute(a) = %v, Compute(c) = %v, want equal", got, want)
	}
}

func TestComputeUseVariantsFalse(t *testing.T) {
	opts := map[string]string{"A": "1"}
	if got := Compute(opts, false); got != 0 {
		t.Fatalf("Compute with useVariants=false = %v, want 0", got)
	}
}

func TestCanonicalizeNoTrailingNewline(t *testing.T) {
	got := Canonicalize(map[string]string{"b": "2", "a": "1"})
	want := "a=1\nb=2"
	if string(got) != want {
		t.Fatalf("Canonicalize() = %q, want %q", got, want)
	}
}
