package domain

import "testing"

func TestCanonicalNormalizesKnownAliases(t *testing.T) {
	aliases := DefaultAliases()

	cases := map[string]string{
		"chevy":        "Chevrolet",
		"CHEVY":        "Chevrolet",
		"  mercedez  ": "Mercedes-Benz",
		"vw":           "Volkswagen",
		"alfa romeo":   "ALFA",
		"bimmer":       "BMW",
	}

	for input, want := range cases {
		if got := aliases.Canonical(input); got != want {
			t.Fatalf("Canonical(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCanonicalIsIdempotentForCanonicalNames(t *testing.T) {
	aliases := DefaultAliases()

	// Normalizing an already-canonical make must return it unchanged.
	for _, canonical := range []string{"Mercedes-Benz", "Toyota", "Great Wall"} {
		if got := aliases.Canonical(canonical); got != canonical {
			t.Fatalf("Canonical(%q) = %q, want unchanged", canonical, got)
		}
	}
}

func TestCanonicalReturnsUnknownInputUnchanged(t *testing.T) {
	aliases := DefaultAliases()
	if got := aliases.Canonical("zastava"); got != "zastava" {
		t.Fatalf("Canonical(zastava) = %q, want zastava", got)
	}
}

func TestScanQueryPrefersLongestAlias(t *testing.T) {
	aliases := DefaultAliases()

	canonical, matched, ok := aliases.ScanQuery("bateria para Alfa Romeo 156")
	if !ok {
		t.Fatal("expected an alias match")
	}
	if canonical != "ALFA" {
		t.Fatalf("canonical = %q, want ALFA", canonical)
	}
	if matched != "alfa romeo" {
		t.Fatalf("matched = %q, want the longer alias 'alfa romeo'", matched)
	}
}

func TestScanQueryRequiresWordBoundaries(t *testing.T) {
	aliases := AliasTable{"mb": "Mercedes-Benz"}

	if _, _, ok := aliases.ScanQuery("lamborghini"); ok {
		t.Fatal("'mb' inside 'lamborghini' must not match")
	}
	if _, _, ok := aliases.ScanQuery("un mb clasico"); !ok {
		t.Fatal("standalone 'mb' should match")
	}
}

func TestScanQueryNoMatch(t *testing.T) {
	aliases := DefaultAliases()
	if _, _, ok := aliases.ScanQuery("bateria para toyota corolla"); ok {
		t.Fatal("expected no alias match for a query without aliases")
	}
}

func TestStripTokensRemovesMatchedMakeWords(t *testing.T) {
	got := StripTokens("bateria Alfa Romeo 156 del 2003", "alfa romeo", "ALFA")
	want := "bateria 156 del 2003"
	if got != want {
		t.Fatalf("StripTokens = %q, want %q", got, want)
	}
}

func TestStripTokensHandlesEmptyRemainder(t *testing.T) {
	if got := StripTokens("chevy", "chevy", "Chevrolet"); got != "" {
		t.Fatalf("StripTokens = %q, want empty", got)
	}
}
