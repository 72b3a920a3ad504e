package domain

import "testing"

func TestTokenSetRatioExactMatch(t *testing.T) {
	if got := TokenSetRatio("chevrolet", "chevrolet"); got != 100 {
		t.Fatalf("identical strings score %d, want 100", got)
	}
}

func TestTokenSetRatioIgnoresExtraChatter(t *testing.T) {
	// Shared tokens dominate: the make buried in a sentence still
	// scores a perfect match against the bare make name.
	got := TokenSetRatio("necesito una bateria para mi chevrolet aveo", "chevrolet")
	if got != 100 {
		t.Fatalf("token-set score = %d, want 100 when the make appears verbatim", got)
	}
}

func TestTokenSetRatioUnrelatedStringsScoreLow(t *testing.T) {
	got := TokenSetRatio("lavadora whirlpool", "chevrolet")
	if got >= 50 {
		t.Fatalf("unrelated strings score %d, want < 50", got)
	}
}

func TestTokenSetRatioIsSymmetric(t *testing.T) {
	a, b := "great wall safe 2006", "great wall"
	if TokenSetRatio(a, b) != TokenSetRatio(b, a) {
		t.Fatal("token-set ratio must be symmetric")
	}
}

func TestBestMakeAcceptsScoreExactlyAtThreshold(t *testing.T) {
	query := "bateria para mi chebrolet aveo"
	candidates := []string{"Chevrolet", "Toyota", "Ford"}

	_, score, _ := BestMake(query, candidates, 0)

	// A candidate scoring exactly at the threshold is accepted.
	best, _, ok := BestMake(query, candidates, score)
	if !ok {
		t.Fatalf("score %d at threshold %d must be accepted", score, score)
	}
	if best != "Chevrolet" {
		t.Fatalf("best = %q, want Chevrolet", best)
	}

	// One point above the achieved score must reject.
	if _, _, ok := BestMake(query, candidates, score+1); ok {
		t.Fatalf("score %d below threshold %d must be rejected", score, score+1)
	}
}

func TestBestMakeTieKeepsFirstCandidate(t *testing.T) {
	// Both candidates score identically against the query; the
	// first-encountered one must win deterministically.
	best, _, ok := BestMake("zzz", []string{"AAA", "BBB"}, 0)
	if !ok {
		t.Fatal("expected a best candidate with threshold 0")
	}
	if best != "AAA" {
		t.Fatalf("tie-break returned %q, want first candidate AAA", best)
	}
}

func TestBestMakeEmptyCandidates(t *testing.T) {
	if _, _, ok := BestMake("chevrolet", nil, 0); ok {
		t.Fatal("no candidates must never produce a match")
	}
}
