package stringutil

import "testing"

func TestLevenshtein_Symmetric(t *testing.T) {
	pairs := [][2]string{{"test", "tst"}, {"kitten", "sitting"}, {"", "abc"}}
	for _, p := range pairs {
		a := Levenshtein(p[0], p[1])
		b := Levenshtein(p[1], p[0])
		if a != b {
			t.Errorf("Levenshtein(%q,%q)=%d != Levenshtein(%q,%q)=%d", p[0], p[1], a, p[1], p[0], b)
		}
	}
}

func TestLevenshtein_TriangleInequality(t *testing.T) {
	a, b, c := "kitten", "sitting", "sitten"
	ab := Levenshtein(a, b)
	ac := Levenshtein(a, c)
	cb := Levenshtein(c, b)
	if ab > ac+cb {
		t.Errorf("triangle inequality violated: d(a,b)=%d > d(a,c)+d(c,b)=%d", ab, ac+cb)
	}
}

func TestBestSuggestion(t *testing.T) {
	got, ok := BestSuggestion("splsh.png", []string{"splash.png", "other.png"}, SuggestionThreshold(len("splsh.png")))
	if !ok || got != "splash.png" {
		t.Errorf("BestSuggestion = %q, %v, want splash.png, true", got, ok)
	}
}
