package stringutil

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		seps      string
		escape    bool
		pair      string
		want      []string
	}{
		{"simple", "a,b,c", ",", false, "", []string{"a", "b", "c"}},
		{"escaped separator kept literal", `a\,b,c`, ",", true, "", []string{"a,b", "c"}},
		{"balanced pair protects separator", "a,(b,c),d", ",", false, "()", []string{"a", "(b,c)", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text, tt.seps, tt.escape, tt.pair)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplitByPair(t *testing.T) {
	got := SplitByPair("prefix-[a,b]-suffix", "[]", false, true)
	want := []string{"prefix-", "a,b", "-suffix"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitByPair = %q, want %q", got, want)
	}
}

func TestSplitQuotedWhitespace(t *testing.T) {
	got := SplitQuotedWhitespace(`a "b\"" c`)
	want := []string{"a", `b"`, "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitQuotedWhitespace = %q, want %q", got, want)
	}
}
