package xcconfig

import "testing"

func TestExpand_Basic(t *testing.T) {
	vals := map[string]string{"BAR": "b"}
	lookup := func(name string) (string, bool) { v, ok := vals[name]; return v, ok }
	got := Expand("a$(BAR)c", lookup, nil)
	if got != "abc" {
		t.Errorf("got %q, want abc", got)
	}
}

func TestExpand_Cycle(t *testing.T) {
	vals := map[string]string{"FOO": "a$(BAR)c", "BAR": "$(FOO)"}
	lookup := func(name string) (string, bool) { v, ok := vals[name]; return v, ok }
	var cycled []string
	got, ok := ResolveVar("FOO", lookup, func(name string) { cycled = append(cycled, name) })
	if !ok {
		t.Fatal("expected FOO to resolve")
	}
	if got != "ac" {
		t.Errorf("got %q, want ac", got)
	}
	if len(cycled) == 0 {
		t.Error("expected a cycle warning")
	}
}
