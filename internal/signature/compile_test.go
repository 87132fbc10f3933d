package signature

import "testing"

func TestCompile_ObjcMessageSend(t *testing.T) {
	c, err := Compile(`@[UIImage imageNamed:$1]`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	src := []byte(`UIImage *x = [UIImage imageNamed:@"foo"];`)
	matches := c.FindAll(src)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	runes := []rune(string(src))
	if got := c.Arg(matches[0], runes, "1"); got != `@"foo"` {
		t.Errorf("arg_1 = %q, want @\"foo\"", got)
	}

	nonMatch := []byte(`[UIImage imageNamed:foo bar:1]`)
	if got := c.FindAll(nonMatch); len(got) != 0 {
		t.Errorf("expected no match for extra selector part, got %+v", got)
	}
}

func TestCompile_FunctionCall(t *testing.T) {
	c, err := Compile(`$NSLocalizedString($1,$2)`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	src := []byte(`NSLocalizedString(@"greeting", @"comment")`)
	matches := c.FindAll(src)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	runes := []rune(string(src))
	if got := c.Arg(matches[0], runes, "1"); got != `@"greeting"` {
		t.Errorf("arg_1 = %q", got)
	}
	if got := c.Arg(matches[0], runes, "2"); got != `@"comment"` {
		t.Errorf("arg_2 = %q", got)
	}
}

func TestCompile_RepeatedArgMustMatch(t *testing.T) {
	c, err := Compile(`$Pair($1,$1)`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	ok := []byte(`Pair(foo,foo)`)
	if got := c.FindAll(ok); len(got) != 1 {
		t.Errorf("expected repeated-identical args to match, got %d", len(got))
	}

	mismatched := []byte(`Pair(foo,bar)`)
	if got := c.FindAll(mismatched); len(got) != 0 {
		t.Errorf("expected repeated-different args to be rejected, got %d matches", len(got))
	}
}

func TestCompile_LiteralIdentifier(t *testing.T) {
	c, err := Compile(`UIColor`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got := c.FindAll([]byte(`x = UIColor.redColor`)); len(got) != 1 {
		t.Errorf("expected literal ident to match, got %d", len(got))
	}
}

func TestCompileCache_ReturnsSameCompiled(t *testing.T) {
	cache := NewCompileCache()
	a, err := cache.Compile(`@[UIImage imageNamed:$1]`)
	if err != nil {
		t.Fatal(err)
	}
	b, err := cache.Compile(`@[UIImage imageNamed:$1]`)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("expected cache hit to return the same *Compiled")
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []string{
		`@[UIImage]`,          // no selector parts
		`$Foo(`,               // unterminated call
		`@[$ imageNamed:$1]`,  // $ takes imageNamed as the receiver, leaving no selector part
	}
	for _, src := range cases {
		if _, err := Parse(src); err == nil {
			t.Errorf("Parse(%q): expected error", src)
		}
	}
}
