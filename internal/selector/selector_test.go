package selector

import "testing"

func TestParse_EmptyAndBraces(t *testing.T) {
	for _, input := range []string{"", "{}"} {
		got, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", input, err)
		}
		if len(got) != 0 {
			t.Errorf("Parse(%q) = %v, want empty", input, got)
		}
	}
}

func TestParse_SinglePair(t *testing.T) {
	got, err := Parse(`{foo="bar"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Pair{{Key: "foo", Value: "bar"}}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

func TestParse_MultiplePairs(t *testing.T) {
	got, err := Parse(`{app="gateway", env="prod"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Parse() = %v, want 2 pairs", got)
	}
	if got[0] != (Pair{"app", "gateway"}) || got[1] != (Pair{"env", "prod"}) {
		t.Errorf("Parse() = %v", got)
	}
}

func TestParse_RejectsMalformedInput(t *testing.T) {
	invalid := []string{
		`{foo=bar}`,
		`{=bar}`,
		`{foo=}`,
		`{,baz="qux"}`,
	}
	for _, input := range invalid {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) should have failed", input)
		}
	}
}

func TestParseIntoMap(t *testing.T) {
	got, err := Parse(`{app="gateway"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, err := ParseIntoMap(`{app="gateway"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["app"] != "gateway" || len(got) != 1 {
		t.Errorf("ParseIntoMap() = %v", m)
	}
}
