package scan_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tfskema/tfskema/internal/scan"
)

func TestMatchingClose_Basic(t *testing.T) {
	cases := []struct {
		in   string
		open int
		want int
	}{
		{"(a)", 0, 2},
		{"list(object({x = string}))", 4, 25},
		{"{a = (1), b = [2]}", 0, 17},
		{`("close ) inside")`, 0, 17},
		{`('also ) here')`, 0, 14},
		{`("escaped \" quote )")`, 0, 21},
	}
	for _, c := range cases {
		got, err := scan.MatchingClose(c.in, c.open)
		if err != nil {
			t.Fatalf("MatchingClose(%q, %d) err: %v", c.in, c.open, err)
		}
		if got != c.want {
			t.Fatalf("MatchingClose(%q, %d) = %d, want %d", c.in, c.open, got, c.want)
		}
	}
}

func TestMatchingClose_Unbalanced(t *testing.T) {
	for _, in := range []string{"(abc", "object({a = string", `("never ends`} {
		_, err := scan.MatchingClose(in, indexOfOpen(in))
		if !errors.Is(err, scan.ErrUnbalanced) {
			t.Fatalf("expected ErrUnbalanced for %q, got %v", in, err)
		}
	}
}

func indexOfOpen(s string) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '{', '[':
			return i
		}
	}
	return -1
}

func TestMatchingClose_NotAnOpener(t *testing.T) {
	if _, err := scan.MatchingClose("abc", 0); !errors.Is(err, scan.ErrUnbalanced) {
		t.Fatalf("expected ErrUnbalanced for non-opener, got %v", err)
	}
	if _, err := scan.MatchingClose("abc", 10); !errors.Is(err, scan.ErrUnbalanced) {
		t.Fatalf("expected ErrUnbalanced for out of range index, got %v", err)
	}
}

func TestSplitTop(t *testing.T) {
	cases := []struct {
		in   string
		seps string
		want []string
	}{
		{"a(b,c),d", ",", []string{"a(b,c)", "d"}},
		{"a,b,c", ",", []string{"a", "b", "c"}},
		{`{x = "a,b"},c`, ",", []string{`{x = "a,b"}`, "c"}},
		{"[1,2],{3},(4,5)", ",", []string{"[1,2]", "{3}", "(4,5)"}},
		{"a = string\nb = number", "\n", []string{"a = string", "b = number"}},
		{"a = string,\nb = number,", ",\n", []string{"a = string", "b = number"}},
		{"trailing,,", ",", []string{"trailing"}},
		{"   ", ",", nil},
	}
	for _, c := range cases {
		got := scan.SplitTop(c.in, c.seps)
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("SplitTop(%q, %q) = %#v, want %#v", c.in, c.seps, got, c.want)
		}
	}
}

func TestValueEnd_MultilineValue(t *testing.T) {
	body := "object({\n  a = string\n})\ndescription = \"next\""
	isField := func(rest string) bool { return rest[0] == 'd' }
	end := scan.ValueEnd(body, isField)
	if got := body[:end]; got != "object({\n  a = string\n})" {
		t.Fatalf("unexpected value: %q", got)
	}
}

func TestValueEnd_NewlineInsideValueKept(t *testing.T) {
	// The depth-0 newline is followed by text that does not start a field, so
	// it stays part of the value.
	body := "[\"a\",\n\"b\"]\n  continuation\nnext = 1"
	isField := func(rest string) bool { return rest[0] == 'n' }
	end := scan.ValueEnd(body, isField)
	if got := body[:end]; got != "[\"a\",\n\"b\"]\n  continuation" {
		t.Fatalf("unexpected value: %q", got)
	}
}

func TestTopLevelIndex(t *testing.T) {
	body := "instance_type = string\ntype = object({type = number})\ndefault = 1"
	got := scan.TopLevelIndex(body, "type", 0)
	if got != 23 {
		t.Fatalf("TopLevelIndex = %d, want 23 (skipping instance_type)", got)
	}
	// nested occurrence is not top level
	if next := scan.TopLevelIndex(body, "type", got+1); next != -1 {
		t.Fatalf("expected no further top-level match, got %d", next)
	}
	if scan.TopLevelIndex(`"type = x"`, "type", 0) != -1 {
		t.Fatalf("quoted occurrence must not match")
	}
}

func TestBalanced(t *testing.T) {
	if !scan.Balanced(`object({a = optional(string, "x")})`) {
		t.Fatalf("expected balanced")
	}
	for _, in := range []string{"object({a = string", ")(", `"open`} {
		if scan.Balanced(in) {
			t.Fatalf("expected unbalanced for %q", in)
		}
	}
}
