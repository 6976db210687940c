// Copyright (C) 2025 The jparse authors. All Rights Reserved.

package ast_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tailscale/hujson"

	"jparse"
	"jparse/ast"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string // the re-encoded form of the parsed tree
	}{
		// Scalars
		{`null`, `null`},
		{`true`, `true`},
		{`false`, `false`},
		{`0`, `0`},
		{`-12.5e2`, `-12.5e2`},
		{`"hello"`, `"hello"`},
		{`"A"`, `"A"`}, // raw text is preserved in the tree

		// Containers
		{`[]`, `[]`},
		{`{}`, `{}`},
		{`[1, 2, 3]`, `[1,2,3]`},
		{`{"a":1,"b":[true,false,null]}`, `{"a":1,"b":[true,false,null]}`},
		{`[[[[[1]]]]]`, `[[[[[1]]]]]`},
		{`{"a":{"b":{"c":[{}]}}}`, `{"a":{"b":{"c":[{}]}}}`},

		// Duplicate keys are preserved in order.
		{`{"dup":1,"dup":2}`, `{"dup":1,"dup":2}`},

		// Whitespace between tokens is insignificant.
		{" { \"a\" :\t1 ,\r\n \"b\" : [ ] } ", `{"a":1,"b":[]}`},
	}

	for _, test := range tests {
		v, err := ast.Parse(strings.NewReader(test.input))
		if err != nil {
			t.Errorf("Input: %#q: Parse failed: %v", test.input, err)
			continue
		}
		if diff := cmp.Diff(test.want, v.JSON()); diff != "" {
			t.Errorf("Input: %#q: (-want, +got)\n%s", test.input, diff)
		}

		// Re-parsing the same input must give a structurally equal tree.
		w, err := ast.Parse(strings.NewReader(test.input))
		if err != nil {
			t.Errorf("Input: %#q: reparse failed: %v", test.input, err)
		} else if v.JSON() != w.JSON() {
			t.Errorf("Input: %#q: reparse differs: %#q vs %#q", test.input, v.JSON(), w.JSON())
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  jparse.ErrKind
	}{
		// Incomplete documents
		{``, jparse.UnexpectedEndOfInput},
		{`   `, jparse.UnexpectedEndOfInput},
		{`[1,2`, jparse.UnexpectedEndOfInput},
		{`{"a":`, jparse.UnexpectedEndOfInput},
		{`{"a"`, jparse.UnexpectedEndOfInput},
		{`{`, jparse.UnexpectedEndOfInput},

		// Structural violations
		{`{"a":1,}`, jparse.UnexpectedToken},
		{`[1,2,]`, jparse.UnexpectedToken},
		{`{"a"1}`, jparse.UnexpectedToken},
		{`{1:2}`, jparse.UnexpectedToken},
		{`{"a":}`, jparse.UnexpectedToken},
		{`[1 2]`, jparse.UnexpectedToken},
		{`[1,2}`, jparse.UnexpectedToken},
		{`:`, jparse.UnexpectedToken},
		{`,`, jparse.UnexpectedToken},
		{`]`, jparse.UnexpectedToken},

		// A document holds exactly one value.
		{`{} {}`, jparse.TrailingData},
		{`1 2`, jparse.TrailingData},
		{`null false`, jparse.TrailingData},

		// Lexical errors surface unchanged through the parser.
		{`01`, jparse.InvalidNumber},
		{`[01]`, jparse.InvalidNumber},
		{`"abc`, jparse.UnterminatedString},
		{`{"a": "b\q"}`, jparse.InvalidEscape},
		{`tru`, jparse.UnexpectedCharacter},
	}

	for _, test := range tests {
		_, err := ast.Parse(strings.NewReader(test.input))
		var serr *jparse.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Input: %#q: got error %v, want *SyntaxError", test.input, err)
			continue
		}
		if serr.Kind != test.kind {
			t.Errorf("Input: %#q: got kind %v, want %v", test.input, serr.Kind, test.kind)
		}
	}
}

func TestParseErrorPosition(t *testing.T) {
	// The trailing comma makes "}" appear where a key is required.
	_, err := ast.Parse(strings.NewReader(`{"a":1,}`))
	var serr *jparse.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("Parse: got error %v, want *SyntaxError", err)
	}
	if want := (jparse.LineCol{Line: 1, Column: 7}); serr.Location != want {
		t.Errorf("Location: got %v, want %v", serr.Location, want)
	}

	_, err = ast.Parse(strings.NewReader("[1,\n2,\n3 4]"))
	if !errors.As(err, &serr) {
		t.Fatalf("Parse: got error %v, want *SyntaxError", err)
	}
	if want := (jparse.LineCol{Line: 3, Column: 2}); serr.Location != want {
		t.Errorf("Location: got %v, want %v", serr.Location, want)
	}
}

func TestParseStructure(t *testing.T) {
	v, err := ast.Parse(strings.NewReader(`{"a":1,"b":[true,false,null]}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	root, ok := v.(ast.Object)
	if !ok {
		t.Fatalf("Root is %T, not object", v)
	}
	if len(root.Members) != 2 {
		t.Fatalf("Got %d members, want 2", len(root.Members))
	}

	a := root.Find("a")
	if a == nil {
		t.Fatal(`Key "a" not found`)
	}
	if z, ok := a.Value.(ast.Integer); !ok {
		t.Errorf(`Member "a" is %T, not integer`, a.Value)
	} else if z.Float64() != 1 {
		t.Errorf(`Member "a": got %v, want 1`, z.Float64())
	}

	b := root.Find("b")
	if b == nil {
		t.Fatal(`Key "b" not found`)
	}
	lst, ok := b.Value.(ast.Array)
	if !ok {
		t.Fatalf(`Member "b" is %T, not array`, b.Value)
	}
	if len(lst.Values) != 3 {
		t.Fatalf("Got %d values, want 3", len(lst.Values))
	}
	if bv, ok := lst.Values[0].(ast.Bool); !ok || !bv.Value() {
		t.Errorf("Value 0: got %v, want true", lst.Values[0])
	}
	if bv, ok := lst.Values[1].(ast.Bool); !ok || bv.Value() {
		t.Errorf("Value 1: got %v, want false", lst.Values[1])
	}
	if _, ok := lst.Values[2].(ast.Null); !ok {
		t.Errorf("Value 2: got %T, want null", lst.Values[2])
	}
}

func TestMaxDepth(t *testing.T) {
	const depth = 100
	input := strings.Repeat("[", depth) + strings.Repeat("]", depth)

	// Within the default limit this parses cleanly.
	if _, err := ast.Parse(strings.NewReader(input)); err != nil {
		t.Errorf("Parse failed: %v", err)
	}

	// A tighter limit reports NestingTooDeep instead of crashing.
	p := ast.NewParser(strings.NewReader(input))
	p.SetMaxDepth(depth / 2)
	_, err := p.Parse()
	var serr *jparse.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("Parse: got error %v, want *SyntaxError", err)
	}
	if serr.Kind != jparse.NestingTooDeep {
		t.Errorf("Got kind %v, want %v", serr.Kind, jparse.NestingTooDeep)
	}
}

func TestDeepNestingGuard(t *testing.T) {
	// Well past the default limit; the guard must fire before the stack does.
	const depth = 200000
	input := strings.Repeat("[", depth)

	_, err := ast.Parse(strings.NewReader(input))
	var serr *jparse.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("Parse: got error %v, want *SyntaxError", err)
	}
	if serr.Kind != jparse.NestingTooDeep {
		t.Errorf("Got kind %v, want %v", serr.Kind, jparse.NestingTooDeep)
	}
}

// jparse accepts plain RFC 8259 only.  hujson parses a superset (comments and
// trailing commas), which makes it a convenient reference: everything we
// accept must be hujson-valid, while the extensions must stay rejected here.
func TestStrictSubsetOfHuJSON(t *testing.T) {
	accept := []string{
		`{"a":1}`, `[1,2,3]`, `"x"`, `null`, `{"a":{"b":[]}}`,
	}
	for _, input := range accept {
		if _, err := ast.Parse(strings.NewReader(input)); err != nil {
			t.Errorf("Parse %#q failed: %v", input, err)
		}
		if _, err := hujson.Parse([]byte(input)); err != nil {
			t.Errorf("hujson.Parse %#q failed: %v", input, err)
		}
	}

	reject := []string{
		`{"a":1,}`, `[1,2,]`, "// c\n{}", `{/*c*/}`,
	}
	for _, input := range reject {
		if _, err := hujson.Parse([]byte(input)); err != nil {
			t.Errorf("hujson.Parse %#q failed: %v", input, err)
		}
		if _, err := ast.Parse(strings.NewReader(input)); err == nil {
			t.Errorf("Parse %#q unexpectedly succeeded", input)
		}
	}
}
