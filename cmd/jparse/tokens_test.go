// Copyright (C) 2025 The jparse authors. All Rights Reserved.

package main

import (
	"strings"
	"testing"

	"jparse"
)

func TestDumpTokens(t *testing.T) {
	const input = `{"a":1}`
	const want = `    1: "{"       at 1:1 [0..1]
    2: string    "a" at 1:2 [1..4]
    3: ":"       at 1:5 [4..5]
    4: integer   1 at 1:6 [5..6]
    5: "}"       at 1:7 [6..7]
    6: eof at 1:8 [7]
`

	var sb strings.Builder
	n, err := dumpTokens(&sb, jparse.NewScanner(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("dumpTokens: %v", err)
	}
	if n != 5 {
		t.Errorf("token count: got %d, want 5", n)
	}
	if got := sb.String(); got != want {
		t.Errorf("dump output:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDumpTokensError(t *testing.T) {
	var sb strings.Builder
	n, err := dumpTokens(&sb, jparse.NewScanner(strings.NewReader(`[1, 02]`)))
	if err == nil {
		t.Fatal("expected an error")
	}
	if n != 3 {
		t.Errorf("token count: got %d, want 3", n)
	}
	lines := strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "error: ") {
		t.Errorf("last line: got %q, want error line", last)
	}
}

func TestDumpTokensCountOnly(t *testing.T) {
	// A nil writer counts tokens without serializing them.
	n, err := dumpTokens(nil, jparse.NewScanner(strings.NewReader(`{"a": [true, null]}`)))
	if err != nil {
		t.Fatalf("dumpTokens: %v", err)
	}
	if n != 9 {
		t.Errorf("token count: got %d, want 9", n)
	}
}

func TestTokensFileName(t *testing.T) {
	tests := []struct {
		path   string
		single bool
		want   string
	}{
		{"input.json", true, "tokens.txt"},
		{"dir/sub/input.json", true, "tokens.txt"},
		{"input.json", false, "input-tokens.txt"},
		{"dir/sub/data.json", false, "data-tokens.txt"},
		{"noext", false, "noext-tokens.txt"},
	}
	for _, test := range tests {
		if got := tokensFileName(test.path, test.single); got != test.want {
			t.Errorf("tokensFileName(%q, %v): got %q, want %q", test.path, test.single, got, test.want)
		}
	}
}
