// Copyright (C) 2025 The jparse authors. All Rights Reserved.

package jparse

import "fmt"

// ErrKind classifies the failure modes of scanning and parsing. Every error
// reported by the scanner or the parser carries exactly one kind.
type ErrKind int

// Constants defining the valid ErrKind values.
const (
	NoError              ErrKind = iota // zero value, never reported
	UnexpectedCharacter                 // a character with no place in the grammar
	UnterminatedString                  // input or line ended inside a string
	InvalidEscape                       // malformed \-escape inside a string
	InvalidNumber                       // number deviating from the JSON grammar
	UnexpectedToken                     // valid token in an invalid position
	UnexpectedEndOfInput                // input ended mid-construct
	TrailingData                        // extra tokens after the document value
	NestingTooDeep                      // depth guard exceeded
)

var errKindStr = [...]string{
	NoError:              "no error",
	UnexpectedCharacter:  "unexpected character",
	UnterminatedString:   "unterminated string",
	InvalidEscape:        "invalid escape",
	InvalidNumber:        "invalid number",
	UnexpectedToken:      "unexpected token",
	UnexpectedEndOfInput: "unexpected end of input",
	TrailingData:         "trailing data",
	NestingTooDeep:       "nesting too deep",
}

func (k ErrKind) String() string {
	if k < 0 || int(k) >= len(errKindStr) {
		return "unknown error"
	}
	return errKindStr[k]
}

// SyntaxError is the concrete type of all scan and parse errors. Lexical and
// grammatical violations are both terminal: the first SyntaxError aborts the
// parse, there is no recovery mode.
type SyntaxError struct {
	Kind     ErrKind
	Location LineCol // position where the error was detected
	Offset   int     // byte offset of Location, 0-based
	Message  string
}

// Error satisfies the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("at %v: %s: %s", e.Location, e.Kind, e.Message)
}
