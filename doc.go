// Copyright (C) 2025 The jparse authors. All Rights Reserved.

// Package jparse implements a strict RFC 8259 JSON lexical scanner and the
// positioned error model shared with the parser in the ast subpackage.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON.  Construct a
// scanner from an io.Reader and call its Next method to iterate over the
// stream. Next advances to the next input token and returns nil, or reports
// an error:
//
//	s := jparse.NewScanner(input)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Next returns io.EOF when the input has been fully consumed. Any other error
// indicates an I/O or lexical error in the input.
//
//	if s.Err() != io.EOF {
//	   log.Fatalf("Scanning failed: %v", s.Err())
//	}
//
// The scanner holds only the current token, pulling characters from the
// reader on demand, so arbitrarily large inputs can be scanned in constant
// memory.  Positions are tracked as 1-based lines and 0-based column byte
// offsets; a "\r\n" pair counts as a single line break.
//
// # Errors
//
// Lexical errors have concrete type [*SyntaxError], carrying an [ErrKind],
// the detection position, and a message.  Errors are terminal: the scanner
// does not resynchronize after a failure.
//
// # Parsing
//
// The ast subpackage consumes a Scanner token by token and builds a value
// tree for a single JSON document; see jparse/ast.
package jparse
