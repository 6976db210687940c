// Copyright (C) 2025 The jparse authors. All Rights Reserved.

package jparse

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"go4.org/mem"

	"jparse/internal/escape"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Integer              // number: integer with no fraction or exponent
	Number               // number with fraction and/or exponent
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null

	// Do not modify the order of these constants without updating the
	// self-delimiting token check below.
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Integer: "integer",
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// A Scanner reads lexical tokens from an input stream.  Each call to Next
// advances the scanner to the next token, or reports an error.  The scanner
// buffers only the current token, so memory use is independent of input size.
type Scanner struct {
	r    *bufio.Reader
	buf  bytes.Buffer // current token
	tbuf [][]byte     // allocation pool
	tok  Token
	err  error

	pos, end int // start and end offsets of current token
	last     int // size in bytes of last-read input rune

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
}

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{r: br}
}

// Next advances s to the next token of the input, or reports an error.
// At the end of the input, Next returns io.EOF.  Lexical errors have concrete
// type [*SyntaxError].
func (s *Scanner) Next() error {
	s.buf.Reset()
	s.err = nil
	s.tok = Invalid
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol

	for {
		ch, err := s.rune()
		if err != nil {
			return s.setErr(err) // io.EOF at a clean end of input
		}

		// Discard whitespace.  A carriage return before a line feed adds to the
		// column of the CR itself, but the LF resets the column, so a "\r\n"
		// pair advances position tracking by a single line break.
		if isSpace(ch) {
			if ch == '\n' {
				s.eline++
				s.ecol = 0
			}
			s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
			continue
		}

		// Handle punctuation.
		if t, ok := selfDelim(ch); ok {
			s.buf.WriteRune(ch)
			s.tok = t
			return nil
		}

		// Handle numbers.
		if isNumStart(ch) {
			return s.scanNumber(ch)
		}
		if ch == '.' {
			return s.failStart(InvalidNumber, "number cannot begin with a decimal point")
		}

		// Handle string values.
		if ch == '"' {
			return s.scanString(ch)
		}

		// Handle constants: true, false, null.  The whole alphanumeric run is
		// consumed before matching, so "true1" is a bad constant rather than a
		// keyword followed by a number.
		var want mem.RO
		switch ch {
		case 't':
			s.tok = True
			want = mem.S("true")
		case 'f':
			s.tok = False
			want = mem.S("false")
		case 'n':
			s.tok = Null
			want = mem.S("null")
		default:
			return s.failHere(UnexpectedCharacter, "unexpected %q", ch)
		}
		if err := s.scanName(ch); err != nil {
			return err
		} else if got := mem.B(s.buf.Bytes()); !got.Equal(want) {
			return s.failStart(UnexpectedCharacter, "unknown constant %q", got.StringCopy())
		}
		return nil // OK, token is already set
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token.  The return value is
// only valid until the next call of Next. The caller must copy the contents of
// the returned slice if it is needed beyond that.
func (s *Scanner) Text() []byte { return s.buf.Bytes() }

// Copy returns a copy of the undecoded text of the current token.
func (s *Scanner) Copy() []byte { return s.copyOf(s.buf.Bytes()) }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol},
	}
}

// Unescape returns the decoded value of the current String token, with the
// quotation marks removed and escape sequences replaced.  It panics if the
// current token is not a String.
func (s *Scanner) Unescape() []byte {
	if s.tok != String {
		panic("token is not a string")
	}
	text := s.buf.Bytes()
	dec, err := escape.Unquote(mem.B(text[1 : len(text)-1]))
	if err != nil {
		panic(err) // unreachable: the scanner validated the escapes
	}
	return dec
}

// Float64 returns the value of the current Integer or Number token as a
// 64-bit floating point value.  Inputs exceeding that precision are rounded.
// It panics if the current token is not a number.
func (s *Scanner) Float64() float64 {
	if s.tok != Integer && s.tok != Number {
		panic("token is not a number")
	}
	v, err := strconv.ParseFloat(s.buf.String(), 64)
	if err != nil {
		panic(err)
	}
	return v
}

// Int64 returns the value of the current Integer token.  It panics if the
// current token is not an Integer, or if its value does not fit in an int64.
func (s *Scanner) Int64() int64 {
	if s.tok != Integer {
		panic("token is not an integer")
	}
	v, err := strconv.ParseInt(s.buf.String(), 10, 64)
	if err != nil {
		panic(err)
	}
	return v
}

func (s *Scanner) scanString(open rune) error {
	s.buf.WriteRune(open)
	for {
		ch, err := s.rune()
		if err == io.EOF {
			return s.failStart(UnterminatedString, "unexpected end of input in string")
		} else if err != nil {
			return s.setErr(err)
		}
		switch {
		case ch == open:
			s.buf.WriteRune(ch)
			s.tok = String
			return nil
		case ch == '\\':
			s.buf.WriteRune(ch)
			if err := s.scanEscape(); err != nil {
				return err
			}
		case ch == '\n' || ch == '\r':
			return s.failStart(UnterminatedString, "unescaped line break in string")
		case ch < ' ':
			return s.failHere(UnexpectedCharacter, "unescaped control %q in string", ch)
		case ch > unicode.MaxRune:
			return s.failHere(UnexpectedCharacter, "invalid rune %q in string", ch)
		default:
			s.buf.WriteRune(ch)
		}
	}
}

// scanEscape consumes the remainder of a \-escape, whose backslash has
// already been consumed.
func (s *Scanner) scanEscape() error {
	ch, err := s.rune()
	if err == io.EOF {
		return s.failStart(UnterminatedString, "unexpected end of input in string")
	} else if err != nil {
		return s.setErr(err)
	}
	switch ch {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		s.buf.WriteRune(ch)
		return nil
	case 'u':
		s.buf.WriteRune(ch)
		return s.scanUnicodeEscape()
	}
	return s.failHere(InvalidEscape, "invalid %q after escape", ch)
}

// scanUnicodeEscape consumes the four hex digits of a \u escape.  A high
// surrogate must be immediately followed by a \u escape holding its low
// counterpart; surrogate halves in any other arrangement are invalid.
func (s *Scanner) scanUnicodeEscape() error {
	v, err := s.readHex4()
	if err != nil {
		return err
	}
	if v < 0xD800 || v > 0xDFFF {
		return nil
	}
	if v >= 0xDC00 {
		return s.failHere(InvalidEscape, `unpaired low surrogate \u%04X`, v)
	}

	ch, err := s.rune()
	if err == io.EOF {
		return s.failStart(UnterminatedString, "unexpected end of input in string")
	} else if err != nil {
		return s.setErr(err)
	} else if ch != '\\' {
		s.unrune()
		return s.failHere(InvalidEscape, `unpaired high surrogate \u%04X`, v)
	}
	s.buf.WriteRune(ch)

	ch, err = s.rune()
	if err == io.EOF {
		return s.failStart(UnterminatedString, "unexpected end of input in string")
	} else if err != nil {
		return s.setErr(err)
	} else if ch != 'u' {
		s.unrune()
		return s.failHere(InvalidEscape, `unpaired high surrogate \u%04X`, v)
	}
	s.buf.WriteRune(ch)

	w, err := s.readHex4()
	if err != nil {
		return err
	}
	if w < 0xDC00 || w > 0xDFFF {
		return s.failHere(InvalidEscape, `invalid low surrogate \u%04X after \u%04X`, w, v)
	}
	return nil
}

func (s *Scanner) scanNumber(start rune) error {
	s.buf.WriteRune(start)

	if start == '-' {
		// If there is a leading sign, we need at least one digit.
		// Otherwise, we already have one in start.
		ch, err := s.require(isDigit, "digit")
		if err != nil {
			return err
		}
		s.buf.WriteRune(ch)
	}

	// Consume the remainder of an integer.
	_, ch, err := s.readWhile(isDigit)
	if err != nil && err != io.EOF {
		return s.setErr(err)
	}

	// Check for extra leading zeroes, which are disallowed by the JSON spec.
	// That is: 0.12 is OK, 01.2 is not.
	if hasExtraLeadingZeroes(s.buf.Bytes()) {
		return s.failStart(InvalidNumber, "extra leading zeroes")
	}
	if err == io.EOF {
		s.tok = Integer
		return nil
	}

	// If a decimal point follows, consume a fractional part.
	var isFloat bool
	if ch == '.' {
		s.buf.WriteRune(ch)
		var nr int
		nr, ch, err = s.readWhile(isDigit)
		if err != nil && err != io.EOF {
			return s.setErr(err)
		} else if nr == 0 {
			return s.failStart(InvalidNumber, "no digits after decimal point")
		}
		isFloat = true
		if err == io.EOF {
			s.tok = Number
			return nil
		}
	}

	// If an exponent follows, consume it.
	if ch != 'E' && ch != 'e' {
		s.unrune()
		if isFloat {
			s.tok = Number
		} else {
			s.tok = Integer
		}
		return nil
	}

	s.buf.WriteRune(ch)
	ch, err = s.require(isExpStart, "sign or digit")
	if err != nil {
		return err
	}
	s.buf.WriteRune(ch)
	nr, _, err := s.readWhile(isDigit)
	if nr == 0 && (ch == '-' || ch == '+') {
		// It's OK to have no digits if the previous rune was not a sign,
		// otherwise we have to have at least one.
		return s.failStart(InvalidNumber, "missing exponent digits")
	} else if err == io.EOF {
		s.tok = Number
		return nil
	} else if err != nil {
		return s.setErr(err)
	}
	s.unrune()
	s.tok = Number
	return nil
}

func (s *Scanner) scanName(first rune) error {
	s.buf.WriteRune(first)
	_, _, err := s.readWhile(isNameRune)
	if err == io.EOF {
		return nil
	} else if err != nil {
		return s.setErr(err)
	}
	s.unrune()
	return nil
}

func (s *Scanner) rune() (rune, error) {
	ch, nb, err := s.r.ReadRune()
	s.last = nb
	s.end += nb
	s.ecol += nb
	return ch, err
}

func (s *Scanner) unrune() {
	s.end -= s.last
	s.ecol -= s.last
	s.last = 0
	s.r.UnreadRune()
}

// require reads a single rune matching f from the input, or reports an
// InvalidNumber error mentioning the desired label.
func (s *Scanner) require(f func(rune) bool, label string) (rune, error) {
	ch, err := s.rune()
	if err == io.EOF {
		return 0, s.failStart(InvalidNumber, "unexpected end of input, want %s", label)
	} else if err != nil {
		return 0, s.setErr(err)
	} else if !f(ch) {
		s.unrune()
		return 0, s.failStart(InvalidNumber, "got %q, want %s", ch, label)
	}
	return ch, nil
}

// readWhile consumes runes matching f from the input until EOF or until a rune
// not matching f is found. The first non-matching rune (if any) is returned.
// It is the caller's responsibility to unread this rune, if desired.
// The int reports the number of runes consumed.
func (s *Scanner) readWhile(f func(rune) bool) (int, rune, error) {
	var nr int
	for {
		ch, err := s.rune()
		if err != nil {
			return nr, 0, err
		} else if !f(ch) {
			return nr, ch, nil
		}
		s.buf.WriteRune(ch)
		nr++
	}
}

// readHex4 reads exactly 4 hexadecimal digits from the input and reports
// their value.
func (s *Scanner) readHex4() (int64, error) {
	var v int64
	for i := 0; i < 4; i++ {
		ch, err := s.rune()
		if err == io.EOF {
			return 0, s.failStart(UnterminatedString, "unexpected end of input in string")
		} else if err != nil {
			return 0, s.setErr(err)
		} else if !isHexDigit(ch) {
			s.unrune()
			return 0, s.failHere(InvalidEscape, "not a hex digit: %q", ch)
		}
		s.buf.WriteRune(ch)
		v = v<<4 | int64(hexValue(ch))
	}
	return v, nil
}

func (s *Scanner) setErr(err error) error {
	s.err = err
	return err
}

// failHere reports an error at the position of the last-read rune.
func (s *Scanner) failHere(kind ErrKind, msg string, args ...any) error {
	return s.fail(kind, s.end-s.last, LineCol{Line: s.eline + 1, Column: s.ecol - s.last}, msg, args)
}

// failStart reports an error at the start position of the current token.
func (s *Scanner) failStart(kind ErrKind, msg string, args ...any) error {
	return s.fail(kind, s.pos, LineCol{Line: s.pline + 1, Column: s.pcol}, msg, args)
}

func (s *Scanner) fail(kind ErrKind, offset int, lc LineCol, msg string, args []any) error {
	return s.setErr(&SyntaxError{
		Kind:     kind,
		Location: lc,
		Offset:   offset,
		Message:  fmt.Sprintf(msg, args...),
	})
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch rune) bool { return ch == '-' || isDigit(ch) }
func isExpStart(ch rune) bool { return ch == '-' || ch == '+' || isDigit(ch) }
func isDigit(ch rune) bool    { return '0' <= ch && ch <= '9' }

func isNameRune(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || isDigit(ch)
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch rune) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	default:
		return int(ch-'A') + 10
	}
}

// hasExtraLeadingZeroes reports whether the representation of an integer in
// buf has redundant leading zeroes, disallowed by the JSON grammar.
//
// OK: 0, 0.1, -1.0, -0.1 are all OK.
// Bad: -01, 01.2, -01.0, 00.1.
func hasExtraLeadingZeroes(buf []byte) bool {
	if buf[0] == '-' {
		buf = buf[1:] // skip leading sign
	}
	if buf[0] == '0' {
		// A leading zero is OK if it's the only digit.
		return len(buf) > 1
	}
	return false
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch rune) (Token, bool) {
	i := strings.IndexRune("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}

func (s *Scanner) copyOf(text []byte) []byte {
	const minBlockSlop = 4
	const smallSizeFraction = 16
	const bufBlockBytes = 16384

	// For values bigger than smallSizeFraction of the block size, don't bother
	// batching, make an outright copy.
	if len(text) >= bufBlockBytes/smallSizeFraction {
		return append([]byte(nil), text...)
	}

	// Look for a block with space enough to hold a copy of text.
	i := 0
	for i < len(s.tbuf) {
		if n := len(s.tbuf[i]) + len(text); n < cap(s.tbuf[i]) {
			// There is room in this block.
			break
		} else if cap(s.tbuf[i])-len(text) < minBlockSlop {
			// There is no room in this block, but it is nearly-enough full.
			// Allocate a fresh block at this location and release the old one.
			// The old block will be retained until all its tokens are released.
			s.tbuf[i] = make([]byte, 0, bufBlockBytes)
			break
		}
		i++
	}
	if i == len(s.tbuf) {
		// No block had room; add a new empty one to the arena.
		s.tbuf = append(s.tbuf, make([]byte, 0, bufBlockBytes))
	}
	p := len(s.tbuf[i])
	s.tbuf[i] = append(s.tbuf[i], text...)
	return s.tbuf[i][p : p+len(text)]
}
