// Copyright (C) 2025 The jparse authors. All Rights Reserved.

package ast

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"jparse"
)

// DefaultMaxDepth is the nesting depth limit applied by a Parser unless
// overridden with SetMaxDepth.  The grammar places no bound on nesting, so
// without a guard an adversarial input can exhaust the stack.
const DefaultMaxDepth = 10000

// A Parser is a recursive-descent parser over the token stream of a Scanner.
// It consumes tokens one at a time as productions require them; no token
// sequence is materialized, so memory use is bounded by the nesting depth of
// the input plus the tree under construction.
type Parser struct {
	sc       *jparse.Scanner
	maxDepth int
}

// NewParser constructs a parser that consumes input from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{sc: jparse.NewScanner(r), maxDepth: DefaultMaxDepth}
}

// SetMaxDepth sets the nesting depth limit of p.  Values less than 1 leave
// the limit unchanged.
func (p *Parser) SetMaxDepth(n int) {
	if n > 0 {
		p.maxDepth = n
	}
}

// Parse parses a single JSON document from r with the default options.
func Parse(r io.Reader) (Value, error) { return NewParser(r).Parse() }

// Parse parses the input as one complete JSON document.  The input must
// contain exactly one value: an empty input reports UnexpectedEndOfInput, and
// any token after the first value reports TrailingData.  In case of a syntax
// error, the returned error has type [*jparse.SyntaxError]; the first error
// aborts the parse.
func (p *Parser) Parse() (_ Value, err error) {
	defer p.recoverParseError(&err)

	p.advance()
	v := p.parseValue(0)

	// A document holds exactly one value, so the scanner must now be at the
	// end of its input.
	if err := p.sc.Next(); err == nil {
		p.syntaxError(jparse.TrailingData, "unexpected %v after the document value", p.sc.Token())
	} else if err != io.EOF {
		p.fail(err)
	}
	return v, nil
}

// parseValue consumes a single value of any type.
// Precondition: the scanner is positioned on the value's first token.
func (p *Parser) parseValue(depth int) Value {
	if depth >= p.maxDepth {
		p.syntaxError(jparse.NestingTooDeep, "nesting depth exceeds %d", p.maxDepth)
	}
	switch tok := p.sc.Token(); tok {
	case jparse.LBrace:
		return p.parseObject(depth)
	case jparse.LSquare:
		return p.parseArray(depth)
	case jparse.String:
		return String{datum: p.datum()}
	case jparse.Integer:
		return Integer{datum: p.datum()}
	case jparse.Number:
		return Number{datum: p.datum()}
	case jparse.True, jparse.False:
		return Bool{datum: p.datum(), value: tok == jparse.True}
	case jparse.Null:
		return Null{datum: p.datum()}
	default:
		p.syntaxError(jparse.UnexpectedToken, "%s", tokLabel(nil, tok))
		return nil // unreachable, syntaxError panics
	}
}

// parseObject consumes zero or more key:value members.
// Precondition: token == LBrace.
// Postcondition: token == RBrace.
func (p *Parser) parseObject(depth int) Object {
	obj := Object{pos: p.sc.Span().Pos}
	if tok := p.advance(jparse.RBrace, jparse.String); tok == jparse.RBrace {
		obj.end = p.sc.Span().End
		return obj // end of object
	}
	for {
		// Parse a single member: "key": value
		m := &Member{pos: p.sc.Span().Pos, Key: string(p.sc.Unescape())}
		p.advance(jparse.Colon)
		p.advance()
		m.Value = p.parseValue(depth + 1)
		m.end = m.Value.Span().End
		obj.Members = append(obj.Members, m)

		// Check whether we have more members (",") or are done ("}").
		if tok := p.advance(jparse.RBrace, jparse.Comma); tok == jparse.RBrace {
			obj.end = p.sc.Span().End
			return obj // end of object
		}
		p.advance(jparse.String) // a comma commits to another key; "}" here is a trailing comma
	}
}

// parseArray consumes zero or more comma-separated array values.
// Precondition: token == LSquare.
// Postcondition: token == RSquare.
func (p *Parser) parseArray(depth int) Array {
	arr := Array{pos: p.sc.Span().Pos}
	if tok := p.advance(); tok == jparse.RSquare {
		arr.end = p.sc.Span().End
		return arr // end of array
	}
	for {
		arr.Values = append(arr.Values, p.parseValue(depth+1))

		if tok := p.advance(jparse.RSquare, jparse.Comma); tok == jparse.RSquare {
			arr.end = p.sc.Span().End
			return arr // end of array
		}
		// A comma commits to another element; parseValue reports "]" here as a
		// trailing comma.
		p.advance()
	}
}

// datum captures the position and raw text of the current token.
func (p *Parser) datum() datum {
	span := p.sc.Span()
	return datum{pos: span.Pos, end: span.End, text: p.sc.Copy()}
}

// advance moves the scanner to the next token.  If tokens is nonempty, the
// new token must be one of them or a positioned UnexpectedToken error is
// reported naming the expected alternatives.  End of input reports
// UnexpectedEndOfInput.
func (p *Parser) advance(tokens ...jparse.Token) jparse.Token {
	if err := p.sc.Next(); err == io.EOF {
		p.syntaxError(jparse.UnexpectedEndOfInput, "%s", tokLabel(tokens, "end of input"))
	} else if err != nil {
		p.fail(err)
	}
	tok := p.sc.Token()
	if len(tokens) != 0 && !slices.Contains(tokens, tok) {
		p.syntaxError(jparse.UnexpectedToken, "%s", tokLabel(tokens, tok))
	}
	return tok
}

func (p *Parser) syntaxError(kind jparse.ErrKind, msg string, args ...any) {
	loc := p.sc.Location()
	panic(&jparse.SyntaxError{
		Kind:     kind,
		Location: loc.First,
		Offset:   loc.Pos,
		Message:  fmt.Sprintf(msg, args...),
	})
}

// fail aborts the parse with an error that is not produced by the parser
// itself: a scanner error, already positioned, or an I/O failure.
func (p *Parser) fail(err error) { panic(parseFailure{err}) }

func (p *Parser) recoverParseError(errp *error) {
	switch err := recover().(type) {
	case nil:
	case *jparse.SyntaxError:
		*errp = err
	case parseFailure:
		*errp = err.error
	default:
		panic(err)
	}
}

type parseFailure struct{ error }

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []jparse.Token, got any) string {
	var exp string
	switch len(tokens) {
	case 0:
		exp = "a value"
	case 1:
		exp = tokens[0].String()
	default:
		last := len(tokens) - 1
		ss := make([]string, last)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}
