// Copyright (C) 2025 The jparse authors. All Rights Reserved.

// Package ast defines a syntax tree for JSON documents, and a parser that
// constructs syntax trees from JSON source.
package ast

import (
	"strconv"
	"strings"

	"go4.org/mem"

	"jparse"
	"jparse/internal/escape"
)

// A Value is an arbitrary JSON value.
type Value interface {
	Span() jparse.Span

	// JSON renders the value as JSON text.
	JSON() string
}

// A Datum is a Value with a text representation.
type Datum interface {
	Value
	Text() string
}

func newSpan(pos, end int) jparse.Span { return jparse.Span{Pos: pos, End: end} }

// An Object is a collection of key-value members.  Members appear in source
// order; duplicate keys are preserved, the grammar does not forbid them.
type Object struct {
	pos, end int

	Members []*Member
}

// Span satisfies the Value interface.
func (o Object) Span() jparse.Span { return newSpan(o.pos, o.end) }

// JSON satisfies the Value interface.
func (o Object) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o.Members {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.Write(escape.Quote(mem.S(m.Key)))
		sb.WriteString(`":`)
		sb.WriteString(m.Value.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Find returns the last member of o with the given key, or nil.  When a key
// is duplicated the last occurrence wins, so Find agrees with a lookup map
// built by inserting the members in order.
func (o Object) Find(key string) *Member {
	for i := len(o.Members) - 1; i >= 0; i-- {
		if o.Members[i].Key == key {
			return o.Members[i]
		}
	}
	return nil
}

// A Member is a single key-value pair belonging to an Object.  The key is
// stored in decoded (unescaped) form.
type Member struct {
	pos, end int

	Key   string
	Value Value
}

// Span satisfies the Value interface.
func (m Member) Span() jparse.Span { return newSpan(m.pos, m.end) }

// JSON satisfies the Value interface.
func (m Member) JSON() string {
	return `"` + string(escape.Quote(mem.S(m.Key))) + `":` + m.Value.JSON()
}

// An Array is a sequence of values.
type Array struct {
	pos, end int

	Values []Value
}

// Span satisfies the Value interface.
func (a Array) Span() jparse.Span { return newSpan(a.pos, a.end) }

// JSON satisfies the Value interface.
func (a Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a.Values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

type datum struct {
	pos, end int
	text     []byte
}

// Span satisfies the Value interface.
func (d datum) Span() jparse.Span { return newSpan(d.pos, d.end) }

// Text satisfies the Datum interface.
func (d datum) Text() string { return string(d.text) }

// JSON satisfies the Value interface.
func (d datum) JSON() string { return string(d.text) }

// An Integer is a number with no fraction or exponent.
type Integer struct{ datum }

// Int64 reports the value of z as an int64.  It panics if the value does not
// fit in an int64.
func (z Integer) Int64() int64 {
	v, err := strconv.ParseInt(string(z.text), 10, 64)
	if err != nil {
		panic(err)
	}
	return v
}

// Float64 reports the value of z as a float64.  Values beyond 2**53 lose
// precision in that representation.
func (z Integer) Float64() float64 {
	v, err := strconv.ParseFloat(string(z.text), 64)
	if err != nil {
		panic(err)
	}
	return v
}

// A Number is a floating-point value.
type Number struct{ datum }

// Float64 reports the value of n as a float64.
func (n Number) Float64() float64 {
	v, err := strconv.ParseFloat(string(n.text), 64)
	if err != nil {
		panic(err)
	}
	return v
}

// A Bool is a Boolean constant, true or false.
type Bool struct {
	datum
	value bool
}

// Value reports the truth value of b.
func (b Bool) Value() bool { return b.value }

// A String is a string value.  Its text retains the source form, quotation
// marks and escapes included.
type String struct{ datum }

// Unescape reports the decoded value of s.
func (s String) Unescape() string {
	text := s.text[1 : len(s.text)-1] // trim the quotation marks
	dec, err := escape.Unquote(mem.B(text))
	if err != nil {
		panic(err) // unreachable: the scanner validated the escapes
	}
	return string(dec)
}

// Null represents the null constant.
type Null struct{ datum }
