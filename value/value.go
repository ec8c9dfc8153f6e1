// Package value models the structured data that flows between pipeline
// stages: records, lists, scalars and propagated errors, each tagged with
// the source span it came from.
package value

import (
	"fmt"
	"time"
)

// Span marks the byte range of source text a value originated from.
// It is only used when reporting errors.
type Span struct {
	Start int
	End   int
}

// NewSpan returns the span covering [start, end).
func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// UnknownSpan is used for values that were not parsed from source text.
func UnknownSpan() Span {
	return Span{}
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Value is a closed set of variants. Only the types declared in this
// package implement it.
type Value interface {
	// Type reports the runtime type of the value.
	Type() Type
	// Pos reports where the value came from.
	Pos() Span

	sealed()
}

type Nothing struct {
	Span Span
}

type Bool struct {
	Val  bool
	Span Span
}

type Int struct {
	Val  int64
	Span Span
}

type Float struct {
	Val  float64
	Span Span
}

type String struct {
	Val  string
	Span Span
}

type Binary struct {
	Val  []byte
	Span Span
}

type Date struct {
	Val  time.Time
	Span Span
}

type List struct {
	Vals []Value
	Span Span
}

// Error carries a failure produced further up the pipeline. Stages must
// hand Err back untouched rather than reinterpret it.
type Error struct {
	Err  error
	Span Span
}

func (Nothing) Type() Type { return TypeNothing }
func (Bool) Type() Type    { return TypeBool }
func (Int) Type() Type     { return TypeInt }
func (Float) Type() Type   { return TypeFloat }
func (String) Type() Type  { return TypeString }
func (Binary) Type() Type  { return TypeBinary }
func (Date) Type() Type    { return TypeDate }
func (List) Type() Type    { return TypeList }
func (Record) Type() Type  { return TypeRecord }
func (Error) Type() Type   { return TypeError }

func (v Nothing) Pos() Span { return v.Span }
func (v Bool) Pos() Span    { return v.Span }
func (v Int) Pos() Span     { return v.Span }
func (v Float) Pos() Span   { return v.Span }
func (v String) Pos() Span  { return v.Span }
func (v Binary) Pos() Span  { return v.Span }
func (v Date) Pos() Span    { return v.Span }
func (v List) Pos() Span    { return v.Span }
func (v Record) Pos() Span  { return v.Span }
func (v Error) Pos() Span   { return v.Span }

func (Nothing) sealed() {}
func (Bool) sealed()    {}
func (Int) sealed()     {}
func (Float) sealed()   {}
func (String) sealed()  {}
func (Binary) sealed()  {}
func (Date) sealed()    {}
func (List) sealed()    {}
func (Record) sealed()  {}
func (Error) sealed()   {}
