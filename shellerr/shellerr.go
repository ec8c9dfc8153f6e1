// Package shellerr holds the errors a pipeline stage reports back to the
// user. Each error points at the span of the value that caused it.
package shellerr

import (
	"strings"

	"github.com/caelisco/tourl/value"
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupportedInputShape Kind = "unsupported_input_shape" // stream element of the wrong shape
	KindUnsupportedFieldType  Kind = "unsupported_field_type"  // record field with no string form
	KindConversionFault       Kind = "conversion_fault"        // encoding failed on valid input
)

// Sentinels for errors.Is. Only the kind is compared.
var (
	ErrUnsupportedInputShape = &Error{Kind: KindUnsupportedInputShape}
	ErrUnsupportedFieldType  = &Error{Kind: KindUnsupportedFieldType}
	ErrConversionFault       = &Error{Kind: KindConversionFault}
)

// Error is the structured error returned by pipeline stages.
type Error struct {
	Kind Kind
	// Msg describes what the stage expected.
	Msg string
	// Hint is attached to Span when the error is rendered.
	Hint string
	// Head is the span of the command call.
	Head value.Span
	// Span is the span of the offending value.
	Span value.Span
	// To and From name the target and source types of a failed conversion.
	To   string
	From string
	Help string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	switch e.Kind {
	case KindConversionFault:
		b.WriteString("can't convert ")
		b.WriteString(e.From)
		b.WriteString(" to ")
		b.WriteString(e.To)
	default:
		b.WriteString("unsupported input")
		if e.Msg != "" {
			b.WriteString(": ")
			b.WriteString(e.Msg)
		}
	}

	b.WriteString(" (at ")
	b.WriteString(e.Span.String())
	if e.Hint != "" {
		b.WriteString(", ")
		b.WriteString(e.Hint)
	}
	b.WriteByte(')')

	if e.Help != "" {
		b.WriteString(": ")
		b.WriteString(e.Help)
	}

	return b.String()
}

// Is reports whether target has the same kind as this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// UnsupportedInputShape reports a stream element that is neither a record
// nor a propagated error. span is the element's own span.
func UnsupportedInputShape(msg, hint string, head, span value.Span) *Error {
	return &Error{
		Kind: KindUnsupportedInputShape,
		Msg:  msg,
		Hint: hint,
		Head: head,
		Span: span,
	}
}

// UnsupportedFieldType reports a record whose field cannot become a
// string. span is the record's span.
func UnsupportedFieldType(msg, hint string, head, span value.Span) *Error {
	return &Error{
		Kind: KindUnsupportedFieldType,
		Msg:  msg,
		Hint: hint,
		Head: head,
		Span: span,
	}
}

// CantConvert reports that a value of type from could not be converted to
// to.
func CantConvert(to, from string, span value.Span, help string) *Error {
	return &Error{
		Kind: KindConversionFault,
		To:   to,
		From: from,
		Head: span,
		Span: span,
		Help: help,
	}
}
