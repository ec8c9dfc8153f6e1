// Package tourl converts records and tables into URL-encoded query strings.
package tourl

import (
	"iter"

	"github.com/caelisco/tourl/form"
	"github.com/caelisco/tourl/options"
	"github.com/caelisco/tourl/shellerr"
	"github.com/caelisco/tourl/value"
)

const (
	hintOrigin   = "value originates from here"
	msgRecord    = "Expected a record with string values"
	msgTable     = "Expected a table from pipeline"
	conversionTo = "URL"
)

// Encode consumes input until it is exhausted or an element fails and
// returns the query string of the last element, tagged with head.
//
// Records are flattened in field order. An error value in the stream is
// returned as is. Any other element is rejected with an
// UnsupportedInputShape error pointing at that element. The stream is not
// pulled past the first failure.
//
// Each element replaces the previous result, so for a table with several
// rows only the final row's encoding is returned.
func Encode(input iter.Seq[value.Value], head value.Span, opts ...*options.Option) (value.String, error) {
	opt := options.New(opts...)

	var attrs []any
	if id := opt.GenerateIdentifier(); id != "" {
		attrs = append(attrs, "id", id)
	}

	var out string
	n := 0
	for v := range input {
		s, err := encodeValue(v, head)
		if err != nil {
			opt.LogVerbose("to url failed", append(attrs, "element", n, "type", typeName(v), "err", err)...)
			return value.String{}, err
		}
		out = s
		n++
	}

	opt.LogVerbose("to url", append(attrs, "elements", n, "length", len(out))...)
	return value.String{Val: out, Span: head}, nil
}

func typeName(v value.Value) string {
	if v == nil {
		return "nothing"
	}
	return v.Type().String()
}

func encodeValue(v value.Value, head value.Span) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", shellerr.UnsupportedInputShape(msgTable, hintOrigin, head, head)
	case value.Record:
		return encodeRecord(v, head)
	case value.Error:
		return "", v.Err
	}
	return "", shellerr.UnsupportedInputShape(msgTable, hintOrigin, head, v.Pos())
}

func encodeRecord(rec value.Record, head value.Span) (string, error) {
	pairs := make(form.Pairs, 0, rec.Len())
	for i, col := range rec.Cols {
		s, err := value.AsString(rec.Vals[i])
		if err != nil {
			return "", shellerr.UnsupportedFieldType(msgRecord, hintOrigin, head, rec.Span)
		}
		pairs.Add(col, s)
	}

	encoded, err := pairs.Encode()
	if err != nil {
		return "", shellerr.CantConvert(conversionTo, rec.Type().String(), head, "")
	}
	return encoded, nil
}
