package tourl

import (
	"iter"

	"github.com/caelisco/tourl/options"
	"github.com/caelisco/tourl/value"
)

// Signature maps an accepted input type to the type produced.
type Signature struct {
	Input  value.Type
	Output value.Type
}

// Example is a documented invocation. Input is the pipeline value fed to
// the command and Result what it must produce.
type Example struct {
	Description string
	Input       value.Value
	Result      value.Value
}

// ToURL is the "to url" pipeline stage.
type ToURL struct {
	// Options are applied to every run. They may be nil.
	Options *options.Option
}

func (ToURL) Name() string {
	return "to url"
}

func (ToURL) Usage() string {
	return "Convert record or table into URL-encoded text"
}

func (ToURL) Signatures() []Signature {
	return []Signature{
		{Input: value.TypeRecord, Output: value.TypeString},
		{Input: value.TypeTable, Output: value.TypeString},
	}
}

func (ToURL) Examples() []Example {
	record := value.NewRecord(value.UnknownSpan())
	record.Insert("mode", value.String{Val: "normal"})
	record.Insert("userid", value.Int{Val: 31415})

	row := value.NewRecord(value.UnknownSpan())
	row.Insert("foo", value.String{Val: "1"})
	row.Insert("bar", value.String{Val: "2"})

	return []Example{
		{
			Description: "Outputs a URL string representing the contents of this record",
			Input:       record,
			Result:      value.String{Val: "mode=normal&userid=31415"},
		},
		{
			Description: "Outputs a URL string representing the contents of this 1-row table",
			Input:       value.List{Vals: []value.Value{row}},
			Result:      value.String{Val: "foo=1&bar=2"},
		},
	}
}

// Run encodes input and returns the result as a stream of one string.
func (c ToURL) Run(head value.Span, input iter.Seq[value.Value]) (iter.Seq[value.Value], error) {
	out, err := Encode(input, head, c.Options)
	if err != nil {
		return nil, err
	}
	return value.Stream(out), nil
}
