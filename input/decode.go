// Package input decodes JSON or YAML text into pipeline values. Field
// order of mappings is preserved and every value carries the byte span it
// was read from.
package input

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gravitational/trace"
	"gopkg.in/yaml.v3"

	"github.com/caelisco/tourl/value"
)

// ErrorKey marks a mapping that stands for an error raised upstream:
// {"$error": "message"} decodes to a value.Error.
const ErrorKey = "$error"

// maxValues bounds the number of values a document may expand to through
// aliases.
const maxValues = 1 << 20

// Decode reads all of r and decodes it.
func Decode(r io.Reader) (value.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, trace.Wrap(err, "reading input")
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes data. Empty input is Nothing, a single document is
// its value and several documents become a list.
func DecodeBytes(data []byte) (value.Value, error) {
	d := &decoder{lines: lineStarts(data), active: map[*yaml.Node]bool{}}
	whole := value.NewSpan(0, len(data))

	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []value.Value
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, trace.BadParameter("decoding input: %v", err)
		}
		v, err := d.convert(&node)
		if err != nil {
			return nil, trace.Wrap(err)
		}
		docs = append(docs, v)
	}

	switch len(docs) {
	case 0:
		return value.Nothing{Span: whole}, nil
	case 1:
		return docs[0], nil
	}
	return value.List{Vals: docs, Span: whole}, nil
}

type decoder struct {
	lines []int
	// active holds the anchors being expanded on the current path.
	active map[*yaml.Node]bool
	values int
}

func (d *decoder) convert(n *yaml.Node) (value.Value, error) {
	d.values++
	if d.values > maxValues {
		return nil, trace.BadParameter("input expands to more than %d values", maxValues)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Nothing{Span: d.span(n, 0)}, nil
		}
		return d.convert(n.Content[0])
	case yaml.AliasNode:
		return d.alias(n)
	case yaml.MappingNode:
		return d.mapping(n)
	case yaml.SequenceNode:
		return d.sequence(n)
	case yaml.ScalarNode:
		return d.scalar(n)
	}
	return nil, trace.BadParameter("unsupported node kind %v at line %d", n.Kind, n.Line)
}

func (d *decoder) alias(n *yaml.Node) (value.Value, error) {
	if n.Alias == nil {
		return nil, trace.BadParameter("unknown alias %q at line %d", n.Value, n.Line)
	}
	if d.active[n.Alias] {
		return nil, trace.BadParameter("recursive alias %q at line %d", n.Value, n.Line)
	}
	d.active[n.Alias] = true
	defer delete(d.active, n.Alias)
	return d.convert(n.Alias)
}

func (d *decoder) mapping(n *yaml.Node) (value.Value, error) {
	rec := value.NewRecord(value.Span{})
	end := d.offset(n)

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, trace.BadParameter("mapping keys must be scalars (line %d)", k.Line)
		}
		val, err := d.convert(v)
		if err != nil {
			return nil, trace.Wrap(err)
		}
		rec.Insert(k.Value, val)
		end = max(end, val.Pos().End)
	}

	rec.Span = value.NewSpan(d.offset(n), d.closeFlow(n, end))

	if rec.Len() == 1 && rec.Cols[0] == ErrorKey {
		msg, err := value.AsString(rec.Vals[0])
		if err != nil {
			return nil, trace.BadParameter("%s must be a string (line %d)", ErrorKey, n.Line)
		}
		return value.Error{Err: trace.Errorf("%s", msg), Span: rec.Span}, nil
	}
	return rec, nil
}

func (d *decoder) sequence(n *yaml.Node) (value.Value, error) {
	list := value.List{}
	end := d.offset(n)

	for _, c := range n.Content {
		v, err := d.convert(c)
		if err != nil {
			return nil, trace.Wrap(err)
		}
		list.Vals = append(list.Vals, v)
		end = max(end, v.Pos().End)
	}

	list.Span = value.NewSpan(d.offset(n), d.closeFlow(n, end))
	return list, nil
}

func (d *decoder) scalar(n *yaml.Node) (value.Value, error) {
	width := len(n.Value)
	if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		width += 2
	}
	span := d.span(n, width)

	switch n.ShortTag() {
	case "!!str":
		return value.String{Val: n.Value, Span: span}, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, trace.BadParameter("invalid integer %q at line %d", n.Value, n.Line)
		}
		return value.Int{Val: i, Span: span}, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, trace.BadParameter("invalid float %q at line %d", n.Value, n.Line)
		}
		return value.Float{Val: f, Span: span}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, trace.BadParameter("invalid bool %q at line %d", n.Value, n.Line)
		}
		return value.Bool{Val: b, Span: span}, nil
	case "!!null":
		return value.Nothing{Span: span}, nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, trace.BadParameter("invalid timestamp %q at line %d", n.Value, n.Line)
		}
		return value.Date{Val: t, Span: span}, nil
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return nil, trace.BadParameter("invalid binary data at line %d", n.Line)
		}
		return value.Binary{Val: b, Span: span}, nil
	}
	// Unknown local tags keep their text.
	return value.String{Val: n.Value, Span: span}, nil
}

func (d *decoder) span(n *yaml.Node, width int) value.Span {
	start := d.offset(n)
	return value.NewSpan(start, start+width)
}

// closeFlow accounts for the closing bracket of a flow collection.
func (d *decoder) closeFlow(n *yaml.Node, end int) int {
	if n.Style&yaml.FlowStyle != 0 {
		if len(n.Content) == 0 {
			return end + 2
		}
		return end + 1
	}
	return end
}

// offset converts the 1-based line and column of n into a byte offset.
func (d *decoder) offset(n *yaml.Node) int {
	if n.Line <= 0 || n.Line > len(d.lines) {
		return 0
	}
	return d.lines[n.Line-1] + max(n.Column-1, 0)
}

func lineStarts(data []byte) []int {
	starts := []int{0}
	for i, b := range data {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
