package input

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gravitational/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caelisco/tourl/value"
)

func TestDecodeJSONRecord(t *testing.T) {
	v, err := Decode(strings.NewReader(`{"mode": "normal", "userid": 31415}`))
	require.NoError(t, err)

	rec, ok := v.(value.Record)
	require.True(t, ok, "expected a record, got %T", v)
	assert.Equal(t, []string{"mode", "userid"}, rec.Cols)
	assert.Equal(t, value.String{Val: "normal", Span: value.NewSpan(9, 17)}, rec.Vals[0])
	assert.Equal(t, value.Int{Val: 31415, Span: value.NewSpan(29, 34)}, rec.Vals[1])
	assert.Equal(t, value.NewSpan(0, 35), rec.Span)
}

func TestDecodeKeepsFieldOrder(t *testing.T) {
	v, err := DecodeBytes([]byte("zeta: 1\nalpha: 2\nmid: 3\n"))
	require.NoError(t, err)

	rec := v.(value.Record)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, rec.Cols)
	assert.Equal(t, 0, rec.Span.Start)
	// the value of "alpha" sits on the second line
	assert.Equal(t, 8+7, rec.Vals[1].Pos().Start)
}

func TestDecodeTable(t *testing.T) {
	v, err := DecodeBytes([]byte(`[{"foo": "1", "bar": "2"}, {"foo": "3", "bar": "4"}]`))
	require.NoError(t, err)

	list, ok := v.(value.List)
	require.True(t, ok)
	require.Len(t, list.Vals, 2)
	for _, row := range list.Vals {
		rec, ok := row.(value.Record)
		require.True(t, ok)
		assert.Equal(t, []string{"foo", "bar"}, rec.Cols)
	}
}

func TestDecodeScalars(t *testing.T) {
	input := strings.Join([]string{
		"s: hello",
		"q: '31415'",
		"i: 42",
		"f: 1.5",
		"b: true",
		"n: null",
		"d: 2022-11-05T10:30:00Z",
		"bin: !!binary aGVsbG8=",
		"l: [1, 2]",
		"r: {x: y}",
	}, "\n")

	v, err := DecodeBytes([]byte(input))
	require.NoError(t, err)
	rec := v.(value.Record)

	types := map[string]value.Type{}
	for i, c := range rec.Cols {
		types[c] = rec.Vals[i].Type()
	}
	assert.Equal(t, map[string]value.Type{
		"s":   value.TypeString,
		"q":   value.TypeString,
		"i":   value.TypeInt,
		"f":   value.TypeFloat,
		"b":   value.TypeBool,
		"n":   value.TypeNothing,
		"d":   value.TypeDate,
		"bin": value.TypeBinary,
		"l":   value.TypeList,
		"r":   value.TypeRecord,
	}, types)

	d, _ := rec.Get("d")
	assert.True(t, d.(value.Date).Val.Equal(time.Date(2022, 11, 5, 10, 30, 0, 0, time.UTC)))

	bin, _ := rec.Get("bin")
	assert.Equal(t, []byte("hello"), bin.(value.Binary).Val)

	q, _ := rec.Get("q")
	assert.Equal(t, "31415", q.(value.String).Val)
}

func TestDecodeMultipleDocuments(t *testing.T) {
	v, err := DecodeBytes([]byte("a: 1\n---\nb: 2\n"))
	require.NoError(t, err)

	list, ok := v.(value.List)
	require.True(t, ok)
	require.Len(t, list.Vals, 2)
	assert.Equal(t, value.TypeRecord, list.Vals[0].Type())
	assert.Equal(t, value.TypeRecord, list.Vals[1].Type())
}

func TestDecodeEmpty(t *testing.T) {
	v, err := DecodeBytes(nil)
	require.NoError(t, err)
	assert.Equal(t, value.TypeNothing, v.Type())
}

func TestDecodeEmptyRecord(t *testing.T) {
	v, err := DecodeBytes([]byte("{}"))
	require.NoError(t, err)

	rec, ok := v.(value.Record)
	require.True(t, ok)
	assert.Equal(t, 0, rec.Len())
	assert.Equal(t, value.NewSpan(0, 2), rec.Span)
}

func TestDecodeErrorValue(t *testing.T) {
	v, err := DecodeBytes([]byte(`[{"$error": "upstream failed"}]`))
	require.NoError(t, err)

	list := v.(value.List)
	require.Len(t, list.Vals, 1)
	ev, ok := list.Vals[0].(value.Error)
	require.True(t, ok)
	assert.Contains(t, ev.Err.Error(), "upstream failed")
}

func TestDecodeInvalid(t *testing.T) {
	_, err := DecodeBytes([]byte(`{"a": `))
	require.Error(t, err)
	assert.True(t, trace.IsBadParameter(err))

	_, err = DecodeBytes([]byte(`{"$error": [1]}`))
	assert.True(t, trace.IsBadParameter(err))

	_, err = DecodeBytes([]byte("? [a, b]\n: c\n"))
	assert.True(t, trace.IsBadParameter(err))
}

func TestDecodeAliases(t *testing.T) {
	v, err := DecodeBytes([]byte("a: &x hello\nb: *x\n"))
	require.NoError(t, err)

	rec := v.(value.Record)
	b, ok := rec.Get("b")
	require.True(t, ok)
	assert.Equal(t, "hello", b.(value.String).Val)
}

func TestDecodeRejectsRecursiveAlias(t *testing.T) {
	for _, in := range []string{
		"a: &x [*x]\n",
		"a: &x {b: *x}\n",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := DecodeBytes([]byte(in))
			require.Error(t, err)
			assert.True(t, trace.IsBadParameter(err))
			assert.Contains(t, err.Error(), "recursive alias")
		})
	}
}

func TestDecodeLimitsAliasExpansion(t *testing.T) {
	lines := []string{"l0: &l0 [x, x, x, x, x, x, x, x, x, x]"}
	for i := 1; i <= 7; i++ {
		prev := fmt.Sprintf("*l%d", i-1)
		items := strings.TrimSuffix(strings.Repeat(prev+", ", 10), ", ")
		lines = append(lines, fmt.Sprintf("l%d: &l%d [%s]", i, i, items))
	}

	_, err := DecodeBytes([]byte(strings.Join(lines, "\n")))
	require.Error(t, err)
	assert.True(t, trace.IsBadParameter(err))
	assert.Contains(t, err.Error(), "expands to more than")
}
