package value

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/gravitational/trace"
)

// dateLayout renders dates as RFC 3339 with millisecond precision, using
// "Z" for UTC.
const dateLayout = "2006-01-02T15:04:05.000Z07:00"

// AsString returns the string form of a scalar value. Strings, integers,
// floats, dates and UTF-8 binary data convert; every other variant is
// rejected with a bad parameter error.
func AsString(v Value) (string, error) {
	switch v := v.(type) {
	case String:
		return v.Val, nil
	case Int:
		return strconv.FormatInt(v.Val, 10), nil
	case Float:
		return formatFloat(v.Val), nil
	case Binary:
		if !utf8.Valid(v.Val) {
			return "", trace.BadParameter("binary value at %v is not valid UTF-8", v.Span)
		}
		return string(v.Val), nil
	case Date:
		return v.Val.Format(dateLayout), nil
	case nil:
		return "", trace.BadParameter("cannot convert a missing value to string")
	default:
		return "", trace.BadParameter("cannot convert %v to string", v.Type())
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
