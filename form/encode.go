package form

import (
	"errors"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned when a key or value is not UTF-8 text.
var ErrInvalidUTF8 = errors.New("form: key or value is not valid UTF-8")

// Pair is a single key/value entry of a form.
type Pair struct {
	Key   string
	Value string
}

// Pairs is an ordered list of form entries. Keys may repeat.
type Pairs []Pair

// Add appends a key/value pair.
func (p *Pairs) Add(key, value string) {
	*p = append(*p, Pair{Key: key, Value: value})
}

// Encode encodes the pairs in order as application/x-www-form-urlencoded
// text ("mode=normal&userid=31415"). Spaces become "+"; letters, digits
// and "-_.~" are left as is; every other byte is percent-escaped.
func (p Pairs) Encode() (string, error) {
	if len(p) == 0 {
		return "", nil
	}
	var buf strings.Builder
	for _, kv := range p {
		if !utf8.ValidString(kv.Key) || !utf8.ValidString(kv.Value) {
			return "", ErrInvalidUTF8
		}
		if buf.Len() > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(url.QueryEscape(kv.Key))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(kv.Value))
	}
	return buf.String(), nil
}

// Encode encodes pairs in their given order.
func Encode(pairs []Pair) (string, error) {
	return Pairs(pairs).Encode()
}

// EncodeMap encodes a map. Keys are sorted so the output is stable.
func EncodeMap(m map[string]string) (string, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make(Pairs, 0, len(m))
	for _, k := range keys {
		pairs.Add(k, m[k])
	}
	return pairs.Encode()
}
