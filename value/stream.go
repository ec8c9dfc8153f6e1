package value

import "iter"

// Stream yields vals in order.
func Stream(vals ...Value) iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for _, v := range vals {
			if !yield(v) {
				return
			}
		}
	}
}

// Iterate turns a whole pipeline input into a stream of elements. A list
// is flattened into its items, so a table arrives as one record at a time;
// any other value is a stream of one.
func Iterate(v Value) iter.Seq[Value] {
	if l, ok := v.(List); ok {
		return Stream(l.Vals...)
	}
	return Stream(v)
}
