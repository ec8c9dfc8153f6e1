package value

// Record is an ordered mapping of column names to values. Cols and Vals
// always have the same length and keep insertion order.
type Record struct {
	Cols []string
	Vals []Value
	Span Span
}

// NewRecord returns an empty record at span.
func NewRecord(span Span) Record {
	return Record{Span: span}
}

// Len returns the number of fields in the record.
func (r Record) Len() int {
	return len(r.Cols)
}

// Get returns the value stored under col.
func (r Record) Get(col string) (Value, bool) {
	for i, c := range r.Cols {
		if c == col {
			return r.Vals[i], true
		}
	}
	return nil, false
}

// Insert appends col to the record. An existing column keeps its position
// and has its value replaced.
func (r *Record) Insert(col string, v Value) {
	for i, c := range r.Cols {
		if c == col {
			r.Vals[i] = v
			return
		}
	}
	r.Cols = append(r.Cols, col)
	r.Vals = append(r.Vals, v)
}
