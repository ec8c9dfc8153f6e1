package value

// Type names the runtime shape of a Value. TypeTable never appears on a
// Value; it exists so command signatures can describe a list of records.
type Type int

const (
	TypeNothing Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeBinary
	TypeDate
	TypeList
	TypeRecord
	TypeTable
	TypeError
)

var typeNames = [...]string{
	TypeNothing: "nothing",
	TypeBool:    "bool",
	TypeInt:     "int",
	TypeFloat:   "float",
	TypeString:  "string",
	TypeBinary:  "binary",
	TypeDate:    "date",
	TypeList:    "list",
	TypeRecord:  "record",
	TypeTable:   "table",
	TypeError:   "error",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}
