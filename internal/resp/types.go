package resp

type ValueType int

const (
	ValueTypeNull ValueType = iota
	ValueTypeSimpleString
	ValueTypeSimpleError
	ValueTypeInteger
	ValueTypeBulkString
	ValueTypeArray
)

// Value is a single RESP value. Only the fields relevant to Type are populated
type Value struct {
	Type   ValueType
	Buffer []byte
	Array  []Value
	// Integer holds the value of an integer, it is also used as the length while parsing aggregates
	Integer int64
}

// BulkStrings builds an array of bulk strings, this is the shape of every client command
func BulkStrings(args ...[]byte) Value {
	values := make([]Value, len(args))
	for i, arg := range args {
		values[i] = Value{Type: ValueTypeBulkString, Buffer: arg}
	}
	return Value{Type: ValueTypeArray, Array: values}
}
