package resp

import (
	"bufio"
	"strconv"
)

var crlf = []byte("\r\n")

// writeHeader writes the type byte, followed by n and CRLF
func writeHeader(prefix byte, n int, w *bufio.Writer) error {
	if err := w.WriteByte(prefix); err != nil {
		return err
	}
	if _, err := w.WriteString(strconv.Itoa(n)); err != nil {
		return err
	}
	_, err := w.Write(crlf)
	return err
}

// SerializeBulkString writes a length prefixed binary safe string
func SerializeBulkString(buf []byte, w *bufio.Writer) error {
	if err := writeHeader('$', len(buf), w); err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return err
	}
	_, err := w.Write(crlf)
	return err
}

func SerializeArray(values []Value, w *bufio.Writer) error {
	if err := writeHeader('*', len(values), w); err != nil {
		return err
	}
	for _, v := range values {
		if err := Serialize(v, w); err != nil {
			return err
		}
	}
	return nil
}

// Serialize writes the value to w. Only the types a client command is made of (arrays of bulk strings)
// can be written, anything else returns ErrInvalidType. The caller is responsible for flushing w
func Serialize(value Value, w *bufio.Writer) error {
	switch value.Type {
	case ValueTypeBulkString:
		return SerializeBulkString(value.Buffer, w)
	case ValueTypeArray:
		return SerializeArray(value.Array, w)
	}
	return ErrInvalidType
}
