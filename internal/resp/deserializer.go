package resp

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
)

// maxBulkStringSize is the largest bulk string accepted, same as the limit used by redis
const maxBulkStringSize = 512 * 1024 * 1024

// readLine reads up to and including CRLF and returns the content without it. A bare \n before
// the \r is a protocol error
func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\r')
	if err != nil {
		return nil, err
	}
	if bytes.IndexByte(line, '\n') != -1 {
		return nil, ErrProtocolError
	}
	next, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if next != '\n' {
		return nil, ErrProtocolError
	}
	return line[:len(line)-1], nil
}

// DeserializeSimpleString should be called after the '+' byte has been processed
func DeserializeSimpleString(r *bufio.Reader) (Value, error) {
	line, err := readLine(r)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: ValueTypeSimpleString, Buffer: line}, nil
}

// DeserializeError should be called after the '-' byte has been processed
func DeserializeError(r *bufio.Reader) (Value, error) {
	line, err := readLine(r)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: ValueTypeSimpleError, Buffer: line}, nil
}

// DeserializeInteger deserializes a signed 64-bit integer. It should be called after ':' has been processed
func DeserializeInteger(r *bufio.Reader) (Value, error) {
	line, err := readLine(r)
	if err != nil {
		return Value{}, err
	}
	if len(line) == 0 {
		return Value{}, ErrProtocolError
	}
	n, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return Value{}, ErrProtocolError
	}
	return Value{Type: ValueTypeInteger, Integer: n}, nil
}

// DeserializeBulkString should be called after the '$' byte has been processed. A length of -1
// is the null bulk string
func DeserializeBulkString(r *bufio.Reader) (Value, error) {
	header, err := DeserializeInteger(r)
	if err != nil {
		return Value{}, err
	}
	length := header.Integer
	if length == -1 {
		return Value{Type: ValueTypeNull}, nil
	}
	if length < 0 {
		return Value{}, ErrProtocolError
	}
	if length > maxBulkStringSize {
		return Value{}, ErrTooLarge
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return Value{}, err
	}
	if err := checkCRLF(r); err != nil {
		return Value{}, err
	}
	return Value{Type: ValueTypeBulkString, Buffer: data}, nil
}

// DeserializeArray should be called after '*' has been processed. Each element is parsed as a RESP value
func DeserializeArray(r *bufio.Reader) (Value, error) {
	header, err := DeserializeInteger(r)
	if err != nil {
		return Value{}, err
	}
	length := header.Integer
	if length == -1 {
		return Value{Type: ValueTypeNull}, nil
	}
	if length < 0 {
		return Value{}, ErrProtocolError
	}

	values := make([]Value, length)
	for i := range values {
		v, err := Deserialize(r)
		if err != nil {
			return Value{}, err
		}
		values[i] = v
	}
	return Value{Type: ValueTypeArray, Array: values}, nil
}

// DeserializeNull should be called after '_' has been processed
func DeserializeNull(r *bufio.Reader) (Value, error) {
	if err := checkCRLF(r); err != nil {
		return Value{}, err
	}
	return Value{Type: ValueTypeNull}, nil
}

// Deserialize reads the type byte and dispatches to the matching function. io.EOF is returned
// unchanged if the reader is exhausted before a value starts
func Deserialize(r *bufio.Reader) (Value, error) {
	typeByte, err := r.ReadByte()
	if err != nil {
		return Value{}, err
	}
	switch typeByte {
	case '+':
		return DeserializeSimpleString(r)
	case '-':
		return DeserializeError(r)
	case ':':
		return DeserializeInteger(r)
	case '$':
		return DeserializeBulkString(r)
	case '*':
		return DeserializeArray(r)
	case '_':
		return DeserializeNull(r)
	}
	return Value{}, ErrUnknownValueType
}

func checkCRLF(r *bufio.Reader) error {
	cr, err := r.ReadByte()
	if err != nil {
		return err
	}
	if cr != '\r' {
		return ErrProtocolError
	}
	lf, err := r.ReadByte()
	if err != nil {
		return err
	}
	if lf != '\n' {
		return ErrProtocolError
	}
	return nil
}
