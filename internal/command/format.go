package command

import (
	"fmt"
	"strings"
)

// Format selects how commands are encoded in the output file
type Format int

const (
	// FormatLines is the plain text format consumed by the lab3 store
	FormatLines Format = iota
	// FormatRESP encodes every command as a RESP array (SET, DEL, GET) so the stream can be piped
	// into a redis compatible server
	FormatRESP
)

func (f Format) String() string {
	switch f {
	case FormatLines:
		return "lines"
	case FormatRESP:
		return "resp"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat converts the name of a format (case insensitive) to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "lines", "":
		return FormatLines, nil
	case "resp":
		return FormatRESP, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}
