package command

import "errors"

var ErrUnknownFormat = errors.New("unknown output format")

// ErrMalformedLine is returned by the scanners when the input does not follow the command format,
// it's wrapped with the location of the problem
var ErrMalformedLine = errors.New("malformed command")

var ErrUnknownKind = errors.New("unknown command kind")
