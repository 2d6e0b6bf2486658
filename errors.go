package kvgen

import "errors"

var (
	ErrInvalidCount     = errors.New("command count must not be negative")
	ErrOutput           = errors.New("output error") // I/O failures while writing the output, fatal for a run
	ErrInvalidKey       = errors.New("invalid key")
	ErrManifestMismatch = errors.New("file does not match its manifest")
)
