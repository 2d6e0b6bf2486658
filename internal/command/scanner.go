package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ananthvk/kvgen/internal/resp"
	"github.com/spf13/afero"
)

const readerBufferSize = 1 << 20 // 1 MB

// Reader is implemented by the scanners of every format
type Reader interface {
	// Scan returns the next command, or io.EOF once the input is exhausted
	Scan() (Command, error)
	Close() error
}

// Open opens the file at path and returns a Reader for the given format
func Open(fs afero.Fs, path string, format Format) (Reader, error) {
	file, err := fs.OpenFile(path, os.O_RDONLY, 0666)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatLines:
		s := NewScanner(file)
		s.closer = file
		return s, nil
	case FormatRESP:
		s := NewRESPScanner(file)
		s.closer = file
		return s, nil
	}
	file.Close()
	return nil, ErrUnknownFormat
}

// Scanner sequentially reads commands in the line format.
//
// Since lookups are written without a newline, a physical line has the shape
// <lookup keys><insert or delete>\n, and only the last chunk of the input may lack the newline.
// Lookup keys that ran together can't be told apart, so they are returned as a single lookup whose key
// is the concatenation. Empty lookups leave no trace in the output and are never returned
type Scanner struct {
	reader  *bufio.Reader
	closer  io.Closer
	line    int
	pending []Command
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		reader:  bufio.NewReaderSize(r, readerBufferSize),
		pending: make([]Command, 0, 2),
	}
}

func (s *Scanner) Scan() (Command, error) {
	for len(s.pending) == 0 {
		if err := s.readLine(); err != nil {
			return Command{}, err
		}
	}
	c := s.pending[0]
	s.pending = s.pending[1:]
	return c, nil
}

// Line returns the number of the physical line that produced the last command
func (s *Scanner) Line() int {
	return s.line
}

func (s *Scanner) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// readLine parses the next physical line and queues the commands in it
func (s *Scanner) readLine() error {
	text, err := s.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if text == "" {
		return io.EOF
	}
	s.line++
	s.pending = s.pending[:0]
	terminated := strings.HasSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\n")

	i := strings.IndexAny(text, "+-")
	if i == -1 {
		if terminated {
			return s.malformed("newline after a lookup")
		}
		if !ValidKey(text) {
			return s.malformed("invalid key in lookup")
		}
		s.pending = append(s.pending, Lookup(text))
		return nil
	}
	if !terminated {
		return s.malformed("missing newline")
	}

	lookups, op := text[:i], text[i:]
	if !ValidKey(lookups) {
		return s.malformed("invalid key in lookup")
	}
	if lookups != "" {
		s.pending = append(s.pending, Lookup(lookups))
	}

	c, err := parseOperation(op)
	if err != nil {
		return s.malformed(err.Error())
	}
	s.pending = append(s.pending, c)
	return nil
}

// parseOperation parses "+ <key> <value>" or "- <key>"
func parseOperation(op string) (Command, error) {
	if len(op) < 2 || op[1] != ' ' {
		return Command{}, errors.New("expected space after operation marker")
	}
	body := op[2:]
	if op[0] == '-' {
		if !ValidKey(body) {
			return Command{}, errors.New("invalid key in delete")
		}
		return Delete(body), nil
	}

	key, value, found := strings.Cut(body, " ")
	if !found {
		return Command{}, errors.New("missing value in insert")
	}
	if !ValidKey(key) {
		return Command{}, errors.New("invalid key in insert")
	}
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return Command{}, fmt.Errorf("invalid value %q in insert", value)
	}
	return Insert(key, v), nil
}

func (s *Scanner) malformed(reason string) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformedLine, s.line, reason)
}

// RESPScanner reads commands that were written in FormatRESP
type RESPScanner struct {
	reader *bufio.Reader
	closer io.Closer
	count  int
}

func NewRESPScanner(r io.Reader) *RESPScanner {
	return &RESPScanner{
		reader: bufio.NewReaderSize(r, readerBufferSize),
	}
}

func (s *RESPScanner) Scan() (Command, error) {
	if _, err := s.reader.Peek(1); err != nil {
		return Command{}, err
	}
	v, err := resp.Deserialize(s.reader)
	if err != nil {
		// the input ended (or broke) in the middle of a value
		return Command{}, fmt.Errorf("%w: command %d: %w", ErrMalformedLine, s.count+1, err)
	}
	s.count++
	c, err := fromRESP(v)
	if err != nil {
		return Command{}, fmt.Errorf("%w: command %d: %s", ErrMalformedLine, s.count, err)
	}
	return c, nil
}

func (s *RESPScanner) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func fromRESP(v resp.Value) (Command, error) {
	if v.Type != resp.ValueTypeArray || len(v.Array) == 0 {
		return Command{}, errors.New("expected a non empty array")
	}
	for _, arg := range v.Array {
		if arg.Type != resp.ValueTypeBulkString {
			return Command{}, errors.New("expected bulk string arguments")
		}
	}
	verb := strings.ToUpper(string(v.Array[0].Buffer))
	args := v.Array[1:]
	switch {
	case verb == "SET" && len(args) == 2:
		n, err := strconv.ParseUint(string(args[1].Buffer), 10, 64)
		if err != nil {
			return Command{}, fmt.Errorf("invalid value %q", args[1].Buffer)
		}
		return Insert(string(args[0].Buffer), n), nil
	case verb == "DEL" && len(args) == 1:
		return Delete(string(args[0].Buffer)), nil
	case verb == "GET" && len(args) == 1:
		return Lookup(string(args[0].Buffer)), nil
	}
	return Command{}, fmt.Errorf("unsupported command %s with %d arguments", verb, len(args))
}
