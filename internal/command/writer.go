package command

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/ananthvk/kvgen/internal/resp"
	"github.com/spf13/afero"
)

const writerBufferSize = 1 << 20 // 1 MB

var (
	verbSet = []byte("SET")
	verbDel = []byte("DEL")
	verbGet = []byte("GET")
)

// countingWriter counts the bytes that reached the underlying writer
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Writer encodes commands to an output file. Writes are buffered, call Close (or Flush) to make sure
// everything reaches the file. There are no locks in this implementation, so it's unsafe to call Writer
// methods concurrently
type Writer struct {
	file    afero.File
	counter *countingWriter
	buf     *bufio.Writer
	format  Format
	// scratch is reused between writes to encode a single line
	scratch []byte
}

// NewWriter opens (or creates) the file at path, truncating any existing content, and returns a Writer
// that encodes commands to it in the given format
func NewWriter(fs afero.Fs, path string, format Format) (*Writer, error) {
	file, err := fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
	if err != nil {
		return nil, err
	}
	w := NewStreamWriter(file, format)
	w.file = file
	return w, nil
}

// NewStreamWriter returns a Writer that encodes commands to out. Close flushes the buffer but does not close out
func NewStreamWriter(out io.Writer, format Format) *Writer {
	counter := &countingWriter{w: out}
	return &Writer{
		counter: counter,
		buf:     bufio.NewWriterSize(counter, writerBufferSize),
		format:  format,
		scratch: make([]byte, 0, MaxKeyLength+32),
	}
}

// Write encodes the command and returns the offset at which it starts, measured from the start of the output
func (w *Writer) Write(c Command) (int64, error) {
	start := w.Offset()
	switch w.format {
	case FormatLines:
		if c.Kind >= NumKinds {
			return start, ErrUnknownKind
		}
		w.scratch = AppendLine(w.scratch[:0], c)
		_, err := w.buf.Write(w.scratch)
		return start, err
	case FormatRESP:
		return start, w.writeRESP(c)
	}
	return start, ErrUnknownFormat
}

func (w *Writer) writeRESP(c Command) error {
	var v resp.Value
	switch c.Kind {
	case KindInsert:
		w.scratch = strconv.AppendUint(w.scratch[:0], c.Value, 10)
		v = resp.BulkStrings(verbSet, []byte(c.Key), w.scratch)
	case KindDelete:
		v = resp.BulkStrings(verbDel, []byte(c.Key))
	case KindLookup:
		v = resp.BulkStrings(verbGet, []byte(c.Key))
	default:
		return ErrUnknownKind
	}
	return resp.Serialize(v, w.buf)
}

// Offset returns the number of bytes written so far, including bytes still held in the buffer
func (w *Writer) Offset() int64 {
	return w.counter.n + int64(w.buf.Buffered())
}

func (w *Writer) Format() Format {
	return w.format
}

// Flush writes any buffered data to the underlying writer
func (w *Writer) Flush() error {
	return w.buf.Flush()
}

// Sync flushes the buffer and calls sync() on the file, if the writer owns one
func (w *Writer) Sync() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if w.file != nil {
		return w.file.Sync()
	}
	return nil
}

// Close flushes pending data and closes the underlying file, if the writer owns one
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		if w.file != nil {
			w.file.Close()
		}
		return err
	}
	if w.file == nil {
		return nil
	}
	return w.file.Close()
}
