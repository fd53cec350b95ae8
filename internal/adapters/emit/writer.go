// Package emit writes accepted phrases as `phrase<TAB>label` lines
package emit

import (
	"bufio"
	"errors"
	"io"
	"os"
	"syscall"

	perr "wikientities/internal/platform/errors"
)

// stdout is a seam for tests
var stdout io.Writer = os.Stdout

// Writer is a buffered line sink. It is not safe for concurrent use
type Writer struct {
	name  string
	bw    *bufio.Writer
	c     io.Closer
	lines int64
}

// NewWriter buffers w. Close flushes but does not close w
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriterSize(w, 64*1024)}
}

// Create opens path for writing, truncating it; "-" or "" means stdout
func Create(path string) (*Writer, error) {
	if path == "" || path == "-" {
		w := NewWriter(stdout)
		w.name = "stdout"
		return w, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeIO, "create %s", path), "output")
	}
	w := NewWriter(f)
	w.name = path
	w.c = f
	return w, nil
}

// Write emits one `phrase<TAB>label<LF>` line
func (w *Writer) Write(phrase, label string) error {
	if _, err := w.bw.WriteString(phrase); err != nil {
		return w.wrap(err)
	}
	if err := w.bw.WriteByte('\t'); err != nil {
		return w.wrap(err)
	}
	if _, err := w.bw.WriteString(label); err != nil {
		return w.wrap(err)
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return w.wrap(err)
	}
	w.lines++
	return nil
}

// Flush pushes buffered lines to the destination
func (w *Writer) Flush() error {
	return w.wrap(w.bw.Flush())
}

// Lines is the number of lines written so far
func (w *Writer) Lines() int64 { return w.lines }

// Name is the destination path or "stdout"
func (w *Writer) Name() string { return w.name }

// Close flushes and closes the destination file, if Create opened one
func (w *Writer) Close() error {
	err := w.Flush()
	if w.c != nil {
		if cerr := w.c.Close(); cerr != nil && err == nil {
			err = perr.Wrapf(cerr, perr.ErrorCodeIO, "close %s", w.name)
		}
	}
	return err
}

func (w *Writer) wrap(err error) error {
	if err == nil {
		return nil
	}
	return perr.Wrapf(err, perr.ErrorCodeIO, "write %s", w.name)
}

// IsBrokenPipe reports whether an error is a broken pipe / closed pipe.
// Downstream consumers like `head` close early; that is not a failure
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
