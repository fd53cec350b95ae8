package entitylist

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	perr "wikientities/internal/platform/errors"
	"wikientities/internal/platform/logger"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	// DefaultPath is where the link analysis step leaves its output
	DefaultPath = "entities.gz"

	maxScanTokenSize = 32 * 1024 * 1024
	sampleRawMax     = 2048 // max bytes of the raw sample line to log
)

// Compression selects the input codec
type Compression string

// Supported codecs
const (
	CompressionAuto Compression = "auto"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionNone Compression = "none"
)

// Compressions lists the accepted values, for flag help and env validation
func Compressions() []string {
	return []string{
		string(CompressionAuto),
		string(CompressionGzip),
		string(CompressionZstd),
		string(CompressionNone),
	}
}

// ParseCompression maps a user-supplied name to a Compression; empty means auto
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CompressionAuto, nil
	case CompressionAuto, CompressionGzip, CompressionZstd, CompressionNone:
		return c, nil
	default:
		return "", perr.WithField(perr.InvalidArgf("unknown compression %q", s), "compression")
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// seams
var (
	openFile           = func(path string) (io.ReadCloser, error) { return os.Open(path) }
	stdin    io.Reader = os.Stdin
)

// Reader streams lines from an entity list
type Reader struct {
	name    string
	codec   Compression
	r       io.Closer
	dec     io.Closer
	sc      *bufio.Scanner
	err     error
	lines   int64
	bytes   int64
	sampled bool
}

// Open opens path ("-" for stdin) and prepares a line stream
func Open(path string, c Compression) (*Reader, error) {
	if path == "-" {
		rd, err := NewReader(io.NopCloser(stdin), c)
		if err != nil {
			return nil, err
		}
		rd.name = "stdin"
		return rd, nil
	}
	f, err := openFile(path)
	if err != nil {
		return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeIO, "open %s", path), "input")
	}
	rd, err := NewReader(f, c)
	if err != nil {
		return nil, perr.WithField(err, "input")
	}
	rd.name = path
	return rd, nil
}

// NewReader wraps r. With CompressionAuto the codec is picked from the leading bytes.
// r is closed by Close, or right away if the codec header is bad
func NewReader(r io.ReadCloser, c Compression) (*Reader, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	if c == "" || c == CompressionAuto {
		c = sniff(br)
	}

	var (
		body io.Reader
		dec  io.Closer
	)
	switch c {
	case CompressionGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, closeAfter(r, perr.Wrap(err, perr.ErrorCodeIO, "gzip header"))
		}
		body, dec = gz, gz
	case CompressionZstd:
		zd, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, closeAfter(r, perr.Wrap(err, perr.ErrorCodeIO, "zstd header"))
		}
		body, dec = zd, zstdCloser{zd}
	case CompressionNone:
		body = br
	default:
		return nil, closeAfter(r, perr.InvalidArgf("unknown compression %q", c))
	}

	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 512*1024), maxScanTokenSize)
	return &Reader{codec: c, r: r, dec: dec, sc: sc}, nil
}

// sniff peeks at the stream head without consuming it
func sniff(br *bufio.Reader) Compression {
	head, _ := br.Peek(len(zstdMagic))
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(head, zstdMagic):
		return CompressionZstd
	default:
		return CompressionNone
	}
}

// Next returns the next line without its line terminator; io.EOF when done
func (rd *Reader) Next() (string, error) {
	if rd.err != nil {
		return "", rd.err
	}
	if !rd.sc.Scan() {
		if err := rd.sc.Err(); err != nil {
			rd.err = perr.Wrapf(err, perr.ErrorCodeIO, "read %s at line %d", rd.name, rd.lines+1)
			return "", rd.err
		}
		rd.err = io.EOF
		return "", io.EOF
	}
	line := rd.sc.Text()
	rd.lines++
	rd.bytes += int64(len(line) + 1) // include newline

	if !rd.sampled {
		rd.sampled = true
		logger.Named("entitylist").Debug().
			Str("codec", string(rd.codec)).
			Int("line_bytes", len(line)).
			Str("sample_raw", truncateUTF8(line, sampleRawMax)).
			Msg("entitylist: sample raw line")
	}
	return line, nil
}

// Name is the path the reader was opened from, "stdin", or "" for NewReader
func (rd *Reader) Name() string { return rd.name }

// Codec is the codec in use after sniffing
func (rd *Reader) Codec() Compression { return rd.codec }

// Stats returns the number of lines read and total uncompressed bytes so far
func (rd *Reader) Stats() (lines int64, bytes int64) {
	return rd.lines, rd.bytes
}

// Close closes the decoder and the underlying reader
func (rd *Reader) Close() error {
	var first error
	if rd.dec != nil {
		if err := rd.dec.Close(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
			first = err
		}
	}
	if rd.r != nil {
		if err := rd.r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// zstdCloser adapts the error-less zstd.Decoder.Close
type zstdCloser struct{ d *zstd.Decoder }

func (z zstdCloser) Close() error {
	z.d.Close()
	return nil
}

func closeAfter(c io.Closer, err error) error {
	if cerr := c.Close(); cerr != nil {
		return errors.Join(err, cerr)
	}
	return err
}

// truncateUTF8 returns s truncated to at most max bytes, backing up to a
// UTF-8 boundary if needed, and appending an ellipsis if truncated
func truncateUTF8(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	i := max
	// back up to the start of a rune (0b10xxxxxx indicates continuation byte)
	for i > 0 && (s[i]&0xC0) == 0x80 {
		i--
	}
	if i <= 0 {
		i = max
	}
	return s[:i] + "..."
}
