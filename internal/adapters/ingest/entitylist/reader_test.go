package entitylist

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	perr "wikientities/internal/platform/errors"
	kit "wikientities/internal/platform/testkit"

	"github.com/stretchr/testify/require"
)

var sample = kit.Lines(
	"dogs\t200\t80\tEN:3:1:85%",
	"cats\t120\t60\tEN:1:0:95%",
	"",
	"fish\t10\t10\tEN:3:1:99%",
)

func drain(t *testing.T, rd *Reader) []string {
	t.Helper()
	var out []string
	for {
		line, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, line)
	}
}

func TestOpen_DetectsCodec(t *testing.T) {
	cases := []struct {
		name  string
		file  string
		data  []byte
		codec Compression
	}{
		{name: "gzip", file: "entities.gz", data: kit.Gzip(t, sample), codec: CompressionGzip},
		{name: "zstd", file: "entities.zst", data: kit.Zstd(t, sample), codec: CompressionZstd},
		{name: "plain", file: "entities.tsv", data: []byte(sample), codec: CompressionNone},
		{name: "gzip without suffix", file: "entities", data: kit.Gzip(t, sample), codec: CompressionGzip},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := kit.WriteFile(t, c.file, c.data)
			rd, err := Open(p, CompressionAuto)
			require.NoError(t, err)
			t.Cleanup(func() { _ = rd.Close() })

			require.Equal(t, c.codec, rd.Codec())
			require.Equal(t, p, rd.Name())

			lines := drain(t, rd)
			require.Equal(t, []string{
				"dogs\t200\t80\tEN:3:1:85%",
				"cats\t120\t60\tEN:1:0:95%",
				"",
				"fish\t10\t10\tEN:3:1:99%",
			}, lines)

			n, size := rd.Stats()
			require.EqualValues(t, 4, n)
			require.EqualValues(t, len(sample), size)

			// EOF is sticky
			_, err = rd.Next()
			require.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestOpen_ZstdDecodesOnCallerGoroutine(t *testing.T) {
	p := kit.WriteFile(t, "entities.zst", kit.Zstd(t, strings.Repeat(sample, 2000)))
	before := runtime.NumGoroutine()

	rd, err := Open(p, CompressionAuto)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rd.Close() })

	_, err = rd.Next()
	require.NoError(t, err)
	require.LessOrEqual(t, runtime.NumGoroutine(), before)

	require.Len(t, drain(t, rd), 4*2000-1)
}

func TestOpen_ConcatenatedGzipMembers(t *testing.T) {
	data := append(kit.Gzip(t, "a\t1\t1\tX:1:1:1%\n"), kit.Gzip(t, "b\t2\t2\tY:1:1:1%\n")...)
	rd, err := NewReader(io.NopCloser(bytes.NewReader(data)), CompressionAuto)
	require.NoError(t, err)
	defer func() { _ = rd.Close() }()
	require.Len(t, drain(t, rd), 2)
}

func TestOpen_StripsCarriageReturn(t *testing.T) {
	rd, err := NewReader(io.NopCloser(strings.NewReader("dogs\t200\t80\tEN:3:1:85%\r\n")), CompressionNone)
	require.NoError(t, err)
	require.Equal(t, []string{"dogs\t200\t80\tEN:3:1:85%"}, drain(t, rd))
}

func TestOpen_Stdin(t *testing.T) {
	kit.Swap[io.Reader](t, &stdin, bytes.NewReader(kit.Gzip(t, sample)))
	rd, err := Open("-", CompressionAuto)
	require.NoError(t, err)
	require.Equal(t, "stdin", rd.Name())
	require.Len(t, drain(t, rd), 4)
	require.NoError(t, rd.Close())
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "entities.gz"), CompressionAuto)
	require.Error(t, err)
	require.True(t, perr.IsCode(err, perr.ErrorCodeIO))
	require.ErrorIs(t, err, os.ErrNotExist)
}

type trackingCloser struct {
	io.Reader
	closed bool
}

func (c *trackingCloser) Close() error {
	c.closed = true
	return nil
}

func TestNewReader_BadGzipHeaderClosesSource(t *testing.T) {
	src := &trackingCloser{Reader: strings.NewReader("not gzip at all")}
	_, err := NewReader(src, CompressionGzip)
	require.Error(t, err)
	require.True(t, perr.IsCode(err, perr.ErrorCodeIO))
	require.True(t, src.closed)
}

func TestNewReader_ForcedCodecSkipsSniffing(t *testing.T) {
	// a gzip payload read as plain text is just bytes
	rd, err := NewReader(io.NopCloser(bytes.NewReader(kit.Gzip(t, sample))), CompressionNone)
	require.NoError(t, err)
	require.Equal(t, CompressionNone, rd.Codec())
}

func TestNext_CorruptGzipIsReadError(t *testing.T) {
	data := kit.Gzip(t, strings.Repeat("dogs\t200\t80\tEN:3:1:85%\n", 1000))
	data = data[:len(data)/2]
	rd, err := NewReader(io.NopCloser(bytes.NewReader(data)), CompressionAuto)
	require.NoError(t, err)

	var readErr error
	for {
		_, err := rd.Next()
		if err != nil {
			readErr = err
			break
		}
	}
	require.False(t, errors.Is(readErr, io.EOF))
	require.True(t, perr.IsCode(readErr, perr.ErrorCodeIO))
}

func TestClose_ClosesSource(t *testing.T) {
	src := &trackingCloser{Reader: strings.NewReader(sample)}
	rd, err := NewReader(src, CompressionAuto)
	require.NoError(t, err)
	require.NoError(t, rd.Close())
	require.True(t, src.closed)
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{
		"":      CompressionAuto,
		"auto":  CompressionAuto,
		" GZIP": CompressionGzip,
		"zstd":  CompressionZstd,
		"none":  CompressionNone,
	} {
		got, err := ParseCompression(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseCompression("bzip2")
	require.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
	require.Len(t, Compressions(), 4)
}

func TestTruncateUTF8(t *testing.T) {
	require.Equal(t, "abc", truncateUTF8("abc", 10))
	require.Equal(t, "ab...", truncateUTF8("abc", 2))
	// never split a multi-byte rune
	require.Equal(t, "東...", truncateUTF8("東京", 4))
}
