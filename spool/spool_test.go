package spool

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/krsnat/bro/internal/compress"
	"github.com/krsnat/bro/proto"
)

func testEntries(n int) []Entry {
	out := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Entry{
			Time:     uint64(1600000000000000000 + i),
			Orig:     proto.AddrFrom4([4]byte{10, 0, 0, byte(i)}),
			Resp:     proto.MustParseAddr("2001:db8::1"),
			OrigPort: uint16(30000 + i),
			RespPort: 69,
			Proto:    17,
			Analyzer: "TFTP",
		})
	}
	return out
}

func TestSpoolRoundTrip(t *testing.T) {
	for _, method := range compress.MethodValues() {
		method := method
		t.Run(method.String(), func(t *testing.T) {
			var out bytes.Buffer
			w := NewWriter(&out, WriterOptions{
				Logger: zaptest.NewLogger(t),
				Method: method,
			})
			entries := testEntries(100)
			for _, e := range entries {
				require.NoError(t, w.Add(e))
			}
			require.NoError(t, w.Close())

			stats := w.Stats()
			require.Equal(t, len(entries), stats.Entries)
			require.Equal(t, 1, stats.Blocks)
			require.Equal(t, int64(out.Len()), stats.Compressed)

			r, err := NewReader(&out)
			require.NoError(t, err)
			for _, want := range entries {
				got, err := r.Next()
				require.NoError(t, err)
				require.Equal(t, want, got)
			}
			_, err = r.Next()
			require.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestSpoolMultiBlock(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out, WriterOptions{
		Logger: zaptest.NewLogger(t),
		// Small threshold so every few entries cut a block.
		BlockBytes: 128,
	})
	entries := testEntries(50)
	for _, e := range entries {
		require.NoError(t, w.Add(e))
	}
	require.NoError(t, w.Close())
	require.Greater(t, w.Stats().Blocks, 1)

	r, err := NewReader(&out)
	require.NoError(t, err)
	var got []Entry
	for {
		e, err := r.Next()
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
		got = append(got, e)
	}
	require.Equal(t, entries, got)
}

func TestSpoolEmpty(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out, WriterOptions{})
	require.NoError(t, w.Close())

	// Header only, no blocks.
	require.Equal(t, 5, out.Len())
	require.Equal(t, 0, w.Stats().Blocks)

	r, err := NewReader(&out)
	require.NoError(t, err)
	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestSpoolBadHeader(t *testing.T) {
	t.Run("Magic", func(t *testing.T) {
		_, err := NewReader(bytes.NewReader([]byte{1, 2, 3, 4, 5}))
		require.Error(t, err)
	})
	t.Run("Version", func(t *testing.T) {
		var b proto.Buffer
		b.PutUInt32(proto.SpoolMagic)
		b.PutUInt8(proto.SpoolVersion + 1)
		_, err := NewReader(bytes.NewReader(b.Buf))
		require.Error(t, err)
	})
	t.Run("Short", func(t *testing.T) {
		_, err := NewReader(bytes.NewReader([]byte{1, 2}))
		require.Error(t, err)
	})
}

func TestSpoolCorrupted(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out, WriterOptions{})
	for _, e := range testEntries(10) {
		require.NoError(t, w.Add(e))
	}
	require.NoError(t, w.Close())

	// Flip a payload bit past the stream header and the block header so
	// the checksum no longer matches.
	data := out.Bytes()
	data[len(data)-1] ^= 0x01

	r, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	for {
		if _, err = r.Next(); err != nil {
			break
		}
	}
	require.Error(t, err)
	require.NotErrorIs(t, err, io.EOF)
}

func TestSpoolCloserPropagation(t *testing.T) {
	w := NewWriter(badCloser{}, WriterOptions{})
	require.NoError(t, w.Add(testEntries(1)[0]))
	require.Error(t, w.Close())
}

type badCloser struct{}

func (badCloser) Write(p []byte) (int, error) { return len(p), nil }

func (badCloser) Close() error { return io.ErrClosedPipe }
