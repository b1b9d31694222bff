package spool

import (
	"io"

	"github.com/dustin/go-humanize"
	"github.com/go-faster/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/krsnat/bro/internal/compress"
	"github.com/krsnat/bro/proto"
)

// WriterOptions configure Writer. Zero value is valid.
type WriterOptions struct {
	Logger *zap.Logger     // defaults to no-op logger
	Method compress.Method // defaults to LZ4
	// BlockBytes is the raw buffer size that cuts a block on Add.
	// Defaults to 64KB.
	BlockBytes int
}

func (o *WriterOptions) setDefaults() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Method == 0 {
		o.Method = compress.LZ4
	}
	if o.BlockBytes == 0 {
		o.BlockBytes = 64 * 1024
	}
}

// Writer appends entries to a spool stream.
//
// Not safe for concurrent use.
type Writer struct {
	w  io.Writer
	lg *zap.Logger

	method     compress.Method
	blockBytes int

	buf        proto.Buffer
	compressor *compress.Writer

	headerDone bool
	stats      Stats
}

// NewWriter returns a Writer emitting the spool stream to w.
func NewWriter(w io.Writer, opt WriterOptions) *Writer {
	opt.setDefaults()
	return &Writer{
		w:          w,
		lg:         opt.Logger,
		method:     opt.Method,
		blockBytes: opt.BlockBytes,
		compressor: compress.NewWriter(),
	}
}

// Add encodes e, cutting a block when the raw buffer passes the
// threshold.
func (w *Writer) Add(e Entry) error {
	e.Encode(&w.buf)
	w.stats.Entries++
	if len(w.buf.Buf) >= w.blockBytes {
		if err := w.Flush(); err != nil {
			return errors.Wrap(err, "flush")
		}
	}
	return nil
}

// writeHeader emits the stream header once.
func (w *Writer) writeHeader() error {
	if w.headerDone {
		return nil
	}
	var b proto.Buffer
	b.PutUInt32(proto.SpoolMagic)
	b.PutUInt8(proto.SpoolVersion)
	if _, err := w.w.Write(b.Buf); err != nil {
		return errors.Wrap(err, "write header")
	}
	w.headerDone = true
	w.stats.Compressed += int64(len(b.Buf))
	return nil
}

// Flush compresses buffered entries into a block and writes it out.
func (w *Writer) Flush() error {
	if err := w.writeHeader(); err != nil {
		return errors.Wrap(err, "header")
	}
	if len(w.buf.Buf) == 0 {
		return nil
	}
	if err := w.compressor.Compress(w.method, w.buf.Buf); err != nil {
		return errors.Wrap(err, "compress")
	}
	if _, err := w.w.Write(w.compressor.Data); err != nil {
		return errors.Wrap(err, "write block")
	}

	w.stats.Blocks++
	w.stats.Raw += int64(len(w.buf.Buf))
	w.stats.Compressed += int64(len(w.compressor.Data))
	if ce := w.lg.Check(zap.DebugLevel, "Block"); ce != nil {
		ce.Write(
			zap.String("raw", humanize.Bytes(uint64(len(w.buf.Buf)))),
			zap.String("compressed", humanize.Bytes(uint64(len(w.compressor.Data)))),
			zap.Int("blocks_total", w.stats.Blocks),
		)
	}
	w.buf.Reset()
	return nil
}

// Stats returns cumulative counters.
func (w *Writer) Stats() Stats { return w.stats }

// Close flushes buffered entries and closes the underlying writer if it
// implements io.Closer.
func (w *Writer) Close() error {
	err := w.Flush()
	if c, ok := w.w.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	return err
}
