package compress

import (
	"io"

	"github.com/go-faster/city"
	"github.com/go-faster/errors"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Reader decodes compressed blocks.
type Reader struct {
	reader io.Reader
	zstd   *zstd.Decoder
	data   []byte
	pos    int64
	raw    []byte
	header [headerSize]byte
}

// readBlock reads next compressed block into raw and decompresses into data.
func (c *Reader) readBlock() error {
	c.pos = 0

	if _, err := io.ReadFull(c.reader, c.header[:]); err != nil {
		return errors.Wrap(err, "header")
	}

	var (
		compressedSize = int(bin.Uint32(c.header[hCompressed:]))
		rawSize        = int(bin.Uint32(c.header[hRaw:]))
	)
	if compressedSize < 0 || compressedSize > maxDataSize {
		return errors.Errorf("compressed size should be in range [%d, %d], got %d", 0, maxDataSize, compressedSize)
	}
	if rawSize < 0 || rawSize > maxBlockSize {
		return errors.Errorf("raw size should be in range [%d, %d], got %d", 0, maxBlockSize, rawSize)
	}
	c.raw = append(c.raw[:0], c.header[hMethod:]...)
	c.raw = append(c.raw, make([]byte, compressedSize)...)
	if _, err := io.ReadFull(c.reader, c.raw[headerSize-hMethod:]); err != nil {
		return errors.Wrap(err, "read raw")
	}

	hash := city.CH128(c.raw)
	var (
		expectedLow  = bin.Uint64(c.header[0:8])
		expectedHigh = bin.Uint64(c.header[8:16])
	)
	if hash.Low != expectedLow || hash.High != expectedHigh {
		return errors.New("data corruption: checksum mismatch")
	}

	c.data = append(c.data[:0], make([]byte, rawSize)...)
	payload := c.raw[headerSize-hMethod:]

	switch m := Method(c.header[hMethod]); m {
	case LZ4:
		n, err := lz4.UncompressBlock(payload, c.data)
		if err != nil {
			return errors.Wrap(err, "lz4")
		}
		c.data = c.data[:n]
	case ZSTD:
		data, err := c.zstd.DecodeAll(payload, c.data[:0])
		if err != nil {
			return errors.Wrap(err, "zstd")
		}
		c.data = data
	case None:
		c.data = append(c.data[:0], payload...)
	default:
		return errors.Errorf("compression 0x%02x not implemented", byte(m))
	}

	return nil
}

// Read implements io.Reader.
func (c *Reader) Read(p []byte) (n int, err error) {
	if c.pos >= int64(len(c.data)) {
		if err := c.readBlock(); err != nil {
			return 0, errors.Wrap(err, "read next block")
		}
	}
	n = copy(p, c.data[c.pos:])
	c.pos += int64(n)
	return n, nil
}

// NewReader returns new Reader from r.
func NewReader(r io.Reader) *Reader {
	d, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
	)
	if err != nil {
		panic(err)
	}
	return &Reader{
		reader: r,
		zstd:   d,
	}
}
