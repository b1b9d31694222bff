package spool

import (
	"io"

	"github.com/go-faster/errors"

	"github.com/krsnat/bro/internal/compress"
	"github.com/krsnat/bro/proto"
)

// Reader iterates entries of a spool stream, verifying block checksums.
type Reader struct {
	pr *proto.Reader
}

// NewReader validates the stream header of r and returns a Reader over
// its blocks.
func NewReader(r io.Reader) (*Reader, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, errors.Wrap(err, "read header")
	}

	hr := proto.NewReader(&proto.Buffer{Buf: header[:]})
	magic, err := hr.UInt32()
	if err != nil {
		return nil, errors.Wrap(err, "magic")
	}
	if magic != proto.SpoolMagic {
		return nil, errors.Errorf("bad magic 0x%08x", magic)
	}
	v, err := hr.UInt8()
	if err != nil {
		return nil, errors.Wrap(err, "version")
	}
	if v != proto.SpoolVersion {
		return nil, errors.Errorf("unsupported spool version %d", v)
	}

	return &Reader{
		pr: proto.NewReader(compress.NewReader(r)),
	}, nil
}

// Next returns the next entry. io.EOF signals a clean end of stream; any
// other error means truncation or corruption.
func (r *Reader) Next() (Entry, error) {
	var (
		e   Entry
		err error
	)
	if e.Time, err = r.pr.UInt64(); err != nil {
		if errors.Is(err, io.EOF) {
			return Entry{}, io.EOF
		}
		return Entry{}, errors.Wrap(err, "time")
	}
	if e.Orig, err = r.pr.Addr(); err != nil {
		return Entry{}, errors.Wrap(err, "orig")
	}
	if e.Resp, err = r.pr.Addr(); err != nil {
		return Entry{}, errors.Wrap(err, "resp")
	}
	if e.OrigPort, err = r.pr.UInt16(); err != nil {
		return Entry{}, errors.Wrap(err, "orig port")
	}
	if e.RespPort, err = r.pr.UInt16(); err != nil {
		return Entry{}, errors.Wrap(err, "resp port")
	}
	if e.Proto, err = r.pr.UInt8(); err != nil {
		return Entry{}, errors.Wrap(err, "proto")
	}
	if e.Analyzer, err = r.pr.Str(); err != nil {
		return Entry{}, errors.Wrap(err, "analyzer")
	}
	return e, nil
}
