package proto

import (
	"bufio"
	"encoding/binary"
	"io"
	"unicode/utf8"

	"github.com/go-faster/errors"
)

// Reader implements bro spool binary decoding from buffered reader.
type Reader struct {
	s *bufio.Reader
	b *Buffer
}

// UVarInt reads uint64 from internal reader.
func (r *Reader) UVarInt() (uint64, error) {
	n, err := binary.ReadUvarint(r.s)
	if err != nil {
		return 0, errors.Wrap(err, "read")
	}
	return n, nil
}

// Int decodes uvarint as int.
func (r *Reader) Int() (int, error) {
	n, err := r.UVarInt()
	if err != nil {
		return 0, errors.Wrap(err, "uvarint")
	}
	return int(n), nil
}

// StrRaw decodes string to internal buffer and returns it directly.
//
// Do not retain returned slice.
func (r *Reader) StrRaw() ([]byte, error) {
	n, err := r.Int()
	if err != nil {
		return nil, errors.Wrap(err, "read length")
	}

	r.b.Ensure(n)
	if _, err := io.ReadFull(r.s, r.b.Buf); err != nil {
		return nil, errors.Wrap(err, "read str")
	}

	return r.b.Buf, nil
}

// StrAppend decodes string and appends it to provided buf.
func (r *Reader) StrAppend(buf []byte) ([]byte, error) {
	defer r.b.Reset()

	str, err := r.StrRaw()
	if err != nil {
		return nil, errors.Wrap(err, "raw")
	}

	return append(buf, str...), nil
}

// StrBytes decodes string and allocates new byte slice with result.
func (r *Reader) StrBytes() ([]byte, error) {
	return r.StrAppend(nil)
}

// Str decodes string.
func (r *Reader) Str() (string, error) {
	s, err := r.StrBytes()
	if err != nil {
		return "", errors.Wrap(err, "bytes")
	}
	if !utf8.Valid(s) {
		return "", errors.New("invalid utf8")
	}

	return string(s), err
}

// ReadRaw reads n bytes to internal buffer and returns it directly.
//
// Do not retain returned slice.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	r.b.Ensure(n)
	if _, err := io.ReadFull(r.s, r.b.Buf); err != nil {
		return nil, errors.Wrap(err, "read")
	}
	return r.b.Buf, nil
}

// ReadFull reads buf fully.
func (r *Reader) ReadFull(buf []byte) error {
	if _, err := io.ReadFull(r.s, buf); err != nil {
		return errors.Wrap(err, "read")
	}
	return nil
}

// UInt8 decodes uint8 value.
func (r *Reader) UInt8() (uint8, error) {
	r.b.Ensure(1)
	if _, err := io.ReadFull(r.s, r.b.Buf); err != nil {
		return 0, errors.Wrap(err, "read")
	}
	return r.b.Buf[0], nil
}

// UInt16 decodes uint16 value.
func (r *Reader) UInt16() (uint16, error) {
	r.b.Ensure(2)
	if _, err := io.ReadFull(r.s, r.b.Buf); err != nil {
		return 0, errors.Wrap(err, "read")
	}
	return bin.Uint16(r.b.Buf), nil
}

// UInt32 decodes uint32 value.
func (r *Reader) UInt32() (uint32, error) {
	r.b.Ensure(4)
	if _, err := io.ReadFull(r.s, r.b.Buf); err != nil {
		return 0, errors.Wrap(err, "read")
	}
	return bin.Uint32(r.b.Buf), nil
}

// UInt64 decodes uint64 value.
func (r *Reader) UInt64() (uint64, error) {
	r.b.Ensure(8)
	if _, err := io.ReadFull(r.s, r.b.Buf); err != nil {
		return 0, errors.Wrap(err, "read")
	}
	return bin.Uint64(r.b.Buf), nil
}

// Bool decodes bool as uint8.
func (r *Reader) Bool() (bool, error) {
	v, err := r.UInt8()
	if err != nil {
		return false, errors.Wrap(err, "uint8")
	}
	switch v {
	case boolTrue:
		return true, nil
	case boolFalse:
		return false, nil
	default:
		return false, errors.Errorf("unexpected value %d for boolean", v)
	}
}

// Addr decodes a 16-byte address.
func (r *Reader) Addr() (Addr, error) {
	var a Addr
	if err := r.ReadFull(a[:]); err != nil {
		return Addr{}, errors.Wrap(err, "read")
	}
	return a, nil
}

// Prefix decodes an address followed by a full-basis length byte,
// re-masking the address so the prefix invariant survives decoding
// untrusted input.
func (r *Reader) Prefix() (Prefix, error) {
	a, err := r.Addr()
	if err != nil {
		return Prefix{}, errors.Wrap(err, "addr")
	}
	n, err := r.UInt8()
	if err != nil {
		return Prefix{}, errors.Wrap(err, "length")
	}
	if n > 128 {
		return Prefix{}, errors.Errorf("prefix length %d out of range [0, 128]", n)
	}
	p, err := newPrefix(a, int(n))
	if err != nil {
		return Prefix{}, errors.Wrap(err, "prefix")
	}
	return p, nil
}

const defaultReaderSize = 1024 // 1kb

// NewReader initializes new Reader from provided io.Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		s: bufio.NewReaderSize(r, defaultReaderSize),
		b: &Buffer{},
	}
}
