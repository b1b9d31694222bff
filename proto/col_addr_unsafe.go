//go:build (amd64 || arm64) && !purego

package proto

import (
	"unsafe"

	"github.com/go-faster/errors"
)

// DecodeColumn decodes rows addresses from r.
func (c *ColAddr) DecodeColumn(r *Reader, rows int) error {
	if rows == 0 {
		return nil
	}
	*c = append(*c, make([]Addr, rows)...)

	// Memory layout of [N]Addr is same as [N*16]byte, and the stored
	// bytes are already network order, so no swap is needed.
	s := *(*slice)(unsafe.Pointer(c)) // #nosec: G103 // memory layout matches
	s.Len *= 16
	s.Cap *= 16
	dst := *(*[]byte)(unsafe.Pointer(&s)) // #nosec: G103 // memory layout matches
	if err := r.ReadFull(dst); err != nil {
		return errors.Wrap(err, "read full")
	}

	return nil
}
