package proto

// ColAddr is a column of Addr values.
type ColAddr []Addr

// Rows returns number of addresses in column.
func (c ColAddr) Rows() int {
	return len(c)
}

// Reset resets column for reuse.
func (c *ColAddr) Reset() {
	*c = (*c)[:0]
}

// EncodeColumn encodes addresses as contiguous 16-byte values.
func (c ColAddr) EncodeColumn(b *Buffer) {
	const size = 16
	offset := len(b.Buf)
	b.Buf = append(b.Buf, make([]byte, size*len(c))...)
	for _, v := range c {
		copy(b.Buf[offset:offset+size], v[:])
		offset += size
	}
}
