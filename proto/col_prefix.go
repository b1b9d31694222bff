package proto

import "github.com/go-faster/errors"

// ColPrefix is a column of Prefix values.
type ColPrefix []Prefix

// Rows returns number of prefixes in column.
func (c ColPrefix) Rows() int {
	return len(c)
}

// Reset resets column for reuse.
func (c *ColPrefix) Reset() {
	*c = (*c)[:0]
}

// EncodeColumn encodes prefixes as 16 address bytes plus a length byte.
func (c ColPrefix) EncodeColumn(b *Buffer) {
	for _, v := range c {
		b.PutPrefix(v)
	}
}

// DecodeColumn decodes rows prefixes from r.
func (c *ColPrefix) DecodeColumn(r *Reader, rows int) error {
	const size = 16 + 1
	data, err := r.ReadRaw(rows * size)
	if err != nil {
		return errors.Wrap(err, "read")
	}
	v := *c
	for i := 0; i < len(data); i += size {
		a := *(*Addr)(data[i : i+16])
		n := data[i+16]
		if n > 128 {
			return errors.Errorf("prefix length %d out of range [0, 128]", n)
		}
		p, err := newPrefix(a, int(n))
		if err != nil {
			return errors.Wrap(err, "prefix")
		}
		v = append(v, p)
	}
	*c = v
	return nil
}
