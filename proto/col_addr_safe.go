//go:build !(amd64 || arm64) || purego

package proto

import "github.com/go-faster/errors"

// DecodeColumn decodes rows addresses from r.
func (c *ColAddr) DecodeColumn(r *Reader, rows int) error {
	const size = 16
	data, err := r.ReadRaw(rows * size)
	if err != nil {
		return errors.Wrap(err, "read")
	}
	v := *c
	for i := 0; i < len(data); i += size {
		// In-place conversion from slice to array.
		// https://go.dev/ref/spec#Conversions_from_slice_to_array_pointer
		v = append(v, *(*Addr)(data[i : i+size]))
	}
	*c = v
	return nil
}
