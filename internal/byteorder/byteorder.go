// Package byteorder resolves the byte order of the current host.
package byteorder

import (
	"encoding/binary"
	"unsafe"
)

// Native is the byte order of the host.
var Native binary.ByteOrder = func() binary.ByteOrder {
	var x uint16 = 0xff00
	if *(*byte)(unsafe.Pointer(&x)) == 0xff {
		return binary.BigEndian
	}
	return binary.LittleEndian
}()
