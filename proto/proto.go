// Package proto implements bro address primitives and spool wire format.
package proto

import "encoding/binary"

// Spool wire format defaults.
const (
	SpoolMagic   = 0x4f52424e // "NBRO"
	SpoolVersion = 1
)

var bin = binary.LittleEndian
