// Package compress implements spool block compression.
package compress

import "encoding/binary"

//go:generate go run github.com/dmarkham/enumer -transform snake_upper -type Method -output method_enum.go

// Method is compression codec.
type Method byte

const (
	None Method = 0x02
	LZ4  Method = 0x82
	ZSTD Method = 0x90
)

// Block layout: CityHash128 checksum over everything after it, method
// byte, compressed size, raw size, compressed payload.
const (
	checksumSize = 16
	headerSize   = checksumSize + 1 + 4 + 4
	maxBlockSize = 1024 * 1024 * 1   // 1MB
	maxDataSize  = 1024 * 1024 * 128 // 128MB

	hMethod     = 16
	hCompressed = 17
	hRaw        = 21
)

var bin = binary.LittleEndian
