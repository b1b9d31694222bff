// Package spool implements the bro capture spool, an append-only stream
// of analyzer-observed connection entries framed into compressed blocks.
package spool

import (
	"github.com/krsnat/bro/proto"
)

// Entry is a single observed connection record.
type Entry struct {
	Time     uint64 // unix nanoseconds
	Orig     proto.Addr
	Resp     proto.Addr
	OrigPort uint16
	RespPort uint16
	Proto    uint8 // transport protocol number
	Analyzer string
}

// Encode entry to b.
func (e Entry) Encode(b *proto.Buffer) {
	b.PutUInt64(e.Time)
	b.PutAddr(e.Orig)
	b.PutAddr(e.Resp)
	b.PutUInt16(e.OrigPort)
	b.PutUInt16(e.RespPort)
	b.PutUInt8(e.Proto)
	b.PutString(e.Analyzer)
}

// Stats are cumulative writer counters.
type Stats struct {
	Entries    int
	Blocks     int
	Raw        int64 // bytes before compression
	Compressed int64 // bytes after compression, header included
}
