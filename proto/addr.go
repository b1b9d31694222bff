package proto

import (
	"bytes"
	"unsafe"

	"github.com/go-faster/errors"
	"inet.af/netaddr"

	"github.com/krsnat/bro/internal/byteorder"
)

// Addr is an IPv4 or IPv6 address in a single 16-byte network-order
// representation. IPv4 addresses are stored in the IPv4-in-IPv6 mapped
// form, so the zero value is the IPv6 unspecified address "::".
//
// The family is not stored: it is derived by inspecting the top 12 bytes,
// see Family. Addr is comparable and can be used as a map key.
type Addr [16]byte

// v4InV6Prefix is the top 96 bits of an IPv4-mapped IPv6 address.
var v4InV6Prefix = [12]byte{10: 0xff, 11: 0xff}

// AddrFrom4 returns the address of the 4-byte IPv4 value v,
// stored in IPv4-mapped form.
func AddrFrom4(v [4]byte) Addr {
	var a Addr
	copy(a[:], v4InV6Prefix[:])
	copy(a[12:], v[:])
	return a
}

// AddrFrom16 returns the address of the 16-byte IPv6 value v, verbatim.
func AddrFrom16(v [16]byte) Addr {
	return Addr(v)
}

// AddrFromSlice returns the address of the 4-byte or 16-byte slice b.
func AddrFromSlice(b []byte) (Addr, error) {
	switch len(b) {
	case 4:
		return AddrFrom4(*(*[4]byte)(b)), nil
	case 16:
		return AddrFrom16(*(*[16]byte)(b)), nil
	default:
		return Addr{}, errors.Errorf("address length %d: want 4 or 16", len(b))
	}
}

// AddrFromRaw returns the address of a raw buffer b tagged with an
// explicit family and byte order. For FamilyIPv4, b must hold 4 bytes;
// for FamilyIPv6, 16 bytes. With OrderHost each 32-bit word of b is in
// the byte order of the current host and is converted to network order;
// with OrderNetwork b is copied as is.
func AddrFromRaw(family Family, b []byte, order ByteOrder) (Addr, error) {
	var a Addr
	switch family {
	case FamilyIPv4:
		if len(b) != 4 {
			return Addr{}, errors.Errorf("IPv4 buffer length %d: want 4", len(b))
		}
		copy(a[:], v4InV6Prefix[:])
		if order == OrderHost {
			bigPutUint32(a[12:16], byteorder.Native.Uint32(b))
		} else {
			copy(a[12:], b)
		}
	case FamilyIPv6:
		if len(b) != 16 {
			return Addr{}, errors.Errorf("IPv6 buffer length %d: want 16", len(b))
		}
		if order == OrderHost {
			for i := 0; i < 16; i += 4 {
				bigPutUint32(a[i:i+4], byteorder.Native.Uint32(b[i:i+4]))
			}
		} else {
			copy(a[:], b)
		}
	default:
		return Addr{}, errors.Errorf("unknown family %d", family)
	}
	return a, nil
}

func bigPutUint32(b []byte, v uint32) {
	_ = b[3]
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

// ParseAddr parses s as an IP address: dotted-decimal IPv4
// ("192.168.1.2") or colon-hex IPv6 ("2001:db8::1", "::" compression and
// embedded IPv4 tails included). Zoned addresses are rejected.
func ParseAddr(s string) (Addr, error) {
	ip, err := netaddr.ParseIP(s)
	if err != nil {
		return Addr{}, errors.Wrap(err, "parse")
	}
	if ip.Zone() != "" {
		return Addr{}, errors.Errorf("zoned address %q not supported", s)
	}
	return Addr(ip.As16()), nil
}

// MustParseAddr is ParseAddr that panics on error. For tests and constants.
func MustParseAddr(s string) Addr {
	a, err := ParseAddr(s)
	if err != nil {
		panic(err)
	}
	return a
}

// ToAddr represents ip as Addr.
func ToAddr(ip netaddr.IP) Addr { return Addr(ip.As16()) }

// ToIP represents Addr as netaddr.IP.
func (a Addr) ToIP() netaddr.IP {
	if a.Family() == FamilyIPv4 {
		return netaddr.IPv4(a[12], a[13], a[14], a[15])
	}
	return netaddr.IPv6Raw([16]byte(a))
}

// Family returns FamilyIPv4 when the top 12 bytes equal the fixed
// IPv4-mapped prefix and FamilyIPv6 otherwise. A raw IPv6 value whose top
// 96 bits coincide with the mapped prefix is therefore indistinguishable
// from an IPv4 address; that aliasing is part of the contract.
func (a Addr) Family() Family {
	if bytes.Equal(a[:12], v4InV6Prefix[:]) {
		return FamilyIPv4
	}
	return FamilyIPv6
}

// IsLoopback reports whether a is a loopback address: any of 127.0.0.0/8
// for IPv4, but only the single address ::1 for IPv6.
func (a Addr) IsLoopback() bool {
	if a.Family() == FamilyIPv4 {
		return a[12] == 127
	}
	return a == Addr{15: 1}
}

// IsMulticast reports whether a is a multicast address: the first byte
// equal to 224 for IPv4, the first byte equal to 0xff for IPv6.
//
// The IPv4 test is equality to 224, not membership in 224.0.0.0/4.
func (a Addr) IsMulticast() bool {
	if a.Family() == FamilyIPv4 {
		return a[12] == 224
	}
	return a[0] == 0xff
}

// IsBroadcast reports whether a is 255.255.255.255. Always false for IPv6.
func (a Addr) IsBroadcast() bool {
	if a.Family() == FamilyIPv4 {
		return a[12] == 0xff && a[13] == 0xff && a[14] == 0xff && a[15] == 0xff
	}
	return false
}

// RawBytes returns the network-order representation of a and its size in
// 32-bit words: the low 4 bytes and 1 for IPv4, the full 16 bytes and 4
// for IPv6.
//
// The slice aliases the receiver's storage. Do not retain it.
func (a *Addr) RawBytes() ([]byte, int) {
	if a.Family() == FamilyIPv4 {
		return a[12:16], 1
	}
	return a[:], 4
}

// As16 returns a copy of the full 16-byte representation, IPv4-mapped or
// native IPv6, in network order.
func (a Addr) As16() [16]byte { return a }

// AppendTo appends the full 16-byte representation to b.
func (a Addr) AppendTo(b []byte) []byte { return append(b, a[:]...) }

// Mask zeroes every bit past topBitsToKeep, counting from the most
// significant bit. The count is always relative to the full 128-bit
// layout, even for IPv4: masking 192.168.1.2 to /16 takes 112 (96 + 16).
// Valid range is 0 to 128; out of range leaves a unmodified.
func (a *Addr) Mask(topBitsToKeep int) error {
	if topBitsToKeep < 0 || topBitsToKeep > 128 {
		return errors.Errorf("mask bits %d out of range [0, 128]", topBitsToKeep)
	}
	i := topBitsToKeep / 8
	if r := topBitsToKeep % 8; r != 0 {
		a[i] &= ^byte(0xff >> r)
		i++
	}
	for ; i < 16; i++ {
		a[i] = 0
	}
	return nil
}

// ReverseMask zeroes the top topBitsToChop bits. Same 128-bit basis and
// 0 to 128 range as Mask; out of range leaves a unmodified.
func (a *Addr) ReverseMask(topBitsToChop int) error {
	if topBitsToChop < 0 || topBitsToChop > 128 {
		return errors.Errorf("mask bits %d out of range [0, 128]", topBitsToChop)
	}
	i := topBitsToChop / 8
	for j := 0; j < i; j++ {
		a[j] = 0
	}
	if r := topBitsToChop % 8; r != 0 {
		a[i] &= 0xff >> r
	}
	return nil
}

// Compare returns -1, 0 or 1 ordering addresses by the bytes of the full
// 16-byte representation, most significant first. The order is total and
// stable but does not track numeric address value across families.
func (a Addr) Compare(b Addr) int {
	return bytes.Compare(a[:], b[:])
}

// Less reports whether a sorts before b, see Compare.
func (a Addr) Less(b Addr) bool { return a.Compare(b) < 0 }

// String formats IPv4 addresses in dotted decimal and IPv6 addresses in
// canonical compressed colon-hex.
func (a Addr) String() string {
	return a.ToIP().String()
}

// MemoryAllocation returns the padded in-memory footprint of a in bytes.
func (a Addr) MemoryAllocation() int {
	return int(unsafe.Sizeof(a))
}
