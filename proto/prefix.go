package proto

import (
	"strconv"
	"unsafe"

	"github.com/go-faster/errors"
)

// mappedBits is the bit offset of the IPv4 value inside the 128-bit
// mapped representation.
const mappedBits = 96

// Prefix is a network block: an address with every bit past the prefix
// length zeroed, plus the length itself. The length is stored relative to
// the full 128-bit representation, so an IPv4 /16 is held as 112.
//
// Prefix is comparable and can be used as a map key.
type Prefix struct {
	addr   Addr
	length uint8
}

// PrefixFrom4 returns the prefix of the 4-byte IPv4 value v and a length
// in the range 0 to 32.
func PrefixFrom4(v [4]byte, bits int) (Prefix, error) {
	if bits < 0 || bits > 32 {
		return Prefix{}, errors.Errorf("IPv4 prefix bits %d out of range [0, 32]", bits)
	}
	return newPrefix(AddrFrom4(v), bits+mappedBits)
}

// PrefixFrom16 returns the prefix of the 16-byte IPv6 value v and a
// length in the range 0 to 128.
func PrefixFrom16(v [16]byte, bits int) (Prefix, error) {
	if bits < 0 || bits > 128 {
		return Prefix{}, errors.Errorf("IPv6 prefix bits %d out of range [0, 128]", bits)
	}
	return newPrefix(AddrFrom16(v), bits)
}

// PrefixFromAddr returns the prefix of addr with a family-relative
// length: 0 to 32 when addr is IPv4-mapped (stored shifted by 96),
// 0 to 128 otherwise.
func PrefixFromAddr(addr Addr, bits int) (Prefix, error) {
	if addr.Family() == FamilyIPv4 {
		if bits < 0 || bits > 32 {
			return Prefix{}, errors.Errorf("IPv4 prefix bits %d out of range [0, 32]", bits)
		}
		return newPrefix(addr, bits+mappedBits)
	}
	if bits < 0 || bits > 128 {
		return Prefix{}, errors.Errorf("IPv6 prefix bits %d out of range [0, 128]", bits)
	}
	return newPrefix(addr, bits)
}

// ParsePrefix parses s via ParseAddr and returns its prefix with a
// family-relative length, see PrefixFromAddr.
func ParsePrefix(s string, bits int) (Prefix, error) {
	a, err := ParseAddr(s)
	if err != nil {
		return Prefix{}, errors.Wrap(err, "address")
	}
	return PrefixFromAddr(a, bits)
}

// MustParsePrefix is ParsePrefix that panics on error. For tests and
// constants.
func MustParsePrefix(s string, bits int) Prefix {
	p, err := ParsePrefix(s, bits)
	if err != nil {
		panic(err)
	}
	return p
}

// newPrefix masks addr to bits in the 128-bit basis. Masking here keeps
// the invariant that a stored prefix address never carries bits past the
// length.
func newPrefix(addr Addr, bits int) (Prefix, error) {
	if err := addr.Mask(bits); err != nil {
		return Prefix{}, errors.Wrap(err, "mask")
	}
	return Prefix{addr: addr, length: uint8(bits)}, nil
}

// Addr returns the masked prefix address.
func (p Prefix) Addr() Addr { return p.addr }

// Bits returns the family-relative prefix length: 0 to 32 for IPv4,
// 0 to 128 for IPv6.
func (p Prefix) Bits() int {
	if p.addr.Family() == FamilyIPv4 {
		return int(p.length) - mappedBits
	}
	return int(p.length)
}

// BitsFull returns the prefix length in the 128-bit basis regardless of
// family.
func (p Prefix) BitsFull() int { return int(p.length) }

// Compare orders prefixes by address (see Addr.Compare), ties broken by
// family-relative length ascending.
func (p Prefix) Compare(o Prefix) int {
	if c := p.addr.Compare(o.addr); c != 0 {
		return c
	}
	switch a, b := p.Bits(), o.Bits(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Less reports whether p sorts before o, see Compare.
func (p Prefix) Less(o Prefix) bool { return p.Compare(o) < 0 }

// String returns "<addr>/<bits>" with the family-relative length.
func (p Prefix) String() string {
	return p.addr.String() + "/" + strconv.Itoa(p.Bits())
}

// MemoryAllocation returns the padded in-memory footprint of p in bytes.
func (p Prefix) MemoryAllocation() int {
	return int(unsafe.Sizeof(p))
}
