package proto

//go:generate go run github.com/dmarkham/enumer -type Family -trimprefix Family -output family_gen.go

// Family is an address family.
type Family byte

const (
	FamilyIPv4 Family = iota
	FamilyIPv6
)

// IsIPv4 reports whether family is IPv4.
func (f Family) IsIPv4() bool { return f == FamilyIPv4 }

// IsIPv6 reports whether family is IPv6.
func (f Family) IsIPv6() bool { return f == FamilyIPv6 }

//go:generate go run github.com/dmarkham/enumer -type ByteOrder -trimprefix Order -output byte_order_gen.go

// ByteOrder is the byte order of a raw address buffer.
type ByteOrder byte

const (
	// OrderHost means 32-bit words use the byte order of the current host.
	OrderHost ByteOrder = iota
	// OrderNetwork means big-endian, the wire convention.
	OrderNetwork
)
