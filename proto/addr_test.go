package proto

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"inet.af/netaddr"

	"github.com/krsnat/bro/internal/byteorder"
)

func TestAddrZeroValue(t *testing.T) {
	var a Addr
	require.Equal(t, FamilyIPv6, a.Family())
	require.Equal(t, "::", a.String())
}

func TestAddrFrom4(t *testing.T) {
	a := AddrFrom4([4]byte{192, 168, 1, 2})
	require.Equal(t, FamilyIPv4, a.Family())
	require.Equal(t, "192.168.1.2", a.String())

	// Top 12 bytes of the mapped form are the fixed prefix.
	b := a.As16()
	require.Equal(t, v4InV6Prefix[:], b[:12])
	require.Equal(t, []byte{192, 168, 1, 2}, b[12:])
}

func TestAddrFrom16(t *testing.T) {
	raw := [16]byte{0x20, 0x01, 0x0d, 0xb8, 15: 0x01}
	a := AddrFrom16(raw)
	require.Equal(t, FamilyIPv6, a.Family())
	require.Equal(t, "2001:db8::1", a.String())

	// A raw 16-byte value carrying the mapped prefix is
	// indistinguishable from IPv4.
	mapped := AddrFrom4([4]byte{10, 0, 0, 1}).As16()
	require.Equal(t, FamilyIPv4, AddrFrom16(mapped).Family())
	require.Equal(t, AddrFrom4([4]byte{10, 0, 0, 1}), AddrFrom16(mapped))
}

func TestAddrFromSlice(t *testing.T) {
	a, err := AddrFromSlice([]byte{127, 0, 0, 1})
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", a.String())

	b, err := AddrFromSlice(make([]byte, 16))
	require.NoError(t, err)
	require.Equal(t, "::", b.String())

	_, err = AddrFromSlice([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestAddrFromRaw(t *testing.T) {
	t.Run("IPv4Network", func(t *testing.T) {
		a, err := AddrFromRaw(FamilyIPv4, []byte{192, 168, 1, 2}, OrderNetwork)
		require.NoError(t, err)
		require.Equal(t, "192.168.1.2", a.String())
	})
	t.Run("IPv4Host", func(t *testing.T) {
		buf := make([]byte, 4)
		byteorder.Native.PutUint32(buf, 0xc0a80102)
		a, err := AddrFromRaw(FamilyIPv4, buf, OrderHost)
		require.NoError(t, err)
		require.Equal(t, "192.168.1.2", a.String())
	})
	t.Run("IPv6Network", func(t *testing.T) {
		raw := MustParseAddr("2001:db8::1").As16()
		a, err := AddrFromRaw(FamilyIPv6, raw[:], OrderNetwork)
		require.NoError(t, err)
		require.Equal(t, "2001:db8::1", a.String())
	})
	t.Run("IPv6Host", func(t *testing.T) {
		// Each 32-bit word is swapped independently.
		want := MustParseAddr("2001:db8::1")
		raw := want.As16()
		buf := make([]byte, 16)
		for i := 0; i < 16; i += 4 {
			byteorder.Native.PutUint32(buf[i:], bigUint32(raw[i:i+4]))
		}
		a, err := AddrFromRaw(FamilyIPv6, buf, OrderHost)
		require.NoError(t, err)
		require.Equal(t, want, a)
	})
	t.Run("BadLength", func(t *testing.T) {
		_, err := AddrFromRaw(FamilyIPv4, make([]byte, 16), OrderNetwork)
		require.Error(t, err)
		_, err = AddrFromRaw(FamilyIPv6, make([]byte, 4), OrderNetwork)
		require.Error(t, err)
	})
	t.Run("BadFamily", func(t *testing.T) {
		_, err := AddrFromRaw(Family(42), make([]byte, 4), OrderNetwork)
		require.Error(t, err)
	})
}

func bigUint32(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func TestParseAddr(t *testing.T) {
	for _, tc := range []struct {
		input  string
		output string
		family Family
	}{
		{"192.168.1.2", "192.168.1.2", FamilyIPv4},
		{"127.0.0.1", "127.0.0.1", FamilyIPv4},
		{"2001:db8::1", "2001:db8::1", FamilyIPv6},
		{"::", "::", FamilyIPv6},
		{"::1", "::1", FamilyIPv6},
		{"2001:0db8:0000:0000:0000:0000:0000:0001", "2001:db8::1", FamilyIPv6},
		// Embedded IPv4 tail lands in the mapped form and reads back
		// as IPv4.
		{"::ffff:192.168.1.2", "192.168.1.2", FamilyIPv4},
	} {
		a, err := ParseAddr(tc.input)
		require.NoError(t, err, tc.input)
		require.Equal(t, tc.family, a.Family(), tc.input)
		require.Equal(t, tc.output, a.String(), tc.input)
	}

	for _, bad := range []string{
		"",
		"bogus",
		"1.2.3.4.5",
		"256.1.1.1",
		"2001:db8:::1",
		"fe80::1%eth0", // zones not supported
	} {
		_, err := ParseAddr(bad)
		require.Error(t, err, bad)
	}
}

func TestAddrNetaddr(t *testing.T) {
	for _, s := range []string{"127.0.0.3", "2001:db8:ac10:fe01:feed:babe:cafe:0"} {
		ip := netaddr.MustParseIP(s)
		require.Equal(t, ip.String(), ToAddr(ip).String())
	}
	require.Equal(t, netaddr.IPv4(10, 0, 0, 1), MustParseAddr("10.0.0.1").ToIP())
}

func TestAddrIsLoopback(t *testing.T) {
	// The whole 127.0.0.0/8 block for IPv4.
	require.True(t, MustParseAddr("127.0.0.1").IsLoopback())
	require.True(t, MustParseAddr("127.0.0.5").IsLoopback())
	require.True(t, MustParseAddr("127.1.2.3").IsLoopback())
	require.False(t, MustParseAddr("128.0.0.1").IsLoopback())

	// Only the single address ::1 for IPv6.
	require.True(t, MustParseAddr("::1").IsLoopback())
	require.False(t, MustParseAddr("::2").IsLoopback())
	require.False(t, MustParseAddr("::1:0").IsLoopback())
}

func TestAddrIsMulticast(t *testing.T) {
	// IPv4 test is byte equality to 224, not 224.0.0.0/4 membership.
	a, err := AddrFromRaw(FamilyIPv4, []byte{224, 0, 0, 1}, OrderNetwork)
	require.NoError(t, err)
	require.True(t, a.IsMulticast())
	require.False(t, MustParseAddr("225.1.2.3").IsMulticast())
	require.False(t, MustParseAddr("239.255.255.255").IsMulticast())

	require.True(t, MustParseAddr("ff02::1").IsMulticast())
	require.False(t, MustParseAddr("fe80::1").IsMulticast())
}

func TestAddrIsBroadcast(t *testing.T) {
	require.True(t, MustParseAddr("255.255.255.255").IsBroadcast())
	require.False(t, MustParseAddr("255.255.255.254").IsBroadcast())
	require.False(t, MustParseAddr("ff02::1").IsBroadcast())
	require.False(t, MustParseAddr("::").IsBroadcast())
}

func TestAddrRawBytes(t *testing.T) {
	a := MustParseAddr("192.168.1.2")
	b, words := a.RawBytes()
	require.Equal(t, 1, words)
	require.Equal(t, []byte{192, 168, 1, 2}, b)

	// The view aliases the address storage.
	b[3] = 99
	require.Equal(t, "192.168.1.99", a.String())

	v6 := MustParseAddr("2001:db8::1")
	b, words = v6.RawBytes()
	require.Equal(t, 4, words)
	require.Len(t, b, 16)
}

func TestAddrMask(t *testing.T) {
	t.Run("IPv4", func(t *testing.T) {
		a := MustParseAddr("192.168.1.2")
		require.NoError(t, a.Mask(96+16))
		require.Equal(t, "192.168.0.0", a.String())
	})
	t.Run("PartialByte", func(t *testing.T) {
		a := MustParseAddr("255.255.255.255")
		require.NoError(t, a.Mask(96 + 9))
		require.Equal(t, "255.128.0.0", a.String())
	})
	t.Run("IPv6", func(t *testing.T) {
		a := MustParseAddr("2001:db8:ac10:fe01::1")
		require.NoError(t, a.Mask(32))
		require.Equal(t, "2001:db8::", a.String())
	})
	t.Run("Idempotent", func(t *testing.T) {
		a := MustParseAddr("2001:db8::1")
		require.NoError(t, a.Mask(48))
		once := a
		require.NoError(t, a.Mask(48))
		require.Equal(t, once, a)
	})
	t.Run("Full", func(t *testing.T) {
		a := MustParseAddr("192.168.1.2")
		require.NoError(t, a.Mask(128))
		require.Equal(t, MustParseAddr("192.168.1.2"), a)
	})
	t.Run("Zero", func(t *testing.T) {
		a := MustParseAddr("2001:db8::1")
		require.NoError(t, a.Mask(0))
		require.Equal(t, Addr{}, a)
	})
	t.Run("OutOfRange", func(t *testing.T) {
		a := MustParseAddr("192.168.1.2")
		require.Error(t, a.Mask(129))
		require.Error(t, a.Mask(-1))
		// All-or-nothing: the value is untouched.
		require.Equal(t, MustParseAddr("192.168.1.2"), a)
	})
}

func TestAddrReverseMask(t *testing.T) {
	t.Run("IPv6", func(t *testing.T) {
		a := MustParseAddr("2001:db8::1")
		require.NoError(t, a.ReverseMask(32))
		require.Equal(t, "::1", a.String())
	})
	t.Run("ChopMappedPrefix", func(t *testing.T) {
		// Chopping the top 96 bits destroys the mapped prefix, so the
		// remainder reads as IPv6.
		a := MustParseAddr("1.2.3.4")
		require.NoError(t, a.ReverseMask(96))
		require.Equal(t, FamilyIPv6, a.Family())
		require.Equal(t, Addr{12: 1, 13: 2, 14: 3, 15: 4}, a)
	})
	t.Run("PartialByte", func(t *testing.T) {
		a := AddrFrom16([16]byte{0: 0xff, 15: 0x01})
		require.NoError(t, a.ReverseMask(4))
		require.Equal(t, AddrFrom16([16]byte{0: 0x0f, 15: 0x01}), a)
	})
	t.Run("OutOfRange", func(t *testing.T) {
		a := MustParseAddr("192.168.1.2")
		require.Error(t, a.ReverseMask(200))
		require.Equal(t, MustParseAddr("192.168.1.2"), a)
	})
}

func TestAddrCompare(t *testing.T) {
	// Byte-lexicographic over the mapped representation: IPv4 addresses
	// start with ten zero bytes, so all of them sort between ::1 and
	// 2001:db8::1. The order does not match numeric value intuition
	// across families.
	addrs := []Addr{
		MustParseAddr("255.255.255.255"),
		MustParseAddr("::"),
		MustParseAddr("10.0.0.1"),
		MustParseAddr("2001:db8::1"),
		MustParseAddr("::1"),
		MustParseAddr("10.0.0.0"),
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Less(addrs[j]) })
	want := []string{"::", "::1", "10.0.0.0", "10.0.0.1", "255.255.255.255", "2001:db8::1"}
	got := make([]string, len(addrs))
	for i, a := range addrs {
		got[i] = a.String()
	}
	require.Equal(t, want, got)

	// Trichotomy and transitivity over all pairs.
	for _, a := range addrs {
		for _, b := range addrs {
			switch c := a.Compare(b); c {
			case 0:
				require.Equal(t, a, b)
			case -1:
				require.True(t, b.Compare(a) == 1)
			case 1:
				require.True(t, b.Compare(a) == -1)
			default:
				t.Fatalf("unexpected compare result %d", c)
			}
		}
	}
}

func TestAddrAsMapKey(t *testing.T) {
	m := map[Addr]string{
		MustParseAddr("10.0.0.1"):    "a",
		MustParseAddr("2001:db8::1"): "b",
	}
	require.Equal(t, "a", m[AddrFrom4([4]byte{10, 0, 0, 1})])
	require.Equal(t, "b", m[MustParseAddr("2001:db8:0::1")])
}

func TestAddrAppendTo(t *testing.T) {
	a := MustParseAddr("10.0.0.1")
	buf := a.AppendTo(nil)
	require.Len(t, buf, 16)
	got, err := AddrFromSlice(buf)
	require.NoError(t, err)
	require.Equal(t, a, got)
}

func TestAddrMemoryAllocation(t *testing.T) {
	var a Addr
	require.Equal(t, 16, a.MemoryAllocation())
}

func TestFamilyString(t *testing.T) {
	require.Equal(t, "IPv4", FamilyIPv4.String())
	require.Equal(t, "IPv6", FamilyIPv6.String())
	require.True(t, FamilyIPv4.IsIPv4())
	require.True(t, FamilyIPv6.IsIPv6())

	v, err := FamilyString("IPv6")
	require.NoError(t, err)
	require.Equal(t, FamilyIPv6, v)
}

func TestByteOrderString(t *testing.T) {
	require.Equal(t, "Host", OrderHost.String())
	require.Equal(t, "Network", OrderNetwork.String())
}
