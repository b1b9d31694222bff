package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuffer(t *testing.T) {
	var b Buffer
	b.PutUVarInt(300)
	b.PutString("hello")
	b.PutUInt8(7)
	b.PutUInt16(1024)
	b.PutUInt32(0xdeadbeef)
	b.PutUInt64(1<<40 + 1)
	b.PutBool(true)
	b.PutBool(false)

	r := b.Reader()

	v, err := r.UVarInt()
	require.NoError(t, err)
	require.Equal(t, uint64(300), v)

	s, err := r.Str()
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	u8, err := r.UInt8()
	require.NoError(t, err)
	require.Equal(t, uint8(7), u8)

	u16, err := r.UInt16()
	require.NoError(t, err)
	require.Equal(t, uint16(1024), u16)

	u32, err := r.UInt32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xdeadbeef), u32)

	u64, err := r.UInt64()
	require.NoError(t, err)
	require.Equal(t, uint64(1<<40+1), u64)

	for _, want := range []bool{true, false} {
		got, err := r.Bool()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestBufferReset(t *testing.T) {
	var b Buffer
	b.PutString("data")
	b.Reset()
	require.Len(t, b.Buf, 0)
	b.PutUInt8(1)
	require.Equal(t, []byte{1}, b.Buf)
}

func TestBufferAddr(t *testing.T) {
	var b Buffer
	a := MustParseAddr("192.168.1.2")
	b.PutAddr(a)
	require.Len(t, b.Buf, 16)

	got, err := b.Reader().Addr()
	require.NoError(t, err)
	require.Equal(t, a, got)
}

func TestBufferPrefix(t *testing.T) {
	var b Buffer
	p := MustParsePrefix("2001:db8::1", 64)
	b.PutPrefix(p)
	require.Len(t, b.Buf, 17)

	got, err := b.Reader().Prefix()
	require.NoError(t, err)
	require.Equal(t, p, got)
	require.Equal(t, "2001:db8::/64", got.String())
}

func TestReaderBadInput(t *testing.T) {
	t.Run("Bool", func(t *testing.T) {
		var b Buffer
		b.PutUInt8(2)
		_, err := b.Reader().Bool()
		require.Error(t, err)
	})
	t.Run("PrefixLength", func(t *testing.T) {
		var b Buffer
		b.PutAddr(MustParseAddr("10.0.0.1"))
		b.PutUInt8(200)
		_, err := b.Reader().Prefix()
		require.Error(t, err)
	})
	t.Run("ShortAddr", func(t *testing.T) {
		var b Buffer
		b.PutRaw([]byte{1, 2, 3})
		_, err := b.Reader().Addr()
		require.Error(t, err)
	})
	t.Run("Str", func(t *testing.T) {
		var b Buffer
		b.PutLen(100)
		b.PutRaw([]byte("short"))
		_, err := b.Reader().Str()
		require.Error(t, err)
	})
	t.Run("InvalidUTF8", func(t *testing.T) {
		var b Buffer
		b.PutLen(2)
		b.PutRaw([]byte{0xff, 0xfe})
		_, err := b.Reader().Str()
		require.Error(t, err)
	})
}

func TestReaderPrefixRemask(t *testing.T) {
	// Wire bytes carrying address bits past the length are masked away
	// on decode.
	var b Buffer
	b.PutAddr(MustParseAddr("2001:db8::1"))
	b.PutUInt8(32)

	got, err := b.Reader().Prefix()
	require.NoError(t, err)
	require.Equal(t, MustParseAddr("2001:db8::"), got.Addr())
}
