package dnsmgr

import (
	"io"
	"time"

	"github.com/go-faster/errors"

	"github.com/krsnat/bro/proto"
)

// Mapping is a cached DNS resolution in either direction.
type Mapping struct {
	Host     string
	Addrs    []proto.Addr
	Names    []string
	Creation time.Time
	TTL      time.Duration
}

// Expired reports whether the mapping is past its lifetime at now.
func (m Mapping) Expired(now time.Time) bool {
	return now.After(m.Creation.Add(m.TTL))
}

func (m Mapping) sameAddrs(o *Mapping) bool {
	if len(m.Addrs) != len(o.Addrs) {
		return false
	}
	for i, a := range m.Addrs {
		if a != o.Addrs[i] {
			return false
		}
	}
	return true
}

// Encode mapping to b.
func (m Mapping) Encode(b *proto.Buffer) {
	b.PutString(m.Host)
	b.PutLen(len(m.Addrs))
	for _, a := range m.Addrs {
		b.PutAddr(a)
	}
	b.PutLen(len(m.Names))
	for _, n := range m.Names {
		b.PutString(n)
	}
	b.PutUInt64(uint64(m.Creation.UnixNano()))
	b.PutUInt64(uint64(m.TTL))
}

// Decode mapping from r.
func (m *Mapping) Decode(r *proto.Reader) error {
	var err error
	if m.Host, err = r.Str(); err != nil {
		return errors.Wrap(err, "host")
	}
	n, err := r.Int()
	if err != nil {
		return errors.Wrap(err, "addr count")
	}
	m.Addrs = m.Addrs[:0]
	for i := 0; i < n; i++ {
		a, err := r.Addr()
		if err != nil {
			return errors.Wrap(err, "addr")
		}
		m.Addrs = append(m.Addrs, a)
	}
	if n, err = r.Int(); err != nil {
		return errors.Wrap(err, "name count")
	}
	m.Names = m.Names[:0]
	for i := 0; i < n; i++ {
		s, err := r.Str()
		if err != nil {
			return errors.Wrap(err, "name")
		}
		m.Names = append(m.Names, s)
	}
	creation, err := r.UInt64()
	if err != nil {
		return errors.Wrap(err, "creation")
	}
	m.Creation = time.Unix(0, int64(creation))
	ttl, err := r.UInt64()
	if err != nil {
		return errors.Wrap(err, "ttl")
	}
	m.TTL = time.Duration(ttl)
	return nil
}

// Save writes every distinct cached mapping to w so a later Load can
// serve ModeCacheOnly without the network.
func (m *Mgr) Save(w io.Writer) error {
	m.mu.Lock()
	seen := make(map[*Mapping]struct{}, len(m.hosts)+len(m.addrs))
	list := make([]*Mapping, 0, len(m.hosts)+len(m.addrs))
	for _, mp := range m.hosts {
		if _, ok := seen[mp]; !ok {
			seen[mp] = struct{}{}
			list = append(list, mp)
		}
	}
	for _, mp := range m.addrs {
		if _, ok := seen[mp]; !ok {
			seen[mp] = struct{}{}
			list = append(list, mp)
		}
	}
	m.mu.Unlock()

	var b proto.Buffer
	b.PutLen(len(list))
	for _, mp := range list {
		mp.Encode(&b)
	}
	if _, err := w.Write(b.Buf); err != nil {
		return errors.Wrap(err, "write")
	}
	return nil
}

// Load reads mappings written by Save into the cache.
func (m *Mgr) Load(r io.Reader) error {
	pr := proto.NewReader(r)
	n, err := pr.Int()
	if err != nil {
		return errors.Wrap(err, "count")
	}
	for i := 0; i < n; i++ {
		var mp Mapping
		if err := mp.Decode(pr); err != nil {
			return errors.Wrapf(err, "mapping %d", i)
		}
		m.store(&mp)
	}
	return nil
}
