// Package dnsmgr implements the bro DNS mapping manager: cached forward
// and reverse lookups with TTL expiry, shared by analyzer and policy
// code.
package dnsmgr

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/krsnat/bro/otelbro"
	"github.com/krsnat/bro/proto"
)

// Mode selects how the manager answers lookups.
type Mode byte

const (
	// ModeDefault resolves on cache miss and caches the result.
	ModeDefault Mode = iota
	// ModePrime records requested names without resolving; a later
	// Resolve call fills the cache in bulk.
	ModePrime
	// ModeCacheOnly serves from cache and never touches the network.
	ModeCacheOnly
)

// ErrNotCached is returned in ModeCacheOnly for absent mappings.
var ErrNotCached = errors.New("not in cache")

// Resolver is the subset of net.Resolver the manager needs.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// Options for New. Zero value is valid.
type Options struct {
	Resolver Resolver      // defaults to net.DefaultResolver
	Logger   *zap.Logger   // defaults to no-op logger
	Mode     Mode          // defaults to ModeDefault
	TTL      time.Duration // mapping lifetime, defaults to 30 minutes
	// MaxRetries bounds resolution retries past the first attempt.
	// Defaults to 3.
	MaxRetries uint64
	// OpenTelemetry enables span attributes and the lookup counter.
	OpenTelemetry bool

	// now is the time source, overridable in tests.
	now func() time.Time
}

func (o *Options) setDefaults() {
	if o.Resolver == nil {
		o.Resolver = net.DefaultResolver
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.TTL == 0 {
		o.TTL = 30 * time.Minute
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = 3
	}
	if o.now == nil {
		o.now = time.Now
	}
}

// Stats are cumulative lookup counters.
type Stats struct {
	Requests   int64
	Successful int64
	Failed     int64
	CacheHits  int64
}

// Mgr caches DNS mappings in both directions. Safe for concurrent use.
type Mgr struct {
	resolver   Resolver
	lg         *zap.Logger
	mode       Mode
	ttl        time.Duration
	maxRetries uint64
	now        func() time.Time

	otel    bool
	lookups metric.Int64Counter

	mu    sync.Mutex
	hosts map[string]*Mapping
	addrs map[proto.Addr]*Mapping

	requests   atomic.Int64
	successful atomic.Int64
	failed     atomic.Int64
	cacheHits  atomic.Int64
}

// New returns a manager with opt applied.
func New(opt Options) *Mgr {
	opt.setDefaults()
	m := &Mgr{
		resolver:   opt.Resolver,
		lg:         opt.Logger,
		mode:       opt.Mode,
		ttl:        opt.TTL,
		maxRetries: opt.MaxRetries,
		now:        opt.now,
		otel:       opt.OpenTelemetry,
		hosts:      map[string]*Mapping{},
		addrs:      map[proto.Addr]*Mapping{},
	}
	if m.otel {
		meter := global.Meter("github.com/krsnat/bro/dnsmgr",
			metric.WithInstrumentationVersion(otelbro.SemVersion()),
		)
		m.lookups = metric.Must(meter).NewInt64Counter("bro.dns.lookups",
			metric.WithDescription("DNS lookups issued by the manager"),
		)
	}
	return m
}

// LookupHost returns the addresses of host. Behavior on cache miss
// depends on the mode: ModeDefault resolves, ModePrime records the name
// and returns no addresses, ModeCacheOnly fails with ErrNotCached.
func (m *Mgr) LookupHost(ctx context.Context, host string) ([]proto.Addr, error) {
	if mp := m.cachedHost(host); mp != nil {
		m.cacheHits.Inc()
		return append([]proto.Addr(nil), mp.Addrs...), nil
	}
	switch m.mode {
	case ModeCacheOnly:
		return nil, errors.Wrapf(ErrNotCached, "host %q", host)
	case ModePrime:
		m.recordPending(host)
		return nil, nil
	}
	mp, err := m.resolveHost(ctx, host)
	if err != nil {
		return nil, errors.Wrap(err, "resolve")
	}
	return append([]proto.Addr(nil), mp.Addrs...), nil
}

// LookupAddr returns the name of addr from a reverse lookup, cached like
// LookupHost.
func (m *Mgr) LookupAddr(ctx context.Context, addr proto.Addr) (string, error) {
	if mp := m.cachedAddr(addr); mp != nil && len(mp.Names) > 0 {
		m.cacheHits.Inc()
		return mp.Names[0], nil
	}
	if m.mode == ModeCacheOnly {
		return "", errors.Wrapf(ErrNotCached, "addr %s", addr)
	}
	mp, err := m.resolveAddr(ctx, addr)
	if err != nil {
		return "", errors.Wrap(err, "resolve")
	}
	if len(mp.Names) == 0 {
		return "", errors.Errorf("no name for %s", addr)
	}
	return mp.Names[0], nil
}

// Resolve re-resolves every known name, bounded to resolveParallelism
// in-flight lookups. In ModePrime this turns recorded names into usable
// mappings.
func (m *Mgr) Resolve(ctx context.Context) error {
	m.mu.Lock()
	hosts := make([]string, 0, len(m.hosts))
	for h := range m.hosts {
		hosts = append(hosts, h)
	}
	m.mu.Unlock()

	sem := make(chan struct{}, resolveParallelism)
	g, ctx := errgroup.WithContext(ctx)
	for _, host := range hosts {
		host := host
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			if _, err := m.resolveHost(ctx, host); err != nil {
				return errors.Wrapf(err, "resolve %q", host)
			}
			return nil
		})
	}
	return g.Wait()
}

const resolveParallelism = 25

// Stats returns cumulative counters.
func (m *Mgr) Stats() Stats {
	return Stats{
		Requests:   m.requests.Load(),
		Successful: m.successful.Load(),
		Failed:     m.failed.Load(),
		CacheHits:  m.cacheHits.Load(),
	}
}

func (m *Mgr) cachedHost(host string) *Mapping {
	m.mu.Lock()
	defer m.mu.Unlock()
	mp, ok := m.hosts[host]
	if !ok || len(mp.Addrs) == 0 {
		return nil
	}
	// Cache-only mode serves stale mappings: there is nothing fresher to
	// offer.
	if m.mode != ModeCacheOnly && mp.Expired(m.now()) {
		return nil
	}
	return mp
}

func (m *Mgr) cachedAddr(addr proto.Addr) *Mapping {
	m.mu.Lock()
	defer m.mu.Unlock()
	mp, ok := m.addrs[addr]
	if !ok {
		return nil
	}
	if m.mode != ModeCacheOnly && mp.Expired(m.now()) {
		return nil
	}
	return mp
}

// recordPending remembers a name for a later Resolve without touching
// the network.
func (m *Mgr) recordPending(host string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.hosts[host]; !ok {
		m.hosts[host] = &Mapping{Host: host}
	}
}

func (m *Mgr) resolveHost(ctx context.Context, host string) (*Mapping, error) {
	m.requests.Inc()
	id := uuid.New().String()
	if m.otel {
		trace.SpanFromContext(ctx).SetAttributes(
			otelbro.DNSHost(host),
			otelbro.RequestID(id),
		)
		m.lookups.Add(ctx, 1)
	}

	var ips []net.IPAddr
	do := func() error {
		var err error
		ips, err = m.resolver.LookupIPAddr(ctx, host)
		return err
	}
	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), m.maxRetries),
		ctx,
	)
	if err := backoff.Retry(do, bo); err != nil {
		m.failed.Inc()
		m.lg.Debug("Lookup failed",
			zap.String("host", host),
			zap.String("request_id", id),
			zap.Error(err),
		)
		return nil, errors.Wrap(err, "lookup")
	}
	m.successful.Inc()

	addrs := make([]proto.Addr, 0, len(ips))
	for _, ip := range ips {
		a, err := proto.AddrFromSlice(ip.IP)
		if err != nil {
			m.lg.Warn("Skipping malformed address",
				zap.String("host", host),
				zap.Error(err),
			)
			continue
		}
		addrs = append(addrs, a)
	}

	mp := &Mapping{
		Host:     host,
		Addrs:    addrs,
		Creation: m.now(),
		TTL:      m.ttl,
	}
	m.store(mp)
	if ce := m.lg.Check(zap.DebugLevel, "Resolved"); ce != nil {
		ce.Write(
			zap.String("host", host),
			zap.String("request_id", id),
			zap.Int("addrs", len(addrs)),
		)
	}
	return mp, nil
}

func (m *Mgr) resolveAddr(ctx context.Context, addr proto.Addr) (*Mapping, error) {
	m.requests.Inc()
	id := uuid.New().String()
	if m.otel {
		trace.SpanFromContext(ctx).SetAttributes(
			otelbro.DNSAddr(addr.String()),
			otelbro.AddrFamily(addr.Family().String()),
			otelbro.RequestID(id),
		)
		m.lookups.Add(ctx, 1)
	}

	var names []string
	do := func() error {
		var err error
		names, err = m.resolver.LookupAddr(ctx, addr.String())
		return err
	}
	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), m.maxRetries),
		ctx,
	)
	if err := backoff.Retry(do, bo); err != nil {
		m.failed.Inc()
		return nil, errors.Wrap(err, "lookup")
	}
	m.successful.Inc()

	mp := &Mapping{
		Addrs:    []proto.Addr{addr},
		Names:    names,
		Creation: m.now(),
		TTL:      m.ttl,
	}
	if len(names) > 0 {
		mp.Host = names[0]
	}
	m.store(mp)
	return mp, nil
}

// store indexes mp under its host and all of its addresses, logging
// re-resolutions that changed the address set.
func (m *Mgr) store(mp *Mapping) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mp.Host != "" {
		if prev, ok := m.hosts[mp.Host]; ok && !prev.sameAddrs(mp) && len(prev.Addrs) > 0 {
			m.lg.Info("Mapping changed",
				zap.String("host", mp.Host),
				zap.Int("addrs", len(mp.Addrs)),
			)
		}
		m.hosts[mp.Host] = mp
	}
	for _, a := range mp.Addrs {
		m.addrs[a] = mp
	}
}
