// Package bro implements core primitives of the bro network monitor:
// the protocol-analyzer registry at the root, address and wire types in
// proto, the capture spool in spool and the DNS manager in dnsmgr.
package bro

import (
	"context"
	"sort"
	"sync"

	"github.com/go-faster/errors"
	version "github.com/hashicorp/go-version"
	"go.uber.org/zap"

	internalversion "github.com/krsnat/bro/internal/version"
)

// Analyzer consumes application payload of a single protocol.
type Analyzer interface {
	// Name returns the registered analyzer name.
	Name() string
	// DeliverPacket handles one application payload unit. orig reports
	// whether the payload travels from connection originator to
	// responder.
	DeliverPacket(ctx context.Context, orig bool, payload []byte) error
}

// Registration describes an analyzer to the registry.
type Registration struct {
	// Name identifies the analyzer, unique within a registry.
	Name string
	// Description is a short human-readable summary.
	Description string
	// EventFile names the event-description resource shipped with the
	// analyzer.
	EventFile string
	// Requires optionally constrains the host version, in
	// go-version constraint syntax (">= 0.2, < 1.0").
	Requires string
	// New produces a fresh analyzer instance.
	New func() Analyzer
}

// Registry holds named analyzer registrations. Safe for concurrent use.
type Registry struct {
	lg *zap.Logger

	mu   sync.Mutex
	regs map[string]Registration
}

// NewRegistry returns an empty registry logging to lg. A nil lg is
// replaced with a no-op logger.
func NewRegistry(lg *zap.Logger) *Registry {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Registry{
		lg:   lg,
		regs: map[string]Registration{},
	}
}

// Register adds reg, rejecting duplicates, blank names, nil factories
// and unsatisfied host version constraints.
func (r *Registry) Register(reg Registration) error {
	if reg.Name == "" {
		return errors.New("empty analyzer name")
	}
	if reg.New == nil {
		return errors.Errorf("analyzer %q has no factory", reg.Name)
	}
	if reg.Requires != "" {
		c, err := version.NewConstraint(reg.Requires)
		if err != nil {
			return errors.Wrapf(err, "analyzer %q requires", reg.Name)
		}
		// Unversioned dev builds load everything.
		if host, err := version.NewVersion(internalversion.Get().Raw); err == nil && host.Prerelease() == "" {
			if !c.Check(host) {
				return errors.Errorf("analyzer %q requires host version %q, have %s",
					reg.Name, reg.Requires, host,
				)
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.regs[reg.Name]; ok {
		return errors.Errorf("analyzer %q already registered", reg.Name)
	}
	r.regs[reg.Name] = reg
	r.lg.Debug("Registered analyzer",
		zap.String("name", reg.Name),
		zap.String("description", reg.Description),
	)
	return nil
}

// Lookup returns the registration for name.
func (r *Registry) Lookup(name string) (Registration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[name]
	return reg, ok
}

// Registrations returns all registrations sorted by name.
func (r *Registry) Registrations() []Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Registration, 0, len(r.regs))
	for _, reg := range r.regs {
		out = append(out, reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// defaultRegistry serves package-level registration, the path init-time
// analyzer packages take.
var defaultRegistry = NewRegistry(nil)

// Register adds reg to the default registry.
func Register(reg Registration) error {
	return defaultRegistry.Register(reg)
}

// MustRegister is Register that panics on error. For analyzer package
// init functions.
func MustRegister(reg Registration) {
	if err := Register(reg); err != nil {
		panic(err)
	}
}

// Lookup returns the registration for name from the default registry.
func Lookup(name string) (Registration, bool) {
	return defaultRegistry.Lookup(name)
}

// Registrations returns the default registry content sorted by name.
func Registrations() []Registration {
	return defaultRegistry.Registrations()
}
