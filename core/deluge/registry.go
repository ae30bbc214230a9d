package deluge

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Generation identifies which client generation is installed.
type Generation int

const (
	GenerationUnknown Generation = iota
	// GenerationLegacy is the blocking client without synchronous ids.
	GenerationLegacy
	// GenerationRPC is the non-blocking client that returns ids from add calls.
	GenerationRPC
)

func (g Generation) String() string {
	switch g {
	case GenerationLegacy:
		return "legacy"
	case GenerationRPC:
		return "rpc"
	default:
		return "unknown"
	}
}

// SyncFactory opens a legacy client session for a configuration.
type SyncFactory func(cfg Config) (SyncClient, error)

// AsyncFactory creates an RPC client for a configuration. The session is opened
// later through AsyncClient.Connect.
type AsyncFactory func(cfg Config) (AsyncClient, error)

// Capability is the outcome of a probe: the detected generation and the factory for it.
type Capability struct {
	Generation Generation
	NewSync    SyncFactory
	NewAsync   AsyncFactory
}

// Registry records the installed client generations and caches the probe result.
type Registry struct {
	mu     sync.RWMutex
	sync   SyncFactory
	async  AsyncFactory
	probed *Capability
	sf     singleflight.Group
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterSync installs the legacy client generation.
func (r *Registry) RegisterSync(f SyncFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sync = f
}

// RegisterAsync installs the RPC client generation.
func (r *Registry) RegisterAsync(f AsyncFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.async = f
}

// Probe detects the installed generation. The first successful result is cached
// for the life of the registry; concurrent first calls share one detection.
// The legacy generation wins when both are installed.
func (r *Registry) Probe(ctx context.Context) (Capability, error) {
	r.mu.RLock()
	c := r.probed
	r.mu.RUnlock()
	if c != nil {
		return *c, nil
	}

	result, err, _ := r.sf.Do("probe", func() (interface{}, error) {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.probed != nil {
			return r.probed, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var detected *Capability
		switch {
		case r.sync != nil:
			detected = &Capability{Generation: GenerationLegacy, NewSync: r.sync}
		case r.async != nil:
			detected = &Capability{Generation: GenerationRPC, NewAsync: r.async}
		default:
			return nil, ErrNoClient
		}
		r.probed = detected
		return detected, nil
	})
	if err != nil {
		return Capability{}, err
	}
	return *result.(*Capability), nil
}

// Reset forgets installed generations and the cached probe.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sync = nil
	r.async = nil
	r.probed = nil
}

// defaultRegistry is the process-wide registry used by wire clients that install
// themselves from init functions.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// RegisterSync installs the legacy generation on the process-wide registry.
func RegisterSync(f SyncFactory) {
	defaultRegistry.RegisterSync(f)
}

// RegisterAsync installs the RPC generation on the process-wide registry.
func RegisterAsync(f AsyncFactory) {
	defaultRegistry.RegisterAsync(f)
}
