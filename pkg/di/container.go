package di

import (
	"github.com/veraxid/go-console-cache/cache"
	"github.com/veraxid/go-console-cache/consolecache"
	"github.com/veraxid/go-console-cache/service"
)

// Container provides dependency injection for the console cache layer. It
// manages the singleton store for one operator session and builds registries
// bound to it.
type Container struct {
	store  *cache.Store
	config cache.Config
}

// NewContainer creates a new DI container with the provided configuration.
// The store is backed by the default bounded storage engine; store options
// such as WithLogger pass through.
func NewContainer(config cache.Config, opts ...cache.StoreOption) (*Container, error) {
	store, err := cache.NewDefaultStore(config, opts...)
	if err != nil {
		return nil, err
	}
	return &Container{store: store, config: config}, nil
}

// NewContainerWithDefaults creates a new DI container using default
// configuration. This is a convenience constructor for typical use cases
// where custom configuration is not required.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(cache.DefaultConfig())
}

// Store returns the singleton store instance. This allows access to the
// underlying cache for subscriptions and advanced use cases.
func (c *Container) Store() *cache.Store {
	return c.store
}

// Config returns a copy of the cache configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.config
}

// NewRegistry wires every service family in svcs against the container's
// store. Registries built from the same container share one cache, so a
// Reset on any of them clears the session for all.
func (c *Container) NewRegistry(svcs service.Services) (*consolecache.Registry, error) {
	return consolecache.New(c.store, svcs)
}
