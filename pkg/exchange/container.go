package exchange

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrAlreadyRegistered is returned when a name is registered twice.
	ErrAlreadyRegistered = errors.New("exchange already registered")
	// ErrNotRegistered is returned for a name that is not in the container.
	ErrNotRegistered = errors.New("exchange not registered")
)

// Container is a thread-safe registry of named exchange clients, for example
// one per account or environment.
type Container struct {
	mu        sync.RWMutex
	exchanges map[string]Exchange
}

// NewContainer creates and returns a new empty exchange container.
func NewContainer() *Container {
	return &Container{
		exchanges: make(map[string]Exchange),
	}
}

// Register adds ex under name. Names are unique.
func (c *Container) Register(name string, ex Exchange) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.exchanges[name]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, name)
	}
	c.exchanges[name] = ex
	return nil
}

// Get retrieves an exchange instance by name.
func (c *Container) Get(name string) (Exchange, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ex, exists := c.exchanges[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	return ex, nil
}

// Names returns the registered names in sorted order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.exchanges))
	for name := range c.exchanges {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Unregister removes an exchange and closes it.
func (c *Container) Unregister(name string) error {
	c.mu.Lock()
	ex, exists := c.exchanges[name]
	delete(c.exchanges, name)
	c.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	return ex.Close()
}

// Close closes every registered exchange and empties the container.
// All exchanges are closed even if some fail; the errors are joined.
func (c *Container) Close() error {
	c.mu.Lock()
	exchanges := c.exchanges
	c.exchanges = make(map[string]Exchange)
	c.mu.Unlock()

	var errs []error
	for name, ex := range exchanges {
		if err := ex.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
