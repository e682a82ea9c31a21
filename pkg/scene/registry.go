package scene

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Backend paints a Drawing. Each call to Render replaces the previous output.
type Backend interface {
	Render(d *Drawing) error
}

// WriterBackend is a Backend whose last render can be serialised to a file.
type WriterBackend interface {
	Backend
	io.WriterTo
	// Extension is the file extension of the serialised form, without dot.
	Extension() string
}

type BackendFactory func() Backend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
)

// Register makes a backend available by name. It is meant to be called from
// the init function of a backend package and panics if factory is nil or
// the name is already taken.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("scene: Register factory is nil")
	}
	if _, dup := backends[name]; dup {
		panic("scene: Register called twice for " + name)
	}
	backends[name] = factory
}

func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

func NewBackend(name string) (Backend, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("scene: unknown backend %q (forgotten import?)", name)
	}
	return factory(), nil
}

// Backends returns the registered backend names in alphabetical order.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}
