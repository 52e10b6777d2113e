// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package catalog maps provider names to constructors.
//
// Configuration resources only carry names. A Catalog resolves such a name
// to the concrete type it stands for and a zero argument constructor for it.
// Packages implementing providers register them at startup, usually from init:
//
//	func init() {
//		catalog.MustProvide("money.Euro", func() (Euro, error) { return Euro{}, nil })
//	}
package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
)

var (
	// ErrDuplicate indicates an attempt to register a name twice.
	ErrDuplicate = errors.New("catalog: duplicate registration")

	// ErrSealed indicates an attempt to register in a sealed catalog.
	ErrSealed = errors.New("catalog: sealed catalog")

	// ErrInvalidEntry indicates an entry without name, type or constructor.
	ErrInvalidEntry = errors.New("catalog: invalid entry")
)

// Entry describes how to construct one provider.
type Entry struct {
	// Name is the provider name used in configuration resources.
	Name string

	// Type is the concrete type New returns. It is checked against the
	// contract before New is ever called.
	Type reflect.Type

	// New constructs a fresh provider instance.
	New func() (any, error)
}

// Resolver looks up entries by name.
type Resolver interface {
	Lookup(name string) (Entry, bool)
}

// Catalog is a registry of provider entries. It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
	sealed  atomic.Bool
}

// New returns an empty Catalog.
func New() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Register adds e to the catalog.
func (c *Catalog) Register(e Entry) error {
	if e.Name == "" || e.Type == nil || e.New == nil {
		return fmt.Errorf("%w: %q", ErrInvalidEntry, e.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sealed.Load() {
		return ErrSealed
	}
	if _, exists := c.entries[e.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, e.Name)
	}
	c.entries[e.Name] = e
	return nil
}

// Lookup implements the [Resolver] interface.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[name]
	return e, ok
}

// Names returns all registered names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	c.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Len returns the number of registered entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Seal prevents further registrations. It reports whether this call sealed the catalog.
// Registrations still in progress complete before Seal returns.
func (c *Catalog) Seal() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.sealed.Swap(true)
}

// Sealed reports whether the catalog is sealed.
func (c *Catalog) Sealed() bool {
	return c.sealed.Load()
}

// Provide registers ctor under name with T as its concrete type.
func Provide[T any](c *Catalog, name string, ctor func() (T, error)) error {
	if ctor == nil {
		return fmt.Errorf("%w: %q has no constructor", ErrInvalidEntry, name)
	}
	return c.Register(Entry{
		Name: name,
		Type: reflect.TypeFor[T](),
		New: func() (any, error) {
			return ctor()
		},
	})
}

var defaultCatalog = New()

// Default returns the process wide catalog.
func Default() *Catalog {
	return defaultCatalog
}

// MustProvide registers ctor in the default catalog and panics on failure.
// It is meant to be called from init.
func MustProvide[T any](name string, ctor func() (T, error)) {
	if err := Provide(defaultCatalog, name, ctor); err != nil {
		panic(err)
	}
}
