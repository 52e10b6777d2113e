// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package lookup

import (
	"context"
	"errors"
	"iter"
	"reflect"
	"slices"

	"github.com/dhaase/valuetype"
	"github.com/dhaase/valuetype/resource"
)

// Loader discovers and caches the providers of the contract C.
//
// A Loader is not safe for concurrent use.
type Loader[C any] struct {
	opts         options
	contract     string
	contractType reflect.Type
	source       resource.Source

	gen    uint64
	cache  *cache[C]
	cursor *cursor[C]
}

// Load returns a Loader for C reading configuration resources from
// [resource.Default].
func Load[C any](opts ...Option) (*Loader[C], error) {
	return LoadFrom[C](resource.Default(), opts...)
}

// LoadFrom returns a Loader for C reading configuration resources from src.
// A nil src means [resource.Default]. No resource is touched until the
// first iteration.
func LoadFrom[C any](src resource.Source, opts ...Option) (*Loader[C], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	contractType := reflect.TypeFor[C]()
	contract := o.contractName
	if contract == "" {
		contract = valuetype.TypeName(contractType)
	}
	if contract == "" {
		return nil, ErrUnnamedContract
	}
	if src == nil {
		src = resource.Default()
	}

	l := &Loader[C]{
		opts:         o,
		contract:     contract,
		contractType: contractType,
		source:       src,
	}
	l.reset()
	return l, nil
}

func (l *Loader[C]) reset() {
	l.gen++
	l.cache = newCache[C]()
	l.cursor = &cursor[C]{
		contract:     l.contract,
		contractType: l.contractType,
		resourceName: resource.Join(l.opts.prefix, l.contract),
		source:       l.source,
		resolver:     l.opts.resolver,
		cache:        l.cache,
		log:          l.opts.logger,
		tracer:       l.opts.tracer(),
	}
}

// Contract returns the canonical name of C.
func (l *Loader[C]) Contract() string {
	return l.contract
}

// Reload drops every cached provider and restarts discovery. Providers are
// instantiated again as they are iterated. Existing iterators start over.
func (l *Loader[C]) Reload() {
	l.opts.logger.Debug("reloading providers")
	l.reset()
}

// Len returns the number of providers instantiated so far.
func (l *Loader[C]) Len() int {
	return l.cache.len()
}

// Names returns the names of the providers instantiated so far in discovery order.
func (l *Loader[C]) Names() []string {
	return slices.Clone(l.cache.names)
}

// String implements the [fmt.Stringer] interface.
func (l *Loader[C]) String() string {
	return "lookup.Loader[" + l.contract + "]"
}

// Iterator returns an iterator over all providers of C. Cached providers are
// replayed first, in discovery order, before discovery continues. All iterators
// of a Loader share the same discovery progress.
func (l *Loader[C]) Iterator() *Iterator[C] {
	return &Iterator[C]{l: l, gen: l.gen}
}

// All returns a sequence over the providers of C. Errors are yielded
// alongside a zero provider and iteration continues with the next
// provider, unless configuration files could not be located or ctx is done.
func (l *Loader[C]) All(ctx context.Context) iter.Seq2[C, error] {
	return func(yield func(C, error) bool) {
		var zero C
		it := l.Iterator()
		for {
			ok, err := it.HasNext(ctx)
			if err != nil {
				if !yield(zero, err) || stopsIteration(ctx, err) {
					return
				}
				continue
			}
			if !ok {
				return
			}
			p, err := it.Next(ctx)
			if !yield(p, err) {
				return
			}
		}
	}
}

func stopsIteration(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, ErrLocate)
}

// Iterator walks the providers of a [Loader].
type Iterator[C any] struct {
	l   *Loader[C]
	gen uint64
	i   int
}

func (it *Iterator[C]) sync() {
	if it.gen == it.l.gen {
		return
	}
	it.gen = it.l.gen
	it.i = 0
}

// HasNext reports whether another provider is available. Discovery may
// need to read configuration files to answer, and failures to do so are
// returned as a [ConfigurationError].
func (it *Iterator[C]) HasNext(ctx context.Context) (bool, error) {
	it.sync()
	if it.i < it.l.cache.len() {
		return true, nil
	}
	return it.l.cursor.hasNext(ctx)
}

// Next returns the next provider. It returns [valuetype.ErrNoSuchElement]
// once all providers have been returned.
func (it *Iterator[C]) Next(ctx context.Context) (C, error) {
	it.sync()
	if it.i < it.l.cache.len() {
		p := it.l.cache.providers[it.i]
		it.i++
		return p, nil
	}

	p, err := it.l.cursor.next(ctx)
	if err != nil {
		return p, err
	}
	it.i = it.l.cache.len()
	return p, nil
}

// Remove always returns [errors.ErrUnsupported].
func (it *Iterator[C]) Remove() error {
	return errors.ErrUnsupported
}
