// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package lookup

import (
	"context"
	"errors"
	"log/slog"
	"reflect"

	"github.com/dhaase/valuetype"
	"github.com/dhaase/valuetype/catalog"
	"github.com/dhaase/valuetype/internal/try"
	"github.com/dhaase/valuetype/resource"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var errNilProvider = errors.New("constructor returned nil")

type state int

const (
	stateFresh state = iota
	stateEnumerating
	stateParsing
	stateNameReady
	stateExhausted
)

func (s state) String() string {
	switch s {
	case stateFresh:
		return "fresh"
	case stateEnumerating:
		return "enumerating"
	case stateParsing:
		return "parsing"
	case stateNameReady:
		return "name-ready"
	case stateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// cache holds instantiated providers in discovery order.
type cache[C any] struct {
	names     []string
	providers []C
	index     map[string]int
}

func newCache[C any]() *cache[C] {
	return &cache[C]{index: make(map[string]int)}
}

func (c *cache[C]) contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

func (c *cache[C]) put(name string, p C) {
	c.index[name] = len(c.names)
	c.names = append(c.names, name)
	c.providers = append(c.providers, p)
}

func (c *cache[C]) len() int {
	return len(c.providers)
}

// cursor is the resumable discovery state shared by every iterator of a
// Loader generation. It advances at most one provider per call to next.
type cursor[C any] struct {
	contract     string
	contractType reflect.Type
	resourceName string
	source       resource.Source
	resolver     catalog.Resolver
	cache        *cache[C]
	log          *slog.Logger
	tracer       trace.Tracer

	state      state
	enumerated bool
	configs    []resource.Resource
	pending    []string
	nextName   string
}

func (c *cursor[C]) transition(ctx context.Context, to state) {
	if c.state == to {
		return
	}
	c.log.DebugContext(
		ctx,
		"discovery state changed",
		slog.String("contract", c.contract),
		slog.String("from", c.state.String()),
		slog.String("to", to.String()),
	)
	c.state = to
}

func (c *cursor[C]) hasNext(ctx context.Context) (bool, error) {
	if c.state == stateNameReady {
		return true, nil
	}
	if !c.enumerated {
		c.transition(ctx, stateEnumerating)
		configs, err := c.enumerate(ctx)
		if err != nil {
			return false, err
		}
		c.configs = configs
		c.enumerated = true
	}
	for len(c.pending) == 0 {
		if len(c.configs) == 0 {
			c.transition(ctx, stateExhausted)
			return false, nil
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}

		// consume the resource first so a malformed one is not parsed again
		r := c.configs[0]
		c.configs = c.configs[1:]
		c.transition(ctx, stateParsing)

		names, err := c.parse(ctx, r)
		if err != nil {
			return false, err
		}
		c.pending = names
	}

	c.nextName, c.pending = c.pending[0], c.pending[1:]
	c.transition(ctx, stateNameReady)
	return true, nil
}

func (c *cursor[C]) next(ctx context.Context) (C, error) {
	var zero C
	ok, err := c.hasNext(ctx)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, valuetype.ErrNoSuchElement
	}

	name := c.nextName
	c.nextName = ""
	c.transition(ctx, stateParsing)

	return c.instantiate(ctx, name)
}

func (c *cursor[C]) enumerate(ctx context.Context) (_ []resource.Resource, err error) {
	ctx, span := c.tracer.Start(ctx, "lookup.enumerate", trace.WithAttributes(
		attribute.String("lookup.contract", c.contract),
		attribute.String("lookup.resource", c.resourceName),
	))
	defer func() {
		endSpan(span, err)
	}()

	rs, err := c.source.Resources(ctx, c.resourceName)
	if err != nil {
		return nil, ConfigurationError{
			Contract: c.contract,
			Reason:   ErrLocate,
			Cause:    err,
		}
	}
	c.log.DebugContext(
		ctx,
		"located configuration files",
		slog.String("contract", c.contract),
		slog.Int("count", len(rs)),
	)
	return rs, nil
}

func (c *cursor[C]) parse(ctx context.Context, r resource.Resource) (_ []string, err error) {
	ctx, span := c.tracer.Start(ctx, "lookup.parse", trace.WithAttributes(
		attribute.String("lookup.contract", c.contract),
		attribute.String("lookup.location", r.Location()),
	))
	defer func() {
		endSpan(span, err)
	}()

	names, err := Parse(c.contract, r, c.cache.contains)
	if err != nil {
		return nil, err
	}
	c.log.DebugContext(
		ctx,
		"parsed configuration file",
		slog.String("contract", c.contract),
		slog.String("location", r.Location()),
		slog.Int("providers", len(names)),
	)
	return names, nil
}

func (c *cursor[C]) instantiate(ctx context.Context, name string) (_ C, err error) {
	ctx, span := c.tracer.Start(ctx, "lookup.instantiate", trace.WithAttributes(
		attribute.String("lookup.contract", c.contract),
		attribute.String("lookup.provider", name),
	))
	defer func() {
		endSpan(span, err)
	}()

	var zero C
	e, ok := c.resolver.Lookup(name)
	if !ok {
		return zero, ConfigurationError{
			Contract: c.contract,
			Provider: name,
			Reason:   ErrProviderNotFound,
		}
	}
	if e.Type == nil || !e.Type.AssignableTo(c.contractType) {
		return zero, ConfigurationError{
			Contract: c.contract,
			Provider: name,
			Reason:   ErrNotSubtype,
		}
	}

	v, err := construct(e)
	if err == nil && isNil(v) {
		err = errNilProvider
	}
	if err != nil {
		return zero, ConfigurationError{
			Contract: c.contract,
			Provider: name,
			Reason:   ErrInstantiate,
			Cause:    err,
		}
	}
	p, ok := v.(C)
	if !ok {
		return zero, ConfigurationError{
			Contract: c.contract,
			Provider: name,
			Reason:   ErrNotSubtype,
		}
	}

	c.cache.put(name, p)
	c.log.DebugContext(
		ctx,
		"instantiated provider",
		slog.String("contract", c.contract),
		slog.String("provider", name),
	)
	return p, nil
}

func construct(e catalog.Entry) (v any, err error) {
	defer try.Recover(&err)
	return e.New()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
