// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package lookup

import (
	"log/slog"

	"github.com/dhaase/valuetype/catalog"
	"github.com/dhaase/valuetype/internal/noop"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultPrefix is the directory configuration resources are looked up in.
const DefaultPrefix = "META-INF/value-types/"

const tracerName = "github.com/dhaase/valuetype/lookup"

type options struct {
	resolver       catalog.Resolver
	prefix         string
	contractName   string
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
}

func defaultOptions() options {
	return options{
		resolver: catalog.Default(),
		prefix:   DefaultPrefix,
		logger:   noop.Logger(),
	}
}

// Option configures a [Loader].
type Option func(*options)

// WithCatalog resolves provider names with r instead of [catalog.Default].
func WithCatalog(r catalog.Resolver) Option {
	return func(o *options) {
		if r != nil {
			o.resolver = r
		}
	}
}

// WithPrefix changes the directory configuration resources are looked up in.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithContractName overrides the canonical contract name, which is also the
// configuration resource name. It is required for unnamed contract types.
func WithContractName(name string) Option {
	return func(o *options) {
		o.contractName = name
	}
}

// WithLogger sets the logger discovery progress is reported to.
// By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracerProvider sets the provider of the tracer used for discovery spans.
// The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

func (o options) tracer() trace.Tracer {
	tp := o.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(tracerName)
}
