// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/dhaase/valuetype"
	"github.com/dhaase/valuetype/example/money"
	"github.com/dhaase/valuetype/lookup"
	"github.com/dhaase/valuetype/resource"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrUnknownContract is returned by list for contracts not compiled into the binary.
var ErrUnknownContract = errors.New("unknown contract")

type listing struct {
	Name string
	Type string
}

type lister func(ctx context.Context, src resource.Source, opts ...lookup.Option) ([]listing, error)

func listerOf[C any]() lister {
	return func(ctx context.Context, src resource.Source, opts ...lookup.Option) ([]listing, error) {
		l, err := lookup.LoadFrom[C](src, opts...)
		if err != nil {
			return nil, err
		}

		var (
			types []string
			errs  []error
		)
		for p, err := range l.All(ctx) {
			if err != nil {
				errs = append(errs, err)
				continue
			}
			types = append(types, fmt.Sprintf("%T", p))
		}

		names := l.Names()
		ls := make([]listing, len(types))
		for i := range types {
			ls[i] = listing{Name: names[i], Type: types[i]}
		}
		return ls, errors.Join(errs...)
	}
}

var contracts = map[string]lister{
	valuetype.ContractName[money.Provider](): listerOf[money.Provider](),
}

func knownContracts() []string {
	names := make([]string, 0, len(contracts))
	for name := range contracts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func buildListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <contract>",
		Short: "List the providers of a contract in discovery order",
		Long: `List the providers of a contract in discovery order.

Providers are discovered in the configuration files compiled into the binary
followed by those found below every --root directory. Each provider is printed
as its name and its Go type separated by a tab.

Known contracts: ` + strings.Join(knownContracts(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contract := args[0]
			list, ok := contracts[contract]
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnknownContract, contract)
			}

			ctx, span := a.tracer.Tracer("valuetypes").Start(cmd.Context(), "list", trace.WithAttributes(
				attribute.String("lookup.contract", contract),
			))
			defer span.End()

			srcs := []resource.Source{resource.Default()}
			for _, root := range a.cfg.Roots {
				srcs = append(srcs, resource.Dir(root))
			}

			ls, err := list(ctx, resource.Multi(srcs...), a.lookupOptions()...)
			for _, l := range ls {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", l.Name, l.Type)
			}
			a.log.InfoContext(ctx, "listed providers", slog.String("contract", contract), slog.Int("count", len(ls)))
			return err
		},
	}
}
