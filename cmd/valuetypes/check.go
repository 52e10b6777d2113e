// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"

	"github.com/dhaase/valuetype/internal/try"
	"github.com/dhaase/valuetype/lookup"
	"github.com/dhaase/valuetype/resource"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// ErrCheckFailed is returned by check if any configuration file is invalid.
var ErrCheckFailed = errors.New("configuration check failed")

func buildCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <dir>...",
		Short: "Validate the configuration files below each directory",
		Long: `Validate the configuration files below each directory.

Every file in <dir>/<prefix> is parsed as a configuration file for the contract
it is named after. Accepted provider names are printed, providers are not
instantiated.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, span := a.tracer.Tracer("valuetypes").Start(cmd.Context(), "check", trace.WithAttributes(
				attribute.StringSlice("valuetypes.dirs", args),
			))
			defer span.End()

			outs := make([]bytes.Buffer, len(args))
			failed := make([]int, len(args))

			g, gctx := errgroup.WithContext(ctx)
			for i, dir := range args {
				g.Go(func() (err error) {
					defer try.Recover(&err)

					failed[i], err = a.checkDir(gctx, &outs[i], dir)
					return err
				})
			}
			err := g.Wait()
			for i := range outs {
				outs[i].WriteTo(cmd.OutOrStdout())
			}
			if err != nil {
				return err
			}

			n := 0
			for _, f := range failed {
				n += f
			}
			if n > 0 {
				return fmt.Errorf("%w: %d invalid files", ErrCheckFailed, n)
			}
			return nil
		},
	}
}

// checkDir returns the number of invalid files below dir.
func (a *app) checkDir(ctx context.Context, out io.Writer, dir string) (int, error) {
	fsys := os.DirFS(dir)
	src := resource.Dir(dir)
	prefix := path.Clean(a.cfg.Prefix)

	var failed int
	err := fs.WalkDir(fsys, prefix, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rs, err := src.Resources(ctx, name)
		if err != nil {
			return err
		}
		for _, r := range rs {
			names, err := lookup.Parse(path.Base(name), r, nil)
			if err != nil {
				failed++
				a.log.ErrorContext(ctx, "invalid configuration file", slog.String("location", r.Location()), slog.Any("error", err))
				fmt.Fprintln(out, err)
				continue
			}
			for _, n := range names {
				fmt.Fprintf(out, "%s\t%s\n", r.Location(), n)
			}
			a.log.DebugContext(ctx, "checked configuration file", slog.String("location", r.Location()), slog.Int("providers", len(names)))
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		a.log.WarnContext(ctx, "no configuration files", slog.String("dir", dir), slog.String("prefix", prefix))
		return 0, nil
	}
	return failed, err
}
