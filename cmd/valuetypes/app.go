// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dhaase/valuetype/config"
	"github.com/dhaase/valuetype/internal/telemetry"
	"github.com/dhaase/valuetype/lookup"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// EnvPrefix prefixes every environment variable read as configuration.
const EnvPrefix = "VALUETYPES_"

// Config is the merged configuration of the binary.
type Config struct {
	Logging struct {
		Level  slog.Level `config:"level"`
		Format string     `config:"format"`
	} `config:"logging"`

	Trace  bool     `config:"trace"`
	Prefix string   `config:"prefix"`
	Roots  []string `config:"roots"`
}

func defaults() config.Map {
	return config.Map{
		"logging": map[string]any{
			"level":  "info",
			"format": "text",
		},
		"trace":  false,
		"prefix": lookup.DefaultPrefix,
	}
}

type app struct {
	stdout io.Writer
	stderr io.Writer

	cfg    Config
	log    *slog.Logger
	tracer trace.TracerProvider

	shutdown []func(context.Context) error
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	a := &app{
		stdout: stdout,
		stderr: stderr,
		log:    slog.New(slog.NewTextHandler(stderr, nil)),
		tracer: noop.NewTracerProvider(),
	}
	defer func() {
		err = errors.Join(err, a.close(context.WithoutCancel(ctx)))
	}()

	cmd := buildCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err = cmd.ExecuteContext(ctx)
	if err != nil {
		a.log.ErrorContext(ctx, "command failed", slog.Any("error", err))
	}
	return err
}

func (a *app) close(ctx context.Context) error {
	var errs []error
	for _, f := range a.shutdown {
		errs = append(errs, f(ctx))
	}
	return errors.Join(errs...)
}

func (a *app) lookupOptions() []lookup.Option {
	return []lookup.Option{
		lookup.WithPrefix(a.cfg.Prefix),
		lookup.WithLogger(a.log),
		lookup.WithTracerProvider(a.tracer),
	}
}

func buildCmd(a *app) *cobra.Command {
	var (
		configFile string
		logLevel   string
		logFormat  string
		traceOn    bool
		roots      []string
		prefix     string
	)

	root := &cobra.Command{
		Use:           "valuetypes",
		Short:         "Inspect value type providers and their configuration files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			srcs := []config.Source{defaults()}
			if configFile != "" {
				dir, name := filepath.Split(configFile)
				if dir == "" {
					dir = "."
				}
				srcs = append(srcs, config.FromYaml(config.NewFileReader(os.DirFS(dir), name)))
			}
			srcs = append(srcs, config.FromEnv(EnvPrefix))

			flags := make(config.Map)
			logging := make(map[string]any)
			if cmd.Flags().Changed("log-level") {
				logging["level"] = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				logging["format"] = logFormat
			}
			if len(logging) > 0 {
				flags["logging"] = logging
			}
			if cmd.Flags().Changed("trace") {
				flags["trace"] = traceOn
			}
			if cmd.Flags().Changed("root") {
				flags["roots"] = roots
			}
			if cmd.Flags().Changed("prefix") {
				flags["prefix"] = prefix
			}
			srcs = append(srcs, flags)

			m, err := config.Read(srcs...)
			if err != nil {
				return fmt.Errorf("reading configuration: %w", err)
			}
			err = m.Unmarshal(&a.cfg)
			if err != nil {
				return fmt.Errorf("decoding configuration: %w", err)
			}
			return a.init()
		},
	}

	pflags := root.PersistentFlags()
	pflags.StringVar(&configFile, "config", "", "YAML configuration file")
	pflags.StringVar(&logLevel, "log-level", "info", "minimum log level (debug, info, warn, error)")
	pflags.StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	pflags.BoolVar(&traceOn, "trace", false, "write discovery spans to stderr")
	pflags.StringSliceVar(&roots, "root", nil, "additional directories searched for configuration files")
	pflags.StringVar(&prefix, "prefix", lookup.DefaultPrefix, "directory of configuration files within each root")

	root.AddCommand(
		buildListCmd(a),
		buildCheckCmd(a),
	)
	return root
}

func (a *app) init() error {
	log, err := telemetry.NewLogger(a.stderr, a.cfg.Logging.Level, a.cfg.Logging.Format)
	if err != nil {
		return err
	}
	a.log = log

	if !a.cfg.Trace {
		return nil
	}
	tp, err := telemetry.NewTracerProvider(a.stderr)
	if err != nil {
		return err
	}
	a.tracer = tp
	a.shutdown = append(a.shutdown, tp.Shutdown)
	return nil
}
