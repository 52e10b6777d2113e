// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package resource locates named configuration resources.
//
// A [Source] plays the role a class path plays elsewhere: it is an ordered
// collection of roots, each of which may contain a resource with a given
// name. Resources are only opened when read.
package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sync"
)

// Resource is a located, not yet opened, resource.
type Resource interface {
	// Location identifies the resource in error messages and logs.
	Location() string

	// Open returns the resource content. Callers must close it.
	Open() (io.ReadCloser, error)
}

// Source enumerates all resources matching a name.
type Source interface {
	Resources(ctx context.Context, name string) ([]Resource, error)
}

// SourceFunc is a func variant of the [Source] interface.
type SourceFunc func(context.Context, string) ([]Resource, error)

// Resources implements the [Source] interface.
func (f SourceFunc) Resources(ctx context.Context, name string) ([]Resource, error) {
	return f(ctx, name)
}

// InvalidNameError is returned for names which are not valid [fs.FS] paths.
type InvalidNameError struct {
	Name string
}

// Error implements the [builtin.error] interface.
func (e InvalidNameError) Error() string {
	return fmt.Sprintf("resource: invalid resource name: %q", e.Name)
}

type fsSource struct {
	label string
	fsys  fs.FS
}

// FS returns a [Source] with a single root. The label prefixes the
// location of every resource found in fsys.
func FS(label string, fsys fs.FS) Source {
	return fsSource{label: label, fsys: fsys}
}

// Dir returns a [Source] rooted at the directory dir.
func Dir(dir string) Source {
	return fsSource{label: "file:" + dir, fsys: os.DirFS(dir)}
}

// Resources implements the [Source] interface.
func (src fsSource) Resources(ctx context.Context, name string) ([]Resource, error) {
	if !fs.ValidPath(name) {
		return nil, InvalidNameError{Name: name}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := fs.Stat(src.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, nil
	}
	return []Resource{fsResource{label: src.label, fsys: src.fsys, name: name}}, nil
}

type fsResource struct {
	label string
	fsys  fs.FS
	name  string
}

func (r fsResource) Location() string {
	if r.label == "" {
		return r.name
	}
	return r.label + "!/" + r.name
}

func (r fsResource) Open() (io.ReadCloser, error) {
	return r.fsys.Open(r.name)
}

type multi []Source

// Multi concatenates the resources of srcs in the order given.
// Nil sources are ignored.
func Multi(srcs ...Source) Source {
	m := make(multi, 0, len(srcs))
	for _, src := range srcs {
		if src != nil {
			m = append(m, src)
		}
	}
	return m
}

// Resources implements the [Source] interface.
func (m multi) Resources(ctx context.Context, name string) ([]Resource, error) {
	var all []Resource
	for _, src := range m {
		rs, err := src.Resources(ctx, name)
		if err != nil {
			return nil, err
		}
		all = append(all, rs...)
	}
	return all, nil
}

// Join prefixes name with dir the way resource names are composed.
func Join(dir, name string) string {
	return path.Join(dir, name)
}

var (
	defaultMu    sync.Mutex
	defaultRoots []Source
)

// Register adds fsys to the process wide default source. Packages
// providing value types typically call it from init with an embedded
// META-INF tree. Roots are searched in registration order.
func Register(label string, fsys fs.FS) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRoots = append(defaultRoots, FS(label, fsys))
}

// Default returns the process wide source. Roots registered later are
// visible to sources returned earlier.
func Default() Source {
	return SourceFunc(func(ctx context.Context, name string) ([]Resource, error) {
		defaultMu.Lock()
		roots := make([]Source, len(defaultRoots))
		copy(roots, defaultRoots)
		defaultMu.Unlock()

		return Multi(roots...).Resources(ctx, name)
	})
}
