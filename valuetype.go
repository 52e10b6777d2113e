// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package valuetype

import (
	"errors"
	"path"
	"reflect"
	"strings"
)

// Factory produces values of T from their textual representation.
type Factory[T any] interface {
	ValueOf(text string) (T, error)
}

// FactoryFunc is a func variant of the [Factory] interface.
type FactoryFunc[T any] func(string) (T, error)

// ValueOf implements the [Factory] interface.
func (f FactoryFunc[T]) ValueOf(text string) (T, error) {
	return f(text)
}

// Value is the contract every value type fulfils. Besides producing
// new values it can report whether it is itself an absent value.
type Value[T any] interface {
	Factory[T]

	IsAbsent() bool
}

var (
	// ErrNoSuchElement is returned when the payload of an absent value is requested.
	ErrNoSuchElement = errors.New("valuetype: no such element")

	// ErrUnsupportedOperation is returned for operations an absent value
	// does not recognize.
	ErrUnsupportedOperation = errors.New("valuetype: unsupported operation")
)

// ContractName returns the canonical name of T, see [TypeName].
func ContractName[T any]() string {
	return TypeName(reflect.TypeFor[T]())
}

// TypeName returns "<pkg>.<Type>" for a named type where <pkg> is the last
// element of its package path. Generic instantiation parameters are dropped,
// pointers are followed once and unnamed types yield "".
func TypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer && t.Name() == "" {
		t = t.Elem()
	}

	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return ""
	}
	if p := t.PkgPath(); p != "" {
		return path.Base(p) + "." + name
	}
	return name
}
