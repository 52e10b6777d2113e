// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package valuetype

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"math"
	"reflect"
	"strings"
)

// Op names an operation which can be dispatched through [Maybe.Invoke].
type Op string

const (
	OpValueOf   Op = "valueOf"
	OpIsPresent Op = "isPresent"
	OpGet       Op = "get"
	OpHash      Op = "hash"
	OpEqual     Op = "equal"
	OpClone     Op = "clone"
	OpString    Op = "string"
)

// Maybe holds either a real value of T or marks its absence. The absent
// form is a regular value, not a nil reference, so every operation below can
// be called on it. Only [Maybe.Equal], [Maybe.IsPresent] and [Maybe.Get]
// reveal the difference.
//
// T is the contract type. All absent values of one contract are equal to
// each other and share a hash.
type Maybe[T any] struct {
	value   T
	present bool
	factory Factory[T]
}

var _ Value[any] = Maybe[any]{}

// Of wraps a real value. A nil value yields an absent Maybe without
// a backing factory.
func Of[T any](v T) Maybe[T] {
	if isNil(v) {
		return Maybe[T]{}
	}
	f, _ := any(v).(Factory[T])
	return Maybe[T]{value: v, present: true, factory: f}
}

// Absent returns the absent value of contract T. The factory stays
// reachable through [Maybe.ValueOf] so a real value can still be produced
// from an absent one.
func Absent[T any](factory Factory[T]) Maybe[T] {
	return Maybe[T]{factory: factory}
}

// Parse converts text with the given factory. Blank text produces the absent
// value instead of calling the factory.
func Parse[T any](factory Factory[T], text string) (Maybe[T], error) {
	if strings.TrimSpace(text) == "" {
		return Absent(factory), nil
	}
	v, err := factory.ValueOf(text)
	if err != nil {
		return Maybe[T]{}, err
	}
	return Maybe[T]{value: v, present: true, factory: factory}, nil
}

// ValueOf implements the [Factory] interface by delegating to the backing factory.
func (m Maybe[T]) ValueOf(text string) (T, error) {
	if m.factory == nil {
		var zero T
		return zero, fmt.Errorf("%w: %s without a backing factory", ErrUnsupportedOperation, OpValueOf)
	}
	return m.factory.ValueOf(text)
}

// IsPresent reports whether m holds a real value.
func (m Maybe[T]) IsPresent() bool {
	return m.present
}

// IsAbsent implements the [Value] interface.
func (m Maybe[T]) IsAbsent() bool {
	return !m.present
}

// Get returns the real value or [ErrNoSuchElement].
func (m Maybe[T]) Get() (T, error) {
	if !m.present {
		var zero T
		return zero, ErrNoSuchElement
	}
	return m.value, nil
}

// OrElse returns the real value or v if m is absent.
func (m Maybe[T]) OrElse(v T) T {
	if !m.present {
		return v
	}
	return m.value
}

// Hash is constant for all absent values of T. Present values use their own
// Hash method when they have one. A type with an Equal(T) method but no Hash
// method hashes all of its present values alike, since Hash can not know
// which differences Equal ignores. Other values hash by content, so values
// reported equal by [reflect.DeepEqual] share a hash.
func (m Maybe[T]) Hash() uint64 {
	if !m.present {
		return contractHash[T]()
	}
	if h, ok := any(m.value).(interface{ Hash() uint64 }); ok {
		return h.Hash()
	}
	f := fnv.New64a()
	f.Write([]byte(contractName[T]()))
	f.Write([]byte{1})
	if _, ok := any(m.value).(interface{ Equal(T) bool }); ok {
		return f.Sum64()
	}
	hashValue(f, reflect.ValueOf(&m.value).Elem(), 0)
	return f.Sum64()
}

// Equal reports whether other is equivalent to m. An absent value only
// equals another absent value of the same contract, never a real value
// and never nil.
func (m Maybe[T]) Equal(other any) bool {
	switch o := other.(type) {
	case Maybe[T]:
		return m.equal(o)
	case *Maybe[T]:
		if o == nil {
			return false
		}
		return m.equal(*o)
	case nil:
		return false
	}
	if !m.present {
		return false
	}
	v, ok := other.(T)
	if !ok {
		return false
	}
	return valuesEqual(m.value, v)
}

func (m Maybe[T]) equal(o Maybe[T]) bool {
	if m.present != o.present {
		return false
	}
	if !m.present {
		return true
	}
	return valuesEqual(m.value, o.value)
}

// Clone returns m itself when absent. Present values are cloned
// when they provide a Clone method.
func (m Maybe[T]) Clone() Maybe[T] {
	if !m.present {
		return m
	}
	if c, ok := any(m.value).(interface{ Clone() T }); ok {
		return Maybe[T]{value: c.Clone(), present: true, factory: m.factory}
	}
	return m
}

// String implements the [fmt.Stringer] interface.
func (m Maybe[T]) String() string {
	if !m.present {
		return "absent value of " + contractName[T]()
	}
	return fmt.Sprint(m.value)
}

// Invoke dispatches op by name. Operations outside the known set fail
// with [ErrUnsupportedOperation].
func (m Maybe[T]) Invoke(op Op, args ...any) (any, error) {
	switch op {
	case OpValueOf:
		if len(args) != 1 {
			return nil, fmt.Errorf("valuetype: %s expects 1 argument, got %d", op, len(args))
		}
		text, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("valuetype: %s expects a string argument, got %T", op, args[0])
		}
		return m.ValueOf(text)
	case OpIsPresent:
		return m.IsPresent(), nil
	case OpGet:
		return m.Get()
	case OpHash:
		return m.Hash(), nil
	case OpEqual:
		if len(args) != 1 {
			return nil, fmt.Errorf("valuetype: %s expects 1 argument, got %d", op, len(args))
		}
		return m.Equal(args[0]), nil
	case OpClone:
		return m.Clone(), nil
	case OpString:
		return m.String(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
	}
}

func (m Maybe[T]) absent() bool {
	return !m.present
}

type absentMarker interface {
	absent() bool
}

// IsAbsent reports whether v is an absent value produced by this package.
func IsAbsent(v any) bool {
	m, ok := v.(absentMarker)
	return ok && m.absent()
}

func contractName[T any]() string {
	if name := ContractName[T](); name != "" {
		return name
	}
	return reflect.TypeFor[T]().String()
}

func contractHash[T any]() uint64 {
	f := fnv.New64a()
	f.Write([]byte(contractName[T]()))
	return f.Sum64()
}

func valuesEqual[T any](a, b T) bool {
	if eq, ok := any(a).(interface{ Equal(T) bool }); ok {
		return eq.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}

// maxHashDepth bounds hashValue on cyclic values. Equal values are cut
// off at the same depth so they still hash alike.
const maxHashDepth = 32

// hashValue writes v to h following the rules of [reflect.DeepEqual].
// Unexported fields are read without calling Interface.
func hashValue(h hash.Hash64, v reflect.Value, depth int) {
	if !v.IsValid() {
		h.Write([]byte{0})
		return
	}
	if depth > maxHashDepth {
		return
	}
	h.Write([]byte{byte(v.Kind())})

	var buf [8]byte
	writeUint := func(u uint64) {
		binary.LittleEndian.PutUint64(buf[:], u)
		h.Write(buf[:])
	}
	writeFloat := func(f float64) {
		if f == 0 {
			f = 0
		}
		writeUint(math.Float64bits(f))
	}

	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			writeUint(1)
		} else {
			writeUint(0)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		writeUint(uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		writeUint(v.Uint())
	case reflect.Float32, reflect.Float64:
		writeFloat(v.Float())
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		writeFloat(real(c))
		writeFloat(imag(c))
	case reflect.String:
		writeUint(uint64(v.Len()))
		h.Write([]byte(v.String()))
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			writeUint(0)
			return
		}
		hashValue(h, v.Elem(), depth+1)
	case reflect.Array, reflect.Slice:
		writeUint(uint64(v.Len()))
		for i := range v.Len() {
			hashValue(h, v.Index(i), depth+1)
		}
	case reflect.Struct:
		for i := range v.NumField() {
			hashValue(h, v.Field(i), depth+1)
		}
	case reflect.Map:
		writeUint(uint64(v.Len()))
		// entries are combined order independently
		var sum uint64
		iter := v.MapRange()
		for iter.Next() {
			e := fnv.New64a()
			hashValue(e, iter.Key(), depth+1)
			hashValue(e, iter.Value(), depth+1)
			sum += e.Sum64()
		}
		writeUint(sum)
	}
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
