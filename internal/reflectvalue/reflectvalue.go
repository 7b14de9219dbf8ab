// Package reflectvalue adapts arbitrary Go values (structs, maps,
// slices, pointers, primitives) to mustache.Value via reflection, the
// same job accessor.go's fieldStep/fieldCache did for dotted-path
// lookups, generalized to the mustache context capability set.
package reflectvalue

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/oarkflow/mustache"
)

// Of wraps v as a mustache.Value. v may be any Go value, including
// nil; a nil interface becomes a KindNil Value, a nil pointer an empty
// KindOptional, and a nil map or slice an empty (falsy for a slice)
// KindStruct or KindSequence.
func Of(v any) mustache.Value {
	return of(reflect.ValueOf(v))
}

func of(rv reflect.Value) mustache.Value {
	if !rv.IsValid() {
		return nilValue{}
	}
	for rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nilValue{}
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Pointer {
		return optionalValue{rv: rv}
	}

	if rv.CanInterface() {
		if s, ok := rv.Interface().(fmt.Stringer); ok && rv.Kind() != reflect.String {
			return enumValue{s.String()}
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		return boolValue{rv.Bool()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intValue{rv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return intValue{int64(rv.Uint())}
	case reflect.Float32, reflect.Float64:
		return floatValue{rv.Float()}
	case reflect.String:
		return stringValue{rv.String()}
	case reflect.Slice, reflect.Array:
		return sequenceValue{rv}
	case reflect.Map:
		return mapValue{rv}
	case reflect.Struct:
		return structValue{rv}
	case reflect.Func:
		if fn, ok := funcAsLambda(rv); ok {
			return lambdaValue{fn}
		}
		return nilValue{}
	default:
		return nilValue{}
	}
}

// funcAsLambda recognizes the two function shapes a template author
// is likely to hand in: func([]byte) ([]byte, error) and
// func(string) string.
func funcAsLambda(rv reflect.Value) (mustache.Lambda, bool) {
	if lam, ok := rv.Interface().(mustache.Lambda); ok {
		return lam, true
	}
	if fn, ok := rv.Interface().(func([]byte) ([]byte, error)); ok {
		return mustache.Lambda(fn), true
	}
	if fn, ok := rv.Interface().(func(string) string); ok {
		return func(section []byte) ([]byte, error) {
			return []byte(fn(string(section))), nil
		}, true
	}
	return nil, false
}

type nilValue struct{}

func (nilValue) Kind() mustache.Kind             { return mustache.KindNil }
func (nilValue) Bool() bool                      { return false }
func (nilValue) Integer() int64                  { return 0 }
func (nilValue) Float() float64                  { return 0 }
func (nilValue) String() string                  { return "" }
func (nilValue) Len() int                        { return 0 }
func (nilValue) Index(int) mustache.Value        { return nilValue{} }
func (nilValue) Field(string) (mustache.Value, bool) { return nilValue{}, false }
func (nilValue) Unwrap() (mustache.Value, bool)  { return nilValue{}, false }
func (nilValue) Lambda() (mustache.Lambda, bool) { return nil, false }
func (nilValue) Truthy() bool                    { return false }

type boolValue struct{ v bool }

func (b boolValue) Kind() mustache.Kind             { return mustache.KindBool }
func (b boolValue) Bool() bool                      { return b.v }
func (boolValue) Integer() int64                    { return 0 }
func (boolValue) Float() float64                    { return 0 }
func (boolValue) String() string                    { return "" }
func (boolValue) Len() int                          { return 0 }
func (boolValue) Index(int) mustache.Value          { return nilValue{} }
func (boolValue) Field(string) (mustache.Value, bool) { return nilValue{}, false }
func (boolValue) Unwrap() (mustache.Value, bool)    { return nilValue{}, false }
func (boolValue) Lambda() (mustache.Lambda, bool)   { return nil, false }
func (b boolValue) Truthy() bool                    { return b.v }

type intValue struct{ v int64 }

func (intValue) Kind() mustache.Kind                { return mustache.KindInteger }
func (intValue) Bool() bool                         { return false }
func (i intValue) Integer() int64                   { return i.v }
func (i intValue) Float() float64                   { return float64(i.v) }
func (intValue) String() string                     { return "" }
func (intValue) Len() int                           { return 0 }
func (intValue) Index(int) mustache.Value           { return nilValue{} }
func (intValue) Field(string) (mustache.Value, bool) { return nilValue{}, false }
func (intValue) Unwrap() (mustache.Value, bool)     { return nilValue{}, false }
func (intValue) Lambda() (mustache.Lambda, bool)    { return nil, false }
func (intValue) Truthy() bool                       { return true }

type floatValue struct{ v float64 }

func (floatValue) Kind() mustache.Kind              { return mustache.KindFloat }
func (floatValue) Bool() bool                       { return false }
func (f floatValue) Integer() int64                 { return int64(f.v) }
func (f floatValue) Float() float64                 { return f.v }
func (floatValue) String() string                   { return "" }
func (floatValue) Len() int                         { return 0 }
func (floatValue) Index(int) mustache.Value         { return nilValue{} }
func (floatValue) Field(string) (mustache.Value, bool) { return nilValue{}, false }
func (floatValue) Unwrap() (mustache.Value, bool)   { return nilValue{}, false }
func (floatValue) Lambda() (mustache.Lambda, bool)  { return nil, false }
func (floatValue) Truthy() bool                     { return true }

type stringValue struct{ v string }

func (stringValue) Kind() mustache.Kind             { return mustache.KindString }
func (stringValue) Bool() bool                      { return false }
func (stringValue) Integer() int64                  { return 0 }
func (stringValue) Float() float64                  { return 0 }
func (s stringValue) String() string                { return s.v }
func (stringValue) Len() int                        { return 0 }
func (stringValue) Index(int) mustache.Value        { return nilValue{} }
func (stringValue) Field(string) (mustache.Value, bool) { return nilValue{}, false }
func (stringValue) Unwrap() (mustache.Value, bool)  { return nilValue{}, false }
func (stringValue) Lambda() (mustache.Lambda, bool) { return nil, false }
func (s stringValue) Truthy() bool                  { return s.v != "" }

// optionalValue wraps a Go pointer: nil is falsy and unwraps to
// nothing, non-nil is truthy and unwraps to the pointee, dereferenced
// through of() so a **T or a pointer to an interface still resolves to
// a concrete Value.
type optionalValue struct{ rv reflect.Value }

func (optionalValue) Kind() mustache.Kind               { return mustache.KindOptional }
func (optionalValue) Bool() bool                        { return false }
func (optionalValue) Integer() int64                    { return 0 }
func (optionalValue) Float() float64                    { return 0 }
func (optionalValue) String() string                    { return "" }
func (optionalValue) Len() int                          { return 0 }
func (optionalValue) Index(int) mustache.Value          { return nilValue{} }
func (optionalValue) Field(string) (mustache.Value, bool) { return nilValue{}, false }
func (o optionalValue) Unwrap() (mustache.Value, bool) {
	if o.rv.IsNil() {
		return nilValue{}, false
	}
	return of(o.rv.Elem()), true
}
func (optionalValue) Lambda() (mustache.Lambda, bool) { return nil, false }
func (o optionalValue) Truthy() bool                  { return !o.rv.IsNil() }

type enumValue struct{ v string }

func (enumValue) Kind() mustache.Kind               { return mustache.KindEnum }
func (enumValue) Bool() bool                        { return false }
func (enumValue) Integer() int64                    { return 0 }
func (enumValue) Float() float64                    { return 0 }
func (e enumValue) String() string                  { return e.v }
func (enumValue) Len() int                          { return 0 }
func (enumValue) Index(int) mustache.Value          { return nilValue{} }
func (enumValue) Field(string) (mustache.Value, bool) { return nilValue{}, false }
func (enumValue) Unwrap() (mustache.Value, bool)    { return nilValue{}, false }
func (enumValue) Lambda() (mustache.Lambda, bool)   { return nil, false }
func (e enumValue) Truthy() bool                    { return e.v != "" }

type sequenceValue struct{ rv reflect.Value }

func (sequenceValue) Kind() mustache.Kind           { return mustache.KindSequence }
func (sequenceValue) Bool() bool                    { return false }
func (sequenceValue) Integer() int64                { return 0 }
func (sequenceValue) Float() float64                { return 0 }
func (sequenceValue) String() string                { return "" }
func (s sequenceValue) Len() int                    { return s.rv.Len() }
func (s sequenceValue) Index(i int) mustache.Value  { return of(s.rv.Index(i)) }
func (sequenceValue) Field(string) (mustache.Value, bool) { return nilValue{}, false }
func (sequenceValue) Unwrap() (mustache.Value, bool) { return nilValue{}, false }
func (sequenceValue) Lambda() (mustache.Lambda, bool) { return nil, false }
func (s sequenceValue) Truthy() bool                { return s.rv.Len() > 0 }

// mapValue treats a map[string]T as a Struct (field lookup by key)
// rather than a Sequence, matching the host-facing convention of
// accessor.go's keyStep: {{#tags}} over a slice-shaped value iterates,
// {{name}} against a map looks up a key.
type mapValue struct{ rv reflect.Value }

func (mapValue) Kind() mustache.Kind                { return mustache.KindStruct }
func (mapValue) Bool() bool                         { return false }
func (mapValue) Integer() int64                     { return 0 }
func (mapValue) Float() float64                     { return 0 }
func (mapValue) String() string                     { return "" }
func (mapValue) Len() int                           { return 0 }
func (mapValue) Index(int) mustache.Value           { return nilValue{} }
func (m mapValue) Field(name string) (mustache.Value, bool) {
	v := m.rv.MapIndex(reflect.ValueOf(name))
	if !v.IsValid() {
		return nilValue{}, false
	}
	return of(v), true
}
func (mapValue) Unwrap() (mustache.Value, bool)     { return nilValue{}, false }
func (mapValue) Lambda() (mustache.Lambda, bool)    { return nil, false }
func (mapValue) Truthy() bool                       { return true }

type structValue struct{ rv reflect.Value }

func (structValue) Kind() mustache.Kind             { return mustache.KindStruct }
func (structValue) Bool() bool                      { return false }
func (structValue) Integer() int64                  { return 0 }
func (structValue) Float() float64                  { return 0 }
func (structValue) String() string                  { return "" }
func (structValue) Len() int                        { return 0 }
func (structValue) Index(int) mustache.Value        { return nilValue{} }
func (s structValue) Field(name string) (mustache.Value, bool) {
	idx, ok := fieldIndex(s.rv.Type(), name)
	if !ok {
		return nilValue{}, false
	}
	fv := s.rv.FieldByIndex(idx)
	return of(fv), true
}
func (structValue) Unwrap() (mustache.Value, bool)  { return nilValue{}, false }
func (structValue) Lambda() (mustache.Lambda, bool) { return nil, false }
func (structValue) Truthy() bool                    { return true }

type lambdaValue struct{ fn mustache.Lambda }

func (lambdaValue) Kind() mustache.Kind             { return mustache.KindLambda }
func (lambdaValue) Bool() bool                      { return false }
func (lambdaValue) Integer() int64                  { return 0 }
func (lambdaValue) Float() float64                  { return 0 }
func (lambdaValue) String() string                  { return "" }
func (lambdaValue) Len() int                        { return 0 }
func (lambdaValue) Index(int) mustache.Value        { return nilValue{} }
func (lambdaValue) Field(string) (mustache.Value, bool) { return nilValue{}, false }
func (lambdaValue) Unwrap() (mustache.Value, bool)  { return nilValue{}, false }
func (l lambdaValue) Lambda() (mustache.Lambda, bool) { return l.fn, true }
func (lambdaValue) Truthy() bool                    { return true }

// fieldCache mirrors accessor.go's fieldCache: struct field lookup by
// name is exact-match first, then case-insensitive, and the resolved
// index path is memoized per (type, name).
var (
	fieldCacheMu sync.RWMutex
	fieldCacheM  = map[fieldCacheKey][]int{}
)

type fieldCacheKey struct {
	typ  reflect.Type
	name string
}

func fieldIndex(t reflect.Type, name string) ([]int, bool) {
	key := fieldCacheKey{t, name}
	fieldCacheMu.RLock()
	idx, ok := fieldCacheM[key]
	fieldCacheMu.RUnlock()
	if ok {
		if idx == nil {
			return nil, false
		}
		return idx, true
	}

	idx, found := lookupField(t, name)
	fieldCacheMu.Lock()
	fieldCacheM[key] = idx
	fieldCacheMu.Unlock()
	return idx, found
}

func lookupField(t reflect.Type, name string) ([]int, bool) {
	if f, ok := t.FieldByName(name); ok && f.IsExported() {
		return f.Index, true
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag, ok := f.Tag.Lookup("mustache"); ok && tag == name {
			return f.Index, true
		}
		if strings.EqualFold(f.Name, name) {
			return f.Index, true
		}
	}
	return nil, false
}
