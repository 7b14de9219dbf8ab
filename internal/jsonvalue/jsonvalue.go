// Package jsonvalue adapts the tree produced by encoding/json's
// default decode (map[string]any, []any, float64, string, bool, nil)
// to mustache.Value directly, without the reflection walk
// internal/reflectvalue needs for arbitrary Go structs. It backs the
// CLI's --data flag.
package jsonvalue

import "github.com/oarkflow/mustache"

// Of wraps a value decoded by json.Unmarshal into an any.
func Of(v any) mustache.Value {
	switch x := v.(type) {
	case nil:
		return nilValue{}
	case bool:
		return boolValue{x}
	case float64:
		return floatValue{x}
	case string:
		return stringValue{x}
	case []any:
		return sequenceValue{x}
	case map[string]any:
		return objectValue{x}
	default:
		return nilValue{}
	}
}

type nilValue struct{}

func (nilValue) Kind() mustache.Kind                 { return mustache.KindNil }
func (nilValue) Bool() bool                          { return false }
func (nilValue) Integer() int64                      { return 0 }
func (nilValue) Float() float64                      { return 0 }
func (nilValue) String() string                      { return "" }
func (nilValue) Len() int                            { return 0 }
func (nilValue) Index(int) mustache.Value            { return nilValue{} }
func (nilValue) Field(string) (mustache.Value, bool) { return nilValue{}, false }
func (nilValue) Unwrap() (mustache.Value, bool)      { return nilValue{}, false }
func (nilValue) Lambda() (mustache.Lambda, bool)     { return nil, false }
func (nilValue) Truthy() bool                        { return false }

type boolValue struct{ v bool }

func (b boolValue) Kind() mustache.Kind              { return mustache.KindBool }
func (b boolValue) Bool() bool                       { return b.v }
func (boolValue) Integer() int64                     { return 0 }
func (boolValue) Float() float64                     { return 0 }
func (boolValue) String() string                     { return "" }
func (boolValue) Len() int                           { return 0 }
func (boolValue) Index(int) mustache.Value           { return nilValue{} }
func (boolValue) Field(string) (mustache.Value, bool) { return nilValue{}, false }
func (boolValue) Unwrap() (mustache.Value, bool)     { return nilValue{}, false }
func (boolValue) Lambda() (mustache.Lambda, bool)    { return nil, false }
func (b boolValue) Truthy() bool                     { return b.v }

type floatValue struct{ v float64 }

func (floatValue) Kind() mustache.Kind               { return mustache.KindFloat }
func (floatValue) Bool() bool                        { return false }
func (f floatValue) Integer() int64                  { return int64(f.v) }
func (f floatValue) Float() float64                  { return f.v }
func (floatValue) String() string                    { return "" }
func (floatValue) Len() int                          { return 0 }
func (floatValue) Index(int) mustache.Value          { return nilValue{} }
func (floatValue) Field(string) (mustache.Value, bool) { return nilValue{}, false }
func (floatValue) Unwrap() (mustache.Value, bool)    { return nilValue{}, false }
func (floatValue) Lambda() (mustache.Lambda, bool)   { return nil, false }
func (floatValue) Truthy() bool                      { return true }

type stringValue struct{ v string }

func (stringValue) Kind() mustache.Kind              { return mustache.KindString }
func (stringValue) Bool() bool                       { return false }
func (stringValue) Integer() int64                   { return 0 }
func (stringValue) Float() float64                   { return 0 }
func (s stringValue) String() string                 { return s.v }
func (stringValue) Len() int                         { return 0 }
func (stringValue) Index(int) mustache.Value         { return nilValue{} }
func (stringValue) Field(string) (mustache.Value, bool) { return nilValue{}, false }
func (stringValue) Unwrap() (mustache.Value, bool)   { return nilValue{}, false }
func (stringValue) Lambda() (mustache.Lambda, bool)  { return nil, false }
func (s stringValue) Truthy() bool                   { return s.v != "" }

type sequenceValue struct{ v []any }

func (sequenceValue) Kind() mustache.Kind            { return mustache.KindSequence }
func (sequenceValue) Bool() bool                     { return false }
func (sequenceValue) Integer() int64                 { return 0 }
func (sequenceValue) Float() float64                 { return 0 }
func (sequenceValue) String() string                 { return "" }
func (s sequenceValue) Len() int                     { return len(s.v) }
func (s sequenceValue) Index(i int) mustache.Value   { return Of(s.v[i]) }
func (sequenceValue) Field(string) (mustache.Value, bool) { return nilValue{}, false }
func (sequenceValue) Unwrap() (mustache.Value, bool) { return nilValue{}, false }
func (sequenceValue) Lambda() (mustache.Lambda, bool) { return nil, false }
func (s sequenceValue) Truthy() bool                 { return len(s.v) > 0 }

type objectValue struct{ v map[string]any }

func (objectValue) Kind() mustache.Kind              { return mustache.KindStruct }
func (objectValue) Bool() bool                       { return false }
func (objectValue) Integer() int64                   { return 0 }
func (objectValue) Float() float64                   { return 0 }
func (objectValue) String() string                   { return "" }
func (objectValue) Len() int                         { return 0 }
func (objectValue) Index(int) mustache.Value         { return nilValue{} }
func (o objectValue) Field(name string) (mustache.Value, bool) {
	v, ok := o.v[name]
	if !ok {
		return nilValue{}, false
	}
	return Of(v), true
}
func (objectValue) Unwrap() (mustache.Value, bool)   { return nilValue{}, false }
func (objectValue) Lambda() (mustache.Lambda, bool)  { return nil, false }
func (objectValue) Truthy() bool                     { return true }
