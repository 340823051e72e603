/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: value.go
Description: Decoded value tree used as the single input of schema inference. Values are
immutable once built: objects keep their keys in the order they were encountered and
accessors hand out copies, so inference can walk a tree without ever touching the
caller's data.
*/

package value

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
)

// Kind is the runtime category of a decoded value
type Kind int

const (
	String Kind = iota
	Bool
	Int
	Float
	Null
	Object
	Array
)

var kindNames = map[Kind]string{
	String: "string",
	Bool:   "bool",
	Int:    "int",
	Float:  "float",
	Null:   "null",
	Object: "object",
	Array:  "array",
}

// String returns the lower-case category name
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsScalar reports whether values of this kind carry no children
func (k Kind) IsScalar() bool {
	return k != Object && k != Array
}

// Field is one key/value pair of an object
type Field struct {
	Key   string
	Value *Value
}

// Value is a node of a decoded document
type Value struct {
	kind   Kind
	str    string
	b      bool
	i      int64
	f      float64
	fields []Field
	index  map[string]int
	items  []*Value
}

func NewString(s string) *Value { return &Value{kind: String, str: s} }
func NewBool(b bool) *Value     { return &Value{kind: Bool, b: b} }
func NewInt(i int64) *Value     { return &Value{kind: Int, i: i} }
func NewFloat(f float64) *Value { return &Value{kind: Float, f: f} }
func NewNull() *Value           { return &Value{kind: Null} }

// NewObject builds an object from ordered fields. A repeated key keeps its first
// position and takes the last value, matching how JSON decoders treat duplicates.
func NewObject(fields ...Field) *Value {
	v := &Value{kind: Object, index: make(map[string]int, len(fields))}
	for _, f := range fields {
		if f.Value == nil {
			f.Value = NewNull()
		}
		if pos, ok := v.index[f.Key]; ok {
			v.fields[pos].Value = f.Value
			continue
		}
		v.index[f.Key] = len(v.fields)
		v.fields = append(v.fields, f)
	}
	return v
}

// NewArray builds an array from its elements
func NewArray(items ...*Value) *Value {
	v := &Value{kind: Array, items: make([]*Value, len(items))}
	for i, item := range items {
		if item == nil {
			item = NewNull()
		}
		v.items[i] = item
	}
	return v
}

// Kind returns the runtime category
func (v *Value) Kind() Kind { return v.kind }

func (v *Value) Str() string    { return v.str }
func (v *Value) Bool() bool     { return v.b }
func (v *Value) Int() int64     { return v.i }
func (v *Value) Float() float64 { return v.f }
func (v *Value) IsObject() bool { return v.kind == Object }
func (v *Value) IsArray() bool  { return v.kind == Array }

// Len returns the number of fields of an object or elements of an array
func (v *Value) Len() int {
	switch v.kind {
	case Object:
		return len(v.fields)
	case Array:
		return len(v.items)
	default:
		return 0
	}
}

// Fields returns a copy of the object's fields in key order
func (v *Value) Fields() []Field {
	out := make([]Field, len(v.fields))
	copy(out, v.fields)
	return out
}

// Keys returns the object's keys in order
func (v *Value) Keys() []string {
	keys := make([]string, len(v.fields))
	for i, f := range v.fields {
		keys[i] = f.Key
	}
	return keys
}

// Get looks up an object field
func (v *Value) Get(key string) (*Value, bool) {
	pos, ok := v.index[key]
	if !ok {
		return nil, false
	}
	return v.fields[pos].Value, true
}

// Items returns a copy of the array's elements
func (v *Value) Items() []*Value {
	out := make([]*Value, len(v.items))
	copy(out, v.items)
	return out
}

// Index returns the i-th array element
func (v *Value) Index(i int) *Value {
	return v.items[i]
}

// Interface converts the tree back into plain Go values. Object key order is lost.
func (v *Value) Interface() interface{} {
	switch v.kind {
	case String:
		return v.str
	case Bool:
		return v.b
	case Int:
		return v.i
	case Float:
		return v.f
	case Object:
		m := make(map[string]interface{}, len(v.fields))
		for _, f := range v.fields {
			m[f.Key] = f.Value.Interface()
		}
		return m
	case Array:
		out := make([]interface{}, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// FromInterface converts a value produced by encoding/json or a hand-written literal.
// Map keys are sorted because Go maps carry no order.
func FromInterface(x interface{}) (*Value, error) {
	switch val := x.(type) {
	case nil:
		return NewNull(), nil
	case *Value:
		return val, nil
	case string:
		return NewString(val), nil
	case bool:
		return NewBool(val), nil
	case int:
		return NewInt(int64(val)), nil
	case int8:
		return NewInt(int64(val)), nil
	case int16:
		return NewInt(int64(val)), nil
	case int32:
		return NewInt(int64(val)), nil
	case int64:
		return NewInt(val), nil
	case uint8:
		return NewInt(int64(val)), nil
	case uint16:
		return NewInt(int64(val)), nil
	case uint32:
		return NewInt(int64(val)), nil
	case float32:
		return NewFloat(float64(val)), nil
	case float64:
		return NewFloat(val), nil
	case json.Number:
		return parseNumber(string(val))
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			child, err := FromInterface(val[k])
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			fields = append(fields, Field{Key: k, Value: child})
		}
		return NewObject(fields...), nil
	case []interface{}:
		items := make([]*Value, len(val))
		for i, item := range val {
			child, err := FromInterface(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = child
		}
		return NewArray(items...), nil
	default:
		return nil, fmt.Errorf("unsupported Go type %s", reflect.TypeOf(x))
	}
}

// IsIntegral reports whether f holds a whole number representable as int64
func IsIntegral(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) &&
		f >= math.MinInt64 && f < math.MaxInt64
}
