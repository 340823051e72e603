/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inference.go
Description: Type inference over decoded sample documents. Walks an ordered value tree
and builds the schema tree that the renderer turns into struct declarations. The
primitive type names and the supported array nesting come from a Config so the same
inferrer can serve targets with different primitive spellings.

Arrays are sampled, not unified: every element's runtime category is checked against
element 0 (and, for arrays of objects, every element's key set and per-key categories),
then only element 0 is used to derive the element type.
*/

package inference

import (
	"fmt"

	"github.com/kleascm/structgen/pkg/naming"
	"github.com/kleascm/structgen/pkg/schema"
	"github.com/kleascm/structgen/pkg/value"
)

// Config holds the target-specific inference settings
type Config struct {
	PrimitiveTable  map[value.Kind]string `json:"primitive_table"`
	MaxArrayNesting int                   `json:"max_array_nesting"`
}

// DefaultConfig returns the Go primitive table with one level of array-of-array support
func DefaultConfig() Config {
	return Config{
		PrimitiveTable: map[value.Kind]string{
			value.String: "string",
			value.Bool:   "bool",
			value.Int:    "int",
			value.Float:  "float32",
		},
		MaxArrayNesting: 2,
	}
}

// Validate checks the Config for invalid or missing values
func (c *Config) Validate() error {
	if len(c.PrimitiveTable) == 0 {
		return fmt.Errorf("primitive table must not be empty")
	}
	for kind, name := range c.PrimitiveTable {
		if !kind.IsScalar() {
			return fmt.Errorf("primitive table maps non-scalar kind %s", kind)
		}
		if name == "" {
			return fmt.Errorf("primitive table maps %s to an empty name", kind)
		}
	}
	if c.MaxArrayNesting < 1 {
		return fmt.Errorf("max_array_nesting must be at least 1")
	}
	return nil
}

// Ambiguity describes an array whose elements were not uniform enough to type.
// The field is typed as a dynamic sequence and inference continues.
type Ambiguity struct {
	Path   string
	Field  string
	Reason string
}

// Option configures an Inferrer
type Option func(*Inferrer)

// WithAmbiguityHandler registers fn to receive every recovered ambiguity
func WithAmbiguityHandler(fn func(Ambiguity)) Option {
	return func(in *Inferrer) {
		in.onAmbiguity = fn
	}
}

// Inferrer derives schema trees from decoded values. It holds no per-call state and
// may be shared between goroutines as long as the ambiguity handler is safe for that.
type Inferrer struct {
	cfg         Config
	onAmbiguity func(Ambiguity)
}

// New creates an inferrer from a validated copy of cfg
func New(cfg Config, opts ...Option) (*Inferrer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid inference config: %w", err)
	}

	table := make(map[value.Kind]string, len(cfg.PrimitiveTable))
	for k, v := range cfg.PrimitiveTable {
		table[k] = v
	}

	in := &Inferrer{cfg: Config{PrimitiveTable: table, MaxArrayNesting: cfg.MaxArrayNesting}}
	for _, opt := range opts {
		opt(in)
	}
	return in, nil
}

// Infer runs inference with DefaultConfig
func Infer(v *value.Value, name string, arraySource bool) (*schema.Node, error) {
	in, err := New(DefaultConfig())
	if err != nil {
		return nil, err
	}
	return in.Infer(v, name, arraySource)
}

// Infer builds the schema tree for v, which must be an object. arraySource marks a
// root that was sampled from an array of objects.
func (in *Inferrer) Infer(v *value.Value, name string, arraySource bool) (*schema.Node, error) {
	if v == nil {
		return nil, &MalformedInputError{Path: name, Reason: "no value"}
	}
	if v.Kind() != value.Object {
		return nil, &MalformedInputError{
			Path:   name,
			Reason: fmt.Sprintf("top-level value is %s, want object", v.Kind()),
		}
	}
	return in.inferObject(v, name, arraySource, name)
}

func (in *Inferrer) inferObject(v *value.Value, name string, arraySource bool, path string) (*schema.Node, error) {
	b := schema.NewBuilder(name, arraySource)
	for _, f := range v.Fields() {
		ft, err := in.inferField(f.Key, f.Value, path+"."+f.Key)
		if err != nil {
			return nil, err
		}
		b.Add(f.Key, ft)
	}

	node, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build record %s: %w", name, err)
	}
	return node, nil
}

func (in *Inferrer) inferField(key string, v *value.Value, path string) (schema.FieldType, error) {
	switch v.Kind() {
	case value.Object:
		child, err := in.inferObject(v, naming.Pascal(key), false, path)
		if err != nil {
			return schema.FieldType{}, err
		}
		return schema.Record(child), nil
	case value.Array:
		return in.inferArray(key, v, path)
	default:
		return in.primitive(v.Kind(), path)
	}
}

func (in *Inferrer) inferArray(key string, arr *value.Value, path string) (schema.FieldType, error) {
	if arr.Len() == 0 {
		return in.dynamic(key, path, "empty array"), nil
	}

	kind, idx := uniformKind(arr)
	if idx >= 0 {
		return in.dynamic(key, path, fmt.Sprintf("element %d is %s, element 0 is %s",
			idx, arr.Index(idx).Kind(), kind)), nil
	}

	switch kind {
	case value.Object:
		if idx, reason := uniformObjects(arr); idx >= 0 {
			return in.dynamic(key, path, fmt.Sprintf("element %d %s", idx, reason)), nil
		}
		child, err := in.inferObject(arr.Index(0), naming.ListName(key), true, path+"[0]")
		if err != nil {
			return schema.FieldType{}, err
		}
		return schema.Record(child), nil
	case value.Array:
		return in.nestedSequence(arr, path)
	default:
		elem, err := in.primitive(kind, path+"[0]")
		if err != nil {
			return schema.FieldType{}, err
		}
		return schema.Sequence(elem), nil
	}
}

// nestedSequence types a uniform array of arrays by following element 0 down until a
// scalar is reached
func (in *Inferrer) nestedSequence(arr *value.Value, path string) (schema.FieldType, error) {
	depth := 1
	cur := arr
	for {
		sample := cur.Index(0)
		path += "[0]"

		if sample.Kind() != value.Array {
			elem, err := in.primitive(sample.Kind(), path)
			if err != nil {
				return schema.FieldType{}, err
			}
			for i := 0; i < depth; i++ {
				elem = schema.Sequence(elem)
			}
			return elem, nil
		}

		depth++
		if depth > in.cfg.MaxArrayNesting {
			return schema.FieldType{}, &UnsupportedTypeError{Path: path, Kind: value.Array}
		}
		if sample.Len() == 0 {
			return schema.FieldType{}, &MalformedInputError{
				Path:   path,
				Reason: "nested array is empty, no element to sample",
			}
		}
		cur = sample
	}
}

func (in *Inferrer) primitive(kind value.Kind, path string) (schema.FieldType, error) {
	name, ok := in.cfg.PrimitiveTable[kind]
	if !ok {
		return schema.FieldType{}, &UnsupportedTypeError{Path: path, Kind: kind}
	}
	return schema.Primitive(name), nil
}

func (in *Inferrer) dynamic(key, path, reason string) schema.FieldType {
	if in.onAmbiguity != nil {
		in.onAmbiguity(Ambiguity{Path: path, Field: key, Reason: reason})
	}
	return schema.DynamicSequence(reason)
}
