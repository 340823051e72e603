/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: schema.go
Description: Schema tree produced by type inference. A Node describes one record type:
its name, whether it was sampled from an array of objects, and its ordered fields. Nodes
are immutable and only ever created through a Builder, which also guarantees that every
child node has exactly one parent.
*/

package schema

import (
	"errors"
	"fmt"
)

// FieldKind tags the variant held by a FieldType
type FieldKind int

const (
	// KindPrimitive is a scalar resolved through the primitive table
	KindPrimitive FieldKind = iota
	// KindRecord references a nested record node
	KindRecord
	// KindSequence is a sequence of Elem
	KindSequence
	// KindDynamicSequence is an array whose elements could not be typed
	KindDynamicSequence
)

func (k FieldKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindRecord:
		return "record"
	case KindSequence:
		return "sequence"
	case KindDynamicSequence:
		return "dynamic-sequence"
	default:
		return fmt.Sprintf("field-kind(%d)", int(k))
	}
}

// FieldType is the inferred type of one field
type FieldType struct {
	Kind FieldKind

	// Name is the target primitive name for KindPrimitive
	Name string

	// Node is the nested record for KindRecord
	Node *Node

	// Elem is the element type for KindSequence
	Elem *FieldType

	// Reason explains a KindDynamicSequence fallback
	Reason string
}

func Primitive(name string) FieldType {
	return FieldType{Kind: KindPrimitive, Name: name}
}

func Record(n *Node) FieldType {
	return FieldType{Kind: KindRecord, Node: n}
}

func Sequence(elem FieldType) FieldType {
	return FieldType{Kind: KindSequence, Elem: &elem}
}

func DynamicSequence(reason string) FieldType {
	return FieldType{Kind: KindDynamicSequence, Reason: reason}
}

// Depth returns the number of sequence levels wrapped around the innermost type
func (t FieldType) Depth() int {
	depth := 0
	for cur := &t; cur != nil && cur.Kind == KindSequence; cur = cur.Elem {
		depth++
	}
	return depth
}

// Record returns the nested node this type refers to, looking through sequences
func (t FieldType) Record() *Node {
	return recordOf(t)
}

// String gives a compact, target-independent description used in dumps
func (t FieldType) String() string {
	switch t.Kind {
	case KindPrimitive:
		return t.Name
	case KindRecord:
		if t.Node == nil {
			return "record(<nil>)"
		}
		if t.Node.ArraySource() {
			return "seq(" + t.Node.Name() + ")"
		}
		return t.Node.Name()
	case KindSequence:
		if t.Elem == nil {
			return "seq(<nil>)"
		}
		return "seq(" + t.Elem.String() + ")"
	case KindDynamicSequence:
		return "seq(any)"
	default:
		return t.Kind.String()
	}
}

// Field is one named entry of a record
type Field struct {
	Key  string
	Type FieldType
}

// Node is one inferred record type
type Node struct {
	name        string
	arraySource bool
	fields      []Field
	index       map[string]int
	owned       bool
}

func (n *Node) Name() string      { return n.name }
func (n *Node) ArraySource() bool { return n.arraySource }
func (n *Node) Len() int          { return len(n.fields) }

// Fields returns the record's fields in insertion order
func (n *Node) Fields() []Field {
	out := make([]Field, len(n.fields))
	copy(out, n.fields)
	return out
}

// Field looks up a field by its raw key
func (n *Node) Field(key string) (FieldType, bool) {
	pos, ok := n.index[key]
	if !ok {
		return FieldType{}, false
	}
	return n.fields[pos].Type, true
}

// Children returns the nested record nodes referenced directly by this node
func (n *Node) Children() []*Node {
	var out []*Node
	for _, f := range n.fields {
		if child := recordOf(f.Type); child != nil {
			out = append(out, child)
		}
	}
	return out
}

func recordOf(t FieldType) *Node {
	for cur := &t; cur != nil; cur = cur.Elem {
		if cur.Kind == KindRecord {
			return cur.Node
		}
		if cur.Kind != KindSequence {
			return nil
		}
	}
	return nil
}

// Walk visits root and every nested node in pre-order. Returning false from fn stops
// descent below the visited node.
func Walk(root *Node, fn func(n *Node, depth int) bool) {
	walk(root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children() {
		walk(child, depth+1, fn)
	}
}

var (
	ErrDuplicateField = errors.New("duplicate field")
	ErrSharedNode     = errors.New("node already has a parent")
)

// Builder assembles a Node. A Builder is single use.
type Builder struct {
	node *Node
	err  error
}

// NewBuilder starts a record with the given name and array-source flag
func NewBuilder(name string, arraySource bool) *Builder {
	return &Builder{node: &Node{
		name:        name,
		arraySource: arraySource,
		index:       make(map[string]int),
	}}
}

// Add appends a field. Errors are deferred to Build.
func (b *Builder) Add(key string, t FieldType) *Builder {
	if b.err != nil || b.node == nil {
		return b
	}
	if _, ok := b.node.index[key]; ok {
		b.err = fmt.Errorf("%s.%s: %w", b.node.name, key, ErrDuplicateField)
		return b
	}
	if child := recordOf(t); child != nil {
		if child.owned {
			b.err = fmt.Errorf("%s.%s -> %s: %w", b.node.name, key, child.name, ErrSharedNode)
			return b
		}
		child.owned = true
	}
	b.node.index[key] = len(b.node.fields)
	b.node.fields = append(b.node.fields, Field{Key: key, Type: t})
	return b
}

// Build returns the finished node
func (b *Builder) Build() (*Node, error) {
	if b.err != nil {
		return nil, b.err
	}
	n := b.node
	b.node = nil
	if n == nil {
		return nil, errors.New("builder already used")
	}
	return n, nil
}
