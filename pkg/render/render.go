/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: render.go
Description: Struct rendering for inferred schema trees. Flattens every record reachable
from a root into an ordered list of declarations, resolves nested record references to
type names, converts keys to field names and keeps the raw keys as serialization
keys. The schema tree is only read, never modified.
*/

package render

import (
	"github.com/kleascm/structgen/pkg/naming"
	"github.com/kleascm/structgen/pkg/schema"
)

// Order selects how nested declarations are placed relative to their parents
type Order string

const (
	// OrderDependenciesFirst emits nested records before the records that use them
	OrderDependenciesFirst Order = "deps"
	// OrderRootFirst emits records in pre-order, root first
	OrderRootFirst Order = "root"
)

// ParseOrder maps a flag value onto an Order
func ParseOrder(s string) (Order, bool) {
	switch Order(s) {
	case OrderDependenciesFirst, "":
		return OrderDependenciesFirst, true
	case OrderRootFirst:
		return OrderRootFirst, true
	default:
		return "", false
	}
}

// Options controls rendering
type Options struct {
	OmitEmpty bool   `json:"omit_empty"`
	Order     Order  `json:"order"`
	Target    Target `json:"-"`
}

// DeclField is one rendered field
type DeclField struct {
	Name      string
	Type      string
	Key       string
	OmitEmpty bool
}

// Declaration is one rendered record
type Declaration struct {
	Name   string
	Fields []DeclField
}

// Equal reports whether two declarations render identically
func (d Declaration) Equal(other Declaration) bool {
	if d.Name != other.Name || len(d.Fields) != len(other.Fields) {
		return false
	}
	for i := range d.Fields {
		if d.Fields[i] != other.Fields[i] {
			return false
		}
	}
	return true
}

// Render flattens root into declarations. Records that appear more than once with the
// same name and identical fields are emitted once.
func Render(root *schema.Node, opts Options) ([]Declaration, error) {
	target := opts.Target
	if target == (Target{}) {
		target = GoTarget()
	}

	nodes, err := flatten(root, opts.Order)
	if err != nil {
		return nil, err
	}

	decls := make([]Declaration, 0, len(nodes))
	byName := make(map[string]int, len(nodes))
	for _, n := range nodes {
		d, err := declare(n, opts.OmitEmpty, target)
		if err != nil {
			return nil, err
		}
		if pos, ok := byName[d.Name]; ok {
			if decls[pos].Equal(d) {
				continue
			}
			return nil, &DuplicateRecordError{Name: d.Name}
		}
		byName[d.Name] = len(decls)
		decls = append(decls, d)
	}
	return decls, nil
}

// flatten collects every node reachable from root exactly once
func flatten(root *schema.Node, order Order) ([]*schema.Node, error) {
	if root == nil {
		return nil, &InternalInvariantError{Reason: "nil root node"}
	}

	var out []*schema.Node
	visited := make(map[*schema.Node]bool)

	var visit func(n *schema.Node) error
	visit = func(n *schema.Node) error {
		if visited[n] {
			return nil
		}
		visited[n] = true
		if n.Name() == "" {
			return &InternalInvariantError{Reason: "record has no name"}
		}

		if order == OrderRootFirst {
			out = append(out, n)
		}
		for _, f := range n.Fields() {
			child, err := nestedNode(n, f)
			if err != nil {
				return err
			}
			if child == nil {
				continue
			}
			if err := visit(child); err != nil {
				return err
			}
		}
		if order != OrderRootFirst {
			out = append(out, n)
		}
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return out, nil
}

// nestedNode returns the record referenced by a field, looking through sequences
func nestedNode(owner *schema.Node, f schema.Field) (*schema.Node, error) {
	t := &f.Type
	for {
		switch t.Kind {
		case schema.KindRecord:
			if t.Node == nil {
				return nil, &InternalInvariantError{Record: owner.Name(), Field: f.Key, Reason: "record field without a node"}
			}
			return t.Node, nil
		case schema.KindSequence:
			if t.Elem == nil {
				return nil, &InternalInvariantError{Record: owner.Name(), Field: f.Key, Reason: "sequence without an element type"}
			}
			t = t.Elem
		default:
			return nil, nil
		}
	}
}

func declare(n *schema.Node, omitEmpty bool, target Target) (Declaration, error) {
	d := Declaration{Name: n.Name(), Fields: make([]DeclField, 0, n.Len())}
	for _, f := range n.Fields() {
		typ, err := target.TypeName(f.Type)
		if err != nil {
			return Declaration{}, &InternalInvariantError{Record: n.Name(), Field: f.Key, Reason: err.Error()}
		}
		d.Fields = append(d.Fields, DeclField{
			Name:      naming.Pascal(f.Key),
			Type:      typ,
			Key:       f.Key,
			OmitEmpty: omitEmpty,
		})
	}
	return d, nil
}
