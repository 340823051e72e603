/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: target.go
Description: Target language syntax for rendered declarations. Only the spelling of
sequences, untyped sequences and serialization tags lives here; primitive names come
from the inference config.
*/

package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kleascm/structgen/pkg/schema"
)

// Target describes how declarations are spelled in the output language
type Target struct {
	Name            string
	SequencePrefix  string
	DynamicSequence string
	TagKey          string
	OmitEmptyOption string
}

// GoTarget returns Go struct syntax with encoding/json tags
func GoTarget() Target {
	return Target{
		Name:            "go",
		SequencePrefix:  "[]",
		DynamicSequence: "[]interface{}",
		TagKey:          "json",
		OmitEmptyOption: "omitempty",
	}
}

// TypeName spells a field type. A record sampled from an array is referenced as a
// sequence of that record.
func (t Target) TypeName(ft schema.FieldType) (string, error) {
	switch ft.Kind {
	case schema.KindPrimitive:
		if ft.Name == "" {
			return "", errors.New("primitive without a name")
		}
		return ft.Name, nil
	case schema.KindRecord:
		if ft.Node == nil {
			return "", errors.New("record field without a node")
		}
		if ft.Node.Name() == "" {
			return "", errors.New("referenced record has no name")
		}
		if ft.Node.ArraySource() {
			return t.SequencePrefix + ft.Node.Name(), nil
		}
		return ft.Node.Name(), nil
	case schema.KindSequence:
		if ft.Elem == nil {
			return "", errors.New("sequence without an element type")
		}
		elem, err := t.TypeName(*ft.Elem)
		if err != nil {
			return "", err
		}
		return t.SequencePrefix + elem, nil
	case schema.KindDynamicSequence:
		return t.DynamicSequence, nil
	default:
		return "", fmt.Errorf("unknown field kind %s", ft.Kind)
	}
}

// Tag renders the serialization tag of a field
func (t Target) Tag(f DeclField) string {
	if f.OmitEmpty {
		return fmt.Sprintf("`%s:\"%s,%s\"`", t.TagKey, f.Key, t.OmitEmptyOption)
	}
	return fmt.Sprintf("`%s:\"%s\"`", t.TagKey, f.Key)
}

// Format renders one declaration as a struct block with tab-separated columns
func (t Target) Format(d Declaration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "type %s struct {\n", d.Name)
	for _, f := range d.Fields {
		fmt.Fprintf(&b, "\t%s\t%s\t%s\n", f.Name, f.Type, t.Tag(f))
	}
	b.WriteString("}")
	return b.String()
}

// Text renders every declaration in order
func Text(decls []Declaration, t Target) []string {
	out := make([]string, len(decls))
	for i, d := range decls {
		out[i] = t.Format(d)
	}
	return out
}
