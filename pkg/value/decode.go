/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: decode.go
Description: Order-preserving decoders for sample documents. JSON is read as a token
stream so object keys stay in document order; YAML is read through yaml.v3 nodes for the
same reason. Numbers keep the integer/float distinction written in the source text.
*/

package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names a supported document encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Decode reads one document in the given format
func Decode(format Format, r io.Reader) (*Value, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(r)
	case FormatYAML:
		return DecodeYAML(r)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// DecodeJSON reads exactly one JSON value from r
func DecodeJSON(r io.Reader) (*Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}

	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}

	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return NewString(t), nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		return parseNumber(string(t))
	case nil:
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeJSONObject(dec *json.Decoder) (*Value, error) {
	var fields []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %T, want string", tok)
		}
		child, err := decodeJSONValue(dec)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		fields = append(fields, Field{Key: key, Value: child})
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return NewObject(fields...), nil
}

func decodeJSONArray(dec *json.Decoder) (*Value, error) {
	var items []*Value
	for dec.More() {
		child, err := decodeJSONValue(dec)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", len(items), err)
		}
		items = append(items, child)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return NewArray(items...), nil
}

// parseNumber keeps literals written with a fraction or exponent as floats
func parseNumber(lit string) (*Value, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return NewInt(i), nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", lit, err)
	}
	return NewFloat(f), nil
}

// DecodeYAML reads the first YAML document from r
func DecodeYAML(r io.Reader) (*Value, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.New("failed to decode yaml: empty document")
		}
		return nil, fmt.Errorf("failed to decode yaml: %w", err)
	}
	w := &yamlWalker{expanding: make(map[*yaml.Node]bool), budget: MaxYAMLNodes}
	v, err := w.walk(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode yaml: %w", err)
	}
	return v, nil
}

// MaxYAMLNodes caps the number of nodes a YAML document may expand to once aliases
// are followed
const MaxYAMLNodes = 1 << 20

// ErrYAMLExpansion is returned when alias expansion exceeds MaxYAMLNodes
var ErrYAMLExpansion = errors.New("document expands to too many nodes")

type yamlWalker struct {
	expanding map[*yaml.Node]bool
	budget    int
}

func (w *yamlWalker) walk(n *yaml.Node) (*Value, error) {
	if w.budget--; w.budget < 0 {
		return nil, ErrYAMLExpansion
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, errors.New("empty document")
		}
		return w.walk(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unknown alias %q", n.Line, n.Value)
		}
		if w.expanding[n.Alias] {
			return nil, fmt.Errorf("line %d: alias %q refers to itself", n.Line, n.Value)
		}
		w.expanding[n.Alias] = true
		defer delete(w.expanding, n.Alias)
		return w.walk(n.Alias)
	case yaml.MappingNode:
		fields := make([]Field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", keyNode.Line)
			}
			child, err := w.walk(valNode)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", keyNode.Value, err)
			}
			fields = append(fields, Field{Key: keyNode.Value, Value: child})
		}
		return NewObject(fields...), nil
	case yaml.SequenceNode:
		items := make([]*Value, 0, len(n.Content))
		for i, c := range n.Content {
			child, err := w.walk(c)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			items = append(items, child)
		}
		return NewArray(items...), nil
	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
	}
}

func fromYAMLScalar(n *yaml.Node) (*Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return NewNull(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return NewBool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// out of int64 range
			var f float64
			if ferr := n.Decode(&f); ferr != nil {
				return nil, err
			}
			return NewFloat(f), nil
		}
		return NewInt(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return NewFloat(f), nil
	default:
		return NewString(n.Value), nil
	}
}
