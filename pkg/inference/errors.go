/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: errors.go
Description: Inference failures. Both abort inference of the current document; the
caller decides whether to skip the document or stop.
*/

package inference

import (
	"fmt"

	"github.com/kleascm/structgen/pkg/value"
)

// MalformedInputError reports input that cannot be inferred at all: a non-object
// root, or an empty nested array that has to be sampled
type MalformedInputError struct {
	Path   string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input at %s: %s", e.Path, e.Reason)
}

// UnsupportedTypeError reports a value whose category has no primitive mapping
type UnsupportedTypeError struct {
	Path string
	Kind value.Kind
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %s at %s: no primitive mapping", e.Kind, e.Path)
}
