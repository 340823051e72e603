/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: errors.go
Description: Rendering failures.
*/

package render

import (
	"fmt"
	"strings"
)

// InternalInvariantError means a schema tree reached the renderer without the
// bookkeeping inference always provides. It points at a bug, not at bad data.
type InternalInvariantError struct {
	Record string
	Field  string
	Reason string
}

func (e *InternalInvariantError) Error() string {
	switch {
	case e.Record == "":
		return fmt.Sprintf("malformed schema tree: %s", e.Reason)
	case e.Field == "":
		return fmt.Sprintf("malformed schema tree at record %s: %s", e.Record, e.Reason)
	default:
		return fmt.Sprintf("malformed schema tree at %s.%s: %s", e.Record, e.Field, e.Reason)
	}
}

// DuplicateRecordError means two different record shapes share one name
type DuplicateRecordError struct {
	Name    string
	Sources []string
}

func (e *DuplicateRecordError) Error() string {
	if len(e.Sources) == 0 {
		return fmt.Sprintf("record %s is declared twice with different fields", e.Name)
	}
	return fmt.Sprintf("record %s is declared twice with different fields (%s)", e.Name, strings.Join(e.Sources, ", "))
}
