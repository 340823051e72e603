/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: arrays.go
Description: Homogeneity checks used before an array is sampled at element 0.
*/

package inference

import (
	"fmt"

	"github.com/kleascm/structgen/pkg/value"
)

// uniformKind returns the category of element 0 and the index of the first element
// with a different category, or -1 when all match. arr must be non-empty.
func uniformKind(arr *value.Value) (value.Kind, int) {
	kind := arr.Index(0).Kind()
	for i := 1; i < arr.Len(); i++ {
		if arr.Index(i).Kind() != kind {
			return kind, i
		}
	}
	return kind, -1
}

// uniformObjects checks that every object in arr has the key set of element 0 with
// the same per-key categories. It returns the first offending index and why, or -1.
func uniformObjects(arr *value.Value) (int, string) {
	base := signature(arr.Index(0))
	for i := 1; i < arr.Len(); i++ {
		obj := arr.Index(i)
		if obj.Len() != len(base) {
			return i, fmt.Sprintf("has %d keys, element 0 has %d", obj.Len(), len(base))
		}
		for _, f := range obj.Fields() {
			want, ok := base[f.Key]
			if !ok {
				return i, fmt.Sprintf("has key %q missing from element 0", f.Key)
			}
			if got := f.Value.Kind(); got != want {
				return i, fmt.Sprintf("has %s for key %q, element 0 has %s", got, f.Key, want)
			}
		}
	}
	return -1, ""
}

func signature(obj *value.Value) map[string]value.Kind {
	sig := make(map[string]value.Kind, obj.Len())
	for _, f := range obj.Fields() {
		sig[f.Key] = f.Value.Kind()
	}
	return sig
}
