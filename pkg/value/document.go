/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: document.go
Description: A loaded sample ready for inference.
*/

package value

// Document is one sample object together with the record name it will be inferred
// under. ArraySource is set when the object was sampled from an array, so the
// generated type is referenced as a sequence.
type Document struct {
	Name        string
	Path        string
	Value       *Value
	ArraySource bool
}
