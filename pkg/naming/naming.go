/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: naming.go
Description: Field and record name casing for generated declarations. Converts
snake_case keys into PascalCase identifiers with the exact rules downstream code already
depends on.
*/

package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ListSuffix is appended to the record name derived from an array of objects
const ListSuffix = "List"

// Pascal converts a snake_case key into a PascalCase name.
//
// A key without underscores only has its first character upper-cased, so "hitPoints"
// stays "HitPoints". A key with underscores is split and every segment is capitalized
// (first character upper, the rest lower), so "max_HP" becomes "MaxHp".
func Pascal(key string) string {
	segments := strings.Split(key, "_")
	if len(segments) == 1 {
		return upperFirst(key)
	}

	var b strings.Builder
	b.Grow(len(key))
	for _, seg := range segments {
		b.WriteString(capitalize(seg))
	}
	return b.String()
}

// ListName returns the record name used for the element type of an object array
func ListName(key string) string {
	return Pascal(key) + ListSuffix
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
