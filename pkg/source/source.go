/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: source.go
Description: Input discovery and loading. Finds sample files under a path, decodes them by
extension and turns each into a document ready for inference: JSON and YAML samples
whose root is an array are sampled at their first element, CSV sheets are folded into a
single object.
*/

package source

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kleascm/structgen/pkg/inference"
	"github.com/kleascm/structgen/pkg/naming"
	"github.com/kleascm/structgen/pkg/sheet"
	"github.com/kleascm/structgen/pkg/value"
)

// Format identifies how a sample file is decoded
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// lockMarker appears in the names of temporary files office suites keep next to open documents
const lockMarker = "~$"

var ErrUnsupportedFormat = errors.New("unsupported file format")

var extensions = map[string]Format{
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".csv":  FormatCSV,
}

// FormatFromPath picks a format from the file extension
func FormatFromPath(path string) (Format, error) {
	f, ok := extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	return f, nil
}

// Source is one discovered sample file
type Source struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Format Format `json:"format"`
}

// NewSource describes the file at path, named after its stem
func NewSource(path string) (Source, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Source{}, err
	}
	base := filepath.Base(path)
	return Source{
		Path:   path,
		Name:   strings.TrimSuffix(base, filepath.Ext(base)),
		Format: format,
	}, nil
}

// Discover returns the sample files at root. A file yields itself; a directory is
// walked recursively and unsupported files and lock files are skipped. Sources are
// sorted by path.
func Discover(root string) ([]Source, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}
	if !info.IsDir() {
		src, err := NewSource(root)
		if err != nil {
			return nil, err
		}
		return []Source{src}, nil
	}

	var sources []Source
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.Contains(d.Name(), lockMarker) {
			return nil
		}
		src, err := NewSource(path)
		if err != nil {
			return nil
		}
		sources = append(sources, src)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Path < sources[j].Path
	})
	return sources, nil
}

// Load opens and decodes a source
func Load(src Source) (*value.Document, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", src.Path, err)
	}
	defer f.Close()

	return Read(src, f)
}

// Read decodes a source from r
func Read(src Source, r io.Reader) (*value.Document, error) {
	name := naming.Pascal(src.Name)

	switch src.Format {
	case FormatCSV:
		rows, err := sheet.ReadCSV(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Path, err)
		}
		doc, err := sheet.Fold(name, rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Path, err)
		}
		doc.Path = src.Path
		return doc, nil

	case FormatJSON, FormatYAML:
		v, err := value.Decode(value.Format(src.Format), r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Path, err)
		}
		return sample(src, name, v)

	default:
		return nil, fmt.Errorf("%s: %w", src.Path, ErrUnsupportedFormat)
	}
}

// sample picks the object inference runs on: the root itself, or the first element of
// a root array
func sample(src Source, name string, v *value.Value) (*value.Document, error) {
	doc := &value.Document{Name: name, Path: src.Path, Value: v}
	if !v.IsArray() {
		return doc, nil
	}
	if v.Len() == 0 {
		return nil, &inference.MalformedInputError{Path: name, Reason: "root array is empty, no element to sample"}
	}
	doc.Value = v.Index(0)
	doc.ArraySource = true
	return doc, nil
}
