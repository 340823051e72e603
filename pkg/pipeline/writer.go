/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: writer.go
Description: Writes rendered declarations as a Go source file.
*/

package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kleascm/structgen/pkg/render"
	"github.com/sirupsen/logrus"
	"golang.org/x/tools/imports"
)

// FileContents renders the file: the package clause followed by every declaration
// and a blank line. With format the result is gofmt'd, which aligns the field columns.
func FileContents(packageName string, decls []render.Declaration, target render.Target, format bool) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "package %s\n\n", packageName)
	for _, text := range render.Text(decls, target) {
		buf.WriteString(text)
		buf.WriteString("\n\n")
	}

	if !format {
		return buf.Bytes(), nil
	}

	out, err := imports.Process("", buf.Bytes(), &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format generated source: %w", err)
	}
	return out, nil
}

// fileContents is FileContents with a fallback to the unformatted text when the
// generated source does not parse, e.g. for keys that are not Go identifiers.
func fileContents(packageName string, decls []render.Declaration, target render.Target, format bool, log logrus.FieldLogger) []byte {
	if format {
		src, err := FileContents(packageName, decls, target, true)
		if err == nil {
			return src
		}
		if log == nil {
			log = logrus.StandardLogger()
		}
		log.WithError(err).Warn("Generated source is not valid Go, writing it unformatted")
	}
	src, _ := FileContents(packageName, decls, target, false)
	return src
}

// Write writes the generated file to w
func Write(w io.Writer, packageName string, decls []render.Declaration, target render.Target, format bool, log logrus.FieldLogger) error {
	src := fileContents(packageName, decls, target, format, log)
	if _, err := w.Write(src); err != nil {
		return fmt.Errorf("failed to write generated source: %w", err)
	}
	return nil
}

// WriteFile writes the generated file to path, creating parent directories
func WriteFile(path, packageName string, decls []render.Declaration, target render.Target, format bool, log logrus.FieldLogger) error {
	src := fileContents(packageName, decls, target, format, log)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, src, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
