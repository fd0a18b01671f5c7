// Package svgmarkup rewrites vector markup through a parsed element tree:
// canonicalizing source assets and injecting fills for colour variants.
package svgmarkup

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

var (
	// ErrMalformed is returned when the markup cannot be parsed at all.
	ErrMalformed = errors.New("markup is not well-formed")
	// ErrNoRoot is returned when the document has no <svg> root element.
	ErrNoRoot = errors.New("no svg root element")
	// ErrNoSizing is returned when the root declares neither a viewBox nor width and height.
	ErrNoSizing = errors.New("no viewBox or width/height on svg root")
)

// VariantSeparator joins a base name and a set name in variant file names.
const VariantSeparator = "__"

func parse(data []byte) (*etree.Document, *etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	root := doc.Root()
	if root == nil || !strings.EqualFold(root.Tag, "svg") {
		return nil, nil, ErrNoRoot
	}
	return doc, root, nil
}

func write(doc *etree.Document) ([]byte, error) {
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("write markup: %w", err)
	}
	return out, nil
}

// VariantName returns the file name of a variant: "acme.svg", "set_1" -> "acme__set_1.svg".
func VariantName(file, set string) string {
	ext := filepath.Ext(file)
	return strings.TrimSuffix(file, ext) + VariantSeparator + set + ext
}

// walk visits e and every descendant element in document order.
func walk(e *etree.Element, fn func(*etree.Element)) {
	fn(e)
	for _, c := range e.ChildElements() {
		walk(c, fn)
	}
}
