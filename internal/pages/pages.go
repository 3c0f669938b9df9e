// Package pages estimates the page count of an uploaded document.
package pages

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
)

// Placeholder is the page count recorded when no real count is available.
const Placeholder = 1

// Counter returns the number of pages in a document.
type Counter interface {
	CountPages(r io.Reader) (int, error)
}

// Static always reports Placeholder without reading the content.
type Static struct{}

func (Static) CountPages(io.Reader) (int, error) { return Placeholder, nil }

// pageObject matches "/Type /Page" but not "/Type /Pages".
var pageObject = regexp.MustCompile(`/Type\s*/Page([^s]|$)`)

// Scan counts page objects in the raw bytes. It does not decompress object streams, so
// documents that keep their page tree in compressed streams fall back to Placeholder.
type Scan struct{}

func (Scan) CountPages(r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read document: %w", err)
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF")) {
		return Placeholder, nil
	}
	n := len(pageObject.FindAllIndex(data, -1))
	if n == 0 {
		return Placeholder, nil
	}
	return n, nil
}

// New returns the counter for mode ("static" or "scan").
func New(mode string) (Counter, error) {
	switch mode {
	case "", "static":
		return Static{}, nil
	case "scan":
		return Scan{}, nil
	default:
		return nil, fmt.Errorf("unknown page counter %q", mode)
	}
}
