// Package seed provides the records a fresh store starts with.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"sonicpdf/internal/model"
)

// Default returns the built-in sample records.
func Default() []model.PDF {
	return []model.PDF{
		{
			ID:        "sample-1",
			Title:     "Sample PDF 1",
			Author:    "John Doe",
			PageCount: 5,
			CreatedAt: time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        "sample-2",
			Title:     "Sample PDF 2",
			Author:    "Jane Smith",
			PageCount: 12,
			CreatedAt: time.Date(2023, 5, 10, 14, 30, 0, 0, time.UTC),
		},
	}
}

type file struct {
	Records []model.PDF `yaml:"records"`
}

// Load returns Default when path is empty, otherwise the records listed in the YAML file.
func Load(path string) ([]model.PDF, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(bytes.NewReader(b))
}

// Parse decodes a seed document of the form:
//
//	records:
//	  - id: sample-1
//	    title: Sample PDF 1
//	    author: John Doe
//	    num_pages: 5
//	    created_at: 2023-05-01T10:00:00Z
func Parse(r io.Reader) ([]model.PDF, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	for i, rec := range f.Records {
		if rec.ID == "" {
			return nil, fmt.Errorf("seed record %d: id is required", i)
		}
		if rec.PageCount < 0 {
			return nil, fmt.Errorf("seed record %q: num_pages must be >= 0", rec.ID)
		}
	}
	if f.Records == nil {
		f.Records = []model.PDF{}
	}
	return f.Records, nil
}
