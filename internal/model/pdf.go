package model

import "time"

// PDF is the metadata record for one hosted document.
// Records are append-only: once stored, neither the ID nor any other field changes.
type PDF struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Author    string    `json:"author" yaml:"author"`
	PageCount int       `json:"num_pages" yaml:"num_pages"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	FilePath  string    `json:"file_path,omitempty" yaml:"file_path,omitempty"`
}

// PDFDetail is the single-record view returned by the details endpoint.
type PDFDetail struct {
	PDF
	FileURL string `json:"file_url"`
}

// FileURL returns the API path from which the record's file is streamed.
func FileURL(id string) string {
	return "/api/pdf/" + id + "/file"
}

// WithFileURL derives the detail view of p.
func (p PDF) WithFileURL() PDFDetail {
	return PDFDetail{PDF: p, FileURL: FileURL(p.ID)}
}
