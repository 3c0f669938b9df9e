package repository

import (
	"context"
	"errors"

	"sonicpdf/internal/model"
)

var (
	// ErrNotFound is returned when no record has the requested ID.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned by Create when the ID is already taken.
	ErrDuplicateID = errors.New("record id already exists")
)

// PDFRepository is the resource store for PDF metadata.
// Implementations must be safe for concurrent use: two callers of NextID never observe the same ID.
type PDFRepository interface {
	// List returns every record in insertion order.
	List(ctx context.Context) ([]model.PDF, error)

	// FindByID returns the record with the given ID or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.PDF, error)

	// NextID reserves the next sequential ID ("pdf-{n}"). A reserved ID is never handed out again,
	// even if the caller never creates the record.
	NextID(ctx context.Context) (string, error)

	// Create appends the record. The ID must have been reserved with NextID or be otherwise unique.
	Create(ctx context.Context, rec *model.PDF) (*model.PDF, error)
}
