package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sonicpdf/internal/applog"
	"sonicpdf/internal/model"
	"sonicpdf/internal/pages"
	"sonicpdf/internal/repository"
	"sonicpdf/internal/resolver"
	"sonicpdf/internal/storage"
)

const (
	DefaultTitle  = "Untitled PDF"
	DefaultAuthor = "User"
	contentPDF    = "application/pdf"
)

var (
	ErrNotFound        = errors.New("pdf not found")
	ErrFileNotFound    = errors.New("pdf file not found")
	ErrNoFile          = errors.New("no file part")
	ErrNoSelectedFile  = errors.New("no selected file")
	ErrInvalidFilename = errors.New("invalid file name")
)

// UploadInput is one multipart upload as seen by the service.
type UploadInput struct {
	Reader      io.Reader
	Filename    string
	Title       *string // nil when the form carried no title field
	ContentType string
}

// PDFService defines the use cases for hosted PDFs.
type PDFService interface {
	// List returns all records in creation order.
	List(ctx context.Context) ([]model.PDF, error)

	// Get returns one record with its derived file URL.
	Get(ctx context.Context, id string) (*model.PDFDetail, error)

	// Upload stores the file and then commits a new record. If committing fails the stored file is
	// removed again, so a record never exists without its file having been written.
	Upload(ctx context.Context, in UploadInput) (*model.PDF, error)

	// OpenFile opens the stored file for id. The caller closes the reader.
	OpenFile(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error)
}

type pdfService struct {
	store   storage.Storage
	repo    repository.PDFRepository
	counter pages.Counter
	log     *applog.Logger
	now     func() time.Time
	tracer  trace.Tracer
}

// Option customises a PDFService.
type Option func(*pdfService)

// WithPageCounter replaces the placeholder page counter.
func WithPageCounter(c pages.Counter) Option { return func(s *pdfService) { s.counter = c } }

// WithLogger sets the event logger.
func WithLogger(l *applog.Logger) Option { return func(s *pdfService) { s.log = l } }

// WithClock overrides the source of created_at timestamps.
func WithClock(now func() time.Time) Option { return func(s *pdfService) { s.now = now } }

// NewPDFService constructs a PDFService.
func NewPDFService(store storage.Storage, repo repository.PDFRepository, opts ...Option) PDFService {
	s := &pdfService{
		store:   store,
		repo:    repo,
		counter: pages.Static{},
		log:     applog.Default(),
		now:     time.Now,
		tracer:  otel.Tracer("sonicpdf/internal/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *pdfService) List(ctx context.Context) ([]model.PDF, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.PDF{}
	}
	return items, nil
}

func (s *pdfService) Get(ctx context.Context, id string) (*model.PDFDetail, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	detail := rec.WithFileURL()
	return &detail, nil
}

func (s *pdfService) Upload(ctx context.Context, in UploadInput) (*model.PDF, error) {
	ctx, span := s.tracer.Start(ctx, "PDFService.Upload")
	defer span.End()

	if in.Reader == nil {
		return nil, ErrNoFile
	}
	if in.Filename == "" {
		return nil, ErrNoSelectedFile
	}
	if resolver.SanitizeFilename(in.Filename) == "" {
		return nil, ErrInvalidFilename
	}

	data, err := io.ReadAll(in.Reader)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read upload")
		return nil, fmt.Errorf("read upload: %w", err)
	}

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("reserve id: %w", err)
	}
	target, err := resolver.ResolveWrite(id, in.Filename)
	if err != nil {
		return nil, fmt.Errorf("resolve target: %w", err)
	}
	span.SetAttributes(
		attribute.String("pdf.id", id),
		attribute.String("pdf.filename", target.SafeName),
		attribute.Int("pdf.size", len(data)),
	)

	count, err := s.counter.CountPages(bytes.NewReader(data))
	if err != nil {
		s.log.Warn("page_count_failed", map[string]any{"component": "service", "pdf_id": id, "error": err})
		count = pages.Placeholder
	}

	info, err := s.store.Put(ctx, target.Name, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: contentPDF,
		Metadata:    map[string]string{"original-filename": target.SafeName},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store file")
		return nil, fmt.Errorf("store file: %w", err)
	}

	title := DefaultTitle
	if in.Title != nil {
		title = *in.Title
	}
	rec := &model.PDF{
		ID:        id,
		Title:     title,
		Author:    DefaultAuthor,
		PageCount: count,
		CreatedAt: s.now().UTC(),
		FilePath:  info.Key,
	}
	stored, err := s.repo.Create(ctx, rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit record")
		if delErr := s.store.Delete(ctx, target.Name); delErr != nil {
			s.log.Error("upload_rollback_failed", map[string]any{"component": "service", "pdf_id": id, "error": delErr})
			return nil, fmt.Errorf("commit record failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("commit record failed: %w", err)
	}

	s.log.Info("upload_stored", map[string]any{
		"component": "service",
		"pdf_id":    id,
		"filename":  target.SafeName,
		"size":      len(data),
		"num_pages": count,
	})
	return stored, nil
}

func (s *pdfService) OpenFile(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	name, err := resolver.StoredName(id)
	if err != nil {
		return nil, storage.ObjectInfo{}, ErrFileNotFound
	}
	rc, info, err := s.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, storage.ObjectInfo{}, ErrFileNotFound
		}
		return nil, storage.ObjectInfo{}, err
	}
	if info.ContentType == "" || info.ContentType == "application/octet-stream" {
		info.ContentType = contentPDF
	}
	return rc, info, nil
}
