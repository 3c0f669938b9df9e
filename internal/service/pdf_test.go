package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"sonicpdf/internal/applog"
	"sonicpdf/internal/model"
	"sonicpdf/internal/pages"
	"sonicpdf/internal/repository"
	"sonicpdf/internal/repository/memory"
	repoMocks "sonicpdf/internal/repository/mocks"
	"sonicpdf/internal/seed"
	"sonicpdf/internal/storage"
	storeMocks "sonicpdf/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

func quietLogger() *applog.Logger { return applog.New(io.Discard, time.UTC) }

func newTestService(store storage.Storage, repo repository.PDFRepository, opts ...Option) PDFService {
	opts = append([]Option{WithLogger(quietLogger()), WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewPDFService(store, repo, opts...)
}

func strPtr(s string) *string { return &s }

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestPDFService_Upload(t *testing.T) {
	tests := []struct {
		name       string
		in         func() UploadInput
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockPDFRepository)
		wantErr    error
		wantErrMsg string
		check      func(t *testing.T, rec *model.PDF)
	}{
		{
			name: "happy path with default title",
			in: func() UploadInput {
				return UploadInput{Reader: strings.NewReader("%PDF-1.4"), Filename: "report.pdf"}
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockPDFRepository) {
				mRepo.On("NextID", mock.Anything).Return("pdf-3", nil)
				mStore.On("Put", mock.Anything, "pdf-3.pdf", mock.Anything, storage.PutObjectOptions{
					Size:        8,
					ContentType: "application/pdf",
					Metadata:    map[string]string{"original-filename": "report.pdf"},
				}).Return(storage.ObjectInfo{Key: "pdf-3.pdf"}, nil)
				mRepo.On("Create", mock.Anything, mock.MatchedBy(func(rec *model.PDF) bool {
					return rec.ID == "pdf-3" && rec.FilePath == "pdf-3.pdf"
				})).Return(func(_ context.Context, rec *model.PDF) *model.PDF { return rec }, nil)
			},
			check: func(t *testing.T, rec *model.PDF) {
				assert.Equal(t, "pdf-3", rec.ID)
				assert.Equal(t, DefaultTitle, rec.Title)
				assert.Equal(t, DefaultAuthor, rec.Author)
				assert.Equal(t, pages.Placeholder, rec.PageCount)
				assert.Equal(t, fixedNow, rec.CreatedAt)
			},
		},
		{
			name: "explicit title is kept as sent",
			in: func() UploadInput {
				return UploadInput{Reader: strings.NewReader("x"), Filename: "a.pdf", Title: strPtr("  My Book ")}
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockPDFRepository) {
				mRepo.On("NextID", mock.Anything).Return("pdf-4", nil)
				mStore.On("Put", mock.Anything, "pdf-4.pdf", mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: "pdf-4.pdf"}, nil)
				mRepo.On("Create", mock.Anything, mock.Anything).
					Return(func(_ context.Context, rec *model.PDF) *model.PDF { return rec }, nil)
			},
			check: func(t *testing.T, rec *model.PDF) {
				assert.Equal(t, "  My Book ", rec.Title)
			},
		},
		{
			name: "empty title field is not defaulted",
			in: func() UploadInput {
				return UploadInput{Reader: strings.NewReader("x"), Filename: "a.pdf", Title: strPtr("")}
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockPDFRepository) {
				mRepo.On("NextID", mock.Anything).Return("pdf-5", nil)
				mStore.On("Put", mock.Anything, "pdf-5.pdf", mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: "pdf-5.pdf"}, nil)
				mRepo.On("Create", mock.Anything, mock.Anything).
					Return(func(_ context.Context, rec *model.PDF) *model.PDF { return rec }, nil)
			},
			check: func(t *testing.T, rec *model.PDF) {
				assert.Equal(t, "", rec.Title)
			},
		},
		{
			name:       "validation error - missing file",
			in:         func() UploadInput { return UploadInput{} },
			setupMocks: func(*storeMocks.MockStorage, *repoMocks.MockPDFRepository) {},
			wantErr:    ErrNoFile,
		},
		{
			name: "validation error - empty filename",
			in: func() UploadInput {
				return UploadInput{Reader: strings.NewReader("x")}
			},
			setupMocks: func(*storeMocks.MockStorage, *repoMocks.MockPDFRepository) {},
			wantErr:    ErrNoSelectedFile,
		},
		{
			name: "validation error - filename sanitizes to nothing",
			in: func() UploadInput {
				return UploadInput{Reader: strings.NewReader("x"), Filename: "../.."}
			},
			setupMocks: func(*storeMocks.MockStorage, *repoMocks.MockPDFRepository) {},
			wantErr:    ErrInvalidFilename,
		},
		{
			name: "read error does not reserve an id",
			in: func() UploadInput {
				return UploadInput{Reader: failingReader{}, Filename: "a.pdf"}
			},
			setupMocks: func(*storeMocks.MockStorage, *repoMocks.MockPDFRepository) {},
			wantErrMsg: "read upload: connection reset",
		},
		{
			name: "storage error leaves no record",
			in: func() UploadInput {
				return UploadInput{Reader: strings.NewReader("x"), Filename: "a.pdf"}
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockPDFRepository) {
				mRepo.On("NextID", mock.Anything).Return("pdf-3", nil)
				mStore.On("Put", mock.Anything, "pdf-3.pdf", mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("disk full"))
			},
			wantErrMsg: "store file: disk full",
		},
		{
			name: "repository error with successful rollback",
			in: func() UploadInput {
				return UploadInput{Reader: strings.NewReader("x"), Filename: "a.pdf"}
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockPDFRepository) {
				mRepo.On("NextID", mock.Anything).Return("pdf-3", nil)
				mStore.On("Put", mock.Anything, "pdf-3.pdf", mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: "pdf-3.pdf"}, nil)
				mRepo.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrDuplicateID)
				mStore.On("Delete", mock.Anything, "pdf-3.pdf").Return(nil)
			},
			wantErr: repository.ErrDuplicateID,
		},
		{
			name: "repository error with failed rollback",
			in: func() UploadInput {
				return UploadInput{Reader: strings.NewReader("x"), Filename: "a.pdf"}
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockPDFRepository) {
				mRepo.On("NextID", mock.Anything).Return("pdf-3", nil)
				mStore.On("Put", mock.Anything, "pdf-3.pdf", mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: "pdf-3.pdf"}, nil)
				mRepo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("store closed"))
				mStore.On("Delete", mock.Anything, "pdf-3.pdf").Return(errors.New("delete fail"))
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockPDFRepository)
			svc := newTestService(mStore, mRepo)

			tt.setupMocks(mStore, mRepo)

			rec, err := svc.Upload(context.Background(), tt.in())

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rec)
			case tt.wantErrMsg != "":
				assert.ErrorContains(t, err, tt.wantErrMsg)
				assert.Nil(t, rec)
			default:
				require.NoError(t, err)
				require.NotNil(t, rec)
				tt.check(t, rec)
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestPDFService_UploadCountsPages(t *testing.T) {
	repo, err := memory.NewPDFMemory(nil)
	require.NoError(t, err)
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	svc := newTestService(store, repo, WithPageCounter(pages.Scan{}))

	doc := "%PDF-1.4\n<< /Type /Pages >>\n<< /Type /Page >>\n<< /Type /Page >>\n%%EOF"
	rec, err := svc.Upload(context.Background(), UploadInput{Reader: strings.NewReader(doc), Filename: "two.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "pdf-1", rec.ID)
	assert.Equal(t, 2, rec.PageCount)
}

func TestPDFService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockPDFRepository)
		mRepo.On("List", ctx).Return([]model.PDF{{ID: "sample-1"}, {ID: "sample-2"}}, nil)

		items, err := newTestService(nil, mRepo).List(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
		mRepo.AssertExpectations(t)
	})

	t.Run("nil becomes empty slice", func(t *testing.T) {
		mRepo := new(repoMocks.MockPDFRepository)
		mRepo.On("List", ctx).Return([]model.PDF(nil), nil)

		items, err := newTestService(nil, mRepo).List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockPDFRepository)
		mRepo.On("List", ctx).Return(nil, errors.New("boom"))

		_, err := newTestService(nil, mRepo).List(ctx)
		assert.Error(t, err)
	})
}

func TestPDFService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mRepo *repoMocks.MockPDFRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   "sample-1",
			setupMocks: func(mRepo *repoMocks.MockPDFRepository) {
				mRepo.On("FindByID", ctx, "sample-1").Return(&model.PDF{ID: "sample-1"}, nil)
			},
		},
		{
			name:       "empty id",
			id:         "",
			setupMocks: func(*repoMocks.MockPDFRepository) {},
			wantErr:    ErrNotFound,
		},
		{
			name: "not found - mapping repository.ErrNotFound",
			id:   "pdf-9",
			setupMocks: func(mRepo *repoMocks.MockPDFRepository) {
				mRepo.On("FindByID", ctx, "pdf-9").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockPDFRepository)
			tt.setupMocks(mRepo)

			detail, err := newTestService(nil, mRepo).Get(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, detail)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.id, detail.ID)
				assert.Equal(t, "/api/pdf/"+tt.id+"/file", detail.FileURL)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestPDFService_OpenFile(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		body := io.NopCloser(bytes.NewReader([]byte("%PDF")))
		mStore.On("Get", ctx, "sample-1.pdf").Return(body, storage.ObjectInfo{Key: "sample-1.pdf", Size: 4}, nil)

		rc, info, err := newTestService(mStore, nil).OpenFile(ctx, "sample-1")
		require.NoError(t, err)
		defer rc.Close()
		assert.Equal(t, "application/pdf", info.ContentType)
		mStore.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("Get", ctx, "pdf-9.pdf").Return(nil, storage.ObjectInfo{}, storage.ErrNotExist)

		_, _, err := newTestService(mStore, nil).OpenFile(ctx, "pdf-9")
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("traversal id never reaches storage", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)

		_, _, err := newTestService(mStore, nil).OpenFile(ctx, "../../etc/passwd")
		assert.ErrorIs(t, err, ErrFileNotFound)
		mStore.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestPDFService_ConcurrentUploadsGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	repo, err := memory.NewPDFMemory(seed.Default())
	require.NoError(t, err)
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	svc := newTestService(store, repo)

	const uploads = 32
	var wg sync.WaitGroup
	results := make([]*model.PDF, uploads)
	errs := make([]error, uploads)
	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Upload(ctx, UploadInput{
				Reader:   strings.NewReader(fmt.Sprintf("%%PDF body %d", i)),
				Filename: fmt.Sprintf("doc-%d.pdf", i),
			})
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i := range results {
		require.NoError(t, errs[i])
		assert.False(t, seen[results[i].ID], "duplicate id %s", results[i].ID)
		seen[results[i].ID] = true
	}

	items, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, uploads+2)
	for _, rec := range items[2:] {
		assert.Regexp(t, `^pdf-\d+$`, rec.ID)
		rc, _, err := svc.OpenFile(ctx, rec.ID)
		require.NoError(t, err)
		rc.Close()
	}
}
