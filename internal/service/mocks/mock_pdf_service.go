package mocks

import (
	"context"
	"io"

	"sonicpdf/internal/model"
	"sonicpdf/internal/service"
	"sonicpdf/internal/storage"
	"github.com/stretchr/testify/mock"
)

type MockPDFService struct {
	mock.Mock
}

func (m *MockPDFService) List(ctx context.Context) ([]model.PDF, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PDF), args.Error(1)
}

func (m *MockPDFService) Get(ctx context.Context, id string) (*model.PDFDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PDFDetail), args.Error(1)
}

func (m *MockPDFService) Upload(ctx context.Context, in service.UploadInput) (*model.PDF, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PDF), args.Error(1)
}

func (m *MockPDFService) OpenFile(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.ObjectInfo), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}
