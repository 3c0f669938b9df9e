package mocks

import (
	"context"

	"sonicpdf/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockPDFRepository struct {
	mock.Mock
}

func (m *MockPDFRepository) List(ctx context.Context) ([]model.PDF, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PDF), args.Error(1)
}

func (m *MockPDFRepository) FindByID(ctx context.Context, id string) (*model.PDF, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PDF), args.Error(1)
}

func (m *MockPDFRepository) NextID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockPDFRepository) Create(ctx context.Context, rec *model.PDF) (*model.PDF, error) {
	args := m.Called(ctx, rec)
	if f, ok := args.Get(0).(func(context.Context, *model.PDF) *model.PDF); ok {
		return f(ctx, rec), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PDF), args.Error(1)
}
