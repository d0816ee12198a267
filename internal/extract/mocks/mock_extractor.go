package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	args := m.Called(ctx, r, size)
	return args.String(0), args.Error(1)
}
