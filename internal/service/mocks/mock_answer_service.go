package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pdfqa/internal/service"
)

type MockAnswerService struct {
	mock.Mock
}

func (m *MockAnswerService) Ask(ctx context.Context, documentID int64, question string) (string, error) {
	args := m.Called(ctx, documentID, question)
	return args.String(0), args.Error(1)
}

func (m *MockAnswerService) Questions(ctx context.Context, documentID int64) ([]service.QuestionEntry, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.QuestionEntry), args.Error(1)
}
