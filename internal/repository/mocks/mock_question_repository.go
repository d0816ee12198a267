package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pdfqa/internal/model"
	"pdfqa/internal/repository"
)

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, q *model.Question) (*model.Question, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

func (m *MockQuestionRepository) ListByDocument(ctx context.Context, documentID int64, qq repository.QuestionQuery) ([]model.Question, error) {
	args := m.Called(ctx, documentID, qq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Question), args.Error(1)
}
