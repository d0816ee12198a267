package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pdfqa/internal/answer"
	"pdfqa/internal/model"
	"pdfqa/internal/repository"
)

var (
	ErrDocumentIDRequired = errors.New("document_id is required")
	ErrQuestionRequired   = errors.New("question is required")
)

// QuestionEntry is the questions-list DTO.
type QuestionEntry struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// AnswerService answers questions about stored documents and records the
// resulting question/answer pairs.
type AnswerService interface {
	// Ask validates its inputs, loads the document, delegates to the answer
	// generator, persists the question/answer pair, and returns the answer.
	// No question row is written when any step fails.
	Ask(ctx context.Context, documentID int64, question string) (string, error)

	// Questions returns a document's questions in ascending chronological
	// order; an empty slice when it has none.
	Questions(ctx context.Context, documentID int64) ([]QuestionEntry, error)
}

type answerService struct {
	docs      repository.DocumentRepository
	questions repository.QuestionRepository
	answerer  answer.Answerer
}

// NewAnswerService constructs a new AnswerService.
func NewAnswerService(docs repository.DocumentRepository, questions repository.QuestionRepository, answerer answer.Answerer) AnswerService {
	return &answerService{docs: docs, questions: questions, answerer: answerer}
}

func (s *answerService) Ask(ctx context.Context, documentID int64, question string) (string, error) {
	if documentID <= 0 {
		return "", ErrDocumentIDRequired
	}
	if strings.TrimSpace(question) == "" {
		return "", ErrQuestionRequired
	}

	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}

	ans, err := s.answerer.Answer(ctx, doc.TextContent, question)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	if _, err := s.questions.Create(ctx, &model.Question{
		DocumentID:   documentID,
		QuestionText: question,
		AnswerText:   ans,
	}); err != nil {
		return "", fmt.Errorf("save question: %w", err)
	}

	return ans, nil
}

func (s *answerService) Questions(ctx context.Context, documentID int64) ([]QuestionEntry, error) {
	if documentID <= 0 {
		return nil, ErrDocumentIDRequired
	}

	items, err := s.questions.ListByDocument(ctx, documentID, repository.QuestionQuery{})
	if err != nil {
		return nil, err
	}

	out := make([]QuestionEntry, 0, len(items))
	for _, q := range items {
		out = append(out, QuestionEntry{
			ID:        q.ID,
			Question:  q.QuestionText,
			Answer:    q.AnswerText,
			CreatedAt: q.CreatedAt,
		})
	}
	return out, nil
}
