package repository

import (
	"context"

	"pdfqa/internal/model"
)

// QuestionQuery controls ordering and truncation for question listings.
// Ascending created_at (ties broken by id) is the chronological default;
// Descending with a Limit returns the most recent N, which the caller
// re-reverses when a chronological preview is desired.
type QuestionQuery struct {
	Limit      int // 0 means no limit
	Descending bool
}

// QuestionRepository defines data access for question/answer rows.
type QuestionRepository interface {
	// Create inserts a new question row. ID and CreatedAt are assigned by the
	// database; the returned question carries the stored values.
	Create(ctx context.Context, q *model.Question) (*model.Question, error)

	// ListByDocument returns questions belonging to a document, ordered per
	// the query. An empty slice is returned when the document has none.
	ListByDocument(ctx context.Context, documentID int64, qq QuestionQuery) ([]model.Question, error)
}
