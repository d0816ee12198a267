package postgres

import (
	"context"
	"database/sql"

	"pdfqa/internal/model"
	"pdfqa/internal/repository"
)

// QuestionPostgres is a PostgreSQL implementation of repository.QuestionRepository.
type QuestionPostgres struct {
	db *sql.DB
}

// NewQuestionPostgres creates a new QuestionPostgres repository.
func NewQuestionPostgres(db *sql.DB) *QuestionPostgres {
	return &QuestionPostgres{db: db}
}

var _ repository.QuestionRepository = (*QuestionPostgres)(nil)

// Create inserts a new question row and returns the stored record.
func (r *QuestionPostgres) Create(ctx context.Context, qn *model.Question) (*model.Question, error) {
	const q = `
		INSERT INTO questions (document_id, question_text, answer_text)
		VALUES ($1, $2, $3)
		RETURNING id, document_id, question_text, answer_text, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		qn.DocumentID,
		qn.QuestionText,
		qn.AnswerText,
	)
	var out model.Question
	if err := row.Scan(
		&out.ID,
		&out.DocumentID,
		&out.QuestionText,
		&out.AnswerText,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByDocument returns a document's questions ordered by created_at with id
// as the tiebreak, so listings are total-ordered even for equal timestamps.
func (r *QuestionPostgres) ListByDocument(ctx context.Context, documentID int64, qq repository.QuestionQuery) ([]model.Question, error) {
	q := `
		SELECT id, document_id, question_text, answer_text, created_at
		FROM questions
		WHERE document_id = $1
		ORDER BY created_at ASC, id ASC
	`
	if qq.Descending {
		q = `
		SELECT id, document_id, question_text, answer_text, created_at
		FROM questions
		WHERE document_id = $1
		ORDER BY created_at DESC, id DESC
	`
	}

	var (
		rows *sql.Rows
		err  error
	)
	if qq.Limit > 0 {
		rows, err = r.db.QueryContext(ctx, q+` LIMIT $2`, documentID, qq.Limit)
	} else {
		rows, err = r.db.QueryContext(ctx, q, documentID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Question, 0)
	for rows.Next() {
		var qn model.Question
		if err := rows.Scan(
			&qn.ID,
			&qn.DocumentID,
			&qn.QuestionText,
			&qn.AnswerText,
			&qn.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, qn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
