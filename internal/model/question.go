package model

import "time"

// Question is one question/answer pair tied to a Document. Rows are created
// only by the ask flow, never updated, and deleted only as a cascade of
// deleting their Document.
type Question struct {
	ID           int64     `json:"id"`
	DocumentID   int64     `json:"document_id"`
	QuestionText string    `json:"question_text"`
	AnswerText   string    `json:"answer_text"`
	CreatedAt    time.Time `json:"created_at"`
}
