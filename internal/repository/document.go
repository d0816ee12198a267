package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.

import (
	"context"

	"pdfqa/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here, strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document row. ID and CreatedAt are assigned by the
	// database; the returned document carries the stored values.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID, or sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// List returns all documents in insertion (id) order.
	List(ctx context.Context) ([]model.Document, error)

	// Delete removes a document and all of its questions inside a single
	// transaction, questions first. Returns sql.ErrNoRows when the document
	// does not exist; in that case nothing is deleted.
	Delete(ctx context.Context, id int64) error
}
