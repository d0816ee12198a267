package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"pdfqa/internal/model"
)

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		Filename:    "report.pdf",
		StoragePath: "report.pdf",
		TextContent: "Revenue was $5M in 2023.",
	}

	rows := sqlmock.NewRows([]string{"id", "filename", "storage_path", "text_content", "created_at"}).
		AddRow(int64(1), doc.Filename, doc.StoragePath, doc.TextContent, now)

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.Filename, doc.StoragePath, doc.TextContent).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, int64(1), result.ID)
	assert.Equal(t, now, result.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "filename", "storage_path", "text_content", "created_at"}).
			AddRow(int64(7), "file.pdf", "file.pdf", "text", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM documents").
			WithArgs(int64(7)).
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, 7)

		assert.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, int64(7), doc.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, 99)

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "filename", "storage_path", "text_content", "created_at"}).
			AddRow(int64(1), "a.pdf", "a.pdf", "alpha", time.Now()).
			AddRow(int64(2), "b.pdf", "b.pdf", "beta", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM documents ORDER BY id ASC").
			WillReturnRows(rows)

		items, err := repo.List(ctx)

		assert.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, int64(1), items[0].ID)
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents ORDER BY id ASC").
			WillReturnRows(sqlmock.NewRows([]string{"id", "filename", "storage_path", "text_content", "created_at"}))

		items, err := repo.List(ctx)

		assert.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestDocumentPostgres_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades questions then document in one tx", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()

		repo := NewDocumentPostgres(db)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM questions WHERE document_id").
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec("DELETE FROM documents WHERE id").
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Delete(ctx, 5))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing document rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()

		repo := NewDocumentPostgres(db)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM questions WHERE document_id").
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM documents WHERE id").
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = repo.Delete(ctx, 42)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("question delete failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()

		repo := NewDocumentPostgres(db)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM questions WHERE document_id").
			WithArgs(int64(5)).
			WillReturnError(errors.New("db down"))
		mock.ExpectRollback()

		err = repo.Delete(ctx, 5)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "delete questions")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
