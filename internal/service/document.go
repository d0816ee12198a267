package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"strings"
	"time"

	"pdfqa/internal/extract"
	"pdfqa/internal/model"
	"pdfqa/internal/repository"
	"pdfqa/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("document not found")
	ErrReaderNil  = errors.New("reader is nil")
	ErrNotPDF     = errors.New("file must be a PDF")
)

// previewQuestionCount caps how many recent questions a document summary carries.
const previewQuestionCount = 3

// QuestionPreview is one question/answer pair inside a document summary.
type QuestionPreview struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentSummary is the list-endpoint DTO: a document plus a chronological
// preview of its most recent questions.
type DocumentSummary struct {
	ID               int64             `json:"id"`
	Filename         string            `json:"filename"`
	FileURL          string            `json:"file_url"`
	CreatedAt        time.Time         `json:"created_at"`
	PreviewQuestions []QuestionPreview `json:"preview_questions"`
}

// DocumentDetail is the single-document DTO.
type DocumentDetail struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	FileURL   string    `json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}

// UploadResult is returned after a successful upload.
type UploadResult struct {
	Message    string `json:"message"`
	DocumentID int64  `json:"document_id"`
	FileURL    string `json:"file_url"`
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload stores the PDF blob under its original filename, extracts its
	// text, and persists the document row. Filenames not ending in ".pdf"
	// are rejected before any storage or extraction work.
	Upload(ctx context.Context, r io.Reader, filename string, size int64) (*UploadResult, error)

	// List returns all documents with up to 3 most-recent questions each,
	// re-reversed to chronological order.
	List(ctx context.Context) ([]DocumentSummary, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id int64) (*DocumentDetail, error)

	// Delete removes the document row and its questions transactionally,
	// then removes the blob best-effort.
	Delete(ctx context.Context, id int64) error

	// Open streams a stored blob by filename for the download route.
	Open(ctx context.Context, filename string) (io.ReadCloser, storage.ObjectInfo, error)
}

type documentService struct {
	store     storage.Storage
	docs      repository.DocumentRepository
	questions repository.QuestionRepository
	extractor extract.Extractor
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, docs repository.DocumentRepository, questions repository.QuestionRepository, extractor extract.Extractor) DocumentService {
	return &documentService{store: store, docs: docs, questions: questions, extractor: extractor}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, filename string, size int64) (*UploadResult, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	// Validation happens before any storage or extraction attempt.
	if !strings.HasSuffix(filename, ".pdf") {
		return nil, ErrNotPDF
	}

	// Buffer the stream once: extraction needs random access and the blob
	// store needs a fresh reader.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	text, err := s.extractor.Extract(ctx, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	// The key is the original filename; an existing blob with the same name
	// is silently overwritten (last writer wins) and a new row is created.
	objInfo, err := s.store.Put(ctx, filename, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: "application/pdf",
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		Filename:    filename,
		StoragePath: objInfo.Key,
		TextContent: text,
	}
	stored, err := s.docs.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the blob from storage
		if delErr := s.store.Delete(ctx, filename); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	return &UploadResult{
		Message:    "PDF uploaded successfully",
		DocumentID: stored.ID,
		FileURL:    s.store.URL(stored.Filename),
	}, nil
}

func (s *documentService) List(ctx context.Context) ([]DocumentSummary, error) {
	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]DocumentSummary, 0, len(docs))
	for _, d := range docs {
		latest, err := s.questions.ListByDocument(ctx, d.ID, repository.QuestionQuery{
			Limit:      previewQuestionCount,
			Descending: true,
		})
		if err != nil {
			return nil, err
		}

		// The repository hands back the most recent N newest-first;
		// re-reverse so the preview reads chronologically.
		previews := make([]QuestionPreview, 0, len(latest))
		for i := len(latest) - 1; i >= 0; i-- {
			previews = append(previews, QuestionPreview{
				Question:  latest[i].QuestionText,
				Answer:    latest[i].AnswerText,
				CreatedAt: latest[i].CreatedAt,
			})
		}

		out = append(out, DocumentSummary{
			ID:               d.ID,
			Filename:         d.Filename,
			FileURL:          s.store.URL(d.Filename),
			CreatedAt:        d.CreatedAt,
			PreviewQuestions: previews,
		})
	}
	return out, nil
}

func (s *documentService) Get(ctx context.Context, id int64) (*DocumentDetail, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &DocumentDetail{
		ID:        doc.ID,
		Filename:  doc.Filename,
		FileURL:   s.store.URL(doc.Filename),
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (s *documentService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrIDRequired
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	// Questions and the document row go away in one transaction.
	if err := s.docs.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete document: %w", err)
	}

	// Blob removal is best-effort and outside the transaction; a failure
	// here leaves an orphaned blob rather than resurrecting the rows.
	if err := s.store.Delete(ctx, doc.Filename); err != nil {
		logDeleteLeak(doc.Filename, err)
	}
	return nil
}

func (s *documentService) Open(ctx context.Context, filename string) (io.ReadCloser, storage.ObjectInfo, error) {
	if filename == "" {
		return nil, storage.ObjectInfo{}, ErrIDRequired
	}
	rc, info, err := s.store.Get(ctx, filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.ObjectInfo{}, ErrNotFound
		}
		return nil, storage.ObjectInfo{}, err
	}
	return rc, info, nil
}

func logDeleteLeak(filename string, err error) {
	b, mErr := json.Marshal(map[string]any{
		"ts":       time.Now().UTC().Format(time.RFC3339Nano),
		"level":    "warn",
		"msg":      "blob_delete_failed",
		"filename": filename,
		"error":    err.Error(),
	})
	if mErr != nil {
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
