package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pdfqa/internal/service"
	serviceMocks "pdfqa/internal/service/mocks"
	"pdfqa/internal/storage"
)

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents", ListDocuments(mockSvc))

	t.Run("success with preview questions", func(t *testing.T) {
		base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		mockSvc.On("List", mock.Anything).Return([]service.DocumentSummary{
			{
				ID:       1,
				Filename: "report.pdf",
				FileURL:  "/uploads/report.pdf",
				PreviewQuestions: []service.QuestionPreview{
					{Question: "q1", Answer: "a1", CreatedAt: base},
					{Question: "q2", Answer: "a2", CreatedAt: base.Add(time.Minute)},
				},
			},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result []service.DocumentSummary
		json.NewDecoder(resp.Body).Decode(&result)
		require.Len(t, result, 1)
		assert.Equal(t, "/uploads/report.pdf", result[0].FileURL)
		require.Len(t, result[0].PreviewQuestions, 2)
		assert.True(t, result[0].PreviewQuestions[0].CreatedAt.Before(result[0].PreviewQuestions[1].CreatedAt))
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty list", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return([]service.DocumentSummary{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result []service.DocumentSummary
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Empty(t, result)
	})

	t.Run("service error passes message through", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return(nil, errors.New("db down")).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "db down", body.Error.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents/:id", GetDocument(mockSvc))

	t.Run("success returns deterministic file url", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(7)).Return(&service.DocumentDetail{
			ID:       7,
			Filename: "report.pdf",
			FileURL:  "/uploads/report.pdf",
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/7", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.DocumentDetail
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, int64(7), result.ID)
		assert.Equal(t, "report.pdf", result.Filename)
		assert.Equal(t, "/uploads/report.pdf", result.FileURL)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, int64(99)).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/99", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents/not-a-number", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_ID", res.Error.Code)
	})
}

func newPDFUploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	part.Write([]byte(content))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Post("/upload", UploadDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Upload", mock.Anything, mock.Anything, "report.pdf", mock.Anything).
			Return(&service.UploadResult{
				Message:    "PDF uploaded successfully",
				DocumentID: 1,
				FileURL:    "/uploads/report.pdf",
			}, nil).Once()

		resp, _ := app.Test(newPDFUploadRequest(t, "report.pdf", "%PDF-1.4 data"))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result service.UploadResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, int64(1), result.DocumentID)
		assert.Equal(t, "/uploads/report.pdf", result.FileURL)
		mockSvc.AssertExpectations(t)
	})

	t.Run("non-pdf filename rejected", func(t *testing.T) {
		mockSvc.On("Upload", mock.Anything, mock.Anything, "notes.txt", mock.Anything).
			Return(nil, service.ErrNotPDF).Once()

		resp, _ := app.Test(newPDFUploadRequest(t, "notes.txt", "plain text"))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_FILE_TYPE", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FILE_REQUIRED", res.Error.Code)
	})

	t.Run("service error passes message through", func(t *testing.T) {
		mockSvc.On("Upload", mock.Anything, mock.Anything, "report.pdf", mock.Anything).
			Return(nil, errors.New("extract text: bad xref")).Once()

		resp, _ := app.Test(newPDFUploadRequest(t, "report.pdf", "junk"))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "extract text: bad xref", res.Error.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestAskQuestion(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnswerService)
	app := fiber.New()
	app.Post("/ask", AskQuestion(mockSvc))

	ask := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Ask", mock.Anything, int64(1), "What was the revenue?").
			Return("Revenue was $5M in 2023.", nil).Once()

		resp := ask(`{"document_id": 1, "question": "What was the revenue?"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Revenue was $5M in 2023.", body["answer"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing document_id", func(t *testing.T) {
		mockSvc.On("Ask", mock.Anything, int64(0), "q?").
			Return("", service.ErrDocumentIDRequired).Once()

		resp := ask(`{"question": "q?"}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "MISSING_FIELD", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing question", func(t *testing.T) {
		mockSvc.On("Ask", mock.Anything, int64(1), "").
			Return("", service.ErrQuestionRequired).Once()

		resp := ask(`{"document_id": 1}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("document not found", func(t *testing.T) {
		mockSvc.On("Ask", mock.Anything, int64(99), "q?").
			Return("", service.ErrNotFound).Once()

		resp := ask(`{"document_id": 99, "question": "q?"}`)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("generation failure passes message through", func(t *testing.T) {
		mockSvc.On("Ask", mock.Anything, int64(1), "q?").
			Return("", errors.New("generate answer: quota exceeded")).Once()

		resp := ask(`{"document_id": 1, "question": "q?"}`)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "generate answer: quota exceeded", res.Error.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp := ask(`{"document_id": `)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_BODY", res.Error.Code)
	})
}

func TestListDocumentQuestions(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnswerService)
	app := fiber.New()
	app.Get("/documents/:id/questions", ListDocumentQuestions(mockSvc))

	t.Run("chronological order", func(t *testing.T) {
		base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		mockSvc.On("Questions", mock.Anything, int64(1)).Return([]service.QuestionEntry{
			{ID: 1, Question: "q1", Answer: "a1", CreatedAt: base},
			{ID: 2, Question: "q2", Answer: "a2", CreatedAt: base.Add(time.Minute)},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/1/questions", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result []service.QuestionEntry
		json.NewDecoder(resp.Body).Decode(&result)
		require.Len(t, result, 2)
		assert.True(t, !result[1].CreatedAt.Before(result[0].CreatedAt))
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty list", func(t *testing.T) {
		mockSvc.On("Questions", mock.Anything, int64(8)).
			Return([]service.QuestionEntry{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/8/questions", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result []service.QuestionEntry
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Empty(t, result)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents/abc/questions", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDownloadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/uploads/:filename", DownloadDocument(mockSvc))

	t.Run("streams stored blob", func(t *testing.T) {
		content := "%PDF-1.4 content"
		mockSvc.On("Open", mock.Anything, "report.pdf").
			Return(io.NopCloser(bytes.NewReader([]byte(content))), storage.ObjectInfo{
				Key:         "report.pdf",
				Size:        int64(len(content)),
				ContentType: "application/pdf",
			}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/uploads/report.pdf", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
		got, _ := io.ReadAll(resp.Body)
		assert.Equal(t, content, string(got))
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing blob", func(t *testing.T) {
		mockSvc.On("Open", mock.Anything, "gone.pdf").
			Return(nil, storage.ObjectInfo{}, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/uploads/gone.pdf", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeleteDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Delete("/documents/:id", DeleteDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(3)).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/3", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Document deleted successfully", body["message"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(42)).Return(service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/42", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/documents/zero", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
