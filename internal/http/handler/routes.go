package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"pdfqa/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; business logic lives in the injected services.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, ansSvc service.AnswerService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/documents", ListDocuments(docSvc))
	app.Post("/upload", UploadDocument(docSvc))
	app.Get("/documents/:id", GetDocument(docSvc))
	app.Delete("/documents/:id", DeleteDocument(docSvc))
	app.Get("/documents/:id/questions", ListDocumentQuestions(ansSvc))

	app.Post("/ask", AskQuestion(ansSvc))

	// Stored blobs are served under a fixed public prefix, keyed 1:1 by filename.
	app.Get("/uploads/:filename", DownloadDocument(docSvc))
}
