package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"pdfqa/internal/service"
)

// askRequest is the JSON body of POST /ask.
type askRequest struct {
	DocumentID int64  `json:"document_id"`
	Question   string `json:"question"`
}

// AskQuestion answers a question about a document and records the pair.
//
// @Summary Ask a question about a document
// @Accept json
// @Produce json
// @Param request body askRequest true "Question"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /ask [post]
func AskQuestion(svc service.AnswerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req askRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		ans, err := svc.Ask(c.UserContext(), req.DocumentID, req.Question)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrDocumentIDRequired), errors.Is(err, service.ErrQuestionRequired):
				return writeError(c, fiber.StatusBadRequest, "MISSING_FIELD", "missing document_id or question")
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			default:
				return writeInternalError(c, err)
			}
		}
		return c.JSON(fiber.Map{"answer": ans})
	}
}

// ListDocumentQuestions returns all questions and answers for a document in
// chronological order. A document with no questions yields an empty list.
//
// @Summary List a document's questions
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {array} service.QuestionEntry
// @Router /documents/{id}/questions [get]
func ListDocumentQuestions(svc service.AnswerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		items, err := svc.Questions(c.UserContext(), id)
		if err != nil {
			return writeInternalError(c, err)
		}
		return c.JSON(items)
	}
}
