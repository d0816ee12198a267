package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"pdfqa/internal/service"
)

// parseID parses a positive integer route parameter.
func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// ListDocuments returns all documents with their latest questions.
//
// @Summary List documents
// @Produce json
// @Success 200 {array} service.DocumentSummary
// @Router /documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext())
		if err != nil {
			return writeInternalError(c, err)
		}
		return c.JSON(res)
	}
}

// GetDocument returns a single document by ID.
//
// @Summary Get a document
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} service.DocumentDetail
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeInternalError(c, err)
		}
		return c.JSON(doc)
	}
}

// UploadDocument accepts a multipart PDF upload (field name: file).
//
// @Summary Upload a PDF
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF file"
// @Success 201 {object} service.UploadResult
// @Failure 400 {object} errorPayload
// @Router /upload [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		res, err := svc.Upload(c.UserContext(), f, fh.Filename, fh.Size)
		if err != nil {
			if errors.Is(err, service.ErrNotPDF) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_FILE_TYPE", "file must be a PDF")
			}
			return writeInternalError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// DeleteDocument removes a document, its questions, and its blob.
//
// @Summary Delete a document
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeInternalError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Document deleted successfully"})
	}
}

// DownloadDocument streams a stored blob by filename.
//
// @Summary Download a stored file
// @Produce application/pdf
// @Param filename path string true "Stored filename"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /uploads/{filename} [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, info, err := svc.Open(c.UserContext(), c.Params("filename"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			}
			return writeInternalError(c, err)
		}
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		return c.SendStream(rc, int(info.Size))
	}
}
