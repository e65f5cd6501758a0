package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"farmfund/grant-matcher/internal/models"
	"farmfund/grant-matcher/internal/repositories"
	"farmfund/grant-matcher/internal/services"
)

type UploadHandler struct {
	docRepo        repositories.FarmDocumentRepository
	storageService services.StorageService
	maxFileSize    int64
}

func NewUploadHandler(
	docRepo repositories.FarmDocumentRepository,
	storageService services.StorageService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /upload. Each multipart field named after a
// known document type may carry one PDF.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	var responses []models.UploadResponse

	for docType := range services.KnownDocTypes {
		files, exists := form.File[docType]
		if !exists || len(files) == 0 {
			continue
		}
		file := files[0]

		if file.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
			})
		}

		filename, filePath, err := h.storageService.SaveFile(file, docType)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to save file: %v", err),
			})
		}

		doc := models.FarmDocument{
			ID:               uuid.New(),
			Filename:         filename,
			OriginalFileName: file.Filename,
			DocType:          docType,
			FilePath:         filePath,
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
		}

		if err := h.docRepo.Create(&doc); err != nil {
			// Cleanup uploaded file if database insert fails
			h.storageService.DeleteFile(filename)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to save document record: %v", err),
			})
		}

		responses = append(responses, models.UploadResponse{
			ID:           doc.ID.String(),
			Filename:     doc.Filename,
			OriginalName: doc.OriginalFileName,
			DocType:      doc.DocType,
		})
	}

	if len(responses) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No valid files uploaded. Upload a PDF under one of: tax_schedule, organic_cert, lease, other.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Files uploaded successfully",
		"documents": responses,
	})
}
