package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"farmfund/grant-matcher/internal/models"
	"farmfund/grant-matcher/internal/repositories"
	"farmfund/grant-matcher/internal/services"
)

type ExtractHandler struct {
	extractionRepo repositories.ExtractionRepository
	docRepo        repositories.FarmDocumentRepository
	worker         services.Worker
}

func NewExtractHandler(
	extractionRepo repositories.ExtractionRepository,
	docRepo repositories.FarmDocumentRepository,
	worker services.Worker,
) *ExtractHandler {
	return &ExtractHandler{
		extractionRepo: extractionRepo,
		docRepo:        docRepo,
		worker:         worker,
	}
}

// HandleExtract handles POST /extract
func (h *ExtractHandler) HandleExtract(c *fiber.Ctx) error {
	var req models.ExtractRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.DocumentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "document_id is required",
		})
	}

	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document_id format",
		})
	}

	if _, err := h.docRepo.FindByID(docID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Document not found",
		})
	}

	extraction := &models.Extraction{
		ID:         uuid.New(),
		DocumentID: docID,
		Status:     models.ExtractionQueued,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := h.extractionRepo.Create(extraction); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create extraction job",
		})
	}

	h.worker.EnqueueJob(extraction.ID)

	// Return job ID immediately
	return c.Status(fiber.StatusAccepted).JSON(models.ExtractResponse{
		ID:     extraction.ID.String(),
		Status: string(models.ExtractionQueued),
	})
}

// HandleGetResult handles GET /extractions/:id
func (h *ExtractHandler) HandleGetResult(c *fiber.Ctx) error {
	extractionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid extraction ID format",
		})
	}

	extraction, err := h.extractionRepo.FindByID(extractionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Extraction not found",
		})
	}

	response := models.ExtractionResultResponse{
		ID:     extraction.ID.String(),
		Status: string(extraction.Status),
	}

	if extraction.Status == models.ExtractionCompleted {
		response.Result = extraction.SuggestedAttributes
		response.Confidence = extraction.Confidence
	}

	if extraction.Status == models.ExtractionFailed {
		response.ErrorMessage = extraction.ErrorMessage
	}

	return c.JSON(response)
}
