package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"farmfund/grant-matcher/internal/models"
	"farmfund/grant-matcher/internal/repositories"
)

// ExtractorService runs one AI extraction job end to end: load the
// document, parse the PDF, prompt the model, and store the suggested
// profile attributes. Failures land on the extraction record so the result
// endpoint can report them.
type ExtractorService interface {
	ExtractDocument(ctx context.Context, extractionID uuid.UUID) error
}

type extractorService struct {
	extractionRepo repositories.ExtractionRepository
	docRepo        repositories.FarmDocumentRepository
	geminiService  GeminiService
	pdfParser      PDFParserService
	promptBuilder  *PromptBuilder
	maxRetries     int
	logger         *zap.Logger
}

func NewExtractorService(
	extractionRepo repositories.ExtractionRepository,
	docRepo repositories.FarmDocumentRepository,
	geminiService GeminiService,
	pdfParser PDFParserService,
	maxRetries int,
	logger *zap.Logger,
) ExtractorService {
	return &extractorService{
		extractionRepo: extractionRepo,
		docRepo:        docRepo,
		geminiService:  geminiService,
		pdfParser:      pdfParser,
		promptBuilder:  NewPromptBuilder(),
		maxRetries:     maxRetries,
		logger:         logger,
	}
}

type extractionResult struct {
	Attributes models.ProfileAttributes `json:"attributes"`
	Confidence *float64                 `json:"confidence"`
}

func (e *extractorService) ExtractDocument(ctx context.Context, extractionID uuid.UUID) error {
	if err := e.extractionRepo.UpdateStatus(extractionID, models.ExtractionProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	extraction, err := e.extractionRepo.FindByID(extractionID)
	if err != nil {
		e.extractionRepo.UpdateError(extractionID, err.Error())
		return fmt.Errorf("failed to get extraction: %w", err)
	}

	doc, err := e.docRepo.FindByID(extraction.DocumentID)
	if err != nil {
		e.extractionRepo.UpdateError(extractionID, fmt.Sprintf("document not found: %v", err))
		return fmt.Errorf("failed to get document: %w", err)
	}

	text, err := e.pdfParser.ExtractText(doc.FilePath)
	if err != nil {
		e.extractionRepo.UpdateError(extractionID, fmt.Sprintf("failed to parse document: %v", err))
		return fmt.Errorf("failed to parse document: %w", err)
	}

	prompt := e.promptBuilder.BuildExtractionPrompt(doc.DocType, text)
	response, err := e.geminiService.GenerateTextWithRetry(ctx, prompt, 0.2, e.maxRetries)
	if err != nil {
		e.extractionRepo.UpdateError(extractionID, fmt.Sprintf("extraction model failed: %v", err))
		return fmt.Errorf("extraction model failed: %w", err)
	}

	var result extractionResult
	if err := parseJSONResponse(response, &result); err != nil {
		e.extractionRepo.UpdateError(extractionID, fmt.Sprintf("failed to parse model response: %v", err))
		return fmt.Errorf("failed to parse model response: %w", err)
	}

	if err := e.extractionRepo.UpdateResult(extractionID, result.Attributes, result.Confidence); err != nil {
		return fmt.Errorf("failed to store extraction result: %w", err)
	}

	e.logger.Info("document extraction completed",
		zap.String("extraction_id", extractionID.String()),
		zap.String("document_id", extraction.DocumentID.String()),
		zap.Int("attributes", len(result.Attributes)),
	)
	return nil
}

func parseJSONResponse(response string, target interface{}) error {
	jsonStr := extractJSON(response)
	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

// extractJSON tries to extract JSON from text that might contain markdown
// or other formatting around it.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
