package models

import (
	"time"

	"github.com/google/uuid"
)

type FarmDocument struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Filename         string    `gorm:"type:text" json:"filename"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	DocType          string    `gorm:"type:text" json:"doc_type"`
	FilePath         string    `gorm:"type:text" json:"file_path"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (d *FarmDocument) TableName() string {
	return "farm_documents"
}

type ExtractionStatus string

const (
	ExtractionQueued     ExtractionStatus = "queued"
	ExtractionProcessing ExtractionStatus = "processing"
	ExtractionCompleted  ExtractionStatus = "completed"
	ExtractionFailed     ExtractionStatus = "failed"
)

// Extraction is an async AI job that pulls suggested profile attributes out
// of an uploaded farm document. Its output feeds profile construction and
// never reaches the matching engine directly.
type Extraction struct {
	ID                  uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DocumentID          uuid.UUID         `gorm:"type:uuid;not null" json:"document_id"`
	Status              ExtractionStatus  `gorm:"not null;default:'queued'" json:"status"`
	SuggestedAttributes ProfileAttributes `gorm:"serializer:json" json:"suggested_attributes,omitempty"`
	Confidence          *float64          `gorm:"type:decimal(3,2)" json:"confidence,omitempty"`
	ErrorMessage        *string           `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt           time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Document FarmDocument `gorm:"foreignKey:DocumentID" json:"-"`
}

func (Extraction) TableName() string {
	return "extractions"
}

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	DocType      string `json:"doc_type"`
}

type ExtractRequest struct {
	DocumentID string `json:"document_id" validate:"required,uuid"`
}

type ExtractResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ExtractionResultResponse struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Result       ProfileAttributes `json:"result,omitempty"`
	Confidence   *float64          `json:"confidence,omitempty"`
	ErrorMessage *string           `json:"error_message,omitempty"`
}
