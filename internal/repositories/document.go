package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmfund/grant-matcher/internal/models"
)

type FarmDocumentRepository interface {
	Create(document *models.FarmDocument) error
	FindByID(id uuid.UUID) (*models.FarmDocument, error)
}

type farmDocumentRepository struct {
	db *gorm.DB
}

func NewFarmDocumentRepository(db *gorm.DB) FarmDocumentRepository {
	return &farmDocumentRepository{db: db}
}

func (r *farmDocumentRepository) Create(document *models.FarmDocument) error {
	if err := r.db.Create(document).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (r *farmDocumentRepository) FindByID(id uuid.UUID) (*models.FarmDocument, error) {
	var doc models.FarmDocument
	if err := r.db.Where("id = ?", id).First(&doc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("document not found: %w", err)
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return &doc, nil
}
