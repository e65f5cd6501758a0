package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"farmfund/grant-matcher/internal/models"
)

type GrantRepository interface {
	FindAll(ctx context.Context) ([]models.Grant, error)
	FindByID(id uuid.UUID) (*models.Grant, error)
	FindOpen(limit, offset int) ([]models.Grant, error)
	FindByIDs(ids []uuid.UUID) ([]models.Grant, error)
	Create(grant *models.Grant) error
	Upsert(grant *models.Grant) error
}

type grantRepository struct {
	db *gorm.DB
}

func NewGrantRepository(db *gorm.DB) GrantRepository {
	return &grantRepository{db: db}
}

// FindAll is the catalog loader's source. ID ordering keeps snapshot order
// deterministic across reloads.
func (r *grantRepository) FindAll(ctx context.Context) ([]models.Grant, error) {
	var grants []models.Grant
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&grants).Error; err != nil {
		return nil, fmt.Errorf("failed to load grants: %w", err)
	}
	return grants, nil
}

func (r *grantRepository) FindByID(id uuid.UUID) (*models.Grant, error) {
	var grant models.Grant
	if err := r.db.Where("id = ?", id).First(&grant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("grant not found")
		}
		return nil, fmt.Errorf("failed to find grant: %w", err)
	}
	return &grant, nil
}

func (r *grantRepository) FindOpen(limit, offset int) ([]models.Grant, error) {
	var grants []models.Grant
	err := r.db.
		Where("status = ?", models.GrantOpen).
		Order("title ASC").
		Limit(limit).
		Offset(offset).
		Find(&grants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list open grants: %w", err)
	}
	return grants, nil
}

func (r *grantRepository) FindByIDs(ids []uuid.UUID) ([]models.Grant, error) {
	var grants []models.Grant
	if err := r.db.Where("id IN ?", ids).Find(&grants).Error; err != nil {
		return nil, fmt.Errorf("failed to find grants: %w", err)
	}
	return grants, nil
}

func (r *grantRepository) Create(grant *models.Grant) error {
	if err := r.db.Create(grant).Error; err != nil {
		return fmt.Errorf("failed to create grant: %w", err)
	}
	return nil
}

// Upsert inserts or replaces a grant keyed by its upstream source id, so
// repeated catalog ingests stay idempotent.
func (r *grantRepository) Upsert(grant *models.Grant) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_id"}},
		UpdateAll: true,
	}).Create(grant).Error
	if err != nil {
		return fmt.Errorf("failed to upsert grant: %w", err)
	}
	return nil
}
