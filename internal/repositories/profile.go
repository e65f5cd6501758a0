package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmfund/grant-matcher/internal/models"
)

type FarmProfileRepository interface {
	Create(profile *models.FarmProfile) error
	FindByID(id uuid.UUID) (*models.FarmProfile, error)
	FindByUserID(userID uuid.UUID) (*models.FarmProfile, error)
	Update(profile *models.FarmProfile) error
}

type farmProfileRepository struct {
	db *gorm.DB
}

func NewFarmProfileRepository(db *gorm.DB) FarmProfileRepository {
	return &farmProfileRepository{db: db}
}

func (r *farmProfileRepository) Create(profile *models.FarmProfile) error {
	if err := r.db.Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *farmProfileRepository) FindByID(id uuid.UUID) (*models.FarmProfile, error) {
	var profile models.FarmProfile
	if err := r.db.Where("id = ?", id).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("profile not found")
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return &profile, nil
}

func (r *farmProfileRepository) FindByUserID(userID uuid.UUID) (*models.FarmProfile, error) {
	var profile models.FarmProfile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("profile not found")
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return &profile, nil
}

func (r *farmProfileRepository) Update(profile *models.FarmProfile) error {
	profile.UpdatedAt = time.Now()
	result := r.db.Save(profile)
	if result.Error != nil {
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("profile not found")
	}
	return nil
}
