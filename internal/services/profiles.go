package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"farmfund/grant-matcher/internal/models"
	"farmfund/grant-matcher/internal/repositories"
)

// ProfileService hands out matching-ready profiles: cache-aside over Redis,
// falling back to Postgres, with enum fields normalized on the way out so
// the engine only ever sees valid members.
type ProfileService interface {
	Create(userID uuid.UUID, attrs models.ProfileAttributes) (*models.FarmProfile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.FarmProfile, error)
	Update(ctx context.Context, id uuid.UUID, attrs models.ProfileAttributes) (*models.FarmProfile, error)
}

type profileService struct {
	repo     repositories.FarmProfileRepository
	redis    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewProfileService(
	repo repositories.FarmProfileRepository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	logger *zap.Logger,
) ProfileService {
	return &profileService{
		repo:     repo,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (s *profileService) Create(userID uuid.UUID, attrs models.ProfileAttributes) (*models.FarmProfile, error) {
	profile := models.ProfileFromAttributes(userID, attrs)
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("profile is incomplete: %w", err)
	}
	if err := s.repo.Create(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) GetByID(ctx context.Context, id uuid.UUID) (*models.FarmProfile, error) {
	cacheKey := profileCacheKey(id)

	if s.redis != nil {
		if val, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var profile models.FarmProfile
			if err := json.Unmarshal([]byte(val), &profile); err == nil {
				return normalized(&profile), nil
			}
		}
	}

	profile, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		data, _ := json.Marshal(profile)
		if err := s.redis.Set(ctx, cacheKey, data, s.cacheTTL).Err(); err != nil {
			s.logger.Warn("failed to cache profile",
				zap.String("profile_id", id.String()),
				zap.Error(err),
			)
		}
	}

	return normalized(profile), nil
}

func (s *profileService) Update(ctx context.Context, id uuid.UUID, attrs models.ProfileAttributes) (*models.FarmProfile, error) {
	profile, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	profile.ApplyAttributes(attrs)
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("profile is incomplete: %w", err)
	}
	if err := s.repo.Update(profile); err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.Del(ctx, profileCacheKey(id)).Err(); err != nil {
			s.logger.Warn("failed to invalidate profile cache",
				zap.String("profile_id", id.String()),
				zap.Error(err),
			)
		}
	}

	return profile, nil
}

// normalized re-runs enum normalization on a stored profile. Rows written
// under an older schema version may carry legacy values; the documented
// defaults apply rather than letting them through.
func normalized(p *models.FarmProfile) *models.FarmProfile {
	p.FarmType = models.ParseFarmType(string(p.FarmType))
	p.AcresBand = models.ParseAcresBand(string(p.AcresBand))
	p.OperatorType = models.ParseOperatorType(string(p.OperatorType))
	if p.EmployeeCount < 0 {
		p.EmployeeCount = 0
	}
	return p
}

func profileCacheKey(id uuid.UUID) string {
	return "farm:profile:" + id.String()
}
