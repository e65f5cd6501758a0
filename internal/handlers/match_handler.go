package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"farmfund/grant-matcher/internal/config"
	"farmfund/grant-matcher/internal/matching"
	"farmfund/grant-matcher/internal/models"
	"farmfund/grant-matcher/internal/services"
)

type MatchHandler struct {
	engine      *matching.Engine
	profiles    services.ProfileService
	matchingCfg config.MatchingConfig
}

func NewMatchHandler(
	engine *matching.Engine,
	profiles services.ProfileService,
	matchingCfg config.MatchingConfig,
) *MatchHandler {
	return &MatchHandler{
		engine:      engine,
		profiles:    profiles,
		matchingCfg: matchingCfg,
	}
}

// HandleMatch handles POST /match
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	var req models.MatchRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.ProfileID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "profile_id is required",
		})
	}

	profileID, err := uuid.Parse(req.ProfileID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid profile_id format",
		})
	}

	opts, errMsg := h.resolveOptions(&req)
	if errMsg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": errMsg,
		})
	}

	profile, err := h.profiles.GetByID(c.Context(), profileID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}

	start := time.Now()
	resp, err := h.engine.Match(c.Context(), profile, opts)
	if err != nil {
		switch {
		case errors.Is(err, matching.ErrNoSnapshot):
			// Not ready is distinct from zero matches.
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Matching unavailable: grant catalog not loaded yet",
			})
		case errors.Is(err, matching.ErrInvalidProfile):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Matching failed",
		})
	}

	return c.JSON(models.MatchAPIResponse{
		Results:       resp.Results,
		TotalMatches:  resp.TotalMatches,
		Options:       resp.Options,
		DurationMs:    time.Since(start).Milliseconds(),
		EngineVersion: matching.Version,
	})
}

// resolveOptions applies the configured defaults and bounds. Engine policy
// stays out of this; it only ever sees resolved values.
func (h *MatchHandler) resolveOptions(req *models.MatchRequest) (models.MatchOptions, string) {
	opts := models.MatchOptions{
		Limit:    h.matchingCfg.DefaultLimit,
		MinScore: h.matchingCfg.DefaultMinScore,
	}

	if req.Limit != nil {
		if *req.Limit <= 0 {
			return opts, "limit must be a positive integer"
		}
		opts.Limit = *req.Limit
		if opts.Limit > h.matchingCfg.MaxLimit {
			opts.Limit = h.matchingCfg.MaxLimit
		}
	}

	if req.MinScore != nil {
		if *req.MinScore < 0 || *req.MinScore > 100 {
			return opts, "min_score must be between 0 and 100"
		}
		opts.MinScore = *req.MinScore
	}

	return opts, ""
}
