package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"farmfund/grant-matcher/internal/matching"
	"farmfund/grant-matcher/internal/repositories"
	"farmfund/grant-matcher/internal/services"
)

type GrantHandler struct {
	grantRepo repositories.GrantRepository
	catalog   *matching.Catalog
	search    services.SearchService
}

func NewGrantHandler(
	grantRepo repositories.GrantRepository,
	catalog *matching.Catalog,
	search services.SearchService,
) *GrantHandler {
	return &GrantHandler{
		grantRepo: grantRepo,
		catalog:   catalog,
		search:    search,
	}
}

// HandleList handles GET /grants
func (h *GrantHandler) HandleList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	grants, err := h.grantRepo.FindOpen(limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list grants",
		})
	}

	return c.JSON(fiber.Map{
		"grants": grants,
		"limit":  limit,
		"offset": offset,
	})
}

// HandleGet handles GET /grants/:id
func (h *GrantHandler) HandleGet(c *fiber.Ctx) error {
	grantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid grant ID format",
		})
	}

	grant, err := h.grantRepo.FindByID(grantID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Grant not found",
		})
	}

	return c.JSON(grant)
}

// HandleSearch handles GET /grants/search?q=
func (h *GrantHandler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q is required",
		})
	}

	limit := c.QueryInt("limit", 10)
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	results, err := h.search.Search(c.Context(), query, limit)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Search failed",
		})
	}

	return c.JSON(fiber.Map{
		"query":   query,
		"results": results,
	})
}

// HandleReload handles POST /admin/catalog/reload
func (h *GrantHandler) HandleReload(c *fiber.Ctx) error {
	if err := h.catalog.Load(c.Context()); err != nil {
		if errors.Is(err, matching.ErrCatalogUnavailable) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Grant catalog unavailable",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Reload failed",
		})
	}

	health := h.catalog.Health()
	return c.JSON(fiber.Map{
		"message": "Catalog reloaded",
		"count":   health.Count,
	})
}
