package handlers

import (
	"carbonlens/internal/models"
	"carbonlens/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RecommendationHandler struct {
	recService *service.RecommendationService
	logger     *zap.Logger
}

func NewRecommendationHandler(recService *service.RecommendationService, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recService: recService,
		logger:     logger,
	}
}

// Generate runs the full recommendation pipeline once and returns the run
// summary. Runs are synchronous; callers should not overlap them.
func (h *RecommendationHandler) Generate(c *fiber.Ctx) error {
	summary, err := h.recService.Generate(c.Context())
	if err != nil {
		h.logger.Error("Failed to generate recommendations", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate recommendations",
		})
	}
	return c.JSON(summary)
}

// List returns stored recommendations ordered by score, optionally
// filtered by ?criteria=.
func (h *RecommendationHandler) List(c *fiber.Ctx) error {
	var criterion *models.Criterion
	if raw := c.Query("criteria"); raw != "" {
		parsed, err := models.ParseCriterion(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		criterion = &parsed
	}

	recs, err := h.recService.Fetch(c.Context(), criterion)
	if err != nil {
		h.logger.Error("Failed to fetch recommendations", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch recommendations",
		})
	}
	return c.JSON(recs)
}
