package handlers

import (
	"carbonlens/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type VendorHandler struct {
	vendorService *service.VendorService
	logger        *zap.Logger
}

func NewVendorHandler(vendorService *service.VendorService, logger *zap.Logger) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
		logger:        logger,
	}
}

func (h *VendorHandler) List(c *fiber.Ctx) error {
	vendors, err := h.vendorService.List(c.Context())
	if err != nil {
		h.logger.Error("Failed to list vendors", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list vendors",
		})
	}
	return c.JSON(vendors)
}
