package service

import (
	"context"
	"fmt"

	"carbonlens/internal/dto"

	"go.uber.org/zap"
)

// VendorService is a thin read-only passthrough over the vendor registry.
type VendorService struct {
	vendors VendorSource
	logger  *zap.Logger
}

func NewVendorService(vendors VendorSource, logger *zap.Logger) *VendorService {
	return &VendorService{
		vendors: vendors,
		logger:  logger,
	}
}

func (s *VendorService) List(ctx context.Context) ([]dto.VendorResponse, error) {
	vendors, err := s.vendors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}

	out := make([]dto.VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, dto.VendorResponse{
			ID:                  v.ID,
			Name:                v.Name,
			Category:            v.Category,
			ProductOrService:    v.ProductOrService,
			CarbonIntensity:     v.CarbonIntensity,
			SustainabilityScore: v.SustainabilityScore,
			DistanceKm:          v.DistanceKm,
		})
	}
	return out, nil
}
