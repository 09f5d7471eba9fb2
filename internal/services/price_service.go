package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/pricing"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

// PriceService looks up a viewer's accepted bargains and resolves what they pay.
type PriceService struct {
	bargains repository.BargainRepository
}

func NewPriceService(bargains repository.BargainRepository) *PriceService {
	return &PriceService{bargains: bargains}
}

// ForViewer resolves every product for viewer. Anonymous viewers see listed prices.
func (s *PriceService) ForViewer(ctx context.Context, viewer *uuid.UUID, products []models.Product) (map[uuid.UUID]pricing.EffectivePrice, error) {
	if viewer == nil || len(products) == 0 {
		return pricing.ResolveMany(products, nil), nil
	}

	ids := make([]uuid.UUID, 0, len(products))
	for i := range products {
		ids = append(ids, products[i].ID)
	}

	accepted, err := s.bargains.AcceptedForBuyer(ctx, *viewer, ids)
	if err != nil {
		return nil, unexpected("failed to load accepted bargains", err)
	}
	return pricing.ResolveMany(products, pricing.IndexAccepted(accepted)), nil
}

func (s *PriceService) ForProduct(ctx context.Context, viewer *uuid.UUID, product *models.Product) (pricing.EffectivePrice, error) {
	prices, err := s.ForViewer(ctx, viewer, []models.Product{*product})
	if err != nil {
		return pricing.EffectivePrice{}, err
	}
	return prices[product.ID], nil
}
