// internal/services/wishlist_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

const wishlistPageSize = 10

type WishlistService struct {
	wishlists repository.WishlistRepository
	products  repository.ProductRepository
	prices    *PriceService
}

// WishlistQuery is the raw filter set read from the query string.
type WishlistQuery struct {
	Status    string
	Condition string
	Category  string
	PriceType string
	MinPrice  string
	MaxPrice  string
	Sort      string
	Page      int
}

type WishlistItem struct {
	ID      uuid.UUID   `json:"id"`
	AddedAt time.Time   `json:"added_at"`
	Product ProductCard `json:"product"`
}

func NewWishlistService(repos repository.Repositories, prices *PriceService) *WishlistService {
	return &WishlistService{
		wishlists: repos.Wishlists,
		products:  repos.Products,
		prices:    prices,
	}
}

func (s *WishlistService) Add(ctx context.Context, userID, productID uuid.UUID) (*models.Wishlist, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, notFoundOr(err, ErrProductNotFound, "failed to load product")
	}

	item := &models.Wishlist{UserID: userID, ProductID: productID}
	if err := s.wishlists.Add(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyWishlisted
		}
		return nil, unexpected("failed to add to wishlist", err)
	}
	return item, nil
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.wishlists.Remove(ctx, userID, productID); err != nil {
		return notFoundOr(err, ErrWishlistItemNotFound, "failed to remove from wishlist")
	}
	return nil
}

func (s *WishlistService) Count(ctx context.Context, productID uuid.UUID) (int64, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return 0, notFoundOr(err, ErrProductNotFound, "failed to load product")
	}
	count, err := s.wishlists.CountByProduct(ctx, productID)
	if err != nil {
		return 0, unexpected("failed to count wishlist entries", err)
	}
	return count, nil
}

func (q WishlistQuery) filter() (repository.WishlistFilter, error) {
	filter := repository.WishlistFilter{
		Condition: q.Condition,
		Category:  q.Category,
		Sort:      repository.WishlistSort(q.Sort),
	}

	if q.Status != "" {
		status := models.ProductStatus(q.Status)
		if !status.Valid() {
			return filter, ErrInvalidProductStatus
		}
		filter.Status = &status
	}
	if q.PriceType != "" {
		channel := models.PriceChannel(q.PriceType)
		if !channel.Valid() {
			return filter, ErrInvalidPriceType
		}
		filter.PriceType = channel
	}
	switch filter.Sort {
	case repository.WishlistSortDefault, repository.WishlistSortNewest, repository.WishlistSortOldest:
	default:
		return filter, ErrInvalidWishlistSort
	}

	for _, bound := range []struct {
		raw  string
		dest **decimal.Decimal
		name string
	}{
		{q.MinPrice, &filter.MinPrice, "min_price"},
		{q.MaxPrice, &filter.MaxPrice, "max_price"},
	} {
		if bound.raw == "" {
			continue
		}
		value, err := decimal.NewFromString(bound.raw)
		if err != nil || value.IsNegative() {
			return filter, badRequest(errors.New("invalid " + bound.name))
		}
		*bound.dest = &value
	}

	page := utils.ClampPage(q.Page)
	filter.Page = repository.Page{Offset: (page - 1) * wishlistPageSize, Limit: wishlistPageSize}
	return filter, nil
}

func (s *WishlistService) List(ctx context.Context, userID uuid.UUID, query WishlistQuery) ([]WishlistItem, int64, error) {
	filter, err := query.filter()
	if err != nil {
		return nil, 0, err
	}

	items, total, err := s.wishlists.List(ctx, userID, filter)
	if err != nil {
		return nil, 0, unexpected("failed to list wishlist", err)
	}

	products := make([]models.Product, 0, len(items))
	for _, item := range items {
		if item.Product != nil {
			products = append(products, *item.Product)
		}
	}
	prices, err := s.prices.ForViewer(ctx, &userID, products)
	if err != nil {
		return nil, 0, err
	}

	result := make([]WishlistItem, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		result = append(result, WishlistItem{
			ID:      item.ID,
			AddedAt: item.CreatedAt,
			Product: newProductCard(item.Product, prices[item.ProductID]),
		})
	}
	return result, total, nil
}
