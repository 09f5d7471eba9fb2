package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

type productRepository struct {
	s *Store
}

func (r *productRepository) slugTaken(product *models.Product) bool {
	if product.Slug == "" {
		return false
	}
	for _, existing := range r.s.products {
		if existing.ID != product.ID && existing.Slug == product.Slug {
			return true
		}
	}
	return false
}

func (r *productRepository) Create(_ context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.slugTaken(product) {
		return repository.ErrDuplicate
	}
	r.s.stamp(&product.BaseModel)
	if product.Status == "" {
		product.Status = models.ProductStatusAvailable
	}
	stored := *product
	stored.Seller = nil
	r.s.products[product.ID] = stored
	return nil
}

func (r *productRepository) Update(_ context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.slugTaken(product) {
		return repository.ErrDuplicate
	}
	product.UpdatedAt = r.s.now()
	stored := *product
	stored.Seller = nil
	r.s.products[product.ID] = stored
	return nil
}

func (r *productRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *productRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if product := r.s.productRef(id); product != nil {
		return product, nil
	}
	return nil, repository.ErrNotFound
}

func (r *productRepository) GetBySlug(_ context.Context, slug string) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for id, product := range r.s.products {
		if product.Slug == slug {
			return r.s.productRef(id), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *productRepository) GetByIDs(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := []models.Product{}
	for _, id := range ids {
		if product := r.s.productRef(id); product != nil {
			products = append(products, *product)
		}
	}
	return products, nil
}

func matchesCategory(product models.Product, category string) bool {
	return product.PrimaryCategory == category ||
		product.SecondaryCategory == category ||
		product.TertiaryCategory == category
}

func (r *productRepository) List(_ context.Context, filter repository.ProductFilter) ([]models.Product, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	products := []models.Product{}
	for id, product := range r.s.products {
		if filter.SellerID != nil && product.SellerID != *filter.SellerID {
			continue
		}
		if filter.Status != nil && product.Status != *filter.Status {
			continue
		}
		if filter.Condition != "" && product.Condition != filter.Condition {
			continue
		}
		if filter.Category != "" && !matchesCategory(product, filter.Category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(product.Title+" "+product.Description), search) {
			continue
		}
		products = append(products, *r.s.productRef(id))
	}
	newestFirst(products, func(p models.Product) time.Time { return p.CreatedAt })
	return paginate(products, filter.Page), int64(len(products)), nil
}

func (r *productRepository) CountBySeller(_ context.Context, sellerID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var count int64
	for _, product := range r.s.products {
		if product.SellerID == sellerID {
			count++
		}
	}
	return count, nil
}

func (r *productRepository) IncrementViews(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product, ok := r.s.products[id]
	if !ok {
		return nil
	}
	product.Views++
	r.s.products[id] = product
	return nil
}

func (r *productRepository) SetHolidayMode(_ context.Context, sellerID uuid.UUID, enabled bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[sellerID]
	if !ok {
		return 0, repository.ErrNotFound
	}

	var affected int64
	for id, product := range r.s.products {
		if product.SellerID != sellerID {
			continue
		}
		switch {
		case enabled && product.Status == models.ProductStatusAvailable:
			product.Status = models.ProductStatusUnavailable
			product.WasAvailableBeforeHoliday = true
		case !enabled && product.WasAvailableBeforeHoliday:
			product.Status = models.ProductStatusAvailable
			product.WasAvailableBeforeHoliday = false
		default:
			continue
		}
		r.s.products[id] = product
		affected++
	}

	user.HolidayMode = enabled
	r.s.users[sellerID] = user
	return affected, nil
}
