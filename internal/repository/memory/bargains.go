package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

type bargainRepository struct {
	s *Store
}

func strip(b models.Bargain) models.Bargain {
	b.Product, b.Seller, b.Buyer = nil, nil, nil
	return b
}

func (r *bargainRepository) Create(_ context.Context, bargain *models.Bargain) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.bargains {
		if existing.ProductID == bargain.ProductID && existing.BuyerID == bargain.BuyerID {
			return repository.ErrDuplicate
		}
	}
	r.s.stamp(&bargain.BaseModel)
	if bargain.Status == "" {
		bargain.Status = models.BargainStatusPending
	}
	r.s.bargains[bargain.ID] = strip(*bargain)
	return nil
}

func (r *bargainRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Bargain, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	bargain, ok := r.s.bargains[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &bargain, nil
}

func (r *bargainRepository) GetByProductAndBuyer(_ context.Context, productID, buyerID uuid.UUID) (*models.Bargain, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, bargain := range r.s.bargains {
		if bargain.ProductID == productID && bargain.BuyerID == buyerID {
			return &bargain, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *bargainRepository) SaveRevision(_ context.Context, bargain *models.Bargain) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.bargains[bargain.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != models.BargainStatusPending {
		return repository.ErrStale
	}
	stored.OfferedPrice = bargain.OfferedPrice
	stored.OfferedIn = bargain.OfferedIn
	stored.SellerReceives = bargain.SellerReceives
	stored.Message = bargain.Message
	stored.UpdatedAt = r.s.now()
	r.s.bargains[bargain.ID] = stored
	return nil
}

func (r *bargainRepository) Transition(_ context.Context, id uuid.UUID, from, to models.BargainStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.bargains[id]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != from {
		return repository.ErrStale
	}
	stored.Status = to
	stored.RespondedAt = &at
	stored.UpdatedAt = r.s.now()
	r.s.bargains[id] = stored
	return nil
}

func (r *bargainRepository) ListByProduct(_ context.Context, productID uuid.UUID, status *models.BargainStatus) ([]models.Bargain, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	bargains := []models.Bargain{}
	for _, bargain := range r.s.bargains {
		if bargain.ProductID != productID {
			continue
		}
		if status != nil && bargain.Status != *status {
			continue
		}
		bargain.Buyer = r.s.userRef(bargain.BuyerID)
		bargains = append(bargains, bargain)
	}
	newestFirst(bargains, func(b models.Bargain) time.Time { return b.CreatedAt })
	return bargains, nil
}

func (r *bargainRepository) list(match func(models.Bargain) bool, filter repository.BargainFilter) []models.Bargain {
	bargains := []models.Bargain{}
	for _, bargain := range r.s.bargains {
		if !match(bargain) {
			continue
		}
		if filter.Status != nil && bargain.Status != *filter.Status {
			continue
		}
		bargain.Product = r.s.productRef(bargain.ProductID)
		bargain.Seller = r.s.userRef(bargain.SellerID)
		bargain.Buyer = r.s.userRef(bargain.BuyerID)
		bargains = append(bargains, bargain)
	}
	return bargains
}

func (r *bargainRepository) ListByBuyer(_ context.Context, buyerID uuid.UUID, filter repository.BargainFilter) ([]models.Bargain, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	bargains := r.list(func(b models.Bargain) bool { return b.BuyerID == buyerID }, filter)
	newestFirst(bargains, func(b models.Bargain) time.Time { return b.CreatedAt })
	return paginate(bargains, filter.Page), int64(len(bargains)), nil
}

func (r *bargainRepository) ListBySeller(_ context.Context, sellerID uuid.UUID, filter repository.BargainFilter) ([]models.Bargain, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	bargains := r.list(func(b models.Bargain) bool { return b.SellerID == sellerID }, filter)
	sort.SliceStable(bargains, func(i, j int) bool {
		pi := bargains[i].Status == models.BargainStatusPending
		pj := bargains[j].Status == models.BargainStatusPending
		if pi != pj {
			return pi
		}
		return bargains[i].CreatedAt.After(bargains[j].CreatedAt)
	})
	return paginate(bargains, filter.Page), int64(len(bargains)), nil
}

func (r *bargainRepository) AcceptedForBuyer(_ context.Context, buyerID uuid.UUID, productIDs []uuid.UUID) ([]models.Bargain, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[uuid.UUID]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}
	bargains := []models.Bargain{}
	for _, bargain := range r.s.bargains {
		if bargain.BuyerID == buyerID && bargain.IsAccepted() && wanted[bargain.ProductID] {
			bargains = append(bargains, bargain)
		}
	}
	return bargains, nil
}
