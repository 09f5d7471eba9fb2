package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

type bargainRepository struct {
	db *gorm.DB
}

func NewBargainRepository(db *gorm.DB) repository.BargainRepository {
	return &bargainRepository{db: db}
}

func (r *bargainRepository) Create(ctx context.Context, bargain *models.Bargain) error {
	return translate(r.db.WithContext(ctx).Omit("Product", "Seller", "Buyer").Create(bargain).Error)
}

func (r *bargainRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bargain, error) {
	var bargain models.Bargain
	if err := r.db.WithContext(ctx).First(&bargain, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &bargain, nil
}

func (r *bargainRepository) GetByProductAndBuyer(ctx context.Context, productID, buyerID uuid.UUID) (*models.Bargain, error) {
	var bargain models.Bargain
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND buyer_id = ?", productID, buyerID).
		First(&bargain).Error
	if err != nil {
		return nil, translate(err)
	}
	return &bargain, nil
}

func (r *bargainRepository) SaveRevision(ctx context.Context, bargain *models.Bargain) error {
	result := r.db.WithContext(ctx).Model(&models.Bargain{}).
		Where("id = ? AND status = ?", bargain.ID, models.BargainStatusPending).
		Updates(map[string]interface{}{
			"offered_price":   bargain.OfferedPrice,
			"offered_in":      bargain.OfferedIn,
			"seller_receives": bargain.SellerReceives,
			"message":         bargain.Message,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrStale
	}
	return nil
}

func (r *bargainRepository) Transition(ctx context.Context, id uuid.UUID, from, to models.BargainStatus, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Bargain{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "responded_at": at})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrStale
	}
	return nil
}

func (r *bargainRepository) ListByProduct(ctx context.Context, productID uuid.UUID, status *models.BargainStatus) ([]models.Bargain, error) {
	query := r.db.WithContext(ctx).Preload("Buyer").Where("product_id = ?", productID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var bargains []models.Bargain
	err := query.Order("created_at DESC").Find(&bargains).Error
	return bargains, translate(err)
}

func (r *bargainRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, filter repository.BargainFilter) ([]models.Bargain, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Bargain{}).Where("buyer_id = ?", buyerID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var bargains []models.Bargain
	err := paginate(query.Preload("Product").Preload("Seller").Order("created_at DESC"), filter.Page).
		Find(&bargains).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return bargains, total, nil
}

func (r *bargainRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, filter repository.BargainFilter) ([]models.Bargain, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Bargain{}).Where("seller_id = ?", sellerID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var bargains []models.Bargain
	err := paginate(query.Preload("Product").Preload("Buyer").
		Order("CASE WHEN status = '"+string(models.BargainStatusPending)+"' THEN 0 ELSE 1 END").
		Order("created_at DESC"), filter.Page).
		Find(&bargains).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return bargains, total, nil
}

func (r *bargainRepository) AcceptedForBuyer(ctx context.Context, buyerID uuid.UUID, productIDs []uuid.UUID) ([]models.Bargain, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var bargains []models.Bargain
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND status = ? AND product_id IN ?", buyerID, models.BargainStatusAccepted, productIDs).
		Find(&bargains).Error
	return bargains, translate(err)
}
