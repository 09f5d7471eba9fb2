package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

// searchVector must match the expression behind idx_products_search.
const searchVector = "to_tsvector('english', coalesce(title, '') || ' ' || coalesce(description, ''))"

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(product).Error)
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	return translate(r.db.WithContext(ctx).Omit("Seller").Save(product).Error)
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Seller").First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Seller").Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).Preload("Seller").Where("id IN ?", ids).Find(&products).Error
	return products, translate(err)
}

func (r *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Condition != "" {
		query = query.Where("condition = ?", filter.Condition)
	}
	if filter.Category != "" {
		query = query.Where("primary_category = ? OR secondary_category = ? OR tertiary_category = ?",
			filter.Category, filter.Category, filter.Category)
	}
	if filter.Search != "" {
		query = query.Where(searchVector+" @@ plainto_tsquery('english', ?)", filter.Search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var products []models.Product
	err := paginate(query.Preload("Seller").Order("created_at DESC"), filter.Page).Find(&products).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return products, total, nil
}

func (r *productRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("seller_id = ?", sellerID).Count(&count).Error
	return count, translate(err)
}

func (r *productRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return translate(r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error)
}

func (r *productRepository) SetHolidayMode(ctx context.Context, sellerID uuid.UUID, enabled bool) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var result *gorm.DB
		if enabled {
			result = tx.Model(&models.Product{}).
				Where("seller_id = ? AND status = ?", sellerID, models.ProductStatusAvailable).
				Updates(map[string]interface{}{
					"status":                       models.ProductStatusUnavailable,
					"was_available_before_holiday": true,
				})
		} else {
			result = tx.Model(&models.Product{}).
				Where("seller_id = ? AND was_available_before_holiday = ?", sellerID, true).
				Updates(map[string]interface{}{
					"status":                       models.ProductStatusAvailable,
					"was_available_before_holiday": false,
				})
		}
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected

		return tx.Model(&models.User{}).Where("id = ?", sellerID).Update("holiday_mode", enabled).Error
	})
	return affected, translate(err)
}
