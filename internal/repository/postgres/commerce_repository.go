package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetByBuyerAndSeller(ctx context.Context, buyerID, sellerID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).Preload("Items").
		Where("buyer_id = ? AND seller_id = ?", buyerID, sellerID).
		First(&cart).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (r *cartRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Cart, error) {
	var carts []models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("buyer_id = ?", buyerID).
		Order("created_at ASC").
		Find(&carts).Error
	return carts, translate(err)
}

func (r *cartRepository) FindContaining(ctx context.Context, buyerID, productID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).Preload("Items").
		Joins("JOIN cart_items ON cart_items.cart_id = carts.id").
		Where("carts.buyer_id = ? AND cart_items.product_id = ?", buyerID, productID).
		First(&cart).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (r *cartRepository) Create(ctx context.Context, cart *models.Cart) error {
	return translate(r.db.WithContext(ctx).Create(cart).Error)
}

func (r *cartRepository) AddItem(ctx context.Context, cartID, productID uuid.UUID) error {
	item := models.CartItem{CartID: cartID, ProductID: productID}
	return translate(r.db.WithContext(ctx).Create(&item).Error)
}

func (r *cartRepository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the cart for good so the (buyer, seller) slot can be reused.
func (r *cartRepository) Delete(ctx context.Context, cartID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Cart{}, "id = ?", cartID).Error
	}))
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Place(ctx context.Context, order *models.Order, cartID uuid.UUID) error {
	productIDs := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
	}

	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var available []models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ? AND status = ?", productIDs, models.ProductStatusAvailable).
			Find(&available).Error; err != nil {
			return err
		}
		if len(available) != len(productIDs) {
			return repository.ErrStale
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Product{}).
			Where("id IN ?", productIDs).
			Update("status", models.ProductStatusOrderReceived).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Cart{}, "id = ?", cartID).Error
	}))
}

func (r *orderRepository) SetPaymentIntent(ctx context.Context, orderID uuid.UUID, intentID string) error {
	return translate(r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("payment_intent_id", intentID).Error)
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, page repository.Page) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("buyer_id = ?", buyerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var orders []models.Order
	if err := paginate(query.Preload("Items").Order("created_at DESC"), page).Find(&orders).Error; err != nil {
		return nil, 0, translate(err)
	}
	return orders, total, nil
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) repository.WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Add(ctx context.Context, item *models.Wishlist) error {
	return translate(r.db.WithContext(ctx).Omit("Product").Create(item).Error)
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Wishlist{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// priceColumn is the entered amount for a channel inside the price jsonb.
func priceColumn(channel models.PriceChannel) string {
	switch channel {
	case models.PriceChannelCoin:
		return "(products.price->'coin'->>'entered_amount')::numeric"
	case models.PriceChannelMix:
		return "(products.price->'mix'->>'entered_cash')::numeric"
	}
	return "(products.price->'cash'->>'entered_amount')::numeric"
}

func (r *wishlistRepository) List(ctx context.Context, userID uuid.UUID, filter repository.WishlistFilter) ([]models.Wishlist, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Wishlist{}).
		Joins("JOIN products ON products.id = wishlists.product_id AND products.deleted_at IS NULL").
		Where("wishlists.user_id = ?", userID)

	if filter.Status != nil {
		query = query.Where("products.status = ?", *filter.Status)
	}
	if filter.Condition != "" {
		query = query.Where("products.condition = ?", filter.Condition)
	}
	if filter.Category != "" {
		query = query.Where("products.primary_category = ? OR products.secondary_category = ? OR products.tertiary_category = ?",
			filter.Category, filter.Category, filter.Category)
	}
	if filter.PriceType != "" {
		query = query.Where("products.price -> ? IS NOT NULL", string(filter.PriceType))
	}
	column := priceColumn(filter.PriceType)
	if filter.MinPrice != nil {
		query = query.Where(column+" >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where(column+" <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	order := "wishlists.created_at DESC"
	if filter.Sort == repository.WishlistSortOldest {
		order = "wishlists.created_at ASC"
	}

	var items []models.Wishlist
	err := paginate(query.Preload("Product").Preload("Product.Seller").Order(order), filter.Page).Find(&items).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return items, total, nil
}

func (r *wishlistRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Wishlist{}).Where("product_id = ?", productID).Count(&count).Error
	return count, translate(err)
}
