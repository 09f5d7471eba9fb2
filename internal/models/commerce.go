// internal/models/commerce.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart holds a buyer's products from a single seller.
type Cart struct {
	BaseModel
	BuyerID  uuid.UUID  `json:"buyer_id" gorm:"type:uuid;not null;uniqueIndex:idx_carts_buyer_seller"`
	SellerID uuid.UUID  `json:"seller_id" gorm:"type:uuid;not null;uniqueIndex:idx_carts_buyer_seller;index"`
	Items    []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

func (c *Cart) Contains(productID uuid.UUID) bool {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

type CartItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CartID    uuid.UUID `json:"cart_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product;index"`
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	BaseModel
	BuyerID         uuid.UUID       `json:"buyer_id" gorm:"type:uuid;not null;index"`
	SellerID        uuid.UUID       `json:"seller_id" gorm:"type:uuid;not null;index"`
	PaymentChannel  PriceChannel    `json:"payment_channel" gorm:"type:varchar(10);not null"`
	CashTotal       decimal.Decimal `json:"cash_total" gorm:"type:numeric(12,2);not null;default:0"`
	CoinTotal       decimal.Decimal `json:"coin_total" gorm:"type:numeric(12,2);not null;default:0"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ShippingAddress JSONB           `json:"shipping_address" gorm:"type:jsonb"`
	PaymentIntentID string          `json:"payment_intent_id,omitempty" gorm:"size:100"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderID    uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `json:"product_id" gorm:"type:uuid;not null"`
	BargainID  *uuid.UUID      `json:"bargain_id,omitempty" gorm:"type:uuid"`
	Title      string          `json:"title" gorm:"size:255"`
	Quantity   int             `json:"quantity" gorm:"default:1"`
	CashAmount decimal.Decimal `json:"cash_amount" gorm:"type:numeric(12,2);not null;default:0"`
	CoinAmount decimal.Decimal `json:"coin_amount" gorm:"type:numeric(12,2);not null;default:0"`
}

type Wishlist struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_wishlists_user_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_wishlists_user_product;index"`
	CreatedAt time.Time `json:"created_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
