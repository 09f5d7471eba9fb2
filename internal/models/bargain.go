// internal/models/bargain.go
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrBargainAccepted       = errors.New("bargain is already accepted")
	ErrBargainRejected       = errors.New("bargain has been rejected")
	ErrInvalidOfferChannel   = errors.New("bargain can only be in cash or coin")
	ErrInvalidOfferedPrice   = errors.New("offered price must be greater than zero")
	ErrInvalidSellerReceives = errors.New("seller receives amount is required")
)

// Bargain is a buyer's counter-offer against a product's listed price.
// There is at most one per (product, buyer); edits overwrite it in place.
type Bargain struct {
	BaseModel
	ProductID      uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_bargains_product_buyer"`
	SellerID       uuid.UUID       `json:"seller_id" gorm:"type:uuid;not null;index"`
	BuyerID        uuid.UUID       `json:"buyer_id" gorm:"type:uuid;not null;uniqueIndex:idx_bargains_product_buyer;index"`
	OfferedPrice   decimal.Decimal `json:"offered_price" gorm:"type:numeric(12,2);not null"`
	OfferedIn      PriceChannel    `json:"offered_in" gorm:"type:varchar(10);not null"`
	SellerReceives decimal.Decimal `json:"seller_receives" gorm:"type:numeric(12,2);not null"`
	Message        string          `json:"message,omitempty" gorm:"type:text"`
	Status         BargainStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	RespondedAt    *time.Time      `json:"responded_at,omitempty"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Seller  *User    `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Buyer   *User    `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
}

// Offer is the buyer-controlled part of a bargain.
type Offer struct {
	Price          decimal.Decimal
	Channel        PriceChannel
	SellerReceives decimal.Decimal
	Message        string
}

func (o Offer) Validate() error {
	if !o.Channel.Bargainable() {
		return ErrInvalidOfferChannel
	}
	if !o.Price.IsPositive() {
		return ErrInvalidOfferedPrice
	}
	if !o.SellerReceives.IsPositive() {
		return ErrInvalidSellerReceives
	}
	return nil
}

// NewBargain opens a pending bargain for buyerID on product.
func NewBargain(product *Product, buyerID uuid.UUID, offer Offer) (*Bargain, error) {
	if err := offer.Validate(); err != nil {
		return nil, err
	}
	return &Bargain{
		ProductID:      product.ID,
		SellerID:       product.SellerID,
		BuyerID:        buyerID,
		OfferedPrice:   offer.Price,
		OfferedIn:      offer.Channel,
		SellerReceives: offer.SellerReceives,
		Message:        offer.Message,
		Status:         BargainStatusPending,
	}, nil
}

// CanEdit reports whether the buyer may still revise the offer.
func (b *Bargain) CanEdit() error {
	switch b.Status {
	case BargainStatusAccepted:
		return ErrBargainAccepted
	case BargainStatusRejected:
		return ErrBargainRejected
	}
	return nil
}

// Revise overwrites the offer and puts the bargain back to pending.
func (b *Bargain) Revise(offer Offer) error {
	if err := b.CanEdit(); err != nil {
		return err
	}
	if err := offer.Validate(); err != nil {
		return err
	}
	b.OfferedPrice = offer.Price
	b.OfferedIn = offer.Channel
	b.SellerReceives = offer.SellerReceives
	b.Message = offer.Message
	b.Status = BargainStatusPending
	return nil
}

func (b *Bargain) Accept(now time.Time) error {
	return b.respond(BargainStatusAccepted, now)
}

func (b *Bargain) Reject(now time.Time) error {
	return b.respond(BargainStatusRejected, now)
}

func (b *Bargain) respond(to BargainStatus, now time.Time) error {
	if err := b.CanEdit(); err != nil {
		return err
	}
	b.Status = to
	b.RespondedAt = &now
	return nil
}

func (b *Bargain) IsAccepted() bool {
	return b.Status == BargainStatusAccepted
}

// VisibleTo reports whether the viewer may see the offered amounts.
func (b *Bargain) VisibleTo(viewerID *uuid.UUID) bool {
	if viewerID == nil {
		return false
	}
	return *viewerID == b.SellerID || *viewerID == b.BuyerID
}
