// internal/models/product.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var (
	ErrPricingModeRequired  = errors.New("at least one pricing mode (cash, coin, or mix) must be provided")
	ErrInvalidMRP           = errors.New("mrp must be greater than zero")
	ErrNegativeAmount       = errors.New("price amounts cannot be negative")
	ErrSizeModeConflict     = errors.New("only one of the size fields (attributes, free size, or size string) can be selected")
	ErrSubCategoryRequired  = errors.New("either secondary or tertiary category must be provided")
	ErrPrimaryCategoryEmpty = errors.New("primary category is required")
	ErrTooManyImages        = errors.New("too many product images")
	ErrImagesRequired       = errors.New("at least one product image is required")
)

type CashPrice struct {
	EnteredAmount      decimal.Decimal `json:"entered_amount"`
	SellerReceivesCash decimal.Decimal `json:"seller_receives_cash"`
}

type CoinPrice struct {
	EnteredAmount      decimal.Decimal `json:"entered_amount"`
	SellerReceivesCoin decimal.Decimal `json:"seller_receives_coin"`
}

type MixPrice struct {
	EnteredCash        decimal.Decimal `json:"entered_cash"`
	EnteredCoin        decimal.Decimal `json:"entered_coin"`
	SellerReceivesCash decimal.Decimal `json:"seller_receives_cash"`
	SellerReceivesCoin decimal.Decimal `json:"seller_receives_coin"`
}

// ProductPrice is the seller's listed price across the cash, coin and mix channels.
type ProductPrice struct {
	MRP  decimal.Decimal `json:"mrp"`
	Cash *CashPrice      `json:"cash,omitempty"`
	Coin *CoinPrice      `json:"coin,omitempty"`
	Mix  *MixPrice       `json:"mix,omitempty"`
}

func (p ProductPrice) HasCash() bool {
	return p.Cash != nil && p.Cash.EnteredAmount.IsPositive()
}

func (p ProductPrice) HasCoin() bool {
	return p.Coin != nil && p.Coin.EnteredAmount.IsPositive()
}

func (p ProductPrice) HasMix() bool {
	return p.Mix != nil && p.Mix.EnteredCash.IsPositive() && p.Mix.EnteredCoin.IsPositive()
}

func (p ProductPrice) Offers(channel PriceChannel) bool {
	switch channel {
	case PriceChannelCash:
		return p.HasCash()
	case PriceChannelCoin:
		return p.HasCoin()
	case PriceChannelMix:
		return p.HasMix()
	}
	return false
}

func (p ProductPrice) Validate() error {
	if !p.MRP.IsPositive() {
		return ErrInvalidMRP
	}

	amounts := []decimal.Decimal{}
	if p.Cash != nil {
		amounts = append(amounts, p.Cash.EnteredAmount, p.Cash.SellerReceivesCash)
	}
	if p.Coin != nil {
		amounts = append(amounts, p.Coin.EnteredAmount, p.Coin.SellerReceivesCoin)
	}
	if p.Mix != nil {
		amounts = append(amounts, p.Mix.EnteredCash, p.Mix.EnteredCoin, p.Mix.SellerReceivesCash, p.Mix.SellerReceivesCoin)
	}
	for _, amount := range amounts {
		if amount.IsNegative() {
			return ErrNegativeAmount
		}
	}

	if !p.HasCash() && !p.HasCoin() && !p.HasMix() {
		return ErrPricingModeRequired
	}
	return nil
}

func (p ProductPrice) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *ProductPrice) Scan(value interface{}) error {
	if value == nil {
		*p = ProductPrice{}
		return nil
	}
	return scanJSON(value, p)
}

type SizeAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ProductSize struct {
	Attributes []SizeAttribute `json:"attributes,omitempty"`
	FreeSize   bool            `json:"free_size"`
	SizeString string          `json:"size_string,omitempty"`
}

func (s ProductSize) Validate() error {
	selected := 0
	if len(s.Attributes) > 0 {
		selected++
	}
	if s.FreeSize {
		selected++
	}
	if s.SizeString != "" {
		selected++
	}
	if selected > 1 {
		return ErrSizeModeConflict
	}
	return nil
}

func (s ProductSize) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *ProductSize) Scan(value interface{}) error {
	if value == nil {
		*s = ProductSize{}
		return nil
	}
	return scanJSON(value, s)
}

type Product struct {
	BaseModel
	SellerID                  uuid.UUID      `json:"seller_id" gorm:"type:uuid;not null;index"`
	Slug                      string         `json:"slug" gorm:"uniqueIndex;size:300"`
	Title                     string         `json:"title" gorm:"size:255;not null"`
	Description               string         `json:"description" gorm:"type:text;not null"`
	PrimaryCategory           string         `json:"primary_category" gorm:"size:100;not null;index"`
	SecondaryCategory         string         `json:"secondary_category" gorm:"size:100;index"`
	TertiaryCategory          string         `json:"tertiary_category" gorm:"size:100"`
	Images                    pq.StringArray `json:"images" gorm:"type:text[]"`
	Thumbnails                pq.StringArray `json:"thumbnails" gorm:"type:text[]"`
	Video                     string         `json:"video,omitempty" gorm:"size:500"`
	PickupAddressID           *uuid.UUID     `json:"pickup_address_id,omitempty" gorm:"type:uuid"`
	Condition                 string         `json:"condition" gorm:"size:50;not null;index"`
	ManufacturingCountry      string         `json:"manufacturing_country" gorm:"size:100"`
	Weight                    float64        `json:"weight"`
	Brand                     string         `json:"brand,omitempty" gorm:"size:100"`
	Occasion                  string         `json:"occasion,omitempty" gorm:"size:100"`
	Color                     string         `json:"color,omitempty" gorm:"size:50"`
	Shape                     string         `json:"shape,omitempty" gorm:"size:50"`
	Fabric                    string         `json:"fabric,omitempty" gorm:"size:50"`
	Quantity                  int            `json:"quantity" gorm:"default:1"`
	ShippingMethod            string         `json:"shipping_method" gorm:"size:50"`
	GSTNumber                 string         `json:"gst_number,omitempty" gorm:"size:20"`
	Size                      ProductSize    `json:"size" gorm:"type:jsonb"`
	Price                     ProductPrice   `json:"price" gorm:"type:jsonb;not null"`
	Status                    ProductStatus  `json:"status" gorm:"type:varchar(20);default:'available';index"`
	WasAvailableBeforeHoliday bool           `json:"-" gorm:"default:false"`
	Views                     int64          `json:"views" gorm:"default:0"`

	// Relationships
	Seller *User `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}

// Validate checks the listing rules every stored product has to satisfy.
func (p *Product) Validate(maxImages int) error {
	if p.PrimaryCategory == "" {
		return ErrPrimaryCategoryEmpty
	}
	if p.SecondaryCategory == "" && p.TertiaryCategory == "" {
		return ErrSubCategoryRequired
	}
	if len(p.Images) == 0 {
		return ErrImagesRequired
	}
	if maxImages > 0 && len(p.Images) > maxImages {
		return ErrTooManyImages
	}
	if err := p.Size.Validate(); err != nil {
		return err
	}
	return p.Price.Validate()
}

func (p *Product) IsAvailable() bool {
	return p.Status == ProductStatusAvailable
}

func (p *Product) Category() string {
	if p.TertiaryCategory != "" {
		return p.TertiaryCategory
	}
	if p.SecondaryCategory != "" {
		return p.SecondaryCategory
	}
	return p.PrimaryCategory
}
