// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Amounts are rendered as JSON numbers, matching what clients send.
	decimal.MarshalJSONWithoutQuotes = true
}

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	return scanJSON(value, j)
}

// scanJSON decodes a jsonb column into dest.
func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}

// Enums
type ProductStatus string

const (
	ProductStatusAvailable     ProductStatus = "available"
	ProductStatusSold          ProductStatus = "sold"
	ProductStatusUnavailable   ProductStatus = "unavailable"
	ProductStatusOrderReceived ProductStatus = "order_received"
	ProductStatusShipped       ProductStatus = "shipped"
	ProductStatusIssues        ProductStatus = "issues"
	ProductStatusCancelled     ProductStatus = "cancelled"
	ProductStatusDraft         ProductStatus = "draft"
	ProductStatusUnderReview   ProductStatus = "under_review"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusAvailable, ProductStatusSold, ProductStatusUnavailable,
		ProductStatusOrderReceived, ProductStatusShipped, ProductStatusIssues,
		ProductStatusCancelled, ProductStatusDraft, ProductStatusUnderReview:
		return true
	}
	return false
}

// PriceChannel names one of the parallel ways a product can be paid for.
type PriceChannel string

const (
	PriceChannelCash PriceChannel = "cash"
	PriceChannelCoin PriceChannel = "coin"
	PriceChannelMix  PriceChannel = "mix"
)

func (c PriceChannel) Valid() bool {
	return c == PriceChannelCash || c == PriceChannelCoin || c == PriceChannelMix
}

// Bargainable reports whether an offer may be made in this channel.
// A mix price has two amounts, so a single offered price cannot express it.
func (c PriceChannel) Bargainable() bool {
	return c == PriceChannelCash || c == PriceChannelCoin
}

type BargainStatus string

const (
	BargainStatusPending  BargainStatus = "pending"
	BargainStatusAccepted BargainStatus = "accepted"
	BargainStatusRejected BargainStatus = "rejected"
)

func (s BargainStatus) Valid() bool {
	return s == BargainStatusPending || s == BargainStatusAccepted || s == BargainStatusRejected
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)
