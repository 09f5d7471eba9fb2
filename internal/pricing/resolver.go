// Package pricing resolves the price a particular buyer sees for a product.
package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/swapkaro/swapkaro-backend/internal/models"
)

type ChannelPrice struct {
	Amount         decimal.Decimal `json:"amount"`
	SellerReceives decimal.Decimal `json:"seller_receives"`
	Bargained      bool            `json:"bargained"`
}

type MixPrice struct {
	Cash               decimal.Decimal `json:"cash"`
	Coin               decimal.Decimal `json:"coin"`
	SellerReceivesCash decimal.Decimal `json:"seller_receives_cash"`
	SellerReceivesCoin decimal.Decimal `json:"seller_receives_coin"`
}

// EffectivePrice is the listed price with any accepted bargain applied.
type EffectivePrice struct {
	MRP       decimal.Decimal `json:"mrp"`
	Cash      *ChannelPrice   `json:"cash,omitempty"`
	Coin      *ChannelPrice   `json:"coin,omitempty"`
	Mix       *MixPrice       `json:"mix,omitempty"`
	BargainID *uuid.UUID      `json:"bargain_id,omitempty"`
}

// Resolve merges product's listed price with the buyer's accepted bargain.
// A bargain that is not accepted, or that belongs to another product, is ignored.
// The mix channel is never overridden because bargains cannot be made in mix.
func Resolve(product *models.Product, accepted *models.Bargain) EffectivePrice {
	listed := product.Price
	price := EffectivePrice{MRP: listed.MRP}

	if listed.HasCash() {
		price.Cash = &ChannelPrice{
			Amount:         listed.Cash.EnteredAmount,
			SellerReceives: listed.Cash.SellerReceivesCash,
		}
	}
	if listed.HasCoin() {
		price.Coin = &ChannelPrice{
			Amount:         listed.Coin.EnteredAmount,
			SellerReceives: listed.Coin.SellerReceivesCoin,
		}
	}
	if listed.HasMix() {
		price.Mix = &MixPrice{
			Cash:               listed.Mix.EnteredCash,
			Coin:               listed.Mix.EnteredCoin,
			SellerReceivesCash: listed.Mix.SellerReceivesCash,
			SellerReceivesCoin: listed.Mix.SellerReceivesCoin,
		}
	}

	if accepted == nil || !accepted.IsAccepted() || accepted.ProductID != product.ID {
		return price
	}

	bargained := &ChannelPrice{
		Amount:         accepted.OfferedPrice,
		SellerReceives: accepted.SellerReceives,
		Bargained:      true,
	}
	switch accepted.OfferedIn {
	case models.PriceChannelCash:
		price.Cash = bargained
	case models.PriceChannelCoin:
		price.Coin = bargained
	default:
		return price
	}

	id := accepted.ID
	price.BargainID = &id
	return price
}

// ResolveMany resolves every product against the bargains keyed by product ID.
func ResolveMany(products []models.Product, accepted map[uuid.UUID]*models.Bargain) map[uuid.UUID]EffectivePrice {
	prices := make(map[uuid.UUID]EffectivePrice, len(products))
	for i := range products {
		product := &products[i]
		prices[product.ID] = Resolve(product, accepted[product.ID])
	}
	return prices
}

// IndexAccepted keys accepted bargains by product.
func IndexAccepted(bargains []models.Bargain) map[uuid.UUID]*models.Bargain {
	index := make(map[uuid.UUID]*models.Bargain, len(bargains))
	for i := range bargains {
		if bargains[i].IsAccepted() {
			index[bargains[i].ProductID] = &bargains[i]
		}
	}
	return index
}

// Charge returns the cash and coin amounts payable through channel.
// ok is false when the price does not offer that channel.
func (p EffectivePrice) Charge(channel models.PriceChannel) (cash, coin decimal.Decimal, ok bool) {
	switch channel {
	case models.PriceChannelCash:
		if p.Cash != nil {
			return p.Cash.Amount, decimal.Zero, true
		}
	case models.PriceChannelCoin:
		if p.Coin != nil {
			return decimal.Zero, p.Coin.Amount, true
		}
	case models.PriceChannelMix:
		if p.Mix != nil {
			return p.Mix.Cash, p.Mix.Coin, true
		}
	}
	return decimal.Zero, decimal.Zero, false
}
