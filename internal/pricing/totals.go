package pricing

import "github.com/shopspring/decimal"

// Totals sums effective prices per channel.
// Products that do not offer a channel do not contribute to it.
type Totals struct {
	Cash    decimal.Decimal `json:"cash"`
	Coin    decimal.Decimal `json:"coin"`
	MixCash decimal.Decimal `json:"mix_cash"`
	MixCoin decimal.Decimal `json:"mix_coin"`
}

func Sum(prices ...EffectivePrice) Totals {
	totals := Totals{
		Cash:    decimal.Zero,
		Coin:    decimal.Zero,
		MixCash: decimal.Zero,
		MixCoin: decimal.Zero,
	}
	for _, p := range prices {
		if p.Cash != nil {
			totals.Cash = totals.Cash.Add(p.Cash.Amount)
		}
		if p.Coin != nil {
			totals.Coin = totals.Coin.Add(p.Coin.Amount)
		}
		if p.Mix != nil {
			totals.MixCash = totals.MixCash.Add(p.Mix.Cash)
			totals.MixCoin = totals.MixCoin.Add(p.Mix.Coin)
		}
	}
	return totals
}
