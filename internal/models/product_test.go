package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func validProduct() *Product {
	return &Product{
		Title:             "Denim jacket",
		PrimaryCategory:   "women",
		SecondaryCategory: "jackets",
		Images:            []string{"https://cdn.example/1.jpg"},
		Condition:         "like_new",
		Price: ProductPrice{
			MRP:  d("2000"),
			Cash: &CashPrice{EnteredAmount: d("1200"), SellerReceivesCash: d("1080")},
		},
	}
}

func TestProductValidate(t *testing.T) {
	assert.NoError(t, validProduct().Validate(7))

	p := validProduct()
	p.SecondaryCategory = ""
	assert.ErrorIs(t, p.Validate(7), ErrSubCategoryRequired)
	p.TertiaryCategory = "denim"
	assert.NoError(t, p.Validate(7))

	p = validProduct()
	p.Images = []string{"1", "2", "3", "4", "5", "6", "7", "8"}
	assert.ErrorIs(t, p.Validate(7), ErrTooManyImages)

	p = validProduct()
	p.Images = nil
	assert.ErrorIs(t, p.Validate(7), ErrImagesRequired)

	p = validProduct()
	p.Size = ProductSize{FreeSize: true, SizeString: "M"}
	assert.ErrorIs(t, p.Validate(7), ErrSizeModeConflict)

	p = validProduct()
	p.Size = ProductSize{Attributes: []SizeAttribute{{Name: "chest", Value: "40"}}}
	assert.NoError(t, p.Validate(7))
}

func TestPriceRequiresAChannel(t *testing.T) {
	price := ProductPrice{MRP: d("100")}
	assert.ErrorIs(t, price.Validate(), ErrPricingModeRequired)

	price.Mix = &MixPrice{EnteredCash: d("50")}
	assert.ErrorIs(t, price.Validate(), ErrPricingModeRequired)

	price.Mix.EnteredCoin = d("20")
	assert.NoError(t, price.Validate())
	assert.True(t, price.Offers(PriceChannelMix))
	assert.False(t, price.Offers(PriceChannelCash))

	price.Coin = &CoinPrice{EnteredAmount: d("60"), SellerReceivesCoin: d("-1")}
	assert.ErrorIs(t, price.Validate(), ErrNegativeAmount)

	price = ProductPrice{Cash: &CashPrice{EnteredAmount: d("10")}}
	assert.ErrorIs(t, price.Validate(), ErrInvalidMRP)
}

func TestProductPriceScanValue(t *testing.T) {
	price := ProductPrice{
		MRP:  d("999.50"),
		Coin: &CoinPrice{EnteredAmount: d("80"), SellerReceivesCoin: d("72")},
	}

	raw, err := price.Value()
	require.NoError(t, err)

	var scanned ProductPrice
	require.NoError(t, scanned.Scan(raw))
	assert.True(t, scanned.MRP.Equal(price.MRP))
	assert.Nil(t, scanned.Cash)
	require.NotNil(t, scanned.Coin)
	assert.True(t, scanned.Coin.EnteredAmount.Equal(d("80")))

	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned.Coin)

	assert.Error(t, scanned.Scan(42))
}

func TestPriceJSONUsesNumbers(t *testing.T) {
	body := []byte(`{"mrp":1500,"cash":{"entered_amount":1100.5,"seller_receives_cash":990}}`)

	var price ProductPrice
	require.NoError(t, json.Unmarshal(body, &price))
	assert.True(t, price.Cash.EnteredAmount.Equal(d("1100.5")))

	out, err := json.Marshal(price)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"mrp":1500`)
}

func TestProductCategory(t *testing.T) {
	p := validProduct()
	assert.Equal(t, "jackets", p.Category())
	p.TertiaryCategory = "denim"
	assert.Equal(t, "denim", p.Category())
}
