package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapkaro/swapkaro-backend/internal/apperrors"
	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

func TestCreateProductNeedsPickupAddress(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "seller")

	_, err := f.products.CreateProduct(f.ctx, seller.ID, productRequest("Silk saree"))
	assert.ErrorIs(t, err, ErrPickupAddressRequired)
}

func TestCreateProductUsesDefaultAddressAndSellerGST(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "seller")
	seller.GSTNumber = "29ABCDE1234F1Z5"
	require.NoError(t, f.repos.Users.Update(f.ctx, seller))
	home := f.address(t, seller.ID, "560001")

	product, err := f.products.CreateProduct(f.ctx, seller.ID, productRequest("Silk Saree, Red"))
	require.NoError(t, err)

	assert.Equal(t, "29ABCDE1234F1Z5", product.GSTNumber)
	require.NotNil(t, product.PickupAddressID)
	assert.Equal(t, home.ID, *product.PickupAddressID)
	assert.Equal(t, models.ProductStatusAvailable, product.Status)
	assert.True(t, strings.HasPrefix(product.Slug, "silk-saree-red-"))
	assert.Equal(t, product.ID.String()[:8], product.Slug[len(product.Slug)-8:])

	bySlug, err := f.products.GetProductBySlug(f.ctx, product.Slug, nil)
	require.NoError(t, err)
	assert.Equal(t, product.ID, bySlug.ID)
}

func TestCreateProductRejectsForeignPickupAddress(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "seller")
	f.address(t, seller.ID, "560001")
	stranger := f.user(t, "stranger")
	theirs := f.address(t, stranger.ID, "110001")

	req := productRequest("Silk saree")
	req.PickupAddressID = &theirs.ID
	_, err := f.products.CreateProduct(f.ctx, seller.ID, req)
	assert.ErrorIs(t, err, ErrPickupAddressInvalid)
}

func TestCreateProductValidatesListing(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "seller")
	f.address(t, seller.ID, "560001")

	noPrice := productRequest("Silk saree")
	noPrice.Price = models.ProductPrice{MRP: amount("1000")}
	_, err := f.products.CreateProduct(f.ctx, seller.ID, noPrice)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Message, "pricing mode")

	twoSizes := productRequest("Silk saree")
	twoSizes.Size = models.ProductSize{FreeSize: true, SizeString: "M"}
	_, err = f.products.CreateProduct(f.ctx, seller.ID, twoSizes)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	noSubCategory := productRequest("Silk saree")
	noSubCategory.SecondaryCategory = ""
	_, err = f.products.CreateProduct(f.ctx, seller.ID, noSubCategory)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	tooMany := productRequest("Silk saree")
	tooMany.Images = make([]string, 8)
	for i := range tooMany.Images {
		tooMany.Images[i] = "https://cdn.example.com/x.jpg"
	}
	_, err = f.products.CreateProduct(f.ctx, seller.ID, tooMany)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestUpdateAndDeleteAreOwnerOnly(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "seller")
	other := f.user(t, "other")
	product := f.product(t, seller.ID)

	req := productRequest("Renamed")
	_, err := f.products.UpdateProduct(f.ctx, other.ID, product.ID, req)
	assert.ErrorIs(t, err, ErrProductForbidden)
	assert.ErrorIs(t, f.products.DeleteProduct(f.ctx, other.ID, product.ID), ErrProductForbidden)

	req.Status = "lost"
	_, err = f.products.UpdateProduct(f.ctx, seller.ID, product.ID, req)
	assert.ErrorIs(t, err, ErrInvalidProductStatus)

	req.Status = models.ProductStatusUnavailable
	updated, err := f.products.UpdateProduct(f.ctx, seller.ID, product.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, models.ProductStatusUnavailable, updated.Status)

	require.NoError(t, f.products.DeleteProduct(f.ctx, seller.ID, product.ID))
	_, err = f.products.GetProduct(f.ctx, product.ID, nil)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductPageHidesPrivateFields(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "seller")
	buyer := f.user(t, "buyer")
	product := f.product(t, seller.ID, func(p *models.Product) {
		p.GSTNumber = "29ABCDE1234F1Z5"
		p.ShippingMethod = "self"
	})

	view, err := f.products.GetProduct(f.ctx, product.ID, &buyer.ID)
	require.NoError(t, err)
	assert.False(t, view.IsOwner)
	assert.Nil(t, view.Private)
	assert.Equal(t, int64(1), view.Views)
	require.NotNil(t, view.Seller)
	assert.Equal(t, "seller", view.Seller.Username)

	anonymous, err := f.products.GetProduct(f.ctx, product.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), anonymous.Views)

	own, err := f.products.GetProduct(f.ctx, product.ID, &seller.ID)
	require.NoError(t, err)
	assert.True(t, own.IsOwner)
	require.NotNil(t, own.Private)
	assert.Equal(t, "29ABCDE1234F1Z5", own.Private.GSTNumber)
	assert.Equal(t, int64(2), own.Views, "owner visits are not counted")
}

func TestListCardsShowsViewersEffectivePrice(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "seller")
	buyer := f.user(t, "buyer")
	product := f.product(t, seller.ID)
	f.product(t, seller.ID, func(p *models.Product) { p.Status = models.ProductStatusSold })

	bargain, err := f.bargains.CreateBargain(f.ctx, buyer.ID, product.ID, offer("750", models.PriceChannelCash))
	require.NoError(t, err)
	_, err = f.bargains.AcceptBargain(f.ctx, seller.ID, bargain.ID)
	require.NoError(t, err)

	params := utils.PaginationParams{Page: 1, Limit: 15}
	cards, total, err := f.products.ListCards(f.ctx, CardFilter{PaginationParams: params}, &buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "only available products by default")
	require.Len(t, cards, 1)
	assert.True(t, cards[0].Price.Cash.Amount.Equal(amount("750")))

	public, _, err := f.products.ListCards(f.ctx, CardFilter{PaginationParams: params}, nil)
	require.NoError(t, err)
	assert.True(t, public[0].Price.Cash.Amount.Equal(amount("1000")))

	sold, total, err := f.products.ListCards(f.ctx, CardFilter{Status: "sold", PaginationParams: params}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, models.ProductStatusSold, sold[0].Status)

	_, _, err = f.products.ListCards(f.ctx, CardFilter{Status: "gone", PaginationParams: params}, nil)
	assert.ErrorIs(t, err, ErrInvalidProductStatus)

	sellerCards, total, err := f.products.SellerCards(f.ctx, seller.ID, params, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, sellerCards, 2)

	_, _, err = f.products.SellerCards(f.ctx, uuid.New(), params, nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
