package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

func seedUser(t *testing.T, repos repository.Repositories, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Mobile: "9" + username, IsVerified: true}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

func seedProduct(t *testing.T, repos repository.Repositories, sellerID uuid.UUID, cash int64) *models.Product {
	t.Helper()
	product := &models.Product{
		SellerID:        sellerID,
		Title:           "Kurta",
		PrimaryCategory: "women",
		Condition:       "new",
		Images:          []string{"a.jpg"},
		Price: models.ProductPrice{
			MRP:  decimal.NewFromInt(cash * 2),
			Cash: &models.CashPrice{EnteredAmount: decimal.NewFromInt(cash), SellerReceivesCash: decimal.NewFromInt(cash - 10)},
		},
	}
	require.NoError(t, repos.Products.Create(context.Background(), product))
	return product
}

func TestUserUniqueness(t *testing.T) {
	repos := NewStore().Repositories()
	seedUser(t, repos, "asha")

	dup := &models.User{Username: "other", Email: "ASHA@example.com", Mobile: "1"}
	assert.ErrorIs(t, repos.Users.Create(context.Background(), dup), repository.ErrDuplicate)

	found, err := repos.Users.GetByEmail(context.Background(), "Asha@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "asha", found.Username)
}

func TestBargainUniqueAndTransitions(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	seller := seedUser(t, repos, "seller")
	buyer := seedUser(t, repos, "buyer")
	product := seedProduct(t, repos, seller.ID, 500)

	bargain := &models.Bargain{ProductID: product.ID, SellerID: seller.ID, BuyerID: buyer.ID, OfferedIn: models.PriceChannelCash}
	require.NoError(t, repos.Bargains.Create(ctx, bargain))
	assert.ErrorIs(t, repos.Bargains.Create(ctx, &models.Bargain{ProductID: product.ID, BuyerID: buyer.ID}), repository.ErrDuplicate)

	now := time.Now()
	require.NoError(t, repos.Bargains.Transition(ctx, bargain.ID, models.BargainStatusPending, models.BargainStatusAccepted, now))
	assert.ErrorIs(t, repos.Bargains.Transition(ctx, bargain.ID, models.BargainStatusPending, models.BargainStatusRejected, now), repository.ErrStale)
	assert.ErrorIs(t, repos.Bargains.SaveRevision(ctx, bargain), repository.ErrStale)

	accepted, err := repos.Bargains.AcceptedForBuyer(ctx, buyer.ID, []uuid.UUID{product.ID})
	require.NoError(t, err)
	assert.Len(t, accepted, 1)
}

func TestListBySellerPutsPendingFirst(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	seller := seedUser(t, repos, "seller")
	first := seedProduct(t, repos, seller.ID, 100)
	second := seedProduct(t, repos, seller.ID, 200)
	buyer := seedUser(t, repos, "buyer")

	older := &models.Bargain{ProductID: first.ID, SellerID: seller.ID, BuyerID: buyer.ID}
	require.NoError(t, repos.Bargains.Create(ctx, older))
	newer := &models.Bargain{ProductID: second.ID, SellerID: seller.ID, BuyerID: buyer.ID}
	require.NoError(t, repos.Bargains.Create(ctx, newer))
	require.NoError(t, repos.Bargains.Transition(ctx, newer.ID, models.BargainStatusPending, models.BargainStatusAccepted, time.Now()))

	list, total, err := repos.Bargains.ListBySeller(ctx, seller.ID, repository.BargainFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, older.ID, list[0].ID)
	assert.NotNil(t, list[0].Buyer)
}

func TestPlaceOrderRejectsUnavailableProducts(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	seller := seedUser(t, repos, "seller")
	buyer := seedUser(t, repos, "buyer")
	product := seedProduct(t, repos, seller.ID, 300)

	cart := &models.Cart{BuyerID: buyer.ID, SellerID: seller.ID}
	require.NoError(t, repos.Carts.Create(ctx, cart))
	require.NoError(t, repos.Carts.AddItem(ctx, cart.ID, product.ID))
	assert.ErrorIs(t, repos.Carts.AddItem(ctx, cart.ID, product.ID), repository.ErrDuplicate)

	order := &models.Order{BuyerID: buyer.ID, SellerID: seller.ID, Items: []models.OrderItem{{ProductID: product.ID}}}
	require.NoError(t, repos.Orders.Place(ctx, order, cart.ID))

	stored, err := repos.Products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusOrderReceived, stored.Status)

	_, err = repos.Carts.GetByBuyerAndSeller(ctx, buyer.ID, seller.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	again := &models.Order{BuyerID: buyer.ID, SellerID: seller.ID, Items: []models.OrderItem{{ProductID: product.ID}}}
	assert.ErrorIs(t, repos.Orders.Place(ctx, again, uuid.New()), repository.ErrStale)
}

func TestHolidayModeRestoresOnlyParkedProducts(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	seller := seedUser(t, repos, "seller")
	live := seedProduct(t, repos, seller.ID, 100)
	sold := seedProduct(t, repos, seller.ID, 100)
	sold.Status = models.ProductStatusSold
	require.NoError(t, repos.Products.Update(ctx, sold))

	affected, err := repos.Products.SetHolidayMode(ctx, seller.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	user, err := repos.Users.GetByID(ctx, seller.ID)
	require.NoError(t, err)
	assert.True(t, user.HolidayMode)

	affected, err = repos.Products.SetHolidayMode(ctx, seller.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	restored, _ := repos.Products.GetByID(ctx, live.ID)
	assert.Equal(t, models.ProductStatusAvailable, restored.Status)
	untouched, _ := repos.Products.GetByID(ctx, sold.ID)
	assert.Equal(t, models.ProductStatusSold, untouched.Status)
}

func TestWishlistFilters(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	seller := seedUser(t, repos, "seller")
	buyer := seedUser(t, repos, "buyer")
	cheap := seedProduct(t, repos, seller.ID, 100)
	pricey := seedProduct(t, repos, seller.ID, 900)

	require.NoError(t, repos.Wishlists.Add(ctx, &models.Wishlist{UserID: buyer.ID, ProductID: cheap.ID}))
	require.NoError(t, repos.Wishlists.Add(ctx, &models.Wishlist{UserID: buyer.ID, ProductID: pricey.ID}))
	assert.ErrorIs(t, repos.Wishlists.Add(ctx, &models.Wishlist{UserID: buyer.ID, ProductID: cheap.ID}), repository.ErrDuplicate)

	ceiling := decimal.NewFromInt(500)
	items, total, err := repos.Wishlists.List(ctx, buyer.ID, repository.WishlistFilter{MaxPrice: &ceiling})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, cheap.ID, items[0].ProductID)

	items, _, err = repos.Wishlists.List(ctx, buyer.ID, repository.WishlistFilter{Sort: repository.WishlistSortOldest})
	require.NoError(t, err)
	assert.Equal(t, cheap.ID, items[0].ProductID)

	items, total, err = repos.Wishlists.List(ctx, buyer.ID, repository.WishlistFilter{PriceType: models.PriceChannelCoin})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestNotificationsNewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	activity := NewActivityRepository(NewStore())

	for _, title := range []string{"one", "two", "three"} {
		require.NoError(t, activity.SaveNotification(ctx, &models.Notification{UserID: "u1", Title: title}))
	}
	require.NoError(t, activity.SaveNotification(ctx, &models.Notification{UserID: "u2", Title: "other"}))

	list, err := activity.ListNotifications(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "three", list[0].Title)
	assert.Equal(t, "two", list[1].Title)
}
