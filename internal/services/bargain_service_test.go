package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/swapkaro/swapkaro-backend/internal/apperrors"
	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

type BargainServiceTestSuite struct {
	suite.Suite
	f       *fixture
	seller  *models.User
	buyer   *models.User
	other   *models.User
	product *models.Product
}

func (s *BargainServiceTestSuite) SetupTest() {
	s.f = newFixture(s.T())
	s.seller = s.f.user(s.T(), "seller")
	s.buyer = s.f.user(s.T(), "buyer")
	s.other = s.f.user(s.T(), "other")
	s.product = s.f.product(s.T(), s.seller.ID)
}

func (s *BargainServiceTestSuite) create(buyer *models.User, price string, channel models.PriceChannel) *models.Bargain {
	bargain, err := s.f.bargains.CreateBargain(s.f.ctx, buyer.ID, s.product.ID, offer(price, channel))
	s.Require().NoError(err)
	return bargain
}

func (s *BargainServiceTestSuite) TestCreateBargain() {
	bargain := s.create(s.buyer, "800", models.PriceChannelCash)

	s.Equal(models.BargainStatusPending, bargain.Status)
	s.Equal(s.seller.ID, bargain.SellerID)
	s.True(bargain.OfferedPrice.Equal(amount("800")))

	history := s.f.activity.BargainHistory(bargain.ID.String())
	s.Require().Len(history, 1)
	s.Equal("created", history[0].Action)
	s.Equal("pending", history[0].ToStatus)

	notifications := s.f.notificationsFor(s.T(), s.seller.ID)
	s.Require().Len(notifications, 1)
	s.Equal(models.NotificationBargainReceived, notifications[0].Type)
	s.Equal(bargain.ID.String(), notifications[0].RelatedID)

	// bargain_received has an email template
	s.Len(s.f.mailer.Sent(), 1)
}

func (s *BargainServiceTestSuite) TestCreateBargainTwiceIsRejected() {
	s.create(s.buyer, "800", models.PriceChannelCash)

	_, err := s.f.bargains.CreateBargain(s.f.ctx, s.buyer.ID, s.product.ID, offer("850", models.PriceChannelCash))
	s.ErrorIs(err, ErrBargainExists)

	// a different channel is still the same (product, buyer) pair
	_, err = s.f.bargains.CreateBargain(s.f.ctx, s.buyer.ID, s.product.ID, offer("90", models.PriceChannelCoin))
	s.ErrorIs(err, ErrBargainExists)
}

func (s *BargainServiceTestSuite) TestCreateBargainGuards() {
	_, err := s.f.bargains.CreateBargain(s.f.ctx, s.seller.ID, s.product.ID, offer("800", models.PriceChannelCash))
	s.ErrorIs(err, ErrOwnProductBargain)

	_, err = s.f.bargains.CreateBargain(s.f.ctx, s.buyer.ID, uuid.New(), offer("800", models.PriceChannelCash))
	s.ErrorIs(err, ErrProductNotFound)

	_, err = s.f.bargains.CreateBargain(s.f.ctx, s.buyer.ID, s.product.ID, offer("800", models.PriceChannelMix))
	s.ErrorIs(err, ErrInvalidOfferChannel)

	req := offer("800", models.PriceChannelCash)
	req.SellerReceives = amount("0")
	_, err = s.f.bargains.CreateBargain(s.f.ctx, s.buyer.ID, s.product.ID, req)
	s.ErrorIs(err, ErrSellerReceivesRequired)

	_, err = s.f.bargains.CreateBargain(s.f.ctx, s.buyer.ID, s.product.ID, offer("0", models.PriceChannelCash))
	s.ErrorIs(err, ErrInvalidOfferedPrice)

	_, err = s.f.bargains.CreateBargain(s.f.ctx, s.buyer.ID, s.product.ID, &BargainRequest{OfferedPrice: amount("10")})
	s.True(apperrors.IsKind(err, apperrors.KindValidation))
}

func (s *BargainServiceTestSuite) TestUpdateBargainOverwritesPendingOffer() {
	created := s.create(s.buyer, "800", models.PriceChannelCash)

	updated, err := s.f.bargains.UpdateBargain(s.f.ctx, s.buyer.ID, s.product.ID, offer("90", models.PriceChannelCoin))
	s.Require().NoError(err)

	s.Equal(created.ID, updated.ID)
	s.Equal(models.PriceChannelCoin, updated.OfferedIn)
	s.Equal(models.BargainStatusPending, updated.Status)

	stored, err := s.f.repos.Bargains.GetByID(s.f.ctx, created.ID)
	s.Require().NoError(err)
	s.True(stored.OfferedPrice.Equal(amount("90")))
	s.Len(s.f.activity.BargainHistory(created.ID.String()), 2)
}

func (s *BargainServiceTestSuite) TestUpdateWithoutBargain() {
	_, err := s.f.bargains.UpdateBargain(s.f.ctx, s.buyer.ID, s.product.ID, offer("800", models.PriceChannelCash))
	s.ErrorIs(err, ErrBargainNotFound)
}

func (s *BargainServiceTestSuite) TestAcceptBargain() {
	bargain := s.create(s.buyer, "800", models.PriceChannelCash)

	_, err := s.f.bargains.AcceptBargain(s.f.ctx, s.other.ID, bargain.ID)
	s.ErrorIs(err, ErrBargainSellerOnly)
	_, err = s.f.bargains.AcceptBargain(s.f.ctx, s.buyer.ID, bargain.ID)
	s.ErrorIs(err, ErrBargainSellerOnly)

	accepted, err := s.f.bargains.AcceptBargain(s.f.ctx, s.seller.ID, bargain.ID)
	s.Require().NoError(err)
	s.Equal(models.BargainStatusAccepted, accepted.Status)
	s.NotNil(accepted.RespondedAt)

	_, err = s.f.bargains.AcceptBargain(s.f.ctx, s.seller.ID, bargain.ID)
	s.ErrorIs(err, ErrBargainAlreadyAccepted)

	_, err = s.f.bargains.RejectBargain(s.f.ctx, s.seller.ID, bargain.ID)
	s.ErrorIs(err, ErrBargainAlreadyAccepted)

	_, err = s.f.bargains.UpdateBargain(s.f.ctx, s.buyer.ID, s.product.ID, offer("700", models.PriceChannelCash))
	s.ErrorIs(err, ErrBargainAlreadyAccepted)

	notifications := s.f.notificationsFor(s.T(), s.buyer.ID)
	s.Require().Len(notifications, 1)
	s.Equal(models.NotificationBargainAccepted, notifications[0].Type)
}

func (s *BargainServiceTestSuite) TestRejectIsTerminal() {
	bargain := s.create(s.buyer, "800", models.PriceChannelCash)

	rejected, err := s.f.bargains.RejectBargain(s.f.ctx, s.seller.ID, bargain.ID)
	s.Require().NoError(err)
	s.Equal(models.BargainStatusRejected, rejected.Status)

	_, err = s.f.bargains.AcceptBargain(s.f.ctx, s.seller.ID, bargain.ID)
	s.ErrorIs(err, ErrBargainIsRejected)

	_, err = s.f.bargains.UpdateBargain(s.f.ctx, s.buyer.ID, s.product.ID, offer("900", models.PriceChannelCash))
	s.ErrorIs(err, ErrBargainIsRejected)

	_, err = s.f.bargains.AcceptBargain(s.f.ctx, s.seller.ID, uuid.New())
	s.ErrorIs(err, ErrBargainNotFound)
}

func (s *BargainServiceTestSuite) TestAcceptedBargainChangesOnlyThatBuyersPrice() {
	bargain := s.create(s.buyer, "800", models.PriceChannelCash)

	before, err := s.f.prices.ForProduct(s.f.ctx, &s.buyer.ID, s.product)
	s.Require().NoError(err)
	s.True(before.Cash.Amount.Equal(amount("1000")))

	_, err = s.f.bargains.AcceptBargain(s.f.ctx, s.seller.ID, bargain.ID)
	s.Require().NoError(err)

	mine, err := s.f.prices.ForProduct(s.f.ctx, &s.buyer.ID, s.product)
	s.Require().NoError(err)
	s.True(mine.Cash.Amount.Equal(amount("800")))
	s.True(mine.Cash.Bargained)
	s.True(mine.Coin.Amount.Equal(amount("100")))
	s.True(mine.MRP.Equal(amount("1500")))

	theirs, err := s.f.prices.ForProduct(s.f.ctx, &s.other.ID, s.product)
	s.Require().NoError(err)
	s.True(theirs.Cash.Amount.Equal(amount("1000")))

	anonymous, err := s.f.prices.ForProduct(s.f.ctx, nil, s.product)
	s.Require().NoError(err)
	s.Nil(anonymous.BargainID)
}

func (s *BargainServiceTestSuite) TestProductBargainsHidesAmountsFromOthers() {
	mine := s.create(s.buyer, "800", models.PriceChannelCash)
	theirs := s.create(s.other, "850", models.PriceChannelCash)
	_, err := s.f.bargains.RejectBargain(s.f.ctx, s.seller.ID, theirs.ID)
	s.Require().NoError(err)

	public, err := s.f.bargains.ProductBargains(s.f.ctx, s.product.ID, nil, "", 1)
	s.Require().NoError(err)
	s.Equal(ViewerPublic, public.Role)
	s.Require().Len(public.Bargains, 2)
	for _, entry := range public.Bargains {
		s.Nil(entry.OfferedPrice)
		s.Nil(entry.SellerReceives)
	}
	// pending before rejected
	s.Equal(mine.ID, public.Bargains[0].ID)

	asOther, err := s.f.bargains.ProductBargains(s.f.ctx, s.product.ID, &s.other.ID, "", 1)
	s.Require().NoError(err)
	s.Equal(ViewerBuyer, asOther.Role)
	s.Equal(theirs.ID, asOther.Bargains[0].ID, "own offer comes first")
	s.True(asOther.Bargains[0].IsMine)
	s.NotNil(asOther.Bargains[0].OfferedPrice)
	s.Nil(asOther.Bargains[1].OfferedPrice)

	asSeller, err := s.f.bargains.ProductBargains(s.f.ctx, s.product.ID, &s.seller.ID, "", 1)
	s.Require().NoError(err)
	s.Equal(ViewerSeller, asSeller.Role)
	for _, entry := range asSeller.Bargains {
		s.NotNil(entry.OfferedPrice)
	}

	filtered, err := s.f.bargains.ProductBargains(s.f.ctx, s.product.ID, nil, "rejected", 1)
	s.Require().NoError(err)
	s.Equal(int64(1), filtered.Total)
	s.False(filtered.HasNextPage)

	_, err = s.f.bargains.ProductBargains(s.f.ctx, s.product.ID, nil, "closed", 1)
	s.ErrorIs(err, ErrInvalidBargainStatus)
}

func (s *BargainServiceTestSuite) TestProductBargainsPaging() {
	seen := make(map[uuid.UUID]bool)
	for i := 0; i < BargainPageSize+1; i++ {
		s.create(s.f.user(s.T(), fmt.Sprintf("bidder%d", i)), "800", models.PriceChannelCash)
	}

	first, err := s.f.bargains.ProductBargains(s.f.ctx, s.product.ID, nil, "", 1)
	s.Require().NoError(err)
	s.Equal(1, first.Page)
	s.Equal(int64(BargainPageSize+1), first.Total)
	s.True(first.HasNextPage)
	s.Len(first.Bargains, BargainPageSize)
	for _, entry := range first.Bargains {
		seen[entry.ID] = true
	}

	second, err := s.f.bargains.ProductBargains(s.f.ctx, s.product.ID, nil, "", 2)
	s.Require().NoError(err)
	s.Equal(2, second.Page)
	s.False(second.HasNextPage)
	s.Require().Len(second.Bargains, 1)
	s.False(seen[second.Bargains[0].ID], "second page repeats an offer from the first")

	beyond, err := s.f.bargains.ProductBargains(s.f.ctx, s.product.ID, nil, "", 3)
	s.Require().NoError(err)
	s.Empty(beyond.Bargains)
	s.False(beyond.HasNextPage)
}

func (s *BargainServiceTestSuite) TestHugePageIsEmptyNotFirst() {
	s.create(s.buyer, "800", models.PriceChannelCash)
	const huge = 1000000000000000000

	var result *ProductBargains
	s.Require().NotPanics(func() {
		var err error
		result, err = s.f.bargains.ProductBargains(s.f.ctx, s.product.ID, nil, "", huge)
		s.Require().NoError(err)
	})
	s.Empty(result.Bargains)
	s.Equal(int64(1), result.Total)
	s.Equal(utils.MaxPage, result.Page)

	items, total, err := s.f.bargains.BuyerBargains(s.f.ctx, s.buyer.ID, s.buyer.ID, "", huge)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Empty(items)

	received, _, err := s.f.bargains.SellerBargains(s.f.ctx, s.seller.ID, s.seller.ID, "", huge)
	s.Require().NoError(err)
	s.Empty(received)
}

func (s *BargainServiceTestSuite) TestOwnListsAreSelfOnly() {
	s.create(s.buyer, "800", models.PriceChannelCash)

	_, _, err := s.f.bargains.BuyerBargains(s.f.ctx, s.other.ID, s.buyer.ID, "", 1)
	s.ErrorIs(err, ErrBargainListForbidden)

	items, total, err := s.f.bargains.BuyerBargains(s.f.ctx, s.buyer.ID, s.buyer.ID, "", 1)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().NotNil(items[0].Product)
	s.Equal(s.product.ID, items[0].Product.ID)
	s.Require().NotNil(items[0].Seller)
	s.Equal("seller", items[0].Seller.Username)

	_, _, err = s.f.bargains.SellerBargains(s.f.ctx, s.buyer.ID, s.seller.ID, "", 1)
	s.ErrorIs(err, ErrBargainListForbidden)

	_, _, err = s.f.bargains.SellerBargains(s.f.ctx, s.seller.ID, s.seller.ID, "rejected", 1)
	s.ErrorIs(err, ErrInvalidBargainStatus)

	received, total, err := s.f.bargains.SellerBargains(s.f.ctx, s.seller.ID, s.seller.ID, "pending", 1)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal(models.BargainStatusPending, received[0].Status)
}

func TestBargainServiceSuite(t *testing.T) {
	suite.Run(t, new(BargainServiceTestSuite))
}

func TestSellerBargainsListPendingFirst(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "seller")
	first := f.product(t, seller.ID)
	second := f.product(t, seller.ID)
	buyer := f.user(t, "buyer")

	early, err := f.bargains.CreateBargain(f.ctx, buyer.ID, first.ID, offer("700", models.PriceChannelCash))
	require.NoError(t, err)
	_, err = f.bargains.CreateBargain(f.ctx, buyer.ID, second.ID, offer("80", models.PriceChannelCoin))
	require.NoError(t, err)
	_, err = f.bargains.AcceptBargain(f.ctx, seller.ID, early.ID)
	require.NoError(t, err)

	items, _, err := f.bargains.SellerBargains(f.ctx, seller.ID, seller.ID, "", 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.BargainStatusPending, items[0].Status)
	assert.Equal(t, models.BargainStatusAccepted, items[1].Status)
}
