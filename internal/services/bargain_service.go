// internal/services/bargain_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

const BargainPageSize = 10

type BargainService struct {
	bargains      repository.BargainRepository
	products      repository.ProductRepository
	users         repository.UserRepository
	activity      repository.ActivityRepository
	notifications *NotificationService
	now           func() time.Time
}

type BargainRequest struct {
	OfferedPrice   decimal.Decimal     `json:"offered_price"`
	OfferedIn      models.PriceChannel `json:"offered_in" validate:"required"`
	SellerReceives decimal.Decimal     `json:"seller_receives"`
	Message        string              `json:"message,omitempty" validate:"max=500"`
}

func (r *BargainRequest) offer() models.Offer {
	return models.Offer{
		Price:          r.OfferedPrice,
		Channel:        r.OfferedIn,
		SellerReceives: r.SellerReceives,
		Message:        r.Message,
	}
}

// ViewerRole describes how the caller relates to a product's bargains.
type ViewerRole string

const (
	ViewerPublic ViewerRole = "public"
	ViewerSeller ViewerRole = "seller"
	ViewerBuyer  ViewerRole = "buyer"
)

// BargainEntry is one offer as shown on a product page. Amounts are nil
// when the viewer is neither the seller nor the offering buyer.
type BargainEntry struct {
	ID             uuid.UUID            `json:"id"`
	Buyer          *models.UserSummary  `json:"buyer,omitempty"`
	OfferedIn      models.PriceChannel  `json:"offered_in"`
	OfferedPrice   *decimal.Decimal     `json:"offered_price,omitempty"`
	SellerReceives *decimal.Decimal     `json:"seller_receives,omitempty"`
	Message        string               `json:"message,omitempty"`
	Status         models.BargainStatus `json:"status"`
	IsMine         bool                 `json:"is_mine"`
	CreatedAt      time.Time            `json:"created_at"`
}

type ProductBargains struct {
	Role        ViewerRole     `json:"viewer_role"`
	Bargains    []BargainEntry `json:"bargains"`
	Page        int            `json:"current_page"`
	Total       int64          `json:"total"`
	HasNextPage bool           `json:"has_next_page"`
}

type ProductSummary struct {
	ID     uuid.UUID            `json:"id"`
	Slug   string               `json:"slug"`
	Title  string               `json:"title"`
	Image  string               `json:"image,omitempty"`
	Status models.ProductStatus `json:"status"`
	Price  models.ProductPrice  `json:"price"`
}

func productSummary(product *models.Product) *ProductSummary {
	if product == nil {
		return nil
	}
	summary := &ProductSummary{
		ID:     product.ID,
		Slug:   product.Slug,
		Title:  product.Title,
		Status: product.Status,
		Price:  product.Price,
	}
	if len(product.Images) > 0 {
		summary.Image = product.Images[0]
	}
	return summary
}

// BargainItem is a bargain in the buyer's or seller's own list.
type BargainItem struct {
	ID             uuid.UUID            `json:"id"`
	OfferedPrice   decimal.Decimal      `json:"offered_price"`
	OfferedIn      models.PriceChannel  `json:"offered_in"`
	SellerReceives decimal.Decimal      `json:"seller_receives"`
	Message        string               `json:"message,omitempty"`
	Status         models.BargainStatus `json:"status"`
	RespondedAt    *time.Time           `json:"responded_at,omitempty"`
	Product        *ProductSummary      `json:"product,omitempty"`
	Seller         *models.UserSummary  `json:"seller,omitempty"`
	Buyer          *models.UserSummary  `json:"buyer,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func summaryOf(user *models.User) *models.UserSummary {
	if user == nil {
		return nil
	}
	summary := user.Summary()
	return &summary
}

func newBargainItem(b *models.Bargain) BargainItem {
	return BargainItem{
		ID:             b.ID,
		OfferedPrice:   b.OfferedPrice,
		OfferedIn:      b.OfferedIn,
		SellerReceives: b.SellerReceives,
		Message:        b.Message,
		Status:         b.Status,
		RespondedAt:    b.RespondedAt,
		Product:        productSummary(b.Product),
		Seller:         summaryOf(b.Seller),
		Buyer:          summaryOf(b.Buyer),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func NewBargainService(repos repository.Repositories, notifications *NotificationService) *BargainService {
	return &BargainService{
		bargains:      repos.Bargains,
		products:      repos.Products,
		users:         repos.Users,
		activity:      repos.Activity,
		notifications: notifications,
		now:           time.Now,
	}
}

// CreateBargain opens the buyer's offer on a product. A second offer on the
// same product has to go through UpdateBargain.
func (s *BargainService) CreateBargain(ctx context.Context, buyerID, productID uuid.UUID, req *BargainRequest) (*models.Bargain, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}
	if err := req.offer().Validate(); err != nil {
		return nil, bargainError(err)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, ErrProductNotFound, "failed to load product")
	}
	if product.SellerID == buyerID {
		return nil, ErrOwnProductBargain
	}

	if _, err := s.bargains.GetByProductAndBuyer(ctx, productID, buyerID); err == nil {
		return nil, ErrBargainExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, unexpected("failed to check existing bargain", err)
	}

	bargain, err := models.NewBargain(product, buyerID, req.offer())
	if err != nil {
		return nil, bargainError(err)
	}
	if err := s.bargains.Create(ctx, bargain); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrBargainExists
		}
		return nil, unexpected("failed to create bargain", err)
	}

	s.record(ctx, bargain, buyerID, "created", "")
	s.notify(ctx, product.SellerID, models.NotificationBargainReceived, "New offer received",
		fmt.Sprintf("You received an offer of %s %s on %s", bargain.OfferedPrice.StringFixed(2), bargain.OfferedIn, product.Title), bargain)
	return bargain, nil
}

// UpdateBargain overwrites the buyer's pending offer and keeps it pending.
func (s *BargainService) UpdateBargain(ctx context.Context, buyerID, productID uuid.UUID, req *BargainRequest) (*models.Bargain, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}
	if err := req.offer().Validate(); err != nil {
		return nil, bargainError(err)
	}

	bargain, err := s.bargains.GetByProductAndBuyer(ctx, productID, buyerID)
	if err != nil {
		return nil, notFoundOr(err, ErrBargainNotFound, "failed to load bargain")
	}

	from := bargain.Status
	if err := bargain.Revise(req.offer()); err != nil {
		return nil, bargainError(err)
	}
	if err := s.bargains.SaveRevision(ctx, bargain); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return nil, s.closedError(ctx, bargain.ID)
		}
		return nil, notFoundOr(err, ErrBargainNotFound, "failed to update bargain")
	}

	s.record(ctx, bargain, buyerID, "updated", from)
	s.notify(ctx, bargain.SellerID, models.NotificationBargainUpdated, "Offer updated",
		fmt.Sprintf("An offer was updated to %s %s", bargain.OfferedPrice.StringFixed(2), bargain.OfferedIn), bargain)
	return bargain, nil
}

func (s *BargainService) AcceptBargain(ctx context.Context, sellerID, bargainID uuid.UUID) (*models.Bargain, error) {
	return s.respond(ctx, sellerID, bargainID, models.BargainStatusAccepted)
}

func (s *BargainService) RejectBargain(ctx context.Context, sellerID, bargainID uuid.UUID) (*models.Bargain, error) {
	return s.respond(ctx, sellerID, bargainID, models.BargainStatusRejected)
}

func (s *BargainService) respond(ctx context.Context, sellerID, bargainID uuid.UUID, to models.BargainStatus) (*models.Bargain, error) {
	bargain, err := s.bargains.GetByID(ctx, bargainID)
	if err != nil {
		return nil, notFoundOr(err, ErrBargainNotFound, "failed to load bargain")
	}
	if bargain.SellerID != sellerID {
		return nil, ErrBargainSellerOnly
	}

	now := s.now()
	if to == models.BargainStatusAccepted {
		err = bargain.Accept(now)
	} else {
		err = bargain.Reject(now)
	}
	if err != nil {
		return nil, bargainError(err)
	}

	// the status check and the write happen in one conditional update
	if err := s.bargains.Transition(ctx, bargain.ID, models.BargainStatusPending, to, now); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return nil, s.closedError(ctx, bargain.ID)
		}
		return nil, notFoundOr(err, ErrBargainNotFound, "failed to respond to bargain")
	}

	s.record(ctx, bargain, sellerID, string(to), models.BargainStatusPending)
	if to == models.BargainStatusAccepted {
		s.notify(ctx, bargain.BuyerID, models.NotificationBargainAccepted, "Offer accepted",
			fmt.Sprintf("Your offer of %s %s was accepted", bargain.OfferedPrice.StringFixed(2), bargain.OfferedIn), bargain)
	} else {
		s.notify(ctx, bargain.BuyerID, models.NotificationBargainRejected, "Offer rejected",
			"Your offer was rejected by the seller", bargain)
	}
	return bargain, nil
}

// closedError reports why a conditional write lost against another writer.
func (s *BargainService) closedError(ctx context.Context, id uuid.UUID) error {
	current, err := s.bargains.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, ErrBargainNotFound, "failed to reload bargain")
	}
	if current.Status == models.BargainStatusRejected {
		return ErrBargainIsRejected
	}
	return ErrBargainAlreadyAccepted
}

func (s *BargainService) record(ctx context.Context, bargain *models.Bargain, actorID uuid.UUID, action string, from models.BargainStatus) {
	entry := &models.BargainHistory{
		BargainID:  bargain.ID.String(),
		ProductID:  bargain.ProductID.String(),
		ActorID:    actorID.String(),
		Action:     action,
		FromStatus: string(from),
		ToStatus:   string(bargain.Status),
		OfferedIn:  string(bargain.OfferedIn),
		Price:      bargain.OfferedPrice.String(),
		CreatedAt:  s.now(),
	}
	if err := s.activity.SaveBargainHistory(ctx, entry); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"bargain_id": bargain.ID,
			"action":     action,
		}).Error("Failed to save bargain history")
	}
}

func (s *BargainService) notify(ctx context.Context, recipientID uuid.UUID, kind, title, message string, bargain *models.Bargain) {
	if s.notifications == nil {
		return
	}
	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", recipientID).Warn("Bargain notification recipient not found")
		return
	}
	s.notifications.Notify(ctx, recipient, Notice{
		Type:      kind,
		Title:     title,
		Message:   message,
		RelatedID: bargain.ID.String(),
		Data: map[string]interface{}{
			"bargain_id": bargain.ID.String(),
			"product_id": bargain.ProductID.String(),
			"status":     bargain.Status,
		},
	})
}

func parseBargainStatus(raw string, allowed ...models.BargainStatus) (*models.BargainStatus, error) {
	if raw == "" {
		return nil, nil
	}
	status := models.BargainStatus(raw)
	for _, a := range allowed {
		if status == a {
			return &status, nil
		}
	}
	return nil, ErrInvalidBargainStatus
}

var bargainStatusRank = map[models.BargainStatus]int{
	models.BargainStatusPending:  0,
	models.BargainStatusAccepted: 1,
	models.BargainStatusRejected: 2,
}

// ProductBargains lists offers on a product for the viewer. The viewer's own
// offer comes first, then pending, accepted and rejected, each newest first.
func (s *BargainService) ProductBargains(ctx context.Context, productID uuid.UUID, viewer *uuid.UUID, rawStatus string, page int) (*ProductBargains, error) {
	status, err := parseBargainStatus(rawStatus, models.BargainStatusPending, models.BargainStatusAccepted, models.BargainStatusRejected)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, ErrProductNotFound, "failed to load product")
	}

	bargains, err := s.bargains.ListByProduct(ctx, productID, status)
	if err != nil {
		return nil, unexpected("failed to list bargains", err)
	}

	role := ViewerPublic
	if viewer != nil {
		if *viewer == product.SellerID {
			role = ViewerSeller
		} else {
			for i := range bargains {
				if bargains[i].BuyerID == *viewer {
					role = ViewerBuyer
					break
				}
			}
		}
	}

	mine := func(b *models.Bargain) bool { return viewer != nil && b.BuyerID == *viewer }
	sort.SliceStable(bargains, func(i, j int) bool {
		mi, mj := mine(&bargains[i]), mine(&bargains[j])
		if mi != mj {
			return mi
		}
		ri, rj := bargainStatusRank[bargains[i].Status], bargainStatusRank[bargains[j].Status]
		if ri != rj {
			return ri < rj
		}
		return bargains[i].CreatedAt.After(bargains[j].CreatedAt)
	})

	page = utils.ClampPage(page)
	total := int64(len(bargains))
	start := (page - 1) * BargainPageSize
	if start < 0 || start > len(bargains) {
		start = len(bargains)
	}
	end := start + BargainPageSize
	if end > len(bargains) {
		end = len(bargains)
	}

	entries := make([]BargainEntry, 0, end-start)
	for i := start; i < end; i++ {
		b := &bargains[i]
		entry := BargainEntry{
			ID:        b.ID,
			Buyer:     summaryOf(b.Buyer),
			OfferedIn: b.OfferedIn,
			Message:   b.Message,
			Status:    b.Status,
			IsMine:    mine(b),
			CreatedAt: b.CreatedAt,
		}
		if b.VisibleTo(viewer) {
			price, receives := b.OfferedPrice, b.SellerReceives
			entry.OfferedPrice = &price
			entry.SellerReceives = &receives
		}
		entries = append(entries, entry)
	}

	return &ProductBargains{
		Role:        role,
		Bargains:    entries,
		Page:        page,
		Total:       total,
		HasNextPage: int64(end) < total,
	}, nil
}

func (s *BargainService) BuyerBargains(ctx context.Context, callerID, buyerID uuid.UUID, rawStatus string, page int) ([]BargainItem, int64, error) {
	if callerID != buyerID {
		return nil, 0, ErrBargainListForbidden
	}
	status, err := parseBargainStatus(rawStatus, models.BargainStatusPending, models.BargainStatusAccepted, models.BargainStatusRejected)
	if err != nil {
		return nil, 0, err
	}

	bargains, total, err := s.bargains.ListByBuyer(ctx, buyerID, repository.BargainFilter{Status: status, Page: bargainPage(page)})
	if err != nil {
		return nil, 0, unexpected("failed to list bargains", err)
	}
	return bargainItems(bargains), total, nil
}

// SellerBargains lists offers received by the seller, pending first.
func (s *BargainService) SellerBargains(ctx context.Context, callerID, sellerID uuid.UUID, rawStatus string, page int) ([]BargainItem, int64, error) {
	if callerID != sellerID {
		return nil, 0, ErrBargainListForbidden
	}
	status, err := parseBargainStatus(rawStatus, models.BargainStatusPending, models.BargainStatusAccepted)
	if err != nil {
		return nil, 0, err
	}

	bargains, total, err := s.bargains.ListBySeller(ctx, sellerID, repository.BargainFilter{Status: status, Page: bargainPage(page)})
	if err != nil {
		return nil, 0, unexpected("failed to list bargains", err)
	}
	return bargainItems(bargains), total, nil
}

func bargainPage(page int) repository.Page {
	page = utils.ClampPage(page)
	return repository.Page{Offset: (page - 1) * BargainPageSize, Limit: BargainPageSize}
}

func bargainItems(bargains []models.Bargain) []BargainItem {
	items := make([]BargainItem, 0, len(bargains))
	for i := range bargains {
		items = append(items, newBargainItem(&bargains[i]))
	}
	return items
}
