// internal/services/cart_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/swapkaro/swapkaro-backend/internal/config"
	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/pricing"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

type CartService struct {
	carts         repository.CartRepository
	orders        repository.OrderRepository
	products      repository.ProductRepository
	addresses     repository.AddressRepository
	users         repository.UserRepository
	prices        *PriceService
	payments      PaymentGateway
	notifications *NotificationService
	config        *config.Config
}

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type CheckoutRequest struct {
	PaymentChannel models.PriceChannel `json:"payment_channel" validate:"required"`
	AddressID      *uuid.UUID          `json:"address_id,omitempty"`
}

type CartProduct struct {
	ProductID uuid.UUID              `json:"product_id"`
	Slug      string                 `json:"slug"`
	Title     string                 `json:"title"`
	Image     string                 `json:"image,omitempty"`
	Status    models.ProductStatus   `json:"status"`
	Price     pricing.EffectivePrice `json:"price"`
}

// SellerCart is one seller's share of the buyer's cart.
type SellerCart struct {
	CartID   uuid.UUID      `json:"cart_id"`
	Seller   *SellerInfo    `json:"seller,omitempty"`
	Products []CartProduct  `json:"products"`
	Totals   pricing.Totals `json:"totals"`
}

type CartView struct {
	Carts  []SellerCart   `json:"carts"`
	Totals pricing.Totals `json:"totals"`
}

type CartSummary struct {
	TotalProducts int `json:"total_products"`
	TotalCombos   int `json:"total_combos"`
}

type CheckoutResult struct {
	Order   *models.Order          `json:"order"`
	Payment *PaymentIntentResponse `json:"payment,omitempty"`
}

func NewCartService(repos repository.Repositories, prices *PriceService, payments PaymentGateway, notifications *NotificationService, config *config.Config) *CartService {
	return &CartService{
		carts:         repos.Carts,
		orders:        repos.Orders,
		products:      repos.Products,
		addresses:     repos.Addresses,
		users:         repos.Users,
		prices:        prices,
		payments:      payments,
		notifications: notifications,
		config:        config,
	}
}

func (s *CartService) maxPerSeller() int {
	if s.config.Marketplace.MaxProductsPerSellerCart > 0 {
		return s.config.Marketplace.MaxProductsPerSellerCart
	}
	return 5
}

// AddItem puts a product into the buyer's cart for its seller, creating that cart when needed.
func (s *CartService) AddItem(ctx context.Context, buyerID uuid.UUID, req *AddToCartRequest) (*models.Cart, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	product, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, notFoundOr(err, ErrProductNotFound, "failed to load product")
	}
	if product.SellerID == buyerID {
		return nil, ErrOwnProductCart
	}
	if !product.IsAvailable() {
		return nil, ErrProductUnavailable
	}

	cart, err := s.carts.GetByBuyerAndSeller(ctx, buyerID, product.SellerID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		cart = &models.Cart{BuyerID: buyerID, SellerID: product.SellerID}
		if err := s.carts.Create(ctx, cart); err != nil {
			if !errors.Is(err, repository.ErrDuplicate) {
				return nil, unexpected("failed to create cart", err)
			}
			// created concurrently
			if cart, err = s.carts.GetByBuyerAndSeller(ctx, buyerID, product.SellerID); err != nil {
				return nil, unexpected("failed to load cart", err)
			}
		}
	case err != nil:
		return nil, unexpected("failed to load cart", err)
	}

	if cart.Contains(product.ID) {
		return nil, ErrAlreadyInCart
	}
	if len(cart.Items) >= s.maxPerSeller() {
		return nil, ErrCartFull
	}

	if err := s.carts.AddItem(ctx, cart.ID, product.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyInCart
		}
		return nil, unexpected("failed to add cart item", err)
	}
	return s.carts.GetByBuyerAndSeller(ctx, buyerID, product.SellerID)
}

// GetCart groups the buyer's products by seller with the buyer's effective prices.
func (s *CartService) GetCart(ctx context.Context, buyerID uuid.UUID) (*CartView, error) {
	carts, err := s.carts.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, unexpected("failed to load cart", err)
	}

	ids := []uuid.UUID{}
	for i := range carts {
		ids = append(ids, carts[i].ProductIDs()...)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, unexpected("failed to load cart products", err)
	}
	prices, err := s.prices.ForViewer(ctx, &buyerID, products)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	view := &CartView{Carts: make([]SellerCart, 0, len(carts))}
	all := []pricing.EffectivePrice{}
	for _, cart := range carts {
		group := SellerCart{CartID: cart.ID, Products: []CartProduct{}}
		groupPrices := []pricing.EffectivePrice{}
		for _, item := range cart.Items {
			product, ok := byID[item.ProductID]
			if !ok {
				continue
			}
			if group.Seller == nil {
				group.Seller = sellerInfo(product.Seller)
			}
			price := prices[product.ID]
			card := newProductCard(product, price)
			group.Products = append(group.Products, CartProduct{
				ProductID: product.ID,
				Slug:      product.Slug,
				Title:     product.Title,
				Image:     card.Image,
				Status:    product.Status,
				Price:     price,
			})
			groupPrices = append(groupPrices, price)
		}
		group.Totals = pricing.Sum(groupPrices...)
		all = append(all, groupPrices...)
		view.Carts = append(view.Carts, group)
	}
	view.Totals = pricing.Sum(all...)
	return view, nil
}

func (s *CartService) Summary(ctx context.Context, buyerID uuid.UUID) (*CartSummary, error) {
	carts, err := s.carts.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, unexpected("failed to load cart", err)
	}

	summary := &CartSummary{}
	for _, cart := range carts {
		if len(cart.Items) == 0 {
			continue
		}
		summary.TotalProducts += len(cart.Items)
		summary.TotalCombos++
	}
	return summary, nil
}

// RemoveSeller drops the buyer's whole cart for one seller.
func (s *CartService) RemoveSeller(ctx context.Context, buyerID, sellerID uuid.UUID) error {
	cart, err := s.carts.GetByBuyerAndSeller(ctx, buyerID, sellerID)
	if err != nil {
		return notFoundOr(err, ErrCartNotFound, "failed to load cart")
	}
	if err := s.carts.Delete(ctx, cart.ID); err != nil {
		return unexpected("failed to delete cart", err)
	}
	return nil
}

// RemoveProduct takes one product out of the cart. A cart left empty is deleted.
func (s *CartService) RemoveProduct(ctx context.Context, buyerID, productID uuid.UUID) error {
	cart, err := s.carts.FindContaining(ctx, buyerID, productID)
	if err != nil {
		return notFoundOr(err, ErrCartItemNotFound, "failed to load cart")
	}
	if err := s.carts.RemoveItem(ctx, cart.ID, productID); err != nil {
		return notFoundOr(err, ErrCartItemNotFound, "failed to remove cart item")
	}
	if len(cart.Items) <= 1 {
		if err := s.carts.Delete(ctx, cart.ID); err != nil {
			return unexpected("failed to delete empty cart", err)
		}
	}
	return nil
}

// Checkout turns the buyer's cart for a seller into a pending order charged
// through one payment channel at the buyer's effective prices.
func (s *CartService) Checkout(ctx context.Context, buyerID, sellerID uuid.UUID, req *CheckoutRequest) (*CheckoutResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}
	if !req.PaymentChannel.Valid() {
		return nil, ErrInvalidPaymentChannel
	}

	cart, err := s.carts.GetByBuyerAndSeller(ctx, buyerID, sellerID)
	if err != nil {
		return nil, notFoundOr(err, ErrCartNotFound, "failed to load cart")
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartNotFound
	}

	address, err := s.shippingAddress(ctx, buyerID, req.AddressID)
	if err != nil {
		return nil, err
	}

	products, err := s.products.GetByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, unexpected("failed to load cart products", err)
	}
	if len(products) != len(cart.Items) {
		return nil, ErrProductUnavailable
	}
	prices, err := s.prices.ForViewer(ctx, &buyerID, products)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		BuyerID:         buyerID,
		SellerID:        sellerID,
		PaymentChannel:  req.PaymentChannel,
		CashTotal:       decimal.Zero,
		CoinTotal:       decimal.Zero,
		Status:          models.OrderStatusPending,
		ShippingAddress: address.Snapshot(),
	}
	order.ID = uuid.New()

	for i := range products {
		product := &products[i]
		if !product.IsAvailable() {
			return nil, ErrProductUnavailable
		}
		price := prices[product.ID]
		cash, coin, ok := price.Charge(req.PaymentChannel)
		if !ok {
			return nil, ErrChannelNotOffered
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID:  product.ID,
			BargainID:  price.BargainID,
			Title:      product.Title,
			Quantity:   1,
			CashAmount: cash,
			CoinAmount: coin,
		})
		order.CashTotal = order.CashTotal.Add(cash)
		order.CoinTotal = order.CoinTotal.Add(coin)
	}

	if err := s.orders.Place(ctx, order, cart.ID); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return nil, ErrProductUnavailable
		}
		return nil, unexpected("failed to place order", err)
	}

	result := &CheckoutResult{Order: order}
	if order.CashTotal.IsPositive() && s.payments != nil && s.payments.Enabled() {
		intent, err := s.payments.CreatePaymentIntent(ctx, &PaymentIntentRequest{
			OrderID:  order.ID,
			BuyerID:  buyerID,
			SellerID: sellerID,
			Amount:   order.CashTotal,
		})
		if err != nil {
			// the order stands; payment can be retried against it
			logrus.WithError(err).WithField("order_id", order.ID).Error("Failed to create payment intent")
		} else {
			if err := s.orders.SetPaymentIntent(ctx, order.ID, intent.PaymentID); err != nil {
				logrus.WithError(err).WithField("order_id", order.ID).Error("Failed to store payment intent")
			}
			order.PaymentIntentID = intent.PaymentID
			result.Payment = intent
		}
	}

	s.notifySeller(ctx, order)
	return result, nil
}

func (s *CartService) shippingAddress(ctx context.Context, buyerID uuid.UUID, addressID *uuid.UUID) (*models.Address, error) {
	if addressID == nil {
		address, err := s.addresses.GetDefault(ctx, buyerID)
		if err != nil {
			return nil, notFoundOr(err, ErrShippingAddressNeeded, "failed to load default address")
		}
		return address, nil
	}
	address, err := s.addresses.GetByID(ctx, *addressID)
	if err != nil {
		return nil, notFoundOr(err, ErrAddressNotFound, "failed to load address")
	}
	if address.UserID != buyerID {
		return nil, ErrAddressForbidden
	}
	return address, nil
}

func (s *CartService) notifySeller(ctx context.Context, order *models.Order) {
	if s.notifications == nil {
		return
	}
	seller, err := s.users.GetByID(ctx, order.SellerID)
	if err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Warn("Order seller not found")
		return
	}
	s.notifications.Notify(ctx, seller, Notice{
		Type:      models.NotificationOrderPlaced,
		Title:     "New order",
		Message:   fmt.Sprintf("You received an order for %d product(s)", len(order.Items)),
		RelatedID: order.ID.String(),
		Data: map[string]interface{}{
			"order_id":        order.ID.String(),
			"payment_channel": order.PaymentChannel,
			"cash_total":      order.CashTotal.StringFixed(2),
			"coin_total":      order.CoinTotal.StringFixed(2),
		},
	})
}

func (s *CartService) Orders(ctx context.Context, buyerID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	orders, total, err := s.orders.ListByBuyer(ctx, buyerID, repository.Page{Offset: params.Offset(), Limit: params.Limit})
	if err != nil {
		return nil, 0, unexpected("failed to list orders", err)
	}
	return orders, total, nil
}
