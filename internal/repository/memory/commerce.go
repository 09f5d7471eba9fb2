package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

type cartRepository struct {
	s *Store
}

func copyCart(cart models.Cart) *models.Cart {
	cart.Items = append([]models.CartItem(nil), cart.Items...)
	return &cart
}

func (r *cartRepository) GetByBuyerAndSeller(_ context.Context, buyerID, sellerID uuid.UUID) (*models.Cart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, cart := range r.s.carts {
		if cart.BuyerID == buyerID && cart.SellerID == sellerID {
			return copyCart(cart), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *cartRepository) ListByBuyer(_ context.Context, buyerID uuid.UUID) ([]models.Cart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	carts := []models.Cart{}
	for _, cart := range r.s.carts {
		if cart.BuyerID == buyerID {
			carts = append(carts, *copyCart(cart))
		}
	}
	sort.Slice(carts, func(i, j int) bool { return carts[i].CreatedAt.Before(carts[j].CreatedAt) })
	return carts, nil
}

func (r *cartRepository) FindContaining(_ context.Context, buyerID, productID uuid.UUID) (*models.Cart, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, cart := range r.s.carts {
		if cart.BuyerID == buyerID && cart.Contains(productID) {
			return copyCart(cart), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *cartRepository) Create(_ context.Context, cart *models.Cart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.carts {
		if existing.BuyerID == cart.BuyerID && existing.SellerID == cart.SellerID {
			return repository.ErrDuplicate
		}
	}
	r.s.stamp(&cart.BaseModel)
	r.s.carts[cart.ID] = *copyCart(*cart)
	return nil
}

func (r *cartRepository) AddItem(_ context.Context, cartID, productID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cart, ok := r.s.carts[cartID]
	if !ok {
		return repository.ErrNotFound
	}
	if cart.Contains(productID) {
		return repository.ErrDuplicate
	}
	cart.Items = append(cart.Items, models.CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		CreatedAt: r.s.now(),
	})
	r.s.carts[cartID] = cart
	return nil
}

func (r *cartRepository) RemoveItem(_ context.Context, cartID, productID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cart, ok := r.s.carts[cartID]
	if !ok {
		return repository.ErrNotFound
	}
	items := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	if len(items) == len(cart.Items) {
		return repository.ErrNotFound
	}
	cart.Items = items
	r.s.carts[cartID] = cart
	return nil
}

func (r *cartRepository) Delete(_ context.Context, cartID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.carts, cartID)
	return nil
}

type orderRepository struct {
	s *Store
}

func (r *orderRepository) Place(_ context.Context, order *models.Order, cartID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, item := range order.Items {
		product, ok := r.s.products[item.ProductID]
		if !ok || !product.IsAvailable() {
			return repository.ErrStale
		}
	}

	r.s.stamp(&order.BaseModel)
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID

		product := r.s.products[order.Items[i].ProductID]
		product.Status = models.ProductStatusOrderReceived
		r.s.products[product.ID] = product
	}

	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	r.s.orders[order.ID] = stored
	delete(r.s.carts, cartID)
	return nil
}

func (r *orderRepository) SetPaymentIntent(_ context.Context, orderID uuid.UUID, intentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	order.PaymentIntentID = intentID
	r.s.orders[orderID] = order
	return nil
}

func (r *orderRepository) ListByBuyer(_ context.Context, buyerID uuid.UUID, page repository.Page) ([]models.Order, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	orders := []models.Order{}
	for _, order := range r.s.orders {
		if order.BuyerID == buyerID {
			orders = append(orders, order)
		}
	}
	newestFirst(orders, func(o models.Order) time.Time { return o.CreatedAt })
	return paginate(orders, page), int64(len(orders)), nil
}

type wishlistRepository struct {
	s *Store
}

func (r *wishlistRepository) Add(_ context.Context, item *models.Wishlist) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.wishlists {
		if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
			return repository.ErrDuplicate
		}
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = r.s.now()
	stored := *item
	stored.Product = nil
	r.s.wishlists[item.ID] = stored
	return nil
}

func (r *wishlistRepository) Remove(_ context.Context, userID, productID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, existing := range r.s.wishlists {
		if existing.UserID == userID && existing.ProductID == productID {
			delete(r.s.wishlists, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

// listedAmount is the entered amount for a channel, cash when none is given.
func listedAmount(price models.ProductPrice, channel models.PriceChannel) (decimal.Decimal, bool) {
	switch channel {
	case models.PriceChannelCoin:
		if price.Coin == nil {
			return decimal.Zero, false
		}
		return price.Coin.EnteredAmount, true
	case models.PriceChannelMix:
		if price.Mix == nil {
			return decimal.Zero, false
		}
		return price.Mix.EnteredCash, true
	}
	if price.Cash == nil {
		return decimal.Zero, false
	}
	return price.Cash.EnteredAmount, true
}

func matchesWishlist(product *models.Product, filter repository.WishlistFilter) bool {
	if filter.Status != nil && product.Status != *filter.Status {
		return false
	}
	if filter.Condition != "" && product.Condition != filter.Condition {
		return false
	}
	if filter.Category != "" && !matchesCategory(*product, filter.Category) {
		return false
	}
	amount, ok := listedAmount(product.Price, filter.PriceType)
	if filter.PriceType != "" && !ok {
		return false
	}
	if filter.MinPrice != nil && (!ok || amount.LessThan(*filter.MinPrice)) {
		return false
	}
	if filter.MaxPrice != nil && (!ok || amount.GreaterThan(*filter.MaxPrice)) {
		return false
	}
	return true
}

func (r *wishlistRepository) List(_ context.Context, userID uuid.UUID, filter repository.WishlistFilter) ([]models.Wishlist, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := []models.Wishlist{}
	for _, item := range r.s.wishlists {
		if item.UserID != userID {
			continue
		}
		product := r.s.productRef(item.ProductID)
		if product == nil || !matchesWishlist(product, filter) {
			continue
		}
		item.Product = product
		items = append(items, item)
	}

	newestFirst(items, func(w models.Wishlist) time.Time { return w.CreatedAt })
	if filter.Sort == repository.WishlistSortOldest {
		sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	}
	return paginate(items, filter.Page), int64(len(items)), nil
}

func (r *wishlistRepository) CountByProduct(_ context.Context, productID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var count int64
	for _, item := range r.s.wishlists {
		if item.ProductID == productID {
			count++
		}
	}
	return count, nil
}
