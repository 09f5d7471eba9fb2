// Package memory implements every repository in process. It backs the test
// suites and stands in for MongoDB when no document store is configured.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

// Store holds all rows behind a single lock.
type Store struct {
	mu   sync.RWMutex
	last time.Time

	users         map[uuid.UUID]models.User
	products      map[uuid.UUID]models.Product
	bargains      map[uuid.UUID]models.Bargain
	carts         map[uuid.UUID]models.Cart
	orders        map[uuid.UUID]models.Order
	wishlists     map[uuid.UUID]models.Wishlist
	comments      map[uuid.UUID]models.Comment
	replies       map[uuid.UUID]models.CommentReply
	addresses     map[uuid.UUID]models.Address
	follows       map[uuid.UUID]models.Follow
	reports       map[uuid.UUID]models.UserReport
	history       []models.BargainHistory
	notifications []models.Notification
	audit         []models.AuditLog
}

func NewStore() *Store {
	return &Store{
		users:     make(map[uuid.UUID]models.User),
		products:  make(map[uuid.UUID]models.Product),
		bargains:  make(map[uuid.UUID]models.Bargain),
		carts:     make(map[uuid.UUID]models.Cart),
		orders:    make(map[uuid.UUID]models.Order),
		wishlists: make(map[uuid.UUID]models.Wishlist),
		comments:  make(map[uuid.UUID]models.Comment),
		replies:   make(map[uuid.UUID]models.CommentReply),
		addresses: make(map[uuid.UUID]models.Address),
		follows:   make(map[uuid.UUID]models.Follow),
		reports:   make(map[uuid.UUID]models.UserReport),
	}
}

// Repositories exposes the store through the repository contracts.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:     &userRepository{s},
		Products:  &productRepository{s},
		Bargains:  &bargainRepository{s},
		Carts:     &cartRepository{s},
		Orders:    &orderRepository{s},
		Wishlists: &wishlistRepository{s},
		Comments:  &commentRepository{s},
		Addresses: &addressRepository{s},
		Follows:   &followRepository{s},
		Reports:   &reportRepository{s},
		Activity:  NewActivityRepository(s),
	}
}

// now returns a strictly increasing timestamp so insertion order survives sorting.
// Callers hold the write lock.
func (s *Store) now() time.Time {
	t := time.Now()
	if !t.After(s.last) {
		t = s.last.Add(time.Nanosecond)
	}
	s.last = t
	return t
}

func (s *Store) stamp(base *models.BaseModel) {
	now := s.now()
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

func paginate[T any](items []T, page repository.Page) []T {
	if page.Offset > 0 {
		if page.Offset >= len(items) {
			return []T{}
		}
		items = items[page.Offset:]
	}
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}

func newestFirst[T any](items []T, created func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return created(items[i]).After(created(items[j]))
	})
}

func (s *Store) userRef(id uuid.UUID) *models.User {
	user, ok := s.users[id]
	if !ok {
		return nil
	}
	return &user
}

func (s *Store) productRef(id uuid.UUID) *models.Product {
	product, ok := s.products[id]
	if !ok {
		return nil
	}
	product.Seller = s.userRef(product.SellerID)
	return &product
}
