// Package repository declares the storage contracts the services depend on.
// postgres/ implements them with gorm, mongodb/ implements the activity log,
// and memory/ keeps everything in process.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/swapkaro/swapkaro-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrStale is returned when a conditional write found the row in another state.
	ErrStale = errors.New("record changed concurrently")
)

type Page struct {
	Offset int
	Limit  int
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	GetByUsernames(ctx context.Context, usernames []string) ([]models.User, error)
	// FindConflicts returns users already holding the email, username or mobile.
	FindConflicts(ctx context.Context, email, username, mobile string) ([]models.User, error)
	SearchVerified(ctx context.Context, usernamePrefix string, page Page) ([]models.User, int64, error)
	SetPresence(ctx context.Context, id uuid.UUID, online bool, at time.Time) error
}

type ProductFilter struct {
	SellerID  *uuid.UUID
	Status    *models.ProductStatus
	Condition string
	Category  string
	Search    string
	Page
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	// SetHolidayMode parks or restores the seller's available products and
	// flips the user's holiday flag in the same transaction.
	SetHolidayMode(ctx context.Context, sellerID uuid.UUID, enabled bool) (int64, error)
}

type BargainFilter struct {
	Status *models.BargainStatus
	Page
}

type BargainRepository interface {
	Create(ctx context.Context, bargain *models.Bargain) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bargain, error)
	GetByProductAndBuyer(ctx context.Context, productID, buyerID uuid.UUID) (*models.Bargain, error)
	// SaveRevision writes the offer fields only if the bargain is still pending.
	SaveRevision(ctx context.Context, bargain *models.Bargain) error
	// Transition moves the bargain from one status to another atomically.
	Transition(ctx context.Context, id uuid.UUID, from, to models.BargainStatus, at time.Time) error
	ListByProduct(ctx context.Context, productID uuid.UUID, status *models.BargainStatus) ([]models.Bargain, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, filter BargainFilter) ([]models.Bargain, int64, error)
	// ListBySeller orders pending bargains first, then newest.
	ListBySeller(ctx context.Context, sellerID uuid.UUID, filter BargainFilter) ([]models.Bargain, int64, error)
	AcceptedForBuyer(ctx context.Context, buyerID uuid.UUID, productIDs []uuid.UUID) ([]models.Bargain, error)
}

type CartRepository interface {
	GetByBuyerAndSeller(ctx context.Context, buyerID, sellerID uuid.UUID) (*models.Cart, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Cart, error)
	FindContaining(ctx context.Context, buyerID, productID uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	AddItem(ctx context.Context, cartID, productID uuid.UUID) error
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error
	Delete(ctx context.Context, cartID uuid.UUID) error
}

type OrderRepository interface {
	// Place stores the order, marks its products as ordered and deletes the cart.
	// It returns ErrStale when a product stopped being available.
	Place(ctx context.Context, order *models.Order, cartID uuid.UUID) error
	SetPaymentIntent(ctx context.Context, orderID uuid.UUID, intentID string) error
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, page Page) ([]models.Order, int64, error)
}

type WishlistSort string

const (
	WishlistSortDefault WishlistSort = ""
	WishlistSortNewest  WishlistSort = "newest"
	WishlistSortOldest  WishlistSort = "oldest"
)

type WishlistFilter struct {
	Status    *models.ProductStatus
	Condition string
	Category  string
	PriceType models.PriceChannel
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Sort      WishlistSort
	Page
}

type WishlistRepository interface {
	Add(ctx context.Context, item *models.Wishlist) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, filter WishlistFilter) ([]models.Wishlist, int64, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	// CreateReply stores the reply and bumps the parent's reply count.
	CreateReply(ctx context.Context, reply *models.CommentReply) error
	ListByProduct(ctx context.Context, productID uuid.UUID, page Page) ([]models.Comment, int64, error)
}

type AddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	GetDefault(ctx context.Context, userID uuid.UUID) (*models.Address, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page Page) ([]models.Address, int64, error)
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
}

type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error
	ListFollowers(ctx context.Context, userID uuid.UUID, page Page) ([]models.User, int64, error)
	ListFollowing(ctx context.Context, userID uuid.UUID, page Page) ([]models.User, int64, error)
	Counts(ctx context.Context, userID uuid.UUID) (followers int64, following int64, err error)
}

type ReportRepository interface {
	Create(ctx context.Context, report *models.UserReport) error
}

// ActivityRepository stores bargain history, notifications and audit entries.
type ActivityRepository interface {
	SaveBargainHistory(ctx context.Context, entry *models.BargainHistory) error
	SaveNotification(ctx context.Context, notification *models.Notification) error
	ListNotifications(ctx context.Context, userID string, limit int64) ([]models.Notification, error)
	SaveAuditLog(ctx context.Context, entry *models.AuditLog) error
}

// Repositories bundles every store the router wires into services.
type Repositories struct {
	Users     UserRepository
	Products  ProductRepository
	Bargains  BargainRepository
	Carts     CartRepository
	Orders    OrderRepository
	Wishlists WishlistRepository
	Comments  CommentRepository
	Addresses AddressRepository
	Follows   FollowRepository
	Reports   ReportRepository
	Activity  ActivityRepository
}
