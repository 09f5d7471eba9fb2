package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/swapkaro/swapkaro-backend/internal/cache"
	"github.com/swapkaro/swapkaro-backend/internal/clients"
	"github.com/swapkaro/swapkaro-backend/internal/config"
	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
	"github.com/swapkaro/swapkaro-backend/internal/repository/memory"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type fakeGateway struct {
	enabled  bool
	err      error
	requests []*PaymentIntentRequest
}

func (g *fakeGateway) Enabled() bool { return g.enabled }

func (g *fakeGateway) CreatePaymentIntent(_ context.Context, req *PaymentIntentRequest) (*PaymentIntentResponse, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &PaymentIntentResponse{ClientSecret: "secret_test", PaymentID: "pi_test_1", Status: "requires_payment_method"}, nil
}

type fakeShipping struct {
	postal      map[string]*clients.PostalCode
	zone        string
	err         error
	zoneQueries [][2]string
	waybills    []string
}

func (f *fakeShipping) CheckPincode(_ context.Context, pincode string) (*clients.PostalCode, error) {
	if f.err != nil {
		return nil, f.err
	}
	postal, ok := f.postal[pincode]
	if !ok {
		return nil, clients.ErrPincodeNotServiceable
	}
	return postal, nil
}

func (f *fakeShipping) Zone(_ context.Context, origin, destination string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.zoneQueries = append(f.zoneQueries, [2]string{origin, destination})
	return f.zone, nil
}

func (f *fakeShipping) Waybills(_ context.Context, count int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.waybills[:count], nil
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Frontend: config.FrontendConfig{BaseURL: "http://localhost:3000"},
		Marketplace: config.MarketplaceConfig{
			MaxProductsPerSellerCart: 5,
			MaxProductImages:         7,
			OTPTTLMinutes:            10,
			OTPResendCooldownSeconds: 60,
			BlacklistFallbackHours:   2,
		},
	}
}

// fixture wires every service against one in-memory store.
type fixture struct {
	ctx           context.Context
	cfg           *config.Config
	repos         repository.Repositories
	activity      *memory.ActivityRepository
	tokens        *cache.MemoryStore
	mailer        *fakeMailer
	gateway       *fakeGateway
	shipping      *fakeShipping
	notifications *NotificationService
	prices        *PriceService

	auth      *AuthService
	users     *UserService
	addresses *AddressService
	products  *ProductService
	bargains  *BargainService
	carts     *CartService
	wishlists *WishlistService
	comments  *CommentService
	shipments *ShippingService

	seq int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repos := memory.NewStore().Repositories()
	activity, ok := repos.Activity.(*memory.ActivityRepository)
	require.True(t, ok)

	f := &fixture{
		ctx:      context.Background(),
		cfg:      testConfig(),
		repos:    repos,
		activity: activity,
		tokens:   cache.NewMemoryStore(),
		mailer:   &fakeMailer{},
		gateway:  &fakeGateway{},
		shipping: &fakeShipping{zone: "A", waybills: []string{"W1", "W2", "W3", "W4", "W5", "W6", "W7"}},
	}
	f.notifications = NewNotificationService(repos.Activity, nil, f.mailer, f.cfg)
	f.prices = NewPriceService(repos.Bargains)

	f.auth = NewAuthService(repos.Users, f.tokens, f.notifications, f.cfg)
	f.users = NewUserService(repos, nil, f.notifications)
	f.addresses = NewAddressService(repos.Addresses)
	f.products = NewProductService(repos, f.prices, nil, f.cfg)
	f.bargains = NewBargainService(repos, f.notifications)
	f.carts = NewCartService(repos, f.prices, f.gateway, f.notifications, f.cfg)
	f.wishlists = NewWishlistService(repos, f.prices)
	f.comments = NewCommentService(repos, f.notifications)
	f.shipments = NewShippingService(f.shipping, repos)
	return f
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	f.seq++
	user := &models.User{
		Name:       username,
		Username:   username,
		Email:      username + "@example.com",
		Mobile:     fmt.Sprintf("98765%05d", f.seq),
		IsVerified: true,
	}
	require.NoError(t, user.SetPassword("Passw0rd!"))
	require.NoError(t, f.repos.Users.Create(f.ctx, user))
	return user
}

func (f *fixture) address(t *testing.T, userID uuid.UUID, pincode string) *models.Address {
	t.Helper()
	address, err := f.addresses.Create(f.ctx, userID, &AddressRequest{
		Name:        "Home",
		HouseNumber: "12B",
		Street:      "MG Road",
		City:        "Bengaluru",
		State:       "Karnataka",
		Pincode:     pincode,
		PhoneNumber: "9876543210",
	})
	require.NoError(t, err)
	return address
}

func amount(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// listedPrice offers every channel: cash 1000, coin 100, mix 500 + 50.
func listedPrice() models.ProductPrice {
	return models.ProductPrice{
		MRP:  amount("1500"),
		Cash: &models.CashPrice{EnteredAmount: amount("1000"), SellerReceivesCash: amount("900")},
		Coin: &models.CoinPrice{EnteredAmount: amount("100"), SellerReceivesCoin: amount("90")},
		Mix: &models.MixPrice{
			EnteredCash:        amount("500"),
			EnteredCoin:        amount("50"),
			SellerReceivesCash: amount("450"),
			SellerReceivesCoin: amount("45"),
		},
	}
}

func productRequest(title string) *ProductRequest {
	return &ProductRequest{
		Title:             title,
		Description:       "Gently used, no visible wear",
		PrimaryCategory:   "Women",
		SecondaryCategory: "Sarees",
		Images:            []string{"https://cdn.example.com/products/1.jpg"},
		Condition:         "like_new",
		Quantity:          1,
		Price:             listedPrice(),
	}
}

// product lists an item for seller straight through the repository.
func (f *fixture) product(t *testing.T, sellerID uuid.UUID, mutate ...func(*models.Product)) *models.Product {
	t.Helper()
	f.seq++
	product := &models.Product{
		SellerID:          sellerID,
		Slug:              fmt.Sprintf("product-%d", f.seq),
		Title:             fmt.Sprintf("Product %d", f.seq),
		Description:       "Gently used, no visible wear",
		PrimaryCategory:   "Women",
		SecondaryCategory: "Sarees",
		Images:            []string{"https://cdn.example.com/products/1.jpg"},
		Condition:         "like_new",
		Quantity:          1,
		Price:             listedPrice(),
		Status:            models.ProductStatusAvailable,
	}
	for _, m := range mutate {
		m(product)
	}
	require.NoError(t, f.repos.Products.Create(f.ctx, product))
	return product
}

func offer(price string, channel models.PriceChannel) *BargainRequest {
	return &BargainRequest{
		OfferedPrice:   amount(price),
		OfferedIn:      channel,
		SellerReceives: amount(price).Mul(amount("0.9")),
	}
}

func (f *fixture) notificationsFor(t *testing.T, userID uuid.UUID) []models.Notification {
	t.Helper()
	notifications, err := f.notifications.List(f.ctx, userID)
	require.NoError(t, err)
	return notifications
}
