// internal/router/router.go
package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swapkaro/swapkaro-backend/internal/cache"
	"github.com/swapkaro/swapkaro-backend/internal/clients"
	"github.com/swapkaro/swapkaro-backend/internal/config"
	"github.com/swapkaro/swapkaro-backend/internal/handlers"
	"github.com/swapkaro/swapkaro-backend/internal/middleware"
	"github.com/swapkaro/swapkaro-backend/internal/realtime"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
	"github.com/swapkaro/swapkaro-backend/internal/services"
)

const Version = "1.0.0"

// Dependencies are the backing stores and outside providers the API runs on.
// Mailer, Payments, Shipping and Storage fall back to the configured defaults when nil.
type Dependencies struct {
	Repos    repository.Repositories
	Tokens   cache.Store
	Mailer   services.Mailer
	Payments services.PaymentGateway
	Shipping clients.ShippingProvider
	Storage  *services.StorageService
	Checks   map[string]handlers.HealthCheck
}

func (d *Dependencies) withDefaults(cfg *config.Config) error {
	if d.Mailer == nil {
		d.Mailer = services.NewSMTPMailer(cfg.Email)
	}
	if d.Payments == nil {
		d.Payments = services.NewPaymentService(cfg)
	}
	if d.Shipping == nil {
		d.Shipping = clients.NewDelhiveryClient(
			cfg.Shipping.DelhiveryBaseURL,
			cfg.Shipping.DelhiveryAPIKey,
			time.Duration(cfg.Shipping.Timeout)*time.Second,
		)
	}
	if d.Storage == nil {
		storage, err := services.NewStorageService(cfg)
		if err != nil {
			return err
		}
		d.Storage = storage
	}
	return nil
}

// Initialize wires services and handlers and registers every route. The
// websocket hub runs until ctx is cancelled.
func Initialize(ctx context.Context, cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	if err := deps.withDefaults(cfg); err != nil {
		return nil, err
	}
	repos := deps.Repos

	// The hub reports presence through the user service, which notifies through the hub
	var userService *services.UserService
	hub := realtime.NewHub(func(ctx context.Context, userID string, online bool, at time.Time) {
		userService.TrackPresence(ctx, userID, online, at)
	})

	// Initialize services
	notificationService := services.NewNotificationService(repos.Activity, hub, deps.Mailer, cfg)
	priceService := services.NewPriceService(repos.Bargains)

	authService := services.NewAuthService(repos.Users, deps.Tokens, notificationService, cfg)
	userService = services.NewUserService(repos, deps.Storage, notificationService)
	addressService := services.NewAddressService(repos.Addresses)
	productService := services.NewProductService(repos, priceService, deps.Storage, cfg)
	bargainService := services.NewBargainService(repos, notificationService)
	cartService := services.NewCartService(repos, priceService, deps.Payments, notificationService, cfg)
	wishlistService := services.NewWishlistService(repos, priceService)
	commentService := services.NewCommentService(repos, notificationService)
	shippingService := services.NewShippingService(deps.Shipping, repos)

	hub.Start(ctx)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(Version, deps.Checks)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	addressHandler := handlers.NewAddressHandler(addressService)
	productHandler := handlers.NewProductHandler(productService)
	bargainHandler := handlers.NewBargainHandler(bargainService)
	cartHandler := handlers.NewCartHandler(cartService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	commentHandler := handlers.NewCommentHandler(commentService)
	shippingHandler := handlers.NewShippingHandler(shippingService)
	realtimeHandler := handlers.NewRealtimeHandler(hub, notificationService, cfg.Frontend.AllowedOrigins)

	limiters := middleware.DefaultLimiters()
	authRequired := middleware.AuthRequired(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(limiters.General.Middleware())
	r.Use(middleware.AuditLogMiddleware(repos.Activity))

	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(limiters.Auth.Middleware())
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/verify-otp", authHandler.VerifyOTP)
			auth.POST("/resend-otp", authHandler.ResendOTP)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authRequired, authHandler.Logout)
			auth.GET("/me", authRequired, authHandler.GetProfile)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/search", userHandler.SearchUsers)
			users.GET("/profile/:username", userHandler.GetPublicProfile)
			users.GET("/followers/:id", userHandler.Followers)
			users.GET("/following/:id", userHandler.Following)

			protected := users.Group("")
			protected.Use(authRequired)
			{
				protected.GET("/profile", userHandler.GetProfile)
				protected.PUT("/profile", userHandler.UpdateProfile)
				protected.POST("/avatar", limiters.Upload.Middleware(), userHandler.UploadAvatar)
				protected.GET("/mentions", userHandler.Mentions)
				protected.PUT("/holiday-mode", userHandler.SetHolidayMode)
				protected.POST("/follow/:id", userHandler.Follow)
				protected.POST("/unfollow/:id", userHandler.Unfollow)
				protected.POST("/report", userHandler.Report)
			}
		}

		addresses := v1.Group("/addresses")
		addresses.Use(authRequired)
		{
			addresses.POST("", addressHandler.Create)
			addresses.GET("", addressHandler.List)
			addresses.PUT("/:id", addressHandler.Update)
			addresses.PATCH("/:id/default", addressHandler.SetDefault)
			addresses.DELETE("/:id", addressHandler.Delete)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("/cards", optionalAuth, productHandler.GetCards)
			products.GET("/cards/seller/:sellerId", optionalAuth, productHandler.GetSellerCards)
			products.GET("/slug/:slug", optionalAuth, productHandler.GetProductBySlug)
			products.GET("/:id", optionalAuth, productHandler.GetProduct)

			protected := products.Group("")
			protected.Use(authRequired)
			{
				protected.POST("/upload-images", limiters.Upload.Middleware(), productHandler.UploadImages)
				protected.POST("/upload-video", limiters.Upload.Middleware(), productHandler.UploadVideo)
				protected.POST("", productHandler.CreateProduct)
				protected.PUT("/:id", productHandler.UpdateProduct)
				protected.DELETE("/:id", productHandler.DeleteProduct)
			}
		}

		bargains := v1.Group("/bargains")
		{
			bargains.GET("/product/:productId", optionalAuth, bargainHandler.ProductBargains)

			protected := bargains.Group("")
			protected.Use(authRequired)
			{
				protected.POST("/:productId", bargainHandler.CreateBargain)
				protected.PUT("/:productId", bargainHandler.UpdateBargain)
				protected.PATCH("/:bargainId/accept", bargainHandler.AcceptBargain)
				protected.PATCH("/:bargainId/reject", bargainHandler.RejectBargain)
				protected.GET("/buyer/:userId", bargainHandler.BuyerBargains)
				protected.GET("/seller/:sellerId", bargainHandler.SellerBargains)
			}
		}

		cart := v1.Group("/cart")
		cart.Use(authRequired)
		{
			cart.POST("", cartHandler.AddItem)
			cart.GET("", cartHandler.GetCart)
			cart.GET("/summary", cartHandler.Summary)
			cart.DELETE("", cartHandler.Remove)
			cart.POST("/checkout/:sellerId", cartHandler.Checkout)
		}
		v1.GET("/orders", authRequired, cartHandler.Orders)

		wishlist := v1.Group("/wishlist")
		wishlist.Use(authRequired)
		{
			wishlist.GET("", wishlistHandler.List)
			wishlist.GET("/count/:productId", wishlistHandler.Count)
			wishlist.POST("/:productId", wishlistHandler.Add)
			wishlist.DELETE("/:productId", wishlistHandler.Remove)
		}

		comments := v1.Group("/comments")
		{
			comments.GET("/product/:productId", commentHandler.ListByProduct)
			comments.POST("/:id", authRequired, commentHandler.CreateComment)
			comments.POST("/:id/replies", authRequired, commentHandler.CreateReply)
		}

		shipping := v1.Group("/shipping")
		{
			shipping.GET("/serviceability", optionalAuth, shippingHandler.Serviceability)
			shipping.GET("/estimate", optionalAuth, shippingHandler.Estimate)
			shipping.GET("/waybills", authRequired, shippingHandler.Waybills)
		}

		v1.GET("/ws", middleware.SocketAuth(authService), realtimeHandler.Connect)
		v1.GET("/notifications", authRequired, realtimeHandler.Notifications)
	}

	return r, nil
}
