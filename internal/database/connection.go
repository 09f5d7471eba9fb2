// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/swapkaro/swapkaro-backend/internal/config"
	"github.com/swapkaro/swapkaro-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	gormConfig := &gorm.Config{
		// Unique violations surface as gorm.ErrDuplicatedKey.
		TranslateError: true,
	}

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	// gen_random_uuid() lives in pgcrypto before PostgreSQL 13
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"pgcrypto\"").Error; err != nil {
		return fmt.Errorf("failed to create pgcrypto extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.Bargain{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Wishlist{},
		&models.Comment{},
		&models.CommentReply{},
		&models.Follow{},
		&models.UserReport{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_username_lower ON users(LOWER(username) text_pattern_ops)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users(LOWER(email))",

		// Address indexes
		"CREATE INDEX IF NOT EXISTS idx_addresses_user_default ON addresses(user_id, is_default)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_seller_status ON products(seller_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Bargain indexes
		"CREATE INDEX IF NOT EXISTS idx_bargains_seller_status ON bargains(seller_id, status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_bargains_buyer_status ON bargains(buyer_id, status)",

		// Commerce indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_buyer_created ON orders(buyer_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_wishlists_user_created ON wishlists(user_id, created_at DESC)",

		// Social indexes
		"CREATE INDEX IF NOT EXISTS idx_comments_product_created ON comments(product_id, created_at DESC)",

		// Full-text search index
		"CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN(to_tsvector('english', coalesce(title, '') || ' ' || coalesce(description, '')))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create index: %s", index)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedInitialData creates the demo sellers used in development environments.
func SeedInitialData(db *gorm.DB) error {
	logrus.Info("Seeding initial data...")

	sellers := []struct {
		user    models.User
		address models.Address
	}{
		{
			user: models.User{Name: "John Doe", Username: "johndoe", Email: "john@example.com", Mobile: "9123456780", GSTNumber: "GST123", IsVerified: true},
			address: models.Address{
				Name: "John Doe", HouseNumber: "123", Street: "Main St", City: "Mumbai", State: "Maharashtra",
				Pincode: "400001", PhoneNumber: "9123456780", IsDefault: true, PickupAvailable: true, DeliveryAvailable: true,
			},
		},
		{
			user: models.User{Name: "Jane Smith", Username: "janesmith", Email: "jane@example.com", Mobile: "9876543210", GSTNumber: "GST456", IsVerified: true},
			address: models.Address{
				Name: "Jane Smith", HouseNumber: "456", Street: "Side St", City: "Bengaluru", State: "Karnataka",
				Pincode: "560001", PhoneNumber: "9876543210", IsDefault: true, PickupAvailable: true, DeliveryAvailable: true,
			},
		},
	}

	for _, seed := range sellers {
		var count int64
		db.Model(&models.User{}).Where("email = ?", seed.user.Email).Count(&count)
		if count > 0 {
			continue
		}

		err := WithTransaction(db, func(tx *gorm.DB) error {
			user := seed.user
			if err := user.SetPassword("Seller@123"); err != nil {
				return fmt.Errorf("failed to set seller password: %w", err)
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			address := seed.address
			address.UserID = user.ID
			return tx.Create(&address).Error
		})
		if err != nil {
			logrus.WithError(err).Warnf("Failed to seed seller %s", seed.user.Email)
			continue
		}
		logrus.Infof("Seeded seller %s", seed.user.Email)
	}

	logrus.Info("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
