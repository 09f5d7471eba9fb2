package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("CART_MAX_PRODUCTS_PER_SELLER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Marketplace.MaxProductsPerSellerCart)
	assert.Equal(t, 7, cfg.Marketplace.MaxProductImages)
	assert.Equal(t, 10, cfg.Marketplace.OTPTTLMinutes)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestValidateRejectsDefaultSecretInProduction(t *testing.T) {
	cfg := &Config{
		Environment: "production",
		JWT:         JWTConfig{SecretKey: "your-secret-key-change-in-production"},
		Database:    DatabaseConfig{Password: "secret"},
		Marketplace: MarketplaceConfig{MaxProductsPerSellerCart: 5, MaxProductImages: 7},
	}
	assert.Error(t, cfg.Validate())

	cfg.JWT.SecretKey = "rotated"
	assert.NoError(t, cfg.Validate())
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil))

	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	assert.Equal(t, []string{"x"}, getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"x"}))
}

func TestMongoConfig(t *testing.T) {
	m := MongoConfig{}
	assert.False(t, m.Enabled())
	assert.Equal(t, "10s", m.ConnectTimeout().String())

	m.URI = "mongodb://localhost:27017"
	m.Timeout = 3
	assert.True(t, m.Enabled())
	assert.Equal(t, "3s", m.ConnectTimeout().String())
}
