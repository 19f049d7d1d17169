package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, int64(100), cfg.Shop.PointValue)
	assert.Equal(t, int64(10000), cfg.Shop.VoucherValue)
	assert.Equal(t, int64(0), cfg.Shop.DeliveryFee)
	assert.Equal(t, 24*time.Hour, cfg.Shop.CartTTL)
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverMemory)
	t.Setenv("SHOP_DELIVERY_FEE", "15000")
	t.Setenv("SHOP_CART_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SHOP_POINT_VALUE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.UsesMemoryStore())
	assert.Equal(t, int64(15000), cfg.Shop.DeliveryFee)
	assert.Equal(t, 2*time.Hour, cfg.Shop.CartTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CORSAllowedOrigins)
	assert.Equal(t, int64(100), cfg.Shop.PointValue, "unparseable values fall back to the default")
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"negative delivery fee", func(c *Config) { c.Shop.DeliveryFee = -1 }},
		{"zero point value", func(c *Config) { c.Shop.PointValue = 0 }},
		{"zero voucher value", func(c *Config) { c.Shop.VoucherValue = 0 }},
		{"missing db host", func(c *Config) { c.Database.Host = "" }},
		{"missing port", func(c *Config) { c.Server.Port = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
