package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "RUN_MIGRATIONS", "REQUEST_TIMEOUT", "REDIS_ADDR", "PRODUCT_CACHE_TTL", "RABBITMQ_URL", "ADMIN_USERNAME", "CORS_ALLOW_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 10*time.Minute, cfg.ProductCacheTTL)
	assert.Empty(t, cfg.RabbitURL)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("RUN_MIGRATIONS", "no")
	t.Setenv("REQUEST_TIMEOUT", "250ms")
	t.Setenv("PRODUCT_CACHE_TTL", "garbage")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example, ,https://b.example")

	cfg := Load()
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Minute, cfg.ProductCacheTTL, "unparseable durations fall back")
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
}

func TestAPI(t *testing.T) {
	t.Setenv("STOREFRONT_API", "")
	assert.Equal(t, "http://localhost:8081", API())
	t.Setenv("STOREFRONT_API", "http://shop:8081")
	assert.Equal(t, "http://shop:8081", API())
}
