package redis

import (
	"stayops/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.Redis.Primary.Host = "cache"
	cfg.Cache.Redis.Primary.Port = "6379"
	cfg.Cache.Redis.Primary.DB = 2
	cfg.App.Upstream.CacheMs = 150

	opts := options(cfg)

	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 150*time.Millisecond, opts.ReadTimeout)
	assert.Equal(t, 150*time.Millisecond, opts.WriteTimeout)
}

func TestOptions_NoBudget(t *testing.T) {
	opts := options(&config.Config{})

	assert.Zero(t, opts.ReadTimeout)
}
