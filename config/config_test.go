package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DEALS_CATALOG", "/srv/deals.json")
	t.Setenv("DEALS_CACHE_BACKEND", "redis")
	t.Setenv("DEALS_REDIS_DB", "2")
	t.Setenv("DEALS_LLM_BACKENDS", "openai, command")
	t.Setenv("DEALS_MARKUP", "1.5")
	t.Setenv("DEALS_NAVIGATION_TIMEOUT_SECONDS", "30")
	t.Setenv("DEALS_RESPECT_ROBOTS", "false")
	t.Setenv("DEALS_MAX_CONCURRENT", "not-a-number")
	t.Setenv("CI", "true")

	c := DefaultConfig()
	c.LoadFromEnv()

	if c.CatalogPath != "/srv/deals.json" || c.CacheBackend != CacheRedis || c.Redis.DB != 2 {
		t.Errorf("storage = %+v", c)
	}
	if strings.Join(c.LLMBackends, "|") != "openai|command" {
		t.Errorf("backends = %q", c.LLMBackends)
	}
	if c.Markup != 1.5 || c.Rules().Markup != 1.5 || c.Rules().SaveMultiplier != 2 {
		t.Errorf("rules = %+v", c.Rules())
	}
	if c.NavigationTimeout != 30*time.Second || c.RespectRobots || !c.CI {
		t.Errorf("fetch settings = %v %v %v", c.NavigationTimeout, c.RespectRobots, c.CI)
	}
	if c.MaxConcurrent != 1 {
		t.Errorf("bad int should keep default, got %d", c.MaxConcurrent)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"catalog", func(c *Config) { c.CatalogPath = "" }, "DEALS_CATALOG"},
		{"cache backend", func(c *Config) { c.CacheBackend = "s3" }, "unknown cache backend"},
		{"redis addr", func(c *Config) { c.CacheBackend = CacheRedis; c.Redis.Addr = "" }, "DEALS_REDIS_ADDR"},
		{"llm backend", func(c *Config) { c.LLMBackends = []string{"bard"} }, "unknown LLM backend"},
		{"fetcher", func(c *Config) { c.Fetcher = "curl" }, "unknown fetcher"},
		{"delay", func(c *Config) { c.DelayProfile = "reckless" }, "reckless"},
		{"concurrency", func(c *Config) { c.MaxConcurrent = 0 }, "DEALS_MAX_CONCURRENT"},
		{"markup", func(c *Config) { c.Markup = 1 }, "DEALS_MARKUP"},
		{"hot", func(c *Config) { c.HotThreshold = 0 }, "DEALS_HOT_THRESHOLD"},
	}
	for _, tt := range tests {
		c := DefaultConfig()
		tt.mutate(c)
		err := c.Validate()
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %v, want %q", tt.name, err, tt.want)
		}
	}
}
