package config

import (
	"testing"
	"time"

	"github.com/labstack/gommon/log"
)

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_CONTROL_CAPACITY", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 || cfg.ControlCapacity != 1 {
		t.Fatalf("capacity = %d/%d, want 1/1", cfg.Capacity, cfg.ControlCapacity)
	}
	if cfg.RefillTokens != 1 || cfg.RefillInterval != 2*time.Second {
		t.Fatalf("refill = %d/%s", cfg.RefillTokens, cfg.RefillInterval)
	}
	if cfg.TTL != 10*time.Second {
		t.Fatalf("ttl = %s, want 10s", cfg.TTL)
	}
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_ENABLED", "off")
	cfg := LoadCacheConfig()
	if cfg.Enabled {
		t.Fatalf("cache should be disabled")
	}
	if !cfg.Methods["GET"] || !cfg.Methods["HEAD"] || len(cfg.Methods) != 2 {
		t.Fatalf("methods = %v", cfg.Methods)
	}
	if cfg.Prefix != "labcache" {
		t.Fatalf("prefix = %s", cfg.Prefix)
	}
}

func TestLoadStorageConfigDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	cfg := LoadStorageConfig()
	if cfg.Backend != BackendRedis {
		t.Fatalf("backend = %s", cfg.Backend)
	}
	if cfg.KeyPrefix != "lablighting" || cfg.S3Region != "us-east-1" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadBrokerConfigFallsBackToAMQPURL(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@broker:5672/")
	cfg := LoadBrokerConfig()
	if cfg.URL != "amqp://u:p@broker:5672/" || cfg.Queue != "lab.changed" || cfg.PublishEnabled {
		t.Fatalf("unexpected broker config %+v", cfg)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != log.DEBUG || ParseLevel("nope") != log.INFO {
		t.Fatalf("unexpected level mapping")
	}
}
