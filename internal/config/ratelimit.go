package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig parameterises the Redis token buckets.  Light control
// (patching a light, color wheel drags, power and preset changes) is
// chatty, so it draws from its own bucket per lab and user, sized by
// Control*, and cannot starve the rest of the API.
type RateLimitConfig struct {
	Enabled             bool
	Capacity            int
	RefillTokens        int
	ControlCapacity     int
	ControlRefillTokens int
	RefillInterval      time.Duration
	TTL                 time.Duration
	Prefix              string
	Debug               bool
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables.  Values below one are
// raised to one and TTL is kept long enough for a bucket to refill.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:             envBool("RATE_LIMIT_ENABLED", true),
		Capacity:            envInt("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:        envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		ControlCapacity:     envInt("RATE_LIMIT_CONTROL_CAPACITY", 120),
		ControlRefillTokens: envInt("RATE_LIMIT_CONTROL_REFILL_TOKENS", 20),
		RefillInterval:      envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:                 envDur("RATE_LIMIT_TTL", 10*time.Minute),
		Prefix:              envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:               envBool("RATE_LIMIT_DEBUG", false),
	}
	cfg.Capacity = atLeastOne(cfg.Capacity)
	cfg.RefillTokens = atLeastOne(cfg.RefillTokens)
	cfg.ControlCapacity = atLeastOne(cfg.ControlCapacity)
	cfg.ControlRefillTokens = atLeastOne(cfg.ControlRefillTokens)
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if dur, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return dur
	}
	return d
}
