package config // package config loads application configuration from environment variables

import (
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types

	"github.com/joho/godotenv"     // optional .env file for local runs
	"github.com/labstack/gommon/log"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	JWTSecret     string // secret used to sign JWTs
	AccessTTLMin  int    // access token time‑to‑live in minutes
	BcryptCost    int    // bcrypt cost for password hashing
	AdminEmail    string // bootstrap admin account, created when missing
	AdminPassword string // bootstrap admin password
	LogLevel      string // debug | info | warn | error
	Storage       StorageConfig
	Broker        BrokerConfig
}

// Load reads configuration values from the environment (and from a .env
// file in the working directory when present) and returns a Config.
// Required variables are enforced by must() and missing values cause the
// program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // a missing .env file is not an error
	return Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		JWTSecret:     must("JWT_SECRET"),
		AccessTTLMin:  mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:    mustInt("BCRYPT_COST"),
		AdminEmail:    envStr("ADMIN_EMAIL", "admin@lab.local"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		LogLevel:      envStr("LOG_LEVEL", "info"),
		Storage:       LoadStorageConfig(),
		Broker:        LoadBrokerConfig(),
	}
}

// ParseLevel converts LOG_LEVEL into a gommon level, defaulting to INFO.
func ParseLevel(s string) log.Lvl {
	switch s {
	case "debug", "DEBUG":
		return log.DEBUG
	case "warn", "WARN":
		return log.WARN
	case "error", "ERROR":
		return log.ERROR
	}
	return log.INFO
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
