package config

import "strings"

// Storage backends selectable through STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendMySQL    = "mysql"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// StorageConfig selects and parameterises the state backend.  Only the
// fields of the selected backend are read.
type StorageConfig struct {
	Backend   string
	KeyPrefix string

	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	SQLitePath  string
	PostgresDSN string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
	S3AccessKey string
	S3SecretKey string
}

// LoadStorageConfig reads STORE_* and backend specific variables.
func LoadStorageConfig() StorageConfig {
	return StorageConfig{
		Backend:     strings.ToLower(envStr("STORE_BACKEND", BackendSQLite)),
		KeyPrefix:   envStr("STATE_KEY_PREFIX", "lablighting"),
		DBUser:      envStr("DB_USER", "root"),
		DBPass:      envStr("DB_PASS", ""),
		DBHost:      envStr("DB_HOST", "localhost"),
		DBPort:      envStr("DB_PORT", "3306"),
		DBName:      envStr("DB_NAME", "lab_lighting"),
		SQLitePath:  envStr("SQLITE_PATH", "data/lab-lighting.db"),
		PostgresDSN: envStr("POSTGRES_DSN", ""),
		S3Bucket:    envStr("S3_BUCKET", ""),
		S3Region:    envStr("S3_REGION", "us-east-1"),
		S3Endpoint:  envStr("S3_ENDPOINT", ""),
		S3PathStyle: envBool("S3_PATH_STYLE", false),
		S3AccessKey: envStr("S3_ACCESS_KEY_ID", ""),
		S3SecretKey: envStr("S3_SECRET_ACCESS_KEY", ""),
	}
}
