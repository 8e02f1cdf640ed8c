package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/lab-lighting/internal/config"
	"github.com/iliyamo/lab-lighting/internal/database"
	"github.com/iliyamo/lab-lighting/internal/storage"
)

// openBackend builds the state backend selected by STORE_BACKEND.  rdb is
// only used by the redis backend and may be nil otherwise.
func openBackend(ctx context.Context, cfg config.StorageConfig, rdb *redis.Client) (storage.Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return storage.NewMemory(), nil
	case config.BackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis backend selected but redis is unavailable")
		}
		return storage.NewRedis(rdb), nil
	case config.BackendMySQL:
		db, err := database.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, err
		}
		return storage.NewSQL(ctx, db, storage.MySQL)
	case config.BackendSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return storage.NewSQL(ctx, db, storage.SQLite)
	case config.BackendPostgres:
		db, err := database.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return storage.NewSQL(ctx, db, storage.Postgres)
	case config.BackendS3:
		return storage.NewS3(ctx, storage.S3Config{
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			PathStyle:       cfg.S3PathStyle,
		})
	}
	return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Backend)
}
