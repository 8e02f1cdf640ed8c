package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/lab-lighting/internal/config"
	"github.com/iliyamo/lab-lighting/internal/handler"
	"github.com/iliyamo/lab-lighting/internal/labstore"
	"github.com/iliyamo/lab-lighting/internal/metrics"
	"github.com/iliyamo/lab-lighting/internal/middleware"
	"github.com/iliyamo/lab-lighting/internal/queue"
	"github.com/iliyamo/lab-lighting/internal/repository"
	"github.com/iliyamo/lab-lighting/internal/router"
	"github.com/iliyamo/lab-lighting/internal/service"
)

func main() {
	cfg := config.Load()
	logger := log.New("lab-lighting")
	logger.SetLevel(config.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is optional unless it is the state backend.
	rdb, err := config.NewRedisClient()
	if err != nil {
		logger.Warnf("redis unavailable, rate limiting and caching disabled: %v", err)
	}

	backend, err := openBackend(ctx, cfg.Storage, rdb)
	if err != nil {
		logger.Fatalf("open %s backend: %v", cfg.Storage.Backend, err)
	}

	// the energy gauge is only evaluated on scrape, after store is set
	var store *labstore.Store
	m := metrics.New(func() float64 { return store.EnergyConsumption("") })
	store = labstore.New(backend,
		labstore.WithLogger(log.New("labstore")),
		labstore.WithKeyPrefix(cfg.Storage.KeyPrefix),
		labstore.WithPersistHook(m.ObservePersist),
	)
	store.Subscribe(m.ObserveEvent)

	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = store.Load(loadCtx)
	cancel()
	if err != nil {
		logger.Fatalf("load lab state: %v", err)
	}

	users, err := repository.NewUserRepo(ctx, backend, cfg.Storage.KeyPrefix)
	if err != nil {
		logger.Fatalf("load users: %v", err)
	}
	if created, err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost); err != nil {
		logger.Fatalf("bootstrap admin: %v", err)
	} else if created {
		logger.Infof("created bootstrap admin %s", cfg.AdminEmail)
	}

	if cfg.Broker.PublishEnabled {
		pub := service.NewPublisher(cfg.Broker.URL, cfg.Broker.Queue, 256, log.New("rabbitmq"))
		go pub.Run(ctx)
		store.Subscribe(func(ev labstore.Event) {
			if !pub.Enqueue(service.EventFromStore(ev)) {
				logger.Warnf("event buffer full, dropped %s (total dropped %d)", ev.Type, pub.Dropped())
			}
		})
	}
	if cfg.Broker.ConsumerEnabled {
		go func() {
			err := queue.StartLabEventConsumer(ctx, cfg.Broker.URL, cfg.Broker.Queue, cfg.Broker.AuditLogPath, log.New("lab-event-consumer"))
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("lab event consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	e.Validator = handler.NewValidator()
	e.Use(m.Middleware())

	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb, store)

	labs := handler.NewLabHandler(store)
	router.RegisterRoutes(e, m.Handler())
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), cfg.JWTSecret)
	router.RegisterAdmin(e, labs, handler.NewTeacherHandler(users, store, cfg.BcryptCost), cfg.JWTSecret, rateLimit)
	router.RegisterTeacher(e, labs, cfg.JWTSecret, rateLimit, cache)

	addr := ":" + cfg.Port
	go func() {
		logger.Infof("listening on %s (env=%s, backend=%s)", addr, cfg.Env, cfg.Storage.Backend)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutCtx); err != nil {
		logger.Errorf("http shutdown: %v", err)
	}
	if err := store.Close(shutCtx); err != nil {
		logger.Errorf("flush lab state: %v", err)
	}
	if err := backend.Close(); err != nil {
		logger.Errorf("close backend: %v", err)
	}
	// the redis backend already closed the shared client
	if rdb != nil && cfg.Storage.Backend != config.BackendRedis {
		_ = rdb.Close()
	}
}
