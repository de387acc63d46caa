package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"portal/internal/account"
	"portal/internal/account/memory"
	"portal/internal/account/postgres"
	"portal/internal/auth"
	"portal/internal/config"
	"portal/internal/httpapi"
	"portal/internal/httpmiddleware"
	"portal/internal/portal"
	"portal/internal/session"
	"portal/internal/store"
)

// app is the wired dependency graph shared by the subcommands.
type app struct {
	cfg config.App
	log *logrus.Logger

	db    *store.DB
	redis *store.Redis

	svc      *portal.Service
	sessions *auth.SessionManager
	closers  []func()

	apiLimit   httpmiddleware.Limiter
	loginLimit httpmiddleware.Limiter
}

func buildApp(ctx context.Context, cfg config.App, log *logrus.Logger) (a *app, err error) {
	a = &app{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	dir, err := a.directory(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.SessionBackend == "redis" || cfg.RateLimitBackend == "redis" {
		a.redis = store.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		a.closers = append(a.closers, func() { _ = a.redis.Close() })
	}

	var sessions session.Store
	if cfg.SessionBackend == "redis" {
		sessions = session.NewRedisStore(a.redis.Client, "")
	} else {
		mem := session.NewMemoryStore(time.Minute)
		a.closers = append(a.closers, func() { _ = mem.Close() })
		sessions = mem
	}

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	if a.svc, err = portal.NewService(dir, hasher, log); err != nil {
		return nil, err
	}

	signer, err := auth.NewTokenSigner(cfg.SessionSecret, cfg.SessionIssuer)
	if err != nil {
		return nil, err
	}
	if a.sessions, err = auth.NewSessionManager(sessions, signer, cfg.SessionTTL); err != nil {
		return nil, err
	}

	if cfg.RateLimitBackend == "redis" {
		a.apiLimit = httpmiddleware.NewRedisWindow(a.redis.Client, "ratelimit:", cfg.RateLimitPerMin)
		a.loginLimit = httpmiddleware.NewRedisWindow(a.redis.Client, "ratelimit:", cfg.LoginRateLimitPerMin)
	} else {
		a.apiLimit = httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
		a.loginLimit = httpmiddleware.NewSimpleTokenBucket(cfg.LoginRateLimitPerMin, cfg.LoginRateLimitPerMin)
	}
	return a, nil
}

func (a *app) directory(ctx context.Context) (*account.Directory, error) {
	if a.cfg.StoreBackend == "memory" {
		a.log.Warn("using in-memory account store; records are lost on exit")
		return memory.NewDirectory(), nil
	}

	if a.cfg.AutoMigrate {
		if err := migrateUp(a.cfg.DatabaseURL, a.log); err != nil {
			return nil, err
		}
	}

	db, err := store.NewDB(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	a.db = db
	a.closers = append(a.closers, db.Close)
	return postgres.NewDirectory(db.Pool)
}

func (a *app) healthChecks() map[string]httpapi.Check {
	checks := map[string]httpapi.Check{}
	if a.db != nil {
		checks["db"] = a.db.Healthy
	}
	if a.redis != nil {
		checks["redis"] = a.redis.Healthy
	}
	return checks
}

func (a *app) limit(l httpmiddleware.Limiter, scope string) gin.HandlerFunc {
	return httpmiddleware.RateLimit(l, scope, a.log)
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
