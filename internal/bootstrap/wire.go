package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/users"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/audit"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/db/migrations"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/fake"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/redis"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/logger"
	http_handlers "github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/handlers"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB   func(addr string, debug bool) (*sql.DB, error)
	Migrate func(ctx context.Context, db *sql.DB) error

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(rabbitURL, exchange string) (Publisher, error)
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

// Publisher is the event sink plus its lifecycle.
type Publisher interface {
	users.EventPublisher
	Ping(ctx context.Context) error
	Close() error
}

// userStore is what both the postgres and memory repos provide.
type userStore interface {
	users.UserRepo
	Ping(ctx context.Context) error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()
	fail := func(err error) (*http.Server, func(), error) {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	// 1) store: postgres, or memory in dev without DB_ADDR
	var store userStore
	if cfg.DBAddr != "" {
		db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
		if err != nil {
			return fail(err)
		}
		cleanupFns = append(cleanupFns, func() { _ = db.Close() })

		if deps.Migrate != nil {
			if err := deps.Migrate(context.Background(), db); err != nil {
				return fail(err)
			}
		}
		store = postgres.NewUserRepo(db)
	} else {
		logger.Logger.Warn().Msg("DB_ADDR empty; using in-memory user store")
		mem := memory.NewUserRepo()
		memory.SeedUsers(context.Background(), mem, hasher)
		store = mem
	}

	checks := map[string]http_handlers.Pinger{"db": store}

	// 2) redis (best-effort)
	var redisCli *redis.Client
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Ping(ctx)
		cancel()

		if err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-process denylist and limiter")
			_ = c.Close()
		} else if rc, ok := c.(*redis.Client); ok {
			logger.Logger.Info().Str("addr", rc.Addr()).Msg("redis connected")
			redisCli = rc
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			checks["redis"] = rc
		} else {
			_ = c.Close()
		}
	}

	var denylist auth.TokenDenylist = memory.NewTokenDenylist()
	if redisCli != nil {
		denylist = redis.NewTokenDenylist(redisCli)
	}

	// 3) publisher
	var pub users.EventPublisher = memory.NewLogPublisher()
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			if cfg.Env != "dev" {
				return fail(err)
			}
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; events will only be logged")
		} else {
			pub = p
			cleanupFns = append(cleanupFns, func() { _ = p.Close() })
			checks["rabbitmq"] = p
		}
	}

	// 4) services
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	auditLog := audit.New(logger.Logger).OnRecord(countAudit)
	userSvc := users.NewService(store, hasher, fake.New(0), pub).WithAudit(auditLog.Record)
	authSvc := auth.NewService(store, hasher, signer, denylist, auth.Config{
		AccessTTL: cfg.AccessTokenTTL,
	}).WithAudit(auditLog.Record)

	// 5) handlers + middleware
	loginRL := middleware.FixedWindowConfig{
		RouteKey: "auth.login",
		Limit:    cfg.LoginRateLimit,
		Window:   cfg.LoginRateWindow,
	}
	var rlLogin func(http.Handler) http.Handler
	if redisCli != nil {
		rlLogin = middleware.RateLimitFixedWindow(redis.NewFixedWindowLimiter(redisCli), loginRL, response.WriteError)
	} else {
		rlLogin = middleware.RateLimitByIP(loginRL, response.WriteError)
	}

	// 6) router
	mux, err := router.New(router.Deps{
		Health:          http_handlers.NewHealthHandler(checks),
		Users:           http_handlers.NewUsersHandler(userSvc, authSvc),
		Auth:            http_handlers.NewAuthHandler(authSvc),
		AuthMW:          middleware.Auth(authSvc, response.WriteError),
		RLLogin:         rlLogin,
		Metrics:         promhttp.Handler(),
		EnableFakeUsers: cfg.FakeUsersEnabled(),
	})
	if err != nil {
		return fail(err)
	}

	// 7) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

// countAudit feeds the business counters from audit events.
func countAudit(action string, fields map[string]string) {
	switch action {
	case "auth.login_success":
		middleware.LoginAttemptsTotal.WithLabelValues("success").Inc()
	case "auth.login_failed":
		middleware.LoginAttemptsTotal.WithLabelValues(fields["reason"]).Inc()
	case "user.created", "user.updated", "user.deleted", "user.fake_created":
		middleware.UserMutationsTotal.WithLabelValues(strings.TrimPrefix(action, "user.")).Inc()
	case "user.event_publish_failed":
		middleware.EventPublishFailuresTotal.WithLabelValues(fields["event"]).Inc()
	}
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		Migrate: func(ctx context.Context, db *sql.DB) error {
			runner, err := migrations.New(db, logger.Logger)
			if err != nil {
				return err
			}
			return runner.Up(ctx)
		},
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
