// Package adminapi собирает HTTP API администрирования магазина.
package adminapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/shop-admin/internal/cache"
	"github.com/magabrotheeeer/shop-admin/internal/config"
	"github.com/magabrotheeeer/shop-admin/internal/lib/imagestore"
	"github.com/magabrotheeeer/shop-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/shop-admin/internal/lib/metrics"
	"github.com/magabrotheeeer/shop-admin/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/shop-admin/internal/lib/session"
	"github.com/magabrotheeeer/shop-admin/internal/lib/sl"
	"github.com/magabrotheeeer/shop-admin/internal/migrations"
	authservice "github.com/magabrotheeeer/shop-admin/internal/services/auth"
	productservice "github.com/magabrotheeeer/shop-admin/internal/services/products"
	userservice "github.com/magabrotheeeer/shop-admin/internal/services/users"
	"github.com/magabrotheeeer/shop-admin/internal/storage"
	"github.com/magabrotheeeer/shop-admin/internal/storage/seed"
)

// ErrInsecureSecret — в production задан секрет JWT по умолчанию.
var ErrInsecureSecret = errors.New("JWT_SECRET must be changed from the default in production")

const shutdownTimeout = 15 * time.Second

// App держит HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New подключает хранилища, брокер и провайдер картинок и собирает роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.adminapi.New"

	if cfg.InsecureSecret() {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("%s: %w", op, ErrInsecureSecret)
		}
		logger.Warn("using default JWT secret, set JWT_SECRET before deploying")
	}

	app := &App{logger: logger}
	ok := false
	defer func() {
		if !ok {
			app.close()
		}
	}()

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app.db = db
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users, err := seed.New(db, cfg.AdminSeed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app.cache = cacheRedis

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app.conn = conn
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.CredentialsQueues())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app.ch = ch

	uploader, err := imagestore.New(ctx, cfg.Upload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:    logger,
		Auth:      authservice.NewAuthService(users, jwtMaker, m),
		Users:     userservice.NewService(users, rabbitmq.NewNotifier(ch), logger),
		Products:  productservice.NewService(db, cacheRedis, uploader, cfg.CacheTTL, logger),
		JWT:       jwtMaker,
		Session:   session.New(cfg),
		Metrics:   m,
		Gatherer:  reg,
		MaxUpload: cfg.MaxBytes,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	ok = true
	return app, nil
}

// Run обслуживает запросы до отмены ctx, затем останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close storage", sl.Err(err))
		}
	}
}
