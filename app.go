package main

import (
	"context"
	"fmt"
	"time"

	"etalase/internal/authprovider"
	"etalase/internal/config"
	"etalase/internal/flagstore"
	"etalase/internal/gateway"
	"etalase/internal/handlers"
	"etalase/internal/imageurl"
	"etalase/internal/metrics"
	"etalase/internal/middleware"
	"etalase/internal/repositories"
	"etalase/internal/services"
	"etalase/internal/session"
	"etalase/internal/validation"
	"etalase/internal/viewmodels"
	"etalase/pkg/rabbitmq"

	firebase "firebase.google.com/go/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// App is the wired storefront server.
type App struct {
	Fiber    *fiber.App
	Sessions *session.Store

	logger  *zap.Logger
	closers []func() error
}

// Close releases backend connections in reverse order of creation.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type stores struct {
	profiles     repositories.ProfileRepository
	products     repositories.ProductRepository
	reviews      repositories.ReviewRepository
	userProfiles repositories.UserProfileRepository
	users        repositories.UserRepository
}

// NewApp wires repositories, providers, services and routes according to cfg.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger}

	st, err := a.openStores(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	provider, tokens, err := newProvider(ctx, cfg, st, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	flags, err := a.openFlagStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	var publisher services.EventPublisher
	eventsStatus := "disabled"
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, events will not be published", zap.Error(err))
			eventsStatus = "unavailable"
		} else {
			a.closers = append(a.closers, mqClient.Close)
			publisher = mqClient
			eventsStatus = "connected"
			if err := mqClient.ConsumeEvents(rabbitmq.LogEvents(logger)); err != nil {
				logger.Warn("failed to start event consumer", zap.Error(err))
			}
		}
	}

	images := imageurl.NewRewriter(cfg.ImageHost)
	mapper := viewmodels.NewMapper(images)
	validator := validation.New()
	a.Sessions = session.NewStore()

	gw := gateway.New(st.profiles, st.products, st.reviews, images, m, logger)
	facade := session.NewFacade(a.Sessions, provider, st.userProfiles, flags, validator, m, logger)
	profileService := services.NewProfileService(st.profiles, a.Sessions, validator, publisher, m, logger)
	productService := services.NewProductService(st.products, st.profiles, a.Sessions, validator, publisher, m, logger)
	reviewService := services.NewReviewService(st.reviews, st.profiles, gw, a.Sessions, validator, publisher, m, logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	apiV1 := app.Group("/api/v1")
	members := middleware.MembersOnly(a.Sessions, tokens)
	handlers.NewAuthHandler(facade, members, logger).RegisterRoutes(apiV1)
	handlers.NewStoreHandler(gw, mapper, a.Sessions, productService, reviewService, members, logger).RegisterRoutes(apiV1)
	handlers.NewProfileHandler(profileService, mapper, members, logger).RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"time":    time.Now().Format(time.RFC3339),
			"backend": cfg.Backend,
			"events":  eventsStatus,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	a.Fiber = app
	return a, nil
}

func (a *App) openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	switch cfg.Backend {
	case config.BackendFirestore:
		var opts []option.ClientOption
		if cfg.FirebaseCredentials != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentials))
		}
		fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
		if err != nil {
			return stores{}, fmt.Errorf("failed to initialize firebase app: %w", err)
		}
		client, err := fbApp.Firestore(ctx)
		if err != nil {
			return stores{}, fmt.Errorf("failed to create firestore client: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		a.logger.Info("using firestore backend", zap.String("project_id", cfg.FirebaseProjectID))
		return stores{
			profiles:     repositories.NewFirestoreProfileRepository(client),
			products:     repositories.NewFirestoreProductRepository(client),
			reviews:      repositories.NewFirestoreReviewRepository(client),
			userProfiles: repositories.NewFirestoreUserProfileRepository(client),
		}, nil

	case config.BackendPostgres, config.BackendSQLite:
		dialector := postgres.Open(cfg.DatabaseDSN)
		if cfg.Backend == config.BackendSQLite {
			dialector = sqlite.Open(cfg.DatabaseDSN)
		}
		db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
		if err != nil {
			return stores{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := repositories.AutoMigrate(db); err != nil {
			return stores{}, fmt.Errorf("failed to auto-migrate database: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}
		a.logger.Info("using relational backend", zap.String("backend", cfg.Backend))
		return stores{
			profiles:     repositories.NewGORMProfileRepository(db),
			products:     repositories.NewGORMProductRepository(db),
			reviews:      repositories.NewGORMReviewRepository(db),
			userProfiles: repositories.NewGORMUserProfileRepository(db),
			users:        repositories.NewGORMUserRepository(db),
		}, nil

	default:
		a.logger.Info("using in-memory backend")
		return stores{
			profiles:     repositories.NewMockProfileRepository(),
			products:     repositories.NewMockProductRepository(),
			reviews:      repositories.NewMockReviewRepository(),
			userProfiles: repositories.NewMockUserProfileRepository(),
			users:        repositories.NewMockUserRepository(),
		}, nil
	}
}

// newProvider returns the auth provider and, for local tokens, the validator
// the members guard checks bearer tokens with. Managed provider tokens are
// matched against the session instead.
func newProvider(ctx context.Context, cfg *config.Config, st stores, logger *zap.Logger) (session.Provider, middleware.TokenValidator, error) {
	if cfg.AuthProvider == config.AuthIdentityToolkit {
		provider, err := authprovider.NewIdentityToolkit(ctx, cfg.FirebaseAPIKey, logger)
		if err != nil {
			return nil, nil, err
		}
		return provider, nil, nil
	}
	if st.users == nil {
		return nil, nil, fmt.Errorf("the local auth provider is not available on the %s backend", cfg.Backend)
	}
	local := authprovider.NewLocal(st.users, cfg.JWTSecret, logger)
	return local, local, nil
}

func (a *App) openFlagStore(ctx context.Context, cfg *config.Config) (flagstore.Store, error) {
	switch cfg.FlagStore {
	case config.FlagStoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		return flagstore.NewRedisStore(client), nil
	case config.FlagStoreMemory:
		return flagstore.NewMemoryStore(), nil
	default:
		return flagstore.NewFileStore(cfg.FlagFilePath), nil
	}
}
