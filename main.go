package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"asicshop/internal/config"
	"asicshop/internal/events"
	"asicshop/internal/handlers"
	"asicshop/internal/logging"
	"asicshop/internal/middleware"
	"asicshop/internal/repositories"
	"asicshop/internal/seed"
	"asicshop/internal/services"
	"asicshop/internal/session"
	"asicshop/pkg/kafka"
	"asicshop/pkg/rabbitmq"
)

// kafkaBuffer bounds queued order events before checkout blocks on Kafka.
const kafkaBuffer = 256

// backends are the process-wide resources selected by configuration.
type backends struct {
	store     repositories.Store
	registry  session.Registry
	publisher events.Publisher
	closers   []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func main() {
	// --- Configuration ---
	cfg := config.Load()

	zl, err := logging.New(cfg.Development())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Backends ---
	b, err := openBackends(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize backends", zap.Error(err))
	}
	defer b.Close()

	if cfg.SeedProducts {
		if _, err := seed.Load(b.store.Products(), zl); err != nil {
			zl.Fatal("failed to seed catalog", zap.Error(err))
		}
	}

	app := newApp(cfg, b, zl)

	// --- Start HTTP Server ---
	zl.Info("starting server",
		zap.String("addr", cfg.AppPort),
		zap.String("store", cfg.StoreDriver),
		zap.String("sessions", cfg.SessionDriver),
		zap.String("events", cfg.EventsDriver),
	)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			zl.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	zl.Info("shutting down server")

	if err := app.Shutdown(); err != nil {
		zl.Error("error during fiber shutdown", zap.Error(err))
	}
	cancel()

	zl.Info("server gracefully stopped")
}

// newApp builds the Fiber application over b.
func newApp(cfg config.Config, b *backends, zl *zap.Logger) *fiber.App {
	productService := services.NewProductService(b.store.Products())
	cartService := services.NewCartService(b.store, zl)
	orderService := services.NewOrderService(b.store, b.publisher, zl)
	authService := services.NewAuthService(b.store.Users(), b.registry, zl)
	if cfg.CartMergeOnLogin {
		authService.EnableCartMerge(cartService)
	}

	app := fiber.New(fiber.Config{AppName: "asicshop"})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New()) // Request logger

	handlers.NewHealthHandler(b.store).RegisterRoutes(app)

	// --- API Routes ---
	api := app.Group("/api", middleware.Session(b.registry, zl))
	handlers.NewAuthHandler(authService, zl).RegisterRoutes(api)
	handlers.NewProfileHandler(authService, zl).RegisterRoutes(api)
	handlers.NewProductHandler(productService, zl).RegisterRoutes(api)
	handlers.NewCartHandler(cartService, zl).RegisterRoutes(api)
	handlers.NewOrderHandler(orderService, cfg.AdminToken, zl).RegisterRoutes(api)

	return app
}

func openBackends(ctx context.Context, cfg config.Config, zl *zap.Logger) (*backends, error) {
	b := &backends{}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	b.store = store
	b.closers = append(b.closers, func() {
		if err := store.Close(); err != nil {
			zl.Warn("store close failed", zap.Error(err))
		}
	})

	registry, closeRegistry, err := openRegistry(ctx, cfg)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.registry = registry
	b.closers = append(b.closers, closeRegistry)

	publisher, closePublisher, err := openPublisher(ctx, cfg, zl)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.publisher = publisher
	b.closers = append(b.closers, closePublisher)

	return b, nil
}

func openStore(cfg config.Config) (repositories.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return repositories.NewMemoryStore(), nil
	case config.DriverSQLite, config.DriverPostgres:
		db, err := repositories.OpenGorm(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return repositories.NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func openRegistry(ctx context.Context, cfg config.Config) (session.Registry, func(), error) {
	switch cfg.SessionDriver {
	case config.DriverMemory:
		return session.NewMemoryRegistry(), func() {}, nil
	case config.DriverRedis:
		rdb := session.NewRedisClient(cfg.RedisAddr)
		registry := session.NewRedisRegistry(rdb, cfg.SessionTTL)
		if err := registry.Ping(ctx); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return registry, func() { _ = rdb.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown SESSION_DRIVER %q", cfg.SessionDriver)
	}
}

func openPublisher(ctx context.Context, cfg config.Config, zl *zap.Logger) (events.Publisher, func(), error) {
	switch cfg.EventsDriver {
	case config.DriverNone, "":
		return events.NopPublisher{}, func() {}, nil

	case config.DriverRabbitMQ:
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, zl)
		if err != nil {
			return nil, nil, err
		}
		// Consume our own order events and log them.
		handle := events.LogHandler(zl)
		if err := client.Consume(func(msg amqp.Delivery) error { return handle(msg.Body) }); err != nil {
			zl.Warn("failed to start rabbitmq consumer", zap.Error(err))
		}
		return events.NewRabbitPublisher(client), func() {
			if err := client.Close(); err != nil {
				zl.Warn("rabbitmq close failed", zap.Error(err))
			}
		}, nil

	case config.DriverKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, nil, fmt.Errorf("KAFKA_BROKERS is required for EVENTS_DRIVER=kafka")
		}
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, kafkaBuffer, zl)
		producer.Start(ctx)
		return events.NewKafkaPublisher(producer), func() {
			producer.Close()
			producer.WaitClosed()
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown EVENTS_DRIVER %q", cfg.EventsDriver)
	}
}
