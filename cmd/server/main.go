package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/joho/godotenv"
	"github.com/rizanep/waqthecombackend1/internal/infrastructure/email"
	"github.com/rizanep/waqthecombackend1/internal/infrastructure/payment"
	"github.com/rizanep/waqthecombackend1/internal/notifier"
	"github.com/rizanep/waqthecombackend1/internal/repository"
	"github.com/rizanep/waqthecombackend1/internal/service"
	transporthttp "github.com/rizanep/waqthecombackend1/internal/transport/http"
	"github.com/rizanep/waqthecombackend1/internal/transport/http/handler"
	transportkafka "github.com/rizanep/waqthecombackend1/internal/transport/kafka"
	"github.com/rizanep/waqthecombackend1/internal/transport/ws"
	"github.com/rizanep/waqthecombackend1/pkg/config"
	"github.com/rizanep/waqthecombackend1/pkg/db"
	"github.com/rizanep/waqthecombackend1/pkg/kafka"
	"github.com/rizanep/waqthecombackend1/pkg/utils"
	"github.com/rizanep/waqthecombackend1/pkg/validator"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not found: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := utils.InitTracer(ctx, "ecom-backend")
	if err != nil {
		log.Fatalf("Failed to init trace: %v", err)
	}

	logger, err := config.NewLogger(config.LoggerConfig{
		Level: "info",
		Env:   cfg.Env,
	})
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	pool, err := db.NewPostgresDB(cfg.Postgres.URL)
	if err != nil {
		log.Fatalf("Error connecting to Postgres: %v", err)
	}
	defer pool.Close()

	redisClient, err := db.NewRedisClient(cfg.Redis.Addr)
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	producer, err := kafka.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		log.Fatalf("Error creating Kafka producer: %v", err)
	}
	defer producer.Close()

	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	notificationRepo := repository.NewNotificationRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	categoryRepo := repository.NewCategoryRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	wishlistRepo := repository.NewWishlistRepository(pool, logger)
	tokenStore := repository.NewTokenStore(redisClient, logger)

	hub := notifier.NewHub(logger)
	dispatcher := notifier.NewDispatcher(cfg.Notifications.Workers, cfg.Notifications.QueueSize, logger)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	pruner := notifier.NewPruner(notificationRepo, cfg.Notifications.Retention, cfg.Notifications.PruneInterval, logger)
	go pruner.Start(ctx)

	sender := email.NewSMTPSender(logger)

	notificationSvc := service.NewNotificationService(notificationRepo, hub, dispatcher, logger)
	orderSvc := service.NewOrderService(
		pool,
		orderRepo,
		productRepo,
		userRepo,
		notificationSvc,
		dispatcher,
		producer,
		cfg.Kafka.Topic,
		logger,
	)
	productSvc := service.NewCachedProductService(
		service.NewProductService(productRepo, logger),
		redisClient,
	)
	authSvc := service.NewAuthService(userRepo, tokenStore, sender, validator.NewValidator(), logger)
	cartSvc := service.NewCartService(cartRepo, productRepo, notificationSvc, logger)
	gateway := payment.NewGateway(payment.Config{
		KeyID:     cfg.Payment.KeyID,
		KeySecret: cfg.Payment.KeySecret,
		BaseURL:   cfg.Payment.BaseURL,
	}, logger)

	consumer := transportkafka.NewConsumer(sender, cfg.Kafka.Topic, cfg.Kafka.GroupID, logger)
	go consumer.Start(ctx, cfg.Kafka.Brokers)

	app := fiber.New(fiber.Config{
		ErrorHandler: transporthttp.NewErrorHandler(logger),
	})

	app.Use(otelfiber.Middleware())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Limiter.Max,
		Expiration: cfg.Limiter.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Try again later.",
			})
		},
	}))

	handlers := &transporthttp.Handlers{
		Auth:         handler.NewAuthHandler(authSvc, userRepo, logger),
		Product:      handler.NewProductHandler(productSvc, logger),
		Category:     handler.NewCategoryHandler(categoryRepo, logger),
		Cart:         handler.NewCartHandler(cartSvc, logger),
		Wishlist:     handler.NewWishlistHandler(wishlistRepo, logger),
		Order:        handler.NewOrderHandler(orderSvc, logger),
		Notification: handler.NewNotificationHandler(notificationSvc, logger),
		Payment:      handler.NewPaymentHandler(gateway, logger),
	}

	transporthttp.RegisterRoutes(app, handlers, ws.NewNotificationHandler(hub, logger))

	go func() {
		log.Println("HTTP Service listening on: " + cfg.HTTP.Port)
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			log.Fatalf("Error listening on HTTP port %v: %v\n", cfg.HTTP.Port, err)
		}
	}()

	logger.Info("E-commerce backend started! 🔨")

	<-ctx.Done()

	log.Println("Shutting down gracefully...")
	shutdownContext, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownContext); err != nil {
		log.Printf("Error shutting down HTTP app: %v\n", err)
	} else {
		log.Println("HTTP App stopped gracefully")
	}

	if err := tp.Shutdown(shutdownContext); err != nil {
		log.Printf("Error shutting down telemetry: %v\n", err)
	} else {
		log.Println("Telemetry stopped correctly")
	}
}
