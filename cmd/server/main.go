package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"happy-tails/internal/auth"
	"happy-tails/internal/booking"
	"happy-tails/internal/cart"
	"happy-tails/internal/config"
	"happy-tails/internal/database"
	"happy-tails/internal/events"
	"happy-tails/internal/handlers"
	"happy-tails/internal/logger"
	"happy-tails/internal/middleware"
	"happy-tails/internal/payment"
	"happy-tails/internal/repositories"
	"happy-tails/internal/services"
	"happy-tails/internal/telemetry"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// redisPinger adapts a go-redis client to the health check
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) HealthCheck(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:       cfg.Telemetry.Enabled,
		ServiceName:   cfg.Telemetry.ServiceName,
		Environment:   cfg.Server.Env,
		CollectorAddr: cfg.Telemetry.CollectorAddr,
		SampleRatio:   cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tel.Shutdown(shutdownCtx)
	}()

	db, err := database.NewConnection(ctx, database.DefaultConfig(cfg.Database.DSN()), zlog)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		return err
	}

	checks := map[string]handlers.Pinger{"database": db}

	// Cart persistence
	var cartRepo cart.Repository
	switch cfg.Cart.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		cartRepo = cart.NewRedisRepository(rdb, cfg.Cart.TTL)
		checks["redis"] = redisPinger{client: rdb}
	default:
		cartRepo = cart.NewMemoryRepository()
	}
	cartStore := cart.NewStore(cartRepo)

	gateway, err := payment.NewGateway(payment.Config{
		Gateway:              cfg.Payment.Gateway,
		SimulatorSuccessRate: cfg.Payment.SimulatorSuccessRate,
		SimulatorDelay:       cfg.Payment.SimulatorDelay,
		StripeSecretKey:      cfg.Payment.StripeSecretKey,
		StripePaymentMethod:  cfg.Payment.StripePaymentMethod,
	})
	if err != nil {
		return fmt.Errorf("failed to create payment gateway: %w", err)
	}

	publisher, err := events.NewPublisher(events.KafkaConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    cfg.Kafka.Topic,
		ClientID: cfg.Kafka.ClientID,
	}, zlog)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	defer publisher.Close()

	// Repositories
	productRepo := repositories.NewProductRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)
	bookingRepo := repositories.NewBookingRepository(db.DB)
	orderRepo := repositories.NewOrderRepository(db.DB)
	userRepo := repositories.NewUserRepository(db.DB)
	partnerRepo := repositories.NewPartnerRepository(db.DB)
	statsRepo := repositories.NewStatsRepository(db.DB)

	// Booking sessions
	managerCfg := booking.DefaultManagerConfig()
	managerCfg.Countdown = cfg.Booking.CountdownSeconds
	managerCfg.FeeRate = cfg.Booking.BookingFeeRate
	managerCfg.MaxSessions = cfg.Booking.MaxSessions
	manager := booking.NewManager(managerCfg, zlog.Named("booking"))
	defer manager.Close()

	// Services
	catalogService := services.NewCatalogService(productRepo, cfg.Display.CurrencySymbol)
	eventService := services.NewEventService(eventRepo)
	cartService := services.NewCartService(productRepo, cartStore, services.CartConfig{
		SurchargeRate:          cfg.Cart.SurchargeRate,
		RevalidateStockOnMerge: cfg.Cart.RevalidateStockOnMerge,
	})
	checkoutService := services.NewCheckoutService(cartStore, orderRepo, gateway, publisher,
		cfg.Cart.SurchargeRate, cfg.Payment.Currency, zlog.Named("checkout"))
	bookingService := services.NewBookingService(eventRepo, bookingRepo, manager, gateway, publisher, services.BookingConfig{
		FeeRate:       cfg.Booking.BookingFeeRate,
		Currency:      cfg.Payment.Currency,
		RedirectURL:   cfg.Booking.RedirectURL,
		RedirectDelay: cfg.Booking.RedirectDelay,
	}, zlog.Named("booking"))
	onboardingService := services.NewOnboardingService(partnerRepo)
	adminService := services.NewAdminService(services.AdminRepositories{
		Products: productRepo,
		Events:   eventRepo,
		Bookings: bookingRepo,
		Orders:   orderRepo,
		Users:    userRepo,
		Partners: partnerRepo,
		Stats:    statsRepo,
	})

	// HTTP
	sessions := middleware.NewSessionMiddleware(
		middleware.NewCookieStore(cfg.Session.Secret, cfg.Session.MaxAge, !cfg.IsDevelopment()))
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, "happy-tails")

	signupLimiter := middleware.NewRateLimiter(10, time.Hour)
	go signupLimiter.Cleanup(ctx, time.Minute)

	router := handlers.Router{
		Catalog:       handlers.NewCatalogHandler(catalogService, eventService, zlog),
		Cart:          handlers.NewCartHandler(cartService, checkoutService, sessions, zlog),
		Booking:       handlers.NewBookingHandler(bookingService, sessions, zlog),
		Onboarding:    handlers.NewOnboardingHandler(onboardingService, zlog),
		Admin:         handlers.NewAdminHandler(adminService, zlog.Named("admin")),
		Health:        handlers.NewHealthHandler(checks, zlog),
		Auth:          middleware.NewAuthMiddleware(tokens, zlog),
		CORS:          middleware.DefaultCORSConfig(cfg.Server.AllowedOrigins),
		SignupLimiter: signupLimiter,
		Logger:        zlog.Named("http"),
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Server.Env),
			zap.String("cart_backend", cfg.Cart.Backend),
			zap.String("payment_gateway", gateway.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	zlog.Info("server exited")
	return nil
}
