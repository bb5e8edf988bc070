package app

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"relax_backend/database"
	"relax_backend/internal/cache"
	"relax_backend/internal/config"
	"relax_backend/internal/email"
	"relax_backend/internal/handlers"
	"relax_backend/internal/logger"
	"relax_backend/internal/middleware"
	"relax_backend/internal/repositories"
	"relax_backend/internal/routes"
	"relax_backend/internal/services"
	"relax_backend/internal/services/qr"
	"relax_backend/internal/services/vip"
	"relax_backend/internal/validator"
	"relax_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	logger.Info("database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB); err != nil {
		logger.Fatal("failed to seed first admin user", "error", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		// Кеш опционален: без redis работаем напрямую из БД
		logger.Warn("redis unavailable, boosted cache disabled", "error", err)
		redisClient = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router, vipWorker := setupRouter(cfg, gormDB, redisClient)

	go vipWorker.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "address", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func setupRouter(cfg *config.Config, gormDB *gorm.DB, redisClient *redis.Client) (*gin.Engine, *workers.VIPWorker) {
	// Репозитории
	userRepo := repositories.NewUserRepository(gormDB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(gormDB)
	directoryRepo := repositories.NewDirectoryRepository(gormDB)
	vipRepo := repositories.NewVIPRepository(gormDB)
	reviewRepo := repositories.NewReviewRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	// Инфраструктура
	mailSender := email.NewSMTPSender(cfg)
	qrGenerator := qr.NewPaymentGenerator(qr.Config{
		MerchantID: cfg.Payments.QRMerchantID,
		ServiceURL: cfg.Payments.QRServiceURL,
	})
	boostedCache := cache.NewBoostedCache(redisClient)

	// Сервисы
	notificationService := services.NewNotificationService(notificationRepo, userRepo, mailSender)
	authService := services.NewAuthService(userRepo, refreshTokenRepo)
	reviewService := services.NewReviewService(reviewRepo, directoryRepo)

	vipService := vip.NewService(
		vipRepo,
		vip.NewPricing(cfg.Payments.DefaultCurrency),
		vip.NewAccess(directoryRepo),
		vip.NewLedger(vipRepo, qrGenerator),
		vip.NewStateMachine(vipRepo),
		notificationService,
		boostedCache,
	)
	directoryService := services.NewDirectoryService(directoryRepo, vipService)

	// Хендлеры
	v := validator.New()
	base := handlers.NewBaseHandler(v)
	appHandlers := &routes.AppHandlers{
		Auth:         handlers.NewAuthHandler(base, authService),
		Directory:    handlers.NewDirectoryHandler(base, directoryService),
		Review:       handlers.NewReviewHandler(base, reviewService),
		VIP:          handlers.NewVIPHandler(base, vipService),
		Notification: handlers.NewNotificationHandler(base, notificationService),
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	routes.RegisterRoutes(router, appHandlers)

	vipWorker := workers.NewVIPWorker(vipRepo, notificationService)

	return router, vipWorker
}
