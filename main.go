package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotel-admin/config"
	"hotel-admin/controllers"
	"hotel-admin/routes"
	"hotel-admin/services"
	"hotel-admin/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Fatal("❌ Database connect failed", zap.Error(err))
	}
	if err := config.SeedDatabase(db, cfg); err != nil {
		logger.Fatal("❌ Seeding failed", zap.Error(err))
	}
	logger.Info("✅ Database connection established and migrations applied", zap.String("db", cfg.DB.Name))

	// Room list cache (optional)
	var roomCache services.RoomCache = services.NoopRoomCache{}
	if cfg.Redis.Enabled() {
		client, err := services.NewRedisClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("⚠️  Redis unavailable; room cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			defer client.Close()
			roomCache = services.NewRedisRoomCache(client, cfg.Redis.TTL, logger)
			logger.Info("✅ Redis room cache enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	mailer := utils.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.FromName, logger)
	if !mailer.Configured() {
		logger.Warn("⚠️  SMTP not configured; guest notifications are logged only")
	}

	// Initialize services
	pricing := services.NewPricingEngine(cfg.Pricing.AmenitiesPerNight, cfg.Pricing.MinorUnitDigits)
	inventory := services.NewInventoryLedger(db)
	bookingService := services.NewBookingService(db, pricing, inventory, services.NewMailDispatcher(mailer), logger, cfg.StrictTransitions)
	roomService := services.NewRoomTypeService(db, roomCache, services.NewImageStore(cfg.UploadDir, "rooms"), logger)
	reportService := services.NewReportService(db, cfg.Location)
	authService := services.NewAuthService(db, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userService := services.NewUserService(db)
	settingsService := services.NewSettingsService(db)

	// Build router
	router := routes.SetupRouter(cfg, logger, authService, routes.Controllers{
		Auth:      controllers.NewAuthController(authService, logger),
		Booking:   controllers.NewBookingController(bookingService, logger),
		Room:      controllers.NewRoomController(roomService, inventory, logger, cfg.HTTP.MaxUploadBytes),
		User:      controllers.NewUserController(userService, reportService, logger),
		Dashboard: controllers.NewDashboardController(reportService, logger),
		Settings:  controllers.NewSettingsController(settingsService, logger),
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("🚀 Server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("❌ ListenAndServe()", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("✅ Server stopped gracefully")
}
