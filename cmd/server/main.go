package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/labcare/booking-gateway/internal/config"
	"github.com/labcare/booking-gateway/internal/database"
	"github.com/labcare/booking-gateway/internal/handler"
	"github.com/labcare/booking-gateway/internal/logger"
	"github.com/labcare/booking-gateway/internal/middleware"
	"github.com/labcare/booking-gateway/internal/queue"
	"github.com/labcare/booking-gateway/internal/repository"
	"github.com/labcare/booking-gateway/internal/router"
	queue_publisher "github.com/labcare/booking-gateway/internal/service"
	"github.com/labcare/booking-gateway/internal/store"
	"github.com/labcare/booking-gateway/internal/upstream"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init()
	zlog := logger.Get()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		// Draft sessions and carts live in Redis; without it there is no
		// booking flow to serve.
		log.Fatal("redis connection failed")
	}
	defer rdb.Close()

	drafts := store.NewRedisDraftStore(rdb, cfg.DraftTTL, cfg.SubmitLockTTL)
	carts := store.NewRedisCartStore(rdb, cfg.CartTTL)
	lab := upstream.NewClient(cfg.UpstreamBaseURL, zlog.Named("upstream"))
	bookings := repository.NewBookingRepo(db)

	wizard := handler.NewWizardHandler(drafts, carts, lab, lab, bookings, queue_publisher.PublishBookingConfirmed, zlog.Named("wizard"))
	wizard.UploadDir = cfg.UploadDir

	cart := handler.NewCartHandler(carts, zlog.Named("cart"))
	catalog := handler.NewCatalogHandler(lab, zlog.Named("catalog"))
	hist := handler.NewBookingHistoryHandler(bookings, zlog.Named("history"))

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterBooking(e, wizard, cart, hist, cfg.JWTSecret)
	router.RegisterCatalog(e, catalog, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// The consumer appends confirmed bookings to the audit log.  It
	// reconnects on its own, so a broker outage only delays log lines.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			zlog.Warn("booking consumer stopped", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	zlog.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
