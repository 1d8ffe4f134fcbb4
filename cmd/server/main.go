package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/autostrada/auction-api/internal/config"
	"github.com/autostrada/auction-api/internal/database"
	"github.com/autostrada/auction-api/internal/handler"
	"github.com/autostrada/auction-api/internal/lifecycle"
	"github.com/autostrada/auction-api/internal/live"
	appmw "github.com/autostrada/auction-api/internal/middleware"
	"github.com/autostrada/auction-api/internal/queue"
	"github.com/autostrada/auction-api/internal/repository"
	"github.com/autostrada/auction-api/internal/router"
	"github.com/autostrada/auction-api/internal/utils"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		utils.Fatal("database connection failed", map[string]any{"error": err.Error()})
	}
	defer db.Close()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		utils.Fatal("upload directory unavailable", map[string]any{"dir": cfg.UploadDir, "error": err.Error()})
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		utils.Warn("redis unavailable, caching and rate limiting disabled", nil)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	auctions := repository.NewAuctionRepo(db)
	bids := repository.NewBidRepo(db)
	images := repository.NewImageRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	notifications := repository.NewNotificationRepo(db)
	analytics := repository.NewAnalyticsRepo(db)

	hub := live.NewHub()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background workers: the broker consumer for outbid notifications
	// and the sweeper driving time-based lifecycle transitions.
	go queue.NewConsumer(bids, notifications).Start()
	go lifecycle.NewSweeper(auctions, bids, notifications, hub, cfg.SweepInterval).Run(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// Uploaded vehicle photos are served as static files.
	e.Static("/uploads", cfg.UploadDir)

	cache := appmw.NewRedisCache(config.LoadCacheConfig(), rdb)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicAuctionHandler(auctions, bids, images, users)
	liveH := handler.NewLiveStreamHandler(auctions, hub)
	bidH := handler.NewBidHandler(auctions, bids, users, hub)
	sellerH := handler.NewSellerAuctionHandler(auctions)
	imageH := handler.NewImageHandler(auctions, images, cfg.UploadDir)
	adminAuctionH := handler.NewAdminAuctionHandler(auctions, notifications)
	adminUserH := handler.NewAdminUserHandler(users, analytics)
	profileH := handler.NewProfileHandler(users, favorites, notifications, auctions)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, liveH, cache)
	router.RegisterBidding(e, bidH, cfg.JWTSecret)
	router.RegisterSeller(e, sellerH, imageH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminAuctionH, adminUserH, cfg.JWTSecret)
	router.RegisterProfile(e, profileH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	utils.Info("server starting", map[string]any{"addr": addr, "env": cfg.Env})

	go func() {
		<-ctx.Done()
		utils.Info("shutting down", nil)
		_ = e.Shutdown(context.Background())
	}()

	if err := e.Start(addr); err != nil {
		utils.Info("server stopped", map[string]any{"reason": err.Error()})
	}
}
