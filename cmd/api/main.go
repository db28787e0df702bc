package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"productpraat-backend/config"
	"productpraat-backend/internal/delivery/http/middleware"
	v1 "productpraat-backend/internal/delivery/http/v1"
	"productpraat-backend/internal/domain"
	"productpraat-backend/internal/infrastructure/cache"
	"productpraat-backend/internal/infrastructure/counter"
	postgresrepo "productpraat-backend/internal/repository/postgres"
	"productpraat-backend/internal/usecase"
	"productpraat-backend/pkg/logger"
	"productpraat-backend/pkg/storage"
	"productpraat-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Database
	pgxPool, err := postgresrepo.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Successfully connected to PostgreSQL via pgx")

	// Initialize Repositories
	productRepo := postgresrepo.NewProductRepository(pgxPool)
	articleRepo := postgresrepo.NewArticleRepository(pgxPool)
	affiliateStore := postgresrepo.NewAffiliateStore(pgxPool)

	// Initialize Cache (In-Memory)
	// Default expiration 30m, cleanup every 60m
	memCache := cache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// Optional realtime click counters (Redis). The ledger is the source of
	// truth either way.
	var clickCounter domain.ClickCounter
	if cfg.RedisURL != "" {
		rt, err := counter.NewRealtimeCounter(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, realtime click counters disabled")
		} else {
			defer rt.Close()
			clickCounter = rt
			log.Info().Msg("Realtime click counters enabled")
		}
	}

	// Set up Router
	mux := http.NewServeMux()

	// --- Modules Initialization ---

	// Affiliate Module
	affiliateConfigUC := usecase.NewAffiliateConfigUsecase(affiliateStore)
	trackingUC := usecase.NewTrackingUsecase(affiliateStore, clickCounter)
	affiliateHandler := v1.NewAffiliateHandler(trackingUC, affiliateConfigUC)
	adminAffiliateHandler := v1.NewAdminAffiliateHandler(affiliateConfigUC, trackingUC)

	// Catalog Module
	catalogUC := usecase.NewCatalogUsecase(productRepo, affiliateConfigUC, memCache, cfg)
	catalogHandler := v1.NewCatalogHandler(catalogUC)
	adminCatalogHandler := v1.NewAdminCatalogHandler(catalogUC)

	// Content Module
	contentUC := usecase.NewContentUsecase(articleRepo, memCache, cfg)
	contentHandler := v1.NewContentHandler(contentUC)

	// Admin (Protected)
	adminMiddleware := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.AdminMiddleware(h))
	}

	// --- Storage Module (R2) ---
	// Uploads are optional: without R2 credentials the storefront still runs,
	// it just serves Bol.com-hosted imagery only.
	if cfg.R2AccountID != "" {
		r2Storage, err := storage.NewR2Storage(
			context.Background(),
			cfg.R2AccountID,
			cfg.R2AccessKeyID,
			cfg.R2AccessKeySecret,
			cfg.R2BucketName,
			cfg.R2PublicURL,
			cfg.R2UploadTimeout,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 Storage")
		}
		uploadHandler := v1.NewUploadHandler(r2Storage, cfg.MaxUploadSizeMB)
		mux.Handle("POST /api/v1/admin/upload", adminMiddleware(uploadHandler.UploadFile))
	} else {
		log.Warn().Msg("R2 not configured, upload endpoint disabled")
	}

	// Catalog (Public)
	mux.HandleFunc("GET /api/v1/products", catalogHandler.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{slug}", catalogHandler.GetProductDetails)

	// Content (Public)
	mux.HandleFunc("GET /api/v1/articles", contentHandler.ListArticles)
	mux.HandleFunc("GET /api/v1/articles/{slug}", contentHandler.GetArticle)

	// Affiliate (Public)
	mux.HandleFunc("POST /api/v1/affiliate/click", affiliateHandler.RecordClick)
	mux.HandleFunc("POST /api/v1/affiliate/conversion", affiliateHandler.RecordConversion)
	mux.HandleFunc("GET /api/v1/affiliate/link", affiliateHandler.GenerateLink)
	mux.HandleFunc("GET /api/v1/affiliate/info", affiliateHandler.LinkInfo)

	// Admin Affiliate Management
	mux.Handle("GET /api/v1/admin/affiliate/networks", adminMiddleware(adminAffiliateHandler.GetNetworks))
	mux.Handle("PATCH /api/v1/admin/affiliate/networks/{id}", adminMiddleware(adminAffiliateHandler.UpdateNetwork))
	mux.Handle("GET /api/v1/admin/affiliate/stats/networks", adminMiddleware(adminAffiliateHandler.GetNetworkStats))
	mux.Handle("GET /api/v1/admin/affiliate/stats/totals", adminMiddleware(adminAffiliateHandler.GetTotalStats))
	mux.Handle("GET /api/v1/admin/affiliate/stats/daily", adminMiddleware(adminAffiliateHandler.GetDailyStats))
	mux.Handle("GET /api/v1/admin/affiliate/stats/top-products", adminMiddleware(adminAffiliateHandler.GetTopProducts))
	mux.Handle("GET /api/v1/admin/affiliate/stats/recent-clicks", adminMiddleware(adminAffiliateHandler.GetRecentClicks))
	mux.Handle("GET /api/v1/admin/affiliate/stats/recent-conversions", adminMiddleware(adminAffiliateHandler.GetRecentConversions))
	mux.Handle("DELETE /api/v1/admin/affiliate/tracking", adminMiddleware(adminAffiliateHandler.ClearTrackingData))

	// Admin Product Management
	mux.Handle("GET /api/v1/admin/products", adminMiddleware(adminCatalogHandler.ListProducts))
	mux.Handle("GET /api/v1/admin/products/{id}", adminMiddleware(adminCatalogHandler.GetProductByID))
	mux.Handle("POST /api/v1/admin/products", adminMiddleware(adminCatalogHandler.CreateProduct))
	mux.Handle("PUT /api/v1/admin/products/{id}", adminMiddleware(adminCatalogHandler.UpdateProduct))
	mux.Handle("PATCH /api/v1/admin/products/{id}/status", adminMiddleware(adminCatalogHandler.UpdateProductStatus))
	mux.Handle("DELETE /api/v1/admin/products/{id}", adminMiddleware(adminCatalogHandler.DeleteProduct))

	// Admin Content
	mux.Handle("PUT /api/v1/admin/articles/{slug}", adminMiddleware(contentHandler.UpsertArticle))
	mux.Handle("DELETE /api/v1/admin/articles/{slug}", adminMiddleware(contentHandler.DeleteArticle))

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok", "db": "connected"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	addr := fmt.Sprintf(":%s", cfg.Port)

	// Initialize Rate Limiter with lifecycle management
	// 50 req/s, burst 100, cleanup every minute, TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		50,            // requests per second
		100,           // burst
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	// Apply CORS (with config injection), Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Msgf("Server starting on %s", addr)

	// Wait for interrupt signal via channel
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	pgxPool.Close()

	log.Info().Msg("Server exited properly")
}
