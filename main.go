package main

import (
	stdlog "log"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/stokdash/src/config"
	"github.com/username/stokdash/src/handlers"
	"github.com/username/stokdash/src/logger"
	"github.com/username/stokdash/src/metrics"
	"github.com/username/stokdash/src/processors"
	"github.com/username/stokdash/src/services"
	"golang.org/x/time/rate"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Stokdash backend server starting...")

	logger.L.Info("Initializing report cache...")
	reportCache := cache.New(config.Cfg.ReportCacheExpiration, config.Cfg.ReportCacheCleanup)
	metrics.Init(reportCache)
	logger.L.Info("Report cache initialized.", "expiration", config.Cfg.ReportCacheExpiration, "cleanup", config.Cfg.ReportCacheCleanup)

	logger.L.Info("Initializing services and handlers...")
	recordProcessor := processors.NewRecordProcessor()
	uploadService := services.NewUploadService(recordProcessor, reportCache)

	uploadHandler := handlers.NewUploadHandler(uploadService)
	dashboardHandler := handlers.NewDashboardHandler(uploadService)

	logger.L.Info("Configuring routes...")
	router := handlers.NewRouter(uploadHandler, dashboardHandler)

	logger.L.Info("Applying global middleware...")
	limiter := rate.NewLimiter(rate.Every(config.Cfg.RateLimitInterval), config.Cfg.RateLimitBurst)
	finalHandler := handlers.CORSMiddleware(config.Cfg.CORSAllowedOrigins)(handlers.RateLimitMiddleware(limiter)(router))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
