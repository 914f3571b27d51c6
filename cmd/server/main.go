package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"shopfront/internal/config"
	"shopfront/internal/db"
	"shopfront/internal/events"
	"shopfront/internal/httpserver"
	"shopfront/internal/logging"
	authmw "shopfront/internal/middleware/auth"
	loggingmw "shopfront/internal/middleware/logging"
	"shopfront/internal/repo"
	"shopfront/internal/search"
	"shopfront/internal/service"
	"shopfront/internal/upload"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", "shopfront")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	var assets upload.AssetHost
	if cfg.CloudinaryURL != "" {
		host, err := upload.NewCloudinaryHost(cfg.CloudinaryURL)
		if err != nil {
			log.Fatalf("cloudinary: %v", err)
		}
		assets = host
	} else {
		logger.Warn("CLOUDINARY_URL not set, image uploads disabled")
	}

	var idx *search.Index
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			logger.Warn("elasticsearch unavailable, search disabled", "error", err)
		} else {
			idx = &search.Index{ES: esClient, Name: search.ProductIndex}
		}
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	store := &repo.GormRepo{DB: gormDB}
	authSvc := &service.AuthService{Repo: store, Producer: producer, JWTSecret: cfg.JWTSecret}
	productSvc := &service.ProductService{Repo: store, Assets: assets, Producer: producer, Search: idx}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	renderer, err := httpserver.NewRenderer("web/templates/*.html")
	if err != nil {
		log.Fatalf("templates: %v", err)
	}
	e.Renderer = renderer

	httpserver.Register(e, &httpserver.Deps{
		Auth:      &httpserver.AuthHTTP{Svc: authSvc, SecureCookie: cfg.IsProduction()},
		Product:   &httpserver.ProductHTTP{Svc: productSvc},
		Views:     &httpserver.ViewHTTP{Svc: productSvc},
		Health:    &httpserver.HealthHTTP{DB: gormDB, Env: cfg.AppEnv},
		AuthMW:    &authmw.Middleware{Secret: cfg.JWTSecret},
		StaticDir: "web/static",
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("shopfront listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("shopfront stopped")
}
