package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kdduha/caption-generator/backend/internal/config"
	"github.com/kdduha/caption-generator/backend/internal/fallback"
	"github.com/kdduha/caption-generator/backend/internal/handler"
	"github.com/kdduha/caption-generator/backend/internal/imaging"
	"github.com/kdduha/caption-generator/backend/internal/metrics"
	"github.com/kdduha/caption-generator/backend/internal/ollama"
	"github.com/kdduha/caption-generator/backend/internal/service"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/kdduha/caption-generator/backend/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Caption Generator API
// @version 1.0
// @description Social media caption generation backed by a local streaming model with a hosted fallback.
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.Default()
	if !cfg.OpenAI.Enabled() {
		logger.Println("OPENAI_API_KEY is not set, hosted fallback is unavailable")
	}

	captionService := service.NewCaptionService(
		logger,
		imaging.Normalize,
		ollama.NewClient(logger, cfg.Ollama, cfg.Caption),
		fallback.NewClient(
			logger,
			openai.NewClient(
				option.WithAPIKey(cfg.OpenAI.APIKey),
				option.WithBaseURL(cfg.OpenAI.BaseURL),
			), cfg.OpenAI),
	)

	c := handler.NewCaptionHandler(captionService, cfg.Server.MaxUploadBytes)

	r := chi.NewRouter()
	r.Use([]func(http.Handler) http.Handler{
		middleware.Logger,
		middleware.Recoverer,
		middleware.Throttle(cfg.Server.ThrottleLimit),
		middleware.Timeout(cfg.Server.Timeout),
		metrics.Middleware,
	}...)

	r.Post("/api/generate", c.Generate)
	r.Get("/api/holidays", c.Holidays)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Printf("server started :%s\n", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Println("server stopped")
}
