package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/maxange-developer/master-start2impact/internal/config"
	logpkg "github.com/maxange-developer/master-start2impact/internal/logger"
	"github.com/maxange-developer/master-start2impact/internal/metrics"
	chiTransport "github.com/maxange-developer/master-start2impact/internal/transport/chi"
	openaiTransport "github.com/maxange-developer/master-start2impact/internal/transport/openai"
	"github.com/maxange-developer/master-start2impact/internal/transport/tavily"
	"github.com/maxange-developer/master-start2impact/internal/usecase/classifier"
	"github.com/maxange-developer/master-start2impact/internal/usecase/discovery"
	"github.com/maxange-developer/master-start2impact/internal/usecase/extractor"
	healthuc "github.com/maxange-developer/master-start2impact/internal/usecase/health"
	"github.com/maxange-developer/master-start2impact/internal/usecase/images"
	"github.com/maxange-developer/master-start2impact/internal/usecase/webcontext"
	"github.com/maxange-developer/master-start2impact/internal/version"
)

func main() {
	// Local .env is optional; real deployments export variables directly.
	_ = godotenv.Load()

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting activity discovery API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("model", cfg.OpenAI.Model),
		zap.String("search_depth", cfg.Search.Depth),
	)

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	callTimeout := time.Duration(cfg.Pipeline.CallTimeoutSec) * time.Second
	deadline := time.Duration(cfg.Pipeline.DeadlineSec) * time.Second

	// External providers — composition root
	llm := openaiTransport.NewClient(&openaiTransport.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
		Logger:  logger,
	})
	search := tavily.NewClient(&tavily.Config{
		APIKey:  cfg.Search.APIKey,
		BaseURL: cfg.Search.BaseURL,
		Logger:  logger,
	})

	// Image catalog and resolver
	catalog := images.NewCatalog(cfg.Images.Dir, logger)
	mappings, err := images.LoadMappings(cfg.Images.MappingsFile)
	if err != nil {
		logger.Fatal("Failed to load image mappings", zap.Error(err))
	}
	resolver := images.NewResolver(search, catalog, mappings, images.ResolverConfig{
		PublicBase:         cfg.Images.PublicBase,
		DefaultImage:       cfg.Images.DefaultImage,
		ImageSearchResults: cfg.Images.ImageSearchResults,
		CallTimeout:        callTimeout,
		Logger:             logger,
	})

	// Pipeline stages
	classifierSvc := classifier.New(llm, cfg.OpenAI.ClassifierTemperature, callTimeout, logger)
	retrieverSvc := webcontext.New(search, cfg.Search.Depth, cfg.Search.MaxResults, callTimeout, logger)
	extractorSvc := extractor.New(llm, cfg.OpenAI.ExtractorTemperature, cfg.Pipeline.MaxActivities, callTimeout, logger)

	discoverySvc := discovery.New(
		classifierSvc, retrieverSvc, extractorSvc, resolver,
		cfg.Images.ResolveConcurrency, deadline, logger,
	)

	// Health service
	healthSvc := healthuc.New(llm, catalog)

	// Create chi server
	server := chiTransport.NewServer(discoverySvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
