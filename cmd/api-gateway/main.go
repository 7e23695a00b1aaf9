package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/modul-ajar-api/api/swagger"
	"github.com/noah-isme/modul-ajar-api/internal/handler"
	"github.com/noah-isme/modul-ajar-api/internal/llm"
	"github.com/noah-isme/modul-ajar-api/internal/middleware"
	"github.com/noah-isme/modul-ajar-api/internal/repository"
	"github.com/noah-isme/modul-ajar-api/internal/service"
	"github.com/noah-isme/modul-ajar-api/pkg/cache"
	"github.com/noah-isme/modul-ajar-api/pkg/config"
	"github.com/noah-isme/modul-ajar-api/pkg/database"
	"github.com/noah-isme/modul-ajar-api/pkg/export"
	"github.com/noah-isme/modul-ajar-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/modul-ajar-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/modul-ajar-api/pkg/middleware/requestid"
	"github.com/noah-isme/modul-ajar-api/pkg/storage"
)

// @title Modul Ajar API
// @version 1.0.0
// @description Lesson plan (Modul Ajar) drafting and AI generation service
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()
	metricsHandler := handler.NewMetricsHandler(metrics)

	store, closeStore, err := openDraftStore(ctx, cfg, metricsHandler)
	if err != nil {
		return err
	}
	defer closeStore()

	generator, err := openGenerator(ctx, cfg)
	if err != nil {
		return err
	}

	drafts := service.NewDraftService(store, cfg.Drafts.KeyPrefix, logr, metrics)
	registry, err := service.NewWorkspaceRegistry(cfg.Drafts.WorkspaceCapacity, drafts, service.WorkspaceOptions{
		SaveDelay: cfg.Drafts.Debounce,
		Logger:    logr,
	}, metrics, logr)
	if err != nil {
		return fmt.Errorf("init workspace registry: %w", err)
	}
	defer registry.Close()

	sessions := service.NewSessionService(service.SessionConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
		Issuer: cfg.Session.Issuer,
	}, logr)

	generation := service.NewGenerationService(generator, service.GenerationConfig{
		Model:          cfg.LLM.ModuleModel,
		ThinkingBudget: cfg.LLM.ThinkingBudget,
		Workers:        cfg.Generation.Workers,
		BufferSize:     cfg.Generation.BufferSize,
	}, logr, metrics)
	generation.Start(ctx)
	defer generation.Stop()

	suggestions := service.NewSuggestionService(generator, service.SuggestionConfig{
		Model:       cfg.LLM.SuggestionModel,
		Temperature: cfg.LLM.SuggestionTemperature,
	}, logr, metrics)

	fileStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return fmt.Errorf("init export storage: %w", err)
	}
	exports := service.NewExportService(
		fileStore,
		storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL),
		export.NewRenderer(),
		service.ExportConfig{APIPrefix: cfg.APIPrefix, CleanupInterval: cfg.Exports.CleanupInterval},
		logr,
	)
	exports.StartCleanup(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	sessionHandler := handler.NewSessionHandler(sessions, registry)
	catalogHandler := handler.NewCatalogHandler()
	formHandler := handler.NewFormHandler(registry)
	generationHandler := handler.NewGenerationHandler(registry, generation)
	suggestionHandler := handler.NewSuggestionHandler(registry, suggestions)
	exportHandler := handler.NewExportHandler(registry, generation, exports)

	api := r.Group(cfg.APIPrefix)
	api.POST("/sessions", middleware.OptionalSession(sessions), sessionHandler.Create)
	api.GET("/catalog", catalogHandler.Get)
	api.GET("/exports/:token", exportHandler.Download)

	secured := api.Group("")
	secured.Use(middleware.Session(sessions))
	secured.GET("/form", formHandler.Get)
	secured.PATCH("/form/fields", formHandler.EditField)
	secured.POST("/form/dimensions", formHandler.ToggleDimension)
	secured.GET("/draft", formHandler.DraftStatus)
	secured.POST("/draft/load", formHandler.LoadDraft)
	secured.DELETE("/draft", formHandler.ClearDraft)
	secured.POST("/generation", generationHandler.Submit)
	secured.GET("/generation", generationHandler.Status)
	secured.DELETE("/generation", generationHandler.Reset)
	secured.GET("/generation/markdown", generationHandler.Markdown)
	secured.POST("/suggestions", suggestionHandler.Suggest)
	secured.POST("/exports", exportHandler.Create)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "draft_store", cfg.Drafts.Store, "llm", cfg.LLM.Provider)
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

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openDraftStore(ctx context.Context, cfg *config.Config, ready *handler.MetricsHandler) (service.DraftStore, func(), error) {
	switch cfg.Drafts.Store {
	case config.DraftStoreRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		ready.WithCheck("redis", func(ctx context.Context) error { return client.Ping(ctx).Err() })
		repo := repository.NewRedisDraftRepository(client, 0)
		return repo, func() { _ = repo.Close() }, nil
	case config.DraftStorePostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		repo := repository.NewDraftRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("prepare draft schema: %w", err)
		}
		ready.WithCheck("postgres", db.PingContext)
		return repo, func() { _ = db.Close() }, nil
	case config.DraftStoreMemory:
		return repository.NewMemoryDraftRepository(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown DRAFT_STORE %q", cfg.Drafts.Store)
}

func openGenerator(ctx context.Context, cfg *config.Config) (llm.TextGenerator, error) {
	switch cfg.LLM.Provider {
	case config.LLMProviderGemini:
		client, err := llm.NewGeminiClient(ctx, cfg.LLM.APIKey)
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		return client, nil
	case config.LLMProviderFake:
		return llm.NewFakeClient(), nil
	}
	return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLM.Provider)
}
