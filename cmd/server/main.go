package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"briefing-server/internal/ai"
	"briefing-server/internal/config"
	"briefing-server/internal/handler"
	"briefing-server/internal/logger"
	"briefing-server/internal/pipeline"
	"briefing-server/internal/prompts"
	"briefing-server/internal/runtracker"
	"briefing-server/internal/search"
	"briefing-server/internal/service"
	"briefing-server/internal/session"
	"briefing-server/internal/ws"
)

func main() {
	// В production .env может не использоваться, поэтому только предупреждение
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: could not load .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	promptSet, err := prompts.Load(cfg.PromptsDir)
	if err != nil {
		zapLogger.Fatal("Failed to load stage prompts", zap.Error(err))
	}
	zapLogger.Info("Stage prompts loaded", zap.String("dir", cfg.PromptsDir))

	aiClient, err := ai.New(ai.Config{
		APIKey:      cfg.AIAPIKey,
		BaseURL:     cfg.AIBaseURL,
		Model:       cfg.AIModel,
		Timeout:     cfg.AITimeout,
		Temperature: cfg.AITemperature,
		MaxTokens:   cfg.AIMaxTokens,
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize AI client", zap.Error(err))
	}
	zapLogger.Info("AI client initialized",
		zap.String("baseURL", cfg.AIBaseURL),
		zap.String("model", cfg.AIModel))

	searcher, err := buildSearchChain(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize search providers", zap.Error(err))
	}
	zapLogger.Info("Search providers initialized", zap.String("order", searcher.Name()))

	wsManager := ws.NewManager(zapLogger)
	store := session.NewStore(cfg.SessionTTL, zapLogger)
	tracker := runtracker.New()

	runner := pipeline.New(pipeline.Config{
		Generator:   aiClient,
		Searcher:    searcher,
		Prompts:     promptSet,
		Notifier:    service.NewProgressRecorder(store, wsManager),
		Model:       cfg.AIModel,
		TokenBudget: cfg.SearchResultTokenBudget,
	}, zapLogger)

	briefingService := service.NewBriefingService(runner, store, tracker, zapLogger)
	briefingHandler := handler.NewBriefingHandler(briefingService, wsManager, zapLogger)

	janitorStop := make(chan struct{})
	store.StartJanitor(janitorStop, cfg.SessionTTL/4)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handler.ZapLoggingMiddleware(zapLogger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", handler.SessionHeader},
		ExposeHeaders:    []string{handler.SessionHeader},
		AllowCredentials: true,
	}))

	prom := ginprometheus.NewPrometheus("briefing_server_http")
	prom.Use(router)

	briefingHandler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		zapLogger.Info("Starting HTTP server", zap.Int("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Плавное завершение: перестаём принимать запросы, даём активным
	// запускам конвейера дойти до конца в пределах таймаута
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zapLogger.Info("Shutting down server...")
	close(janitorStop)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("Server shutdown failed", zap.Error(err))
	}
	if err := tracker.Drain(ctx); err != nil {
		zapLogger.Error("Failed to drain in-flight runs", zap.Error(err))
	}
	wsManager.Close()

	zapLogger.Info("Server stopped gracefully")
}

// buildSearchChain собирает цепочку провайдеров поиска в порядке из
// конфигурации, пропуская провайдеров без ключа.
func buildSearchChain(cfg *config.Config, zapLogger *zap.Logger) (*search.Chain, error) {
	var providers []search.Provider
	for _, name := range cfg.SearchProviderOrder {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "serpapi":
			if cfg.SerpAPIKey != "" {
				providers = append(providers, search.NewSerpAPIClient(cfg.SerpAPIKey, cfg.SearchTimeout, ""))
			}
		case "brave":
			if cfg.BraveAPIKey != "" {
				providers = append(providers, search.NewBraveClient(cfg.BraveAPIKey, cfg.SearchTimeout, ""))
			}
		}
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no search providers available for order %v", cfg.SearchProviderOrder)
	}
	return search.NewChain(zapLogger, providers...), nil
}
