// Package main is the entry point for the Price Chat Service.
// @title Price Chat API
// @version 1.0
// @description Conversational supermarket price lookup for Colombia
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/unifiedui/price-chat

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8085
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Static bearer key (SERVER_API_KEY)
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/unifiedui/price-chat/docs"
	"github.com/unifiedui/price-chat/internal/api/handlers"
	"github.com/unifiedui/price-chat/internal/api/middleware"
	"github.com/unifiedui/price-chat/internal/api/routes"
	"github.com/unifiedui/price-chat/internal/config"
	"github.com/unifiedui/price-chat/internal/core/cache"
	"github.com/unifiedui/price-chat/internal/core/docdb"
	"github.com/unifiedui/price-chat/internal/core/vault"
	rediscache "github.com/unifiedui/price-chat/internal/infrastructure/cache/redis"
	"github.com/unifiedui/price-chat/internal/infrastructure/docdb/mongodb"
	dotenvvault "github.com/unifiedui/price-chat/internal/infrastructure/vault/dotenv"
	"github.com/unifiedui/price-chat/internal/pkg/encryption"
	"github.com/unifiedui/price-chat/internal/pkg/logging"
	"github.com/unifiedui/price-chat/internal/services/chat"
	"github.com/unifiedui/price-chat/internal/services/llm"
	"github.com/unifiedui/price-chat/internal/services/prices"
	"github.com/unifiedui/price-chat/internal/services/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	// Initialize vault and resolve credentials missing from the environment
	secretVault, err := createVault(cfg.Vault)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize vault")
	}
	defer secretVault.Close()

	if err := cfg.ResolveSecrets(ctx, secretVault); err != nil {
		log.Fatal().Err(err).Msg("failed to resolve secrets")
	}

	// Initialize cache using factory pattern
	cacheClient, err := createCache(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cache")
	}
	defer cacheClient.Close()

	// Initialize document db client using factory pattern; nil when archiving is off
	docDBClient, err := createDocDBClient(ctx, cfg.DocDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize document db client")
	}
	if docDBClient != nil {
		defer docDBClient.Close(ctx)
	}

	// Initialize encryptor
	encryptor, err := encryption.New(cfg.Secrets.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize encryptor")
	}
	if _, ok := encryptor.(*encryption.NoOpEncryptor); ok {
		log.Warn().Msg("SECRETS_ENCRYPTION_KEY not set, session snapshots are stored unencrypted")
	}

	// Initialize session service
	sessionService, err := session.NewService(&session.Config{
		Cache:     cacheClient,
		Encryptor: encryptor,
		TTL:       cfg.Cache.TTL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize session service")
	}

	registry, err := createRegistry(cfg, sessionService, docDBClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize conversation registry")
	}

	// Drop idle conversations from memory; their snapshots expire with the cache TTL
	evictCtx, stopEviction := context.WithCancel(ctx)
	defer stopEviction()
	registry.StartEviction(evictCtx, time.Minute)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Setup router
	router := setupRouter(cfg, cacheClient, docDBClient, registry)

	// Create HTTP server
	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("address", cfg.Server.Address()).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

// createVault creates a vault based on the configuration.
func createVault(cfg config.VaultConfig) (vault.Vault, error) {
	switch vault.Type(cfg.Type) {
	case vault.TypeDotEnv:
		return dotenvvault.NewVault(cfg.SecretsFile)
	default:
		return nil, fmt.Errorf("unsupported vault type: %s", cfg.Type)
	}
}

// createCache creates a cache based on the configuration.
func createCache(cfg config.CacheConfig) (cache.Cache, error) {
	switch cache.Type(cfg.Type) {
	case cache.TypeRedis:
		return rediscache.NewCache(rediscache.Config{
			Host:       cfg.Host,
			Port:       cfg.Port,
			Password:   cfg.Password,
			DB:         cfg.DB,
			DefaultTTL: cfg.TTL,
		})
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Type)
	}
}

// createDocDBClient creates a document database client based on the configuration.
// It returns nil for docdb.TypeNone.
func createDocDBClient(ctx context.Context, cfg config.DocDBConfig) (docdb.Client, error) {
	switch docdb.Type(cfg.Type) {
	case docdb.TypeMongoDB:
		client, err := mongodb.NewClient(ctx, &mongodb.ClientConfig{
			URI:          cfg.URI,
			DatabaseName: cfg.Database,
		})
		if err != nil {
			return nil, err
		}
		if err := client.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure indexes")
		}
		return client, nil
	case docdb.TypeNone:
		log.Info().Msg("message archive disabled")
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported docdb type: %s", cfg.Type)
	}
}

// createRegistry wires the remote clients into the conversation registry.
func createRegistry(cfg *config.Config, sessions session.Service, docDBClient docdb.Client) (*chat.Registry, error) {
	searcher, err := prices.NewClient(&prices.ClientConfig{
		BaseURL: cfg.Prices.BaseURL,
		APIKey:  cfg.Prices.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create price client: %w", err)
	}

	completer, err := llm.NewClient(&llm.ClientConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	var archive docdb.MessagesCollection
	if docDBClient != nil {
		archive = docDBClient.Messages()
	}

	return chat.NewRegistry(&chat.RegistryConfig{
		Completer: completer,
		Searcher:  searcher,
		Sessions:  sessions,
		Archive:   archive,
		IdleTTL:   cfg.Cache.TTL,
	})
}

// setupRouter creates and configures the Gin router.
func setupRouter(cfg *config.Config, cacheClient cache.Cache, docDBClient docdb.Client, registry *chat.Registry) *gin.Engine {
	router := gin.New()

	// Create middleware
	loggingMw := middleware.NewLoggingMiddleware()
	errorMw := middleware.NewErrorMiddleware()
	authMw := middleware.NewAuthMiddleware(cfg.Server.APIKey)
	if !authMw.Enabled() {
		log.Warn().Msg("SERVER_API_KEY not set, API authentication disabled")
	}

	// Create handlers; an untyped nil marks the archive database as disabled
	var docDBPinger handlers.Pinger
	if docDBClient != nil {
		docDBPinger = docDBClient
	}
	healthHandler := handlers.NewHealthHandler(cacheClient, docDBPinger)
	conversationsHandler := handlers.NewConversationsHandler(registry)

	// Setup routes
	routesCfg := &routes.Config{
		HealthHandler:        healthHandler,
		ConversationsHandler: conversationsHandler,
		AuthMiddleware:       authMw,
	}

	cors := middleware.DefaultCORSConfig().WithOrigins(cfg.Server.CORSOrigins)
	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw, cors)

	// Swagger documentation endpoint
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
