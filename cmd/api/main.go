// ABOUTME: Main entry point for the Serverlist API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"serverlist-api/api"
	"serverlist-api/api/handlers"
	"serverlist-api/api/middleware"
	"serverlist-api/api/pages"
	"serverlist-api/core/interfaces"
	"serverlist-api/core/listing"
	"serverlist-api/core/servers"
	"serverlist-api/core/services"
	"serverlist-api/core/submissions"
	"serverlist-api/core/tags"
	"serverlist-api/core/workers"
	"serverlist-api/infrastructure/cache/memory"
	"serverlist-api/infrastructure/cache/redis"
	sqlitecache "serverlist-api/infrastructure/cache/sqlite"
	stdhttp "serverlist-api/infrastructure/http/standard"
	"serverlist-api/infrastructure/logger/structured"
	"serverlist-api/infrastructure/storage/sqlite"
	"serverlist-api/pkg/config"
	"serverlist-api/pkg/featureflags"
	"serverlist-api/pkg/metrics"
	"serverlist-api/web"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create logger
	logger := structured.New(structured.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	defer logger.Close()

	logger.Info("Starting Serverlist API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"cache_type": cfg.Cache.Type,
		"storage":    cfg.Storage.Driver,
	})

	flags := featureflags.NewEnvManager("FEATURE_")
	flagStates := make(map[string]interface{}, len(featureflags.All))
	for flag, on := range flags.GetAllFlags() {
		flagStates[string(flag)] = on
	}
	logger.Info("Feature flags", flagStates)

	m := metrics.New()

	// Open storage
	store, err := sqlite.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		logger.Error("Failed to open storage", map[string]interface{}{
			"path":  cfg.Storage.Path,
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer store.Close()

	// Create cache
	cache, closeCache := newCache(cfg, logger)
	defer closeCache()

	// Create HTTP client
	httpClient := stdhttp.NewStandardHTTPClient(cfg.Server.HTTPTimeout)

	// Create dependencies container
	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: httpClient,
		Logger:     logger,
		Store:      store,
	}

	// Create services
	listings := listing.New(cache, cfg.Listing.CacheTTL, logger, m)

	serverService := servers.NewServerService(deps, listings, flags, servers.Options{
		PageSize:    cfg.Listing.PageSize,
		MaxPageSize: cfg.Listing.MaxPageSize,
	})
	serverService.SetMetrics(m)
	coverProbe := services.NewCoverProbe(httpClient)
	serverService.SetCoverProber(coverProbe)

	tagService := tags.NewTagService(deps, listings)
	if err := seedTags(tagService, cfg.Tags.File); err != nil {
		logger.Error("Failed to seed tags", map[string]interface{}{
			"file":  cfg.Tags.File,
			"error": err.Error(),
		})
		os.Exit(1)
	}

	submissionService := submissions.NewSubmissionService(deps, serverService, cfg.Submission.TTL)

	// Start the cover colour worker
	colorTTL := time.Duration(cfg.Cache.Memory.DefaultExpiration) * time.Second
	coverWorker := workers.NewCoverWorker(
		services.NewCoverColorService(deps, colorTTL),
		serverService,
		logger,
		m,
		workers.WorkerConfig{
			MaxWorkers: cfg.Workers.CoverWorkers,
			QueueSize:  cfg.Workers.CoverQueue,
		},
	)
	if err := coverWorker.Start(); err != nil {
		logger.Error("Failed to start cover worker", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	serverService.SetCoverEnqueuer(coverWorker)

	proxies, err := middleware.NewTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		logger.Error("Invalid trusted proxies", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	// Create API with middleware
	humaAPI, router, stopLimiter := api.NewAPIWithMiddleware(api.APIConfig{
		Logger:         logger,
		Metrics:        m,
		Flags:          flags,
		RateLimit:      cfg.RateLimit.Requests,
		RateWindow:     cfg.RateLimit.Window,
		TrustedProxies: proxies,
	})
	defer stopLimiter()

	// Create and register handlers
	handlers.NewServerHandler(serverService, logger).RegisterRoutes(humaAPI)
	handlers.NewTagHandler(tagService).RegisterRoutes(humaAPI)
	handlers.NewSubmissionHandler(submissionService).RegisterRoutes(humaAPI)
	handlers.NewCoverHandler(coverProbe).RegisterRoutes(humaAPI)

	rulesHandler, err := handlers.NewRulesHandler(web.Rules)
	if err != nil {
		logger.Error("Failed to render rules", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	rulesHandler.RegisterRoutes(humaAPI)

	site, err := pages.New(pages.Config{
		Servers:       serverService,
		Tags:          tagService,
		Submissions:   submissionService,
		Flags:         flags,
		Logger:        logger,
		BaseURL:       cfg.Server.BaseURL,
		RulesMarkdown: web.Rules,
	})
	if err != nil {
		logger.Error("Failed to load page templates", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	site.RegisterRoutes(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address":  srv.Addr,
			"base_url": cfg.Server.BaseURL,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := coverWorker.Stop(); err != nil {
		logger.Warn("Cover worker did not stop cleanly", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Server stopped", nil)
}

// newCache builds the configured cache backend. An unreachable Redis falls
// back to memory.
func newCache(cfg *config.Config, logger interfaces.Logger) (interfaces.Cache, func()) {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache(), func() {}
		}
		logger.Info("Using Redis cache", map[string]interface{}{
			"address": cfg.Cache.Redis.Address,
		})
		return redisCache, func() { _ = redisCache.Close() }
	case "sqlite":
		sqliteCache, err := sqlitecache.NewSQLiteCache(cfg.Storage.Driver, cfg.Cache.SQLitePath)
		if err != nil {
			logger.Error("Failed to create SQLite cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache(), func() {}
		}
		logger.Info("Using SQLite cache", map[string]interface{}{
			"path": cfg.Cache.SQLitePath,
		})
		return sqliteCache, func() { _ = sqliteCache.Close() }
	default:
		logger.Info("Using memory cache", nil)
		return memory.NewMemoryCache(), func() {}
	}
}

// seedTags loads the tag list from file, or the built-in list when file is
// empty
func seedTags(svc *tags.TagService, file string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if file == "" {
		_, err := svc.SeedDefaults(ctx)
		return err
	}

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = svc.Seed(ctx, f)
	return err
}

func init() {
	// Print banner
	fmt.Println(`
   _____                          ___      __
  / ___/___  ______   _____  ____/ (_)____/ /_
  \__ \/ _ \/ ___/ | / / _ \/ ___/ / / ___/ __/
 ___/ /  __/ /   | |/ /  __/ /  / / (__  ) /_
/____/\___/_/    |___/\___/_/  /_/_/____/\__/
	`)
}
