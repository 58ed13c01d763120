// Command server runs the customer feedback HTTP API.
//
// Startup order: .env → config → logging → tracing → record store →
// idempotency DB → generation provider → router → HTTP server. SIGINT and
// SIGTERM trigger a graceful shutdown bounded by the write timeout.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-feedback-backend/internal/config"
	httpapi "github.com/tbourn/go-feedback-backend/internal/http"
	"github.com/tbourn/go-feedback-backend/internal/llm"
	"github.com/tbourn/go-feedback-backend/internal/observability"
	"github.com/tbourn/go-feedback-backend/internal/repo"
	"github.com/tbourn/go-feedback-backend/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// purgeInterval is how often expired idempotency keys are deleted.
const purgeInterval = 15 * time.Minute

// @title                      Customer Feedback API
// @version                    1.0
// @description                Collects star ratings and reviews, drafts AI replies, and serves admin analytics.
// @BasePath                   /api/v1
// @securityDefinitions.apikey AdminSecret
// @in                         header
// @name                       X-Admin-Secret
func main() {
	// Missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	ver := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
	sysutil.ConfigureLogger(os.Stderr, sysutil.LogOptions{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: cfg.OTEL.ServiceName,
		Version: ver,
	})
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, ver,
		observability.AttrStoreDriver.String(cfg.StoreDriver),
		observability.AttrLLMProvider.String(cfg.LLM.Provider),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db, cfg.StoreDriver == config.StoreSQLite); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	store, err := openStore(ctx, cfg, db)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("initialize record store")
	}

	gen, err := llm.NewGenerator(ctx, llm.Config{
		Provider:      cfg.LLM.Provider,
		GeminiAPIKey:  cfg.LLM.GoogleAPIKey,
		GeminiModel:   cfg.LLM.GeminiModel,
		GeminiBaseURL: cfg.LLM.GeminiBaseURL,
		OpenAIAPIKey:  cfg.LLM.OpenAIAPIKey,
		OpenAIModel:   cfg.LLM.OpenAIModel,
		OpenAIBaseURL: cfg.LLM.OpenAIBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("llm provider")
	}

	if cfg.AdminSecret == "" {
		log.Warn().Msg("ADMIN_SECRET not set; admin API disabled")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, store, gen, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go purgeIdempotency(ctx, repo.NewIdempotencyKeys(db, cfg.IdempotencyTTL))

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("store", cfg.StoreDriver).
			Str("llm", gen.Name()).
			Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), cfg.WriteTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := repo.CloseDB(db); err != nil {
		log.Warn().Err(err).Msg("close database")
	}
}

// openStore builds and initializes the configured record store.
func openStore(ctx context.Context, cfg config.Config, db *gorm.DB) (repo.RecordStore, error) {
	var store repo.RecordStore
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		store = repo.NewSQLiteStore(db)
	default:
		store = repo.NewJSONFileStore(cfg.DataFile)
	}
	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// purgeIdempotency deletes expired idempotency keys until ctx is done.
func purgeIdempotency(ctx context.Context, keys *repo.IdempotencyKeys) {
	t := time.NewTicker(purgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := keys.Purge(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("purge idempotency keys")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("purged idempotency keys")
			}
		}
	}
}
