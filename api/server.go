package api

import (
	"context"
	"fmt"
	"io"
	"time"

	"Yatube/api/cache"
	"Yatube/api/config"
	"Yatube/api/controllers"
	"Yatube/api/database"
	"Yatube/api/logger"
	"Yatube/api/mailer"
	"Yatube/api/seed"
	"Yatube/api/storage"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Bootstrap loads .env (outside production), the configuration and the logger.
func Bootstrap() (*config.Config, error) {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.AppEnv, cfg.LogLevel)
	return cfg, nil
}

// Run migrates the schema and serves HTTP until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	db, err := openMigrated(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	uploader, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}

	store := openCache(ctx, cfg)
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	hub, err := openSentry(cfg)
	if err != nil {
		return err
	}
	if hub != nil {
		defer sentry.Flush(2 * time.Second)
	}

	server := controllers.Server{}
	err = server.Initialize(cfg, controllers.Dependencies{
		DB:      db,
		Cache:   store,
		Storage: uploader,
		Mailer:  openMailer(cfg),
		Sentry:  hub,
	})
	if err != nil {
		return err
	}
	return server.Run(ctx, ":"+cfg.Port)
}

func Migrate(cfg *config.Config) error {
	db, err := openMigrated(cfg)
	if err != nil {
		return err
	}
	database.Close(db)
	log.Info().Msg("migrations applied")
	return nil
}

func Seed(cfg *config.Config) error {
	db, err := openMigrated(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	return seed.Load(db)
}

func openMigrated(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, err
	}
	return db, nil
}

// openCache prefers Redis and falls back to an in-process store, which keeps
// the main page cache working on a single instance.
func openCache(ctx context.Context, cfg *config.Config) cache.Store {
	if cfg.RedisURL == "" && cfg.RedisAddr == "" {
		log.Info().Msg("redis not configured, using in-memory page cache")
		return cache.NewMemory()
	}
	store, err := cache.NewRedis(ctx, cache.Options{
		URL:       cfg.RedisURL,
		Addr:      cfg.RedisAddr,
		Username:  cfg.RedisUsername,
		Password:  cfg.RedisPassword,
		Namespace: "yatube:",
	})
	if err != nil {
		log.Warn().Err(err).Msg("could not connect to redis, using in-memory page cache")
		return cache.NewMemory()
	}
	return store
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Uploader, error) {
	if cfg.S3Bucket == "" {
		log.Info().Str("root", cfg.MediaRoot).Msg("storing uploads on local disk")
		return storage.NewDisk(cfg.MediaRoot, "/media"), nil
	}
	return storage.NewS3(ctx, cfg.S3Bucket, cfg.AWSRegion)
}

func openMailer(cfg *config.Config) *mailer.Mailer {
	if cfg.SendGridAPIKey == "" {
		log.Info().Msg("SENDGRID_API_KEY not set, emails are logged instead of sent")
		return mailer.New(mailer.LogSender{}, cfg.SiteURL)
	}
	return mailer.New(mailer.NewSendGrid(cfg.SendGridAPIKey, cfg.MailFrom), cfg.SiteURL)
}

// openSentry enables error reporting when SENTRY_DSN is set.
func openSentry(cfg *config.Config) (*sentry.Hub, error) {
	if cfg.SentryDSN == "" {
		return nil, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.AppEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry init: %w", err)
	}
	return sentry.CurrentHub(), nil
}
