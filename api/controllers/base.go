package controllers

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"Yatube/api/auth"
	"Yatube/api/cache"
	"Yatube/api/config"
	"Yatube/api/feed"
	"Yatube/api/mailer"
	"Yatube/api/middlewares"
	"Yatube/api/storage"
	"Yatube/api/templates"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Server struct {
	DB      *gorm.DB
	Router  *gin.Engine
	Config  *config.Config
	Feed    *feed.Service
	Cache   cache.Store
	Storage storage.Uploader
	Mailer  *mailer.Mailer
	Tokens  *auth.Tokens
	// Sentry receives server errors and recovered panics when set.
	Sentry *sentry.Hub

	loginLimiter *middlewares.VisitorLimiter
}

// Dependencies are the backing services the server is wired to.
type Dependencies struct {
	DB      *gorm.DB
	Cache   cache.Store
	Storage storage.Uploader
	Mailer  *mailer.Mailer
	Sentry  *sentry.Hub
}

// ===============================
// SERVER INITIALIZATION
// ===============================
func (server *Server) Initialize(cfg *config.Config, deps Dependencies) error {
	if deps.DB == nil {
		return errors.New("controllers: database is required")
	}
	server.Config = cfg
	server.DB = deps.DB
	server.Cache = deps.Cache
	server.Storage = deps.Storage
	server.Mailer = deps.Mailer
	server.Sentry = deps.Sentry
	if server.Mailer == nil {
		server.Mailer = mailer.New(mailer.LogSender{}, cfg.SiteURL)
	}

	server.Tokens = auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	server.Feed = feed.NewService(server.DB, server.Cache,
		feed.WithPageSize(cfg.PageSize),
		feed.WithIndexTTL(cfg.IndexCacheTTL),
	)
	server.loginLimiter = middlewares.NewLoginLimiter()

	tmpl, err := templates.Load(template.FuncMap{"mediaURL": server.mediaURL})
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	server.Router = gin.New()
	server.Router.SetHTMLTemplate(tmpl)
	server.Router.Use(
		middlewares.AccessLog(),
		middlewares.Metrics(),
		gin.CustomRecovery(server.recoverPanic),
		middlewares.Session(server.DB, server.Tokens),
	)
	server.Router.NoRoute(server.NotFound)
	server.initializeRoutes()
	return nil
}

func (server *Server) mediaURL(key string) string {
	if key == "" || server.Storage == nil {
		return ""
	}
	return server.Storage.URL(key)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (server *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				server.loginLimiter.Cleanup(10 * time.Minute)
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
