// Package web provides the edusite web server: routing, templates, sessions
// and the lifecycle of the database and redis connections behind them.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/edusite/edusite/config"
	"github.com/edusite/edusite/database"
	"github.com/edusite/edusite/logger"
	"github.com/edusite/edusite/util/common"
	"github.com/edusite/edusite/util/random"
	"github.com/edusite/edusite/web/cache"
	"github.com/edusite/edusite/web/controller"
	"github.com/edusite/edusite/web/locale"
	"github.com/edusite/edusite/web/middleware"
	"github.com/edusite/edusite/web/service"
	"github.com/edusite/edusite/web/session"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

//go:embed html/*
var htmlFS embed.FS

//go:embed translation/*
var i18nFS embed.FS

const shutdownTimeout = 10 * time.Second

// Server represents the edusite web server together with the connections it owns.
type Server struct {
	cfg *config.Config

	httpServer *http.Server
	listener   net.Listener

	db         *gorm.DB
	cache      *cache.Client
	translator *locale.Translator

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer(cfg *config.Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{cfg: cfg, ctx: ctx, cancel: cancel}
}

// open connects the database, the translations and, when something needs it, redis.
func (s *Server) open() error {
	db, err := database.InitDB(s.cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	s.db = db

	if s.cfg.SessionStore == config.SessionStoreRedis || s.cfg.LoginRateLimit > 0 {
		client, err := cache.NewClient(s.ctx, s.cfg.RedisAddr)
		if err != nil {
			return err
		}
		s.cache = client
	}

	translator, err := locale.NewTranslator(i18nFS, "translation")
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}
	s.translator = translator
	return nil
}

func (s *Server) getHtmlTemplate(funcMap template.FuncMap) (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(htmlFS, "html/*.html")
}

func (s *Server) sessionStore() (sessions.Store, error) {
	secret := s.cfg.SessionSecret
	if secret == "" {
		logger.Warning("EDU_SESSION_SECRET is not set, sessions will not survive a restart")
		secret = random.Seq(32)
	}

	var store sessions.Store
	switch s.cfg.SessionStore {
	case config.SessionStoreRedis:
		if s.cache == nil {
			return nil, errors.New("redis session store requires a redis client")
		}
		store = cache.NewRedisStore(s.cache, []byte(secret))
	default:
		store = cookie.NewStore([]byte(secret))
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.SessionMaxAge * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// initRouter initializes Gin, registers middleware, templates and
// controllers and returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	if err := controller.RegisterValidators(); err != nil {
		return nil, err
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(s.cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	engine.Use(gin.Recovery())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	engine.Use(middleware.RequestMiddleware())
	engine.Use(s.translator.Middleware())

	store, err := s.sessionStore()
	if err != nil {
		return nil, err
	}
	engine.Use(sessions.Sessions(session.CookieName, store))

	funcMap := template.FuncMap{
		"i18n": func(lang string, key string, params ...string) string {
			return s.translator.Localize(key, params, lang)
		},
		"date": func(t time.Time) string {
			return t.Format("02.01.2006")
		},
	}
	tpl, err := s.getHtmlTemplate(funcMap)
	if err != nil {
		return nil, err
	}
	engine.SetHTMLTemplate(tpl)

	newsService := service.NewNewsService(s.db)
	userService := service.NewUserService(s.db)

	g := engine.Group("/")
	controller.NewIndexController(g, newsService, userService, controller.IndexOptions{
		SessionMaxAge:  s.cfg.SessionMaxAge,
		Limiter:        s.cache,
		LoginRateLimit: s.cfg.LoginRateLimit,
	})
	controller.NewNewsController(g, newsService)
	controller.NewAdminController(g, newsService)

	if s.cfg.MetricsEnable {
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	engine.NoRoute(controller.NotFound)

	return engine, nil
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	if err = s.open(); err != nil {
		return err
	}

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(s.cfg.Listen, strconv.Itoa(s.cfg.Port))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("Web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		defer common.Recover("web server")
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("web server stopped:", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the web server and releases the connections.
func (s *Server) Stop() error {
	s.cancel()

	var errs []error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		errs = append(errs, s.httpServer.Shutdown(ctx))
		s.httpServer = nil
	}
	if s.listener != nil {
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
		s.listener = nil
	}
	if s.cache != nil {
		errs = append(errs, s.cache.Close())
		s.cache = nil
	}
	if s.db != nil {
		errs = append(errs, database.CloseDB(s.db))
		s.db = nil
	}
	return common.Combine(errs...)
}
