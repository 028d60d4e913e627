package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jon4hz/familytravel/internal/api/handler"
	"github.com/jon4hz/familytravel/internal/config"
	"github.com/jon4hz/familytravel/internal/database"
	"github.com/jon4hz/familytravel/internal/session"
	"github.com/jon4hz/familytravel/internal/static"
	"github.com/jon4hz/familytravel/internal/tracker"
)

const (
	sessionName     = "familytravel_session"
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg       *config.Config
	ginEngine *gin.Engine
	db        database.DB
	tracker   *tracker.Service
	state     session.State
}

// New creates the http server. Routes are registered immediately so the
// returned server can be used as an http.Handler in tests.
func New(cfg *config.Config, db database.DB, t *tracker.Service, state session.State, debug bool) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:       cfg,
		ginEngine: gin.New(),
		db:        db,
		tracker:   t,
		state:     state,
	}
	s.ginEngine.Use(gin.Recovery(), requestLogger())
	s.ginEngine.Use(gzip.Gzip(gzip.DefaultCompression))

	if cfg.Session.Mode == config.SessionModeCookie {
		s.setupSession()
	}
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupSession() {
	key := s.cfg.Session.Key
	if key == "" {
		log.Warn("No session key configured, generating a random one. Sessions will not survive a restart.")
		key = uuid.NewString() + uuid.NewString()
	}

	store := cookie.NewStore([]byte(key))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.Session.MaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions(sessionName, store))
}

func (s *Server) setupRoutes() {
	h := handler.New(s.db, s.tracker, s.state)

	s.ginEngine.StaticFS("/static", http.FS(static.Files()))
	s.ginEngine.GET("/healthz", h.Health)

	s.ginEngine.GET("/", h.Home)
	s.ginEngine.POST("/add", h.AddCountry)
	s.ginEngine.POST("/user", h.SelectUser)
	s.ginEngine.POST("/new", h.NewUser)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.ginEngine.ServeHTTP(w, r)
}

// Run serves http until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting API server", "listen", s.cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("api server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down api server: %w", err)
	}
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
