package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/George1161/the-legit-website/config"
	"github.com/George1161/the-legit-website/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	DefaultPort           = "4000"
	defaultAcceptedOrigin = "*.vercel.app"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, projects *services.ProjectService, auth services.AdminAuth) (Server, error) {
	if projects == nil {
		return Server{}, errors.New("project service is required")
	}

	port := config.GetString(c, "PORT", DefaultPort)
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router := newRouter(projects, auth, withConfig(c), withStartupTime(startupTime))

	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadTimeout:       config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 30),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 30),
		IdleTimeout:       config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 120),
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(projects *services.ProjectService, auth services.AdminAuth, opts ...func(*router)) *chi.Mux {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(resolveClientIP)
	chiRouter.Use(ColoredHTTPLoggingMiddleware)

	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS")
	if len(acceptedOrigins) == 0 {
		acceptedOrigins = []string{defaultAcceptedOrigin}
	}
	origins := newOriginMatcher(acceptedOrigins)
	chiRouter.Use(CORSCheckMiddleware(origins))
	chiRouter.Use(corsMiddleware(origins))

	maxImageBytes := int64(config.GetInt(router.config, "MAX_IMAGE_BYTES", services.DefaultMaxImageBytes))
	handlers := initializeHandlers(projects, auth, maxImageBytes, router.startupTime)

	limiter := newIPRateLimiter(
		config.GetInt(router.config, "RATE_LIMIT_PER_MINUTE", 60),
		config.GetInt(router.config, "RATE_LIMIT_BURST", 10),
	)

	setupRoutes(chiRouter, handlers, newAuthMiddleware(auth), limiter)

	return chiRouter
}

func (s Server) Start() error {
	log.Info().Msgf("Server started on: %s", s.Addr)
	err := s.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefulCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefulCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
