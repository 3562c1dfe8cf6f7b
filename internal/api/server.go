package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"farm-assist/internal/advisory"
	"farm-assist/internal/pricing"
	"farm-assist/shared/config"
	"farm-assist/shared/storage"

	"github.com/gin-gonic/gin"
)

// Server bundles the router and the pipeline collaborators for the REST API.
type Server struct {
	cfg         *config.Config
	weather     pricing.ForecastProvider
	predictor   *pricing.Predictor
	generator   advisory.Generator
	planner     *advisory.TaskPlanner
	initiatives *storage.InitiativeLog
	engine      *gin.Engine
}

// New constructs a server with routes and middleware. Collaborators come in
// as interfaces so tests can substitute stubs.
func New(cfg *config.Config, forecast pricing.ForecastProvider, predictor *pricing.Predictor, generator advisory.Generator, initiatives *storage.InitiativeLog) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	server := &Server{
		cfg:         cfg,
		weather:     forecast,
		predictor:   predictor,
		generator:   generator,
		planner:     advisory.NewTaskPlanner(generator),
		initiatives: initiatives,
		engine:      engine,
	}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.cfg.Server.Port,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.POST("/predict-prices", s.handlePredictPrices)
	s.engine.GET("/weather-alert", s.handleWeatherAlert)
	s.engine.POST("/generate-tasks", s.handleGenerateTasks)
	s.engine.GET("/initiatives", s.handleInitiatives)
}
