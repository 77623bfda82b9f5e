package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vitos/gifter_levels/internal/domain"
	"github.com/vitos/gifter_levels/internal/usecase"
	"go.uber.org/zap"
)

type Server struct {
	router      *http.ServeMux
	server      *http.Server
	prices      *usecase.PriceService
	progression *usecase.ProgressionService
	calcRepo    domain.CalculationRepository
	hub         *Hub
	logger      *zap.Logger
}

func NewServer(
	port int,
	prices *usecase.PriceService,
	progression *usecase.ProgressionService,
	calcRepo domain.CalculationRepository,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router:      http.NewServeMux(),
		prices:      prices,
		progression: progression,
		calcRepo:    calcRepo,
		hub:         NewHub(logger),
		logger:      logger,
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	// Tier table and currencies
	s.router.HandleFunc("GET /api/levels", s.handleLevels)
	s.router.HandleFunc("GET /api/currencies", s.handleCurrencies)

	// Calculator
	s.router.HandleFunc("POST /api/calculate", s.handleCalculate)
	s.router.HandleFunc("GET /api/calculations", s.handleListCalculations)

	// Coin prices
	s.router.HandleFunc("POST /api/prices", s.handleSubmitPrice)
	s.router.HandleFunc("GET /api/candles", s.handleGetCandles)
	s.router.HandleFunc("GET /api/chart", s.handleGetChart)

	// Live updates
	s.router.HandleFunc("GET /ws/prices", s.hub.handleWS)

	// Status
	s.router.HandleFunc("GET /status", s.handleStatus)
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}
