package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vitos/tickerwatch/internal/domain"
	"github.com/vitos/tickerwatch/internal/usecase"
	"go.uber.org/zap"
)

type Server struct {
	router  *http.ServeMux
	server  *http.Server
	machine *usecase.TickerStateMachine
	journal domain.FetchJournal
	logger  *zap.Logger
}

// NewServer exposes machine over HTTP. journal may be nil, in which case
// /api/journal answers 404.
func NewServer(
	port int,
	machine *usecase.TickerStateMachine,
	journal domain.FetchJournal,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router:  http.NewServeMux(),
		machine: machine,
		journal: journal,
		logger:  logger,
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	// Health
	s.router.HandleFunc("GET /healthz", s.handleHealth)

	// Ticker state
	s.router.HandleFunc("GET /api/tickers", s.handleTickers)
	s.router.HandleFunc("POST /api/reload", s.handleReload)
	s.router.HandleFunc("POST /api/refresh", s.handleRefresh)

	// Search and filters
	s.router.HandleFunc("PUT /api/search", s.handleSearch)
	s.router.HandleFunc("PUT /api/filter/pending", s.handleSelectFilter)
	s.router.HandleFunc("POST /api/filter/apply", s.handleApplyFilter)
	s.router.HandleFunc("DELETE /api/filter", s.handleClearFilter)

	// Fetch journal
	s.router.HandleFunc("GET /api/journal", s.handleJournal)

	// Live updates
	s.router.HandleFunc("GET /ws", s.handleStream)
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
