package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/camuig/trader-analyst/internal/chatbot"
	"github.com/camuig/trader-analyst/internal/config"
	"github.com/camuig/trader-analyst/internal/knowledge"
	"github.com/camuig/trader-analyst/internal/logger"
	"github.com/camuig/trader-analyst/internal/storage"
)

type Server struct {
	httpServer *http.Server
	kb         *knowledge.Base
	bot        *chatbot.Bot
	repo       *storage.Repository // nil when storage is disabled
	config     *config.Config
	logger     *logger.Logger
}

func NewServer(bot *chatbot.Bot, repo *storage.Repository, cfg *config.Config, log *logger.Logger) *Server {
	s := &Server{
		kb:     bot.Knowledge(),
		bot:    bot,
		repo:   repo,
		config: cfg,
		logger: log,
	}

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Web.Port),
		Handler:     s.routes(),
		ReadTimeout: 10 * time.Second,
		// a query waits for the completion service
		WriteTimeout: cfg.LLMTimeout() + 10*time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/traders", s.handleTraders)
	mux.HandleFunc("GET /api/traders/{id}", s.handleTrader)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("POST /api/query", s.handleQuery)
	mux.HandleFunc("GET /api/queries", s.handleQueries)
	return mux
}

func (s *Server) Start() error {
	s.logger.Info("web server starting", "port", s.config.Web.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
