// Package api_gateway exposes the reconciliation engine over HTTP: listing
// and booking transactions, reclassification, suggestions, the supporting
// directories and bulk run management.
package api_gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grootboek-reconciliation-engine/internal/api_gateway/handler"
	"github.com/grootboek-reconciliation-engine/internal/api_gateway/service"
	"github.com/grootboek-reconciliation-engine/internal/config"
	"github.com/grootboek-reconciliation-engine/internal/domain/account"
	"github.com/grootboek-reconciliation-engine/internal/domain/banktransaction"
	"github.com/grootboek-reconciliation-engine/internal/domain/contact"
	"github.com/grootboek-reconciliation-engine/internal/observability"
)

// Server handles HTTP requests and manages the gateway's lifecycle
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	httpRouter *gin.Engine
}

// Dependencies bundles everything the gateway needs to serve requests
type Dependencies struct {
	Transactions banktransaction.Repository
	Accounts     account.Repository
	Contacts     contact.Repository
	Booking      service.BookingService
	Rules        service.RuleService
	Suggestions  service.SuggestionService
	Runs         service.RunService
	Metrics      *observability.Metrics
}

// NewServer creates and configures a new HTTP server for the gateway
func NewServer(log *slog.Logger, cfg *config.Config, deps Dependencies) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	transactionHandler := handler.NewTransactionHandler(log, deps.Transactions, deps.Booking, deps.Suggestions, deps.Metrics)
	accountHandler := handler.NewAccountHandler(log, deps.Accounts)
	contactHandler := handler.NewContactHandler(log, deps.Contacts)
	ruleHandler := handler.NewRuleHandler(log, deps.Rules)
	runHandler := handler.NewRunHandler(log, deps.Runs)

	setupRouter(log, httpRouter, transactionHandler, accountHandler, contactHandler, ruleHandler, runHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
