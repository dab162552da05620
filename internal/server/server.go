// Package server exposes the expense service as a JSON HTTP API.
package server

import (
	"net/http"

	"github.com/fairshare-app/backend/internal/middleware"
	"github.com/fairshare-app/backend/internal/service"
)

// Server routes HTTP requests to the expense service.
type Server struct {
	svc *service.ExpenseService
	mux *http.ServeMux
}

// New creates a Server and registers its routes.
func New(svc *service.ExpenseService) *Server {
	s := &Server{svc: svc, mux: http.NewServeMux()}

	s.mux.HandleFunc("POST /api/v1/allocate", s.handleAllocate)
	s.mux.HandleFunc("POST /api/v1/expenses", s.handleAddExpense)
	s.mux.HandleFunc("DELETE /api/v1/expenses/{id}", s.handleDeleteExpense)
	s.mux.HandleFunc("GET /api/v1/groups/{id}/expenses", s.handleListExpenses)
	s.mux.HandleFunc("GET /api/v1/groups/{id}/balances", s.handleGroupBalances)
	s.mux.HandleFunc("GET /api/v1/groups/{id}/settlement", s.handleSettlement)
	s.mux.HandleFunc("GET /api/v1/users/{id}/summary", s.handleUserSummary)

	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.mux.Handle("GET /metrics", middleware.MetricsHandler())

	return s
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return middleware.Logging(middleware.Metrics(middleware.CORS(s.mux)))
}
