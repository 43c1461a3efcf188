package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/benx421/retail-ledger/internal/api"
	"github.com/benx421/retail-ledger/internal/middleware"
)

const requestTimeout = 60 * time.Second

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(h *Handler, idempotencyRepo middleware.IdempotencyRepository, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(middleware.Idempotency(idempotencyRepo, logger))

	api.RegisterDocsRoutes(r)
	r.Get("/health", h.GetHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/deposits", h.CreateDeposit)
		r.Post("/withdrawals", h.CreateWithdrawal)
		r.Post("/transfers", h.CreateTransfer)
		r.Post("/recharges", h.CreateRecharge)

		r.Get("/transactions/{transactionId}", h.GetTransaction)

		r.Route("/accounts/{accountId}", func(r chi.Router) {
			r.Get("/", h.GetAccount)
			r.Get("/transactions", h.ListTransactions)
			r.Get("/summary", h.GetAccountSummary)
			r.Get("/loans", h.ListAccountLoans)
			r.Get("/recharges", h.ListAccountRecharges)
			r.Post("/interest", h.ApplyInterest)
		})

		r.Route("/loans", func(r chi.Router) {
			r.Post("/", h.ApplyForLoan)
			r.Post("/settlements", h.SettleDueLoans)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, errCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errCodeInvalidRequest, "method not allowed")
	})

	return r
}
