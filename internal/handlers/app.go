package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/benx421/retail-ledger/internal/config"
	"github.com/benx421/retail-ledger/internal/db"
	"github.com/benx421/retail-ledger/internal/repository"
	"github.com/benx421/retail-ledger/internal/service"
)

// App is the wired ledger: the HTTP router plus the services the process
// drives outside of HTTP.
type App struct {
	Router     http.Handler
	Repayments *service.RepaymentService
}

// NewApp builds every service over database and mounts them on a router.
func NewApp(database *db.DB, cfg *config.Config, notifier service.Notifier, logger *slog.Logger) (*App, error) {
	savingsRate, err := cfg.Ledger.SavingsRate()
	if err != nil {
		return nil, err
	}
	schemes, err := cfg.Loans.Registry()
	if err != nil {
		return nil, err
	}
	minBalance, maxAmount, err := cfg.Loans.HighBalanceThresholds()
	if err != nil {
		return nil, fmt.Errorf("loan thresholds: %w", err)
	}

	transactor := repository.NewTransactor(database, cfg.Database.TxMaxRetries)
	reader := repository.NewStore(database)

	ledger := service.NewLedgerService(transactor, reader, notifier, logger)
	interest := service.NewInterestService(ledger, service.DefaultInterestStrategies(savingsRate))
	loans := service.NewLoanService(ledger, service.LoanPolicy{
		Schemes:       schemes,
		Strategies:    service.DefaultLoanStrategies(cfg.Loans.HistoryWindow, minBalance, maxAmount),
		HistoryWindow: cfg.Loans.HistoryWindow,
	})
	repayments := service.NewRepaymentService(ledger)
	recharges := service.NewRechargeService(ledger, nil)

	h := NewHandler(ledger, interest, loans, repayments, recharges, database, logger)
	router := NewRouter(h, repository.NewIdempotencyRepository(database), logger)

	return &App{Router: router, Repayments: repayments}, nil
}
