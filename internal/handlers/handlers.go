// Package handlers implements HTTP handlers for the ledger API.
package handlers

import (
	"log/slog"

	"github.com/benx421/retail-ledger/internal/service"
)

// Handler serves every ledger endpoint
type Handler struct {
	ledger        service.Ledger
	interest      service.InterestApplier
	loans         service.LoanUnderwriter
	settler       service.LoanSettler
	recharges     service.RechargeProcessor
	healthChecker service.HealthChecker
	logger        *slog.Logger
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	ledger service.Ledger,
	interest service.InterestApplier,
	loans service.LoanUnderwriter,
	settler service.LoanSettler,
	recharges service.RechargeProcessor,
	healthChecker service.HealthChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		ledger:        ledger,
		interest:      interest,
		loans:         loans,
		settler:       settler,
		recharges:     recharges,
		healthChecker: healthChecker,
		logger:        logger,
	}
}
