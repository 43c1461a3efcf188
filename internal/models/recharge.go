package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RechargeStatus is the outcome of a mobile top-up
type RechargeStatus string

const (
	RechargeStatusSuccess RechargeStatus = "Success"
	RechargeStatusFailed  RechargeStatus = "Failed"
)

// MobileRecharge mirrors the Recharge transaction written in the same unit of work
type MobileRecharge struct {
	CreatedAt     time.Time       `db:"created_at"`
	PhoneNumber   string          `db:"phone_number"`
	CountryCode   string          `db:"country_code"`
	Status        RechargeStatus  `db:"status"`
	Amount        decimal.Decimal `db:"amount"`
	ID            uuid.UUID       `db:"id"`
	AccountID     uuid.UUID       `db:"account_id"`
	TransactionID uuid.UUID       `db:"transaction_id"`
}
