package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidateAmount checks that amount is positive with at most two fractional digits
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("invalid amount: must be greater than 0")
	}

	if !amount.Equal(amount.Truncate(2)) {
		return fmt.Errorf("invalid amount: at most two decimal places allowed")
	}

	return nil
}

// ValidateAccountNumber checks the account number format
func ValidateAccountNumber(accountNumber string) error {
	if len(accountNumber) == 0 || len(accountNumber) > 20 {
		return fmt.Errorf("invalid account number length: must be 1-20 digits")
	}

	if !allDigits(accountNumber) {
		return fmt.Errorf("invalid account number: must contain only digits")
	}

	return nil
}

// ValidatePhoneNumber checks a subscriber number without country code
func ValidatePhoneNumber(phone string) error {
	if len(phone) < 4 || len(phone) > 15 {
		return fmt.Errorf("invalid phone number length: must be 4-15 digits")
	}

	if !allDigits(phone) {
		return fmt.Errorf("invalid phone number: must contain only digits")
	}

	return nil
}

// ValidateCountryCode checks a dialing code such as "+92" or "44"
func ValidateCountryCode(code string) error {
	digits := code
	if len(digits) > 0 && digits[0] == '+' {
		digits = digits[1:]
	}

	if len(digits) < 1 || len(digits) > 3 {
		return fmt.Errorf("invalid country code: must be 1-3 digits")
	}

	if !allDigits(digits) {
		return fmt.Errorf("invalid country code: must contain only digits")
	}

	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
