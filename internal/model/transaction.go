package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction says whether an amount leaves or enters the account.
type Direction string

const (
	DirectionNone   Direction = "NONE"
	DirectionDebit  Direction = "DEBIT"
	DirectionCredit Direction = "CREDIT"
)

// Valid reports whether d may appear on a completed transaction.
func (d Direction) Valid() bool {
	return d == DirectionDebit || d == DirectionCredit
}

// BankTransaction is one logical transaction reconstructed from a bank export.
type BankTransaction struct {
	Date      time.Time
	Details   string
	Amount    decimal.Decimal // always non-negative, Direction carries the sign
	Direction Direction
	Balance   decimal.Decimal // running balance after this transaction, set by balance.Forward or balance.Backward
	FITID     string
}

// Signed returns the amount as it affects the account balance.
// Debits are negative, credits positive.
func (t BankTransaction) Signed() decimal.Decimal {
	if t.Direction == DirectionDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}
