// Package balance derives running balances for a statement's transactions.
package balance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ingro/internal/model"
)

// Summary describes the statement period.
type Summary struct {
	StartBalance decimal.Decimal
	EndBalance   decimal.Decimal
	StartDate    time.Time
	EndDate      time.Time
}

// Forward sets each transaction's Balance walking forward from the balance
// before the first transaction.
func Forward(txns []model.BankTransaction, opening decimal.Decimal) Summary {
	bal := opening
	for i := range txns {
		bal = bal.Add(txns[i].Signed())
		txns[i].Balance = bal
	}
	return summarize(txns, opening, bal)
}

// Backward sets each transaction's Balance so that the last one ends at the
// balance after the last transaction.
func Backward(txns []model.BankTransaction, closing decimal.Decimal) Summary {
	return Forward(txns, closing.Sub(Total(txns)))
}

// Total is the net effect of txns on the account.
func Total(txns []model.BankTransaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txns {
		sum = sum.Add(t.Signed())
	}
	return sum
}

func summarize(txns []model.BankTransaction, start, end decimal.Decimal) Summary {
	s := Summary{StartBalance: start, EndBalance: end}
	for i, t := range txns {
		if i == 0 || t.Date.Before(s.StartDate) {
			s.StartDate = t.Date
		}
		if i == 0 || t.Date.After(s.EndDate) {
			s.EndDate = t.Date
		}
	}
	return s
}
