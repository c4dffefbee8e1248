// Package fitid builds the financial-institution transaction IDs written to statements.
package fitid

import (
	"fmt"
	"time"

	"github.com/cleared-dev/ingro/internal/model"
)

const dateFormat = "20060102"

// Format returns an ID like "20200312-001".
func Format(date time.Time, seq int) string {
	return fmt.Sprintf("%s-%03d", date.Format(dateFormat), seq)
}

// Assign numbers txns per posting date, in slice order, starting at 1.
// Existing IDs are overwritten.
func Assign(txns []model.BankTransaction) {
	seqs := make(map[string]int)
	for i := range txns {
		day := txns[i].Date.Format(dateFormat)
		seqs[day]++
		txns[i].FITID = Format(txns[i].Date, seqs[day])
	}
}
