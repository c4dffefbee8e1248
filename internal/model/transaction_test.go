package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDirectionValid(t *testing.T) {
	tests := []struct {
		dir  Direction
		want bool
	}{
		{DirectionDebit, true},
		{DirectionCredit, true},
		{DirectionNone, false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.dir.Valid(), "Valid(%q)", tt.dir)
	}
}

func TestSigned(t *testing.T) {
	amt := decimal.RequireFromString("150.00")

	debit := BankTransaction{Amount: amt, Direction: DirectionDebit}
	assert.Equal(t, "-150.00", debit.Signed().StringFixed(2))

	credit := BankTransaction{Amount: amt, Direction: DirectionCredit}
	assert.Equal(t, "150.00", credit.Signed().StringFixed(2))
}
