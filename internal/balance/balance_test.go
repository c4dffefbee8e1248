package balance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/ingro/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sample() []model.BankTransaction {
	return []model.BankTransaction{
		{Date: date(2020, 3, 12), Amount: dec("150.00"), Direction: model.DirectionDebit},
		{Date: date(2020, 3, 13), Amount: dec("2500.00"), Direction: model.DirectionCredit},
		{Date: date(2020, 3, 11), Amount: dec("10.50"), Direction: model.DirectionDebit},
	}
}

func TestForward(t *testing.T) {
	txns := sample()
	s := Forward(txns, dec("1000.00"))

	assert.Equal(t, "850.00", txns[0].Balance.StringFixed(2))
	assert.Equal(t, "3350.00", txns[1].Balance.StringFixed(2))
	assert.Equal(t, "3339.50", txns[2].Balance.StringFixed(2))

	assert.Equal(t, "1000.00", s.StartBalance.StringFixed(2))
	assert.Equal(t, "3339.50", s.EndBalance.StringFixed(2))
	assert.Equal(t, date(2020, 3, 11), s.StartDate)
	assert.Equal(t, date(2020, 3, 13), s.EndDate)
}

func TestBackward(t *testing.T) {
	txns := sample()
	s := Backward(txns, dec("3339.50"))

	assert.Equal(t, "850.00", txns[0].Balance.StringFixed(2))
	assert.Equal(t, "3350.00", txns[1].Balance.StringFixed(2))
	assert.Equal(t, "3339.50", txns[2].Balance.StringFixed(2))
	assert.Equal(t, "1000.00", s.StartBalance.StringFixed(2))
	assert.Equal(t, "3339.50", s.EndBalance.StringFixed(2))
}

func TestForwardBackwardAgree(t *testing.T) {
	a := sample()
	fs := Forward(a, dec("42.00"))
	b := sample()
	bs := Backward(b, fs.EndBalance)

	for i := range a {
		assert.True(t, a[i].Balance.Equal(b[i].Balance), "txn %d", i)
	}
	assert.True(t, fs.StartBalance.Equal(bs.StartBalance))
}

func TestTotal(t *testing.T) {
	assert.Equal(t, "2339.50", Total(sample()).StringFixed(2))
	assert.True(t, Total(nil).IsZero())
}

func TestEmpty(t *testing.T) {
	s := Backward(nil, dec("5.00"))
	assert.Equal(t, "5.00", s.StartBalance.StringFixed(2))
	assert.Equal(t, "5.00", s.EndBalance.StringFixed(2))
	assert.True(t, s.StartDate.IsZero())
}
