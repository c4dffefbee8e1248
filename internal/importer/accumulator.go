package importer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ingro/internal/locale"
	"github.com/cleared-dev/ingro/internal/model"
)

// Pending is the transaction currently being assembled. An empty Date means
// no transaction is in progress.
type Pending struct {
	Line      int // line of the record-start row
	Date      string
	Details   string
	Amount    decimal.Decimal
	Direction model.Direction
}

func emptyPending() Pending {
	return Pending{Amount: decimal.Zero, Direction: model.DirectionNone}
}

// Accumulator folds export rows into transactions. A transaction spans one
// record-start row plus any continuation rows after it, and is emitted when
// the next record-start or trailer row arrives. An Accumulator serves a
// single file and is not safe for concurrent use.
type Accumulator struct {
	months  locale.Months
	pending Pending
}

// NewAccumulator returns an Accumulator that reads month names from months.
func NewAccumulator(months locale.Months) *Accumulator {
	return &Accumulator{months: months, pending: emptyPending()}
}

// Step feeds one row. It returns the transaction completed by this row, if any.
// Errors name the line they belong to: the row's own line for a bad amount,
// the record's first line for a bad date or missing direction.
func (a *Accumulator) Step(line Line) (model.BankTransaction, bool, error) {
	c, err := Classify(line.Row)
	if err != nil {
		return model.BankTransaction{}, false, fmt.Errorf("line %d: %w", line.Number, err)
	}

	switch c.Kind {
	case KindHeader:
		return model.BankTransaction{}, false, nil

	case KindRecordStart:
		txn, ok, err := a.finalize()
		if err != nil {
			return model.BankTransaction{}, false, err
		}
		a.pending = Pending{
			Line:      line.Number,
			Date:      c.Date,
			Details:   c.Details,
			Amount:    c.Amount,
			Direction: c.Direction,
		}
		return txn, ok, nil

	case KindTrailer:
		txn, ok, err := a.finalize()
		if err != nil {
			return model.BankTransaction{}, false, err
		}
		a.pending = emptyPending()
		return txn, ok, nil

	default:
		// Continuations before any record land in an undated pending record
		// and are overwritten by the next record start.
		a.pending.Details += " " + c.Details
		return model.BankTransaction{}, false, nil
	}
}

// Pending returns the in-progress transaction and whether one exists.
func (a *Accumulator) Pending() (Pending, bool) {
	return a.pending, a.pending.Date != ""
}

// Flush finalizes the in-progress transaction, if any, and resets the
// accumulator. Exports normally end with a trailer row, which makes Flush
// unnecessary.
func (a *Accumulator) Flush() (model.BankTransaction, bool, error) {
	txn, ok, err := a.finalize()
	if err != nil {
		return model.BankTransaction{}, false, err
	}
	a.pending = emptyPending()
	return txn, ok, nil
}

func (a *Accumulator) finalize() (model.BankTransaction, bool, error) {
	p := a.pending
	if p.Date == "" {
		return model.BankTransaction{}, false, nil
	}

	date, err := locale.ParseDate(p.Date, a.months)
	if err != nil {
		return model.BankTransaction{}, false, fmt.Errorf("line %d: %w: %w", p.Line, ErrMalformedDate, err)
	}
	if !p.Direction.Valid() {
		return model.BankTransaction{}, false, fmt.Errorf("line %d: %w: %s %q", p.Line, ErrNoDirection, p.Date, p.Details)
	}

	return model.BankTransaction{
		Date:      date,
		Details:   p.Details,
		Amount:    p.Amount,
		Direction: p.Direction,
	}, true, nil
}
