package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ingro/internal/model"
)

var (
	// ErrRowShape means a row does not have exactly seven fields.
	ErrRowShape = errors.New("malformed row")
	// ErrMalformedAmount means a debit or credit field is not a number.
	ErrMalformedAmount = errors.New("malformed amount")
	// ErrMalformedDate means a record's date text could not be parsed.
	ErrMalformedDate = errors.New("malformed date")
	// ErrNoDirection means a record was finalized with neither a debit nor a credit amount.
	ErrNoDirection = errors.New("transaction has no debit or credit amount")
)

const (
	ingNumFields    = 7
	ingColDate      = 0
	ingColReserved1 = 1
	ingColReserved2 = 2
	ingColDetails   = 3
	ingColReserved3 = 4
	ingColDebit     = 5
	ingColCredit    = 6

	// ingHeaderDate is the date column title of the export's header row.
	ingHeaderDate = "Data"
)

// Row is one physical line of an ING Romania export.
type Row struct {
	Date      string
	Reserved1 string
	Reserved2 string
	Details   string
	Reserved3 string
	Debit     string
	Credit    string
}

// NewRow builds a Row from CSV fields.
func NewRow(fields []string) (Row, error) {
	if len(fields) != ingNumFields {
		return Row{}, fmt.Errorf("%w: expected %d fields, got %d", ErrRowShape, ingNumFields, len(fields))
	}
	return Row{
		Date:      fields[ingColDate],
		Reserved1: fields[ingColReserved1],
		Reserved2: fields[ingColReserved2],
		Details:   fields[ingColDetails],
		Reserved3: fields[ingColReserved3],
		Debit:     fields[ingColDebit],
		Credit:    fields[ingColCredit],
	}, nil
}

// Kind is the role a row plays in the export.
type Kind int

const (
	KindHeader Kind = iota
	KindRecordStart
	KindTrailer
	KindContinuation
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindRecordStart:
		return "record-start"
	case KindTrailer:
		return "trailer"
	case KindContinuation:
		return "continuation"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Classification is the result of Classify. Date, Amount and Direction are
// only meaningful for KindRecordStart; Details for KindRecordStart and
// KindContinuation.
type Classification struct {
	Kind      Kind
	Date      string
	Details   string
	Amount    decimal.Decimal
	Direction model.Direction
}

// Classify assigns a row exactly one Kind. It has no side effects.
func Classify(row Row) (Classification, error) {
	if row.Date == ingHeaderDate {
		return Classification{Kind: KindHeader}, nil
	}

	amount, dir, err := rowAmount(row)
	if err != nil {
		return Classification{}, err
	}

	switch {
	case row.Date != "":
		return Classification{
			Kind:      KindRecordStart,
			Date:      row.Date,
			Details:   row.Details,
			Amount:    amount,
			Direction: dir,
		}, nil
	case row.Reserved1 != "":
		return Classification{Kind: KindTrailer}, nil
	default:
		return Classification{Kind: KindContinuation, Details: row.Details}, nil
	}
}

// rowAmount picks the debit amount if positive, else the credit amount if
// positive, else zero with DirectionNone.
func rowAmount(row Row) (decimal.Decimal, model.Direction, error) {
	debit, err := ParseAmount(row.Debit)
	if err != nil {
		return decimal.Zero, model.DirectionNone, fmt.Errorf("debit: %w", err)
	}
	credit, err := ParseAmount(row.Credit)
	if err != nil {
		return decimal.Zero, model.DirectionNone, fmt.Errorf("credit: %w", err)
	}

	switch {
	case debit.IsPositive():
		return debit, model.DirectionDebit, nil
	case credit.IsPositive():
		return credit, model.DirectionCredit, nil
	}
	return decimal.Zero, model.DirectionNone, nil
}

// ParseAmount parses "2.500,00" style amounts. "." groups thousands and ","
// separates decimals. The empty string is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	normalized := strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q", ErrMalformedAmount, s)
	}
	return d, nil
}
