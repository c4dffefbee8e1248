package importer

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/cleared-dev/ingro/internal/charset"
	"github.com/cleared-dev/ingro/internal/locale"
	"github.com/cleared-dev/ingro/internal/model"
)

// Options configure the built-in parsers.
type Options struct {
	Charset string        // input charset, charset.Default if empty
	Months  locale.Months // month names, locale.Romanian if nil
	// FlushUnterminated emits a transaction still in progress at end of
	// file. By default it is dropped with a warning.
	FlushUnterminated bool
	Logger            *log.Logger
}

// INGRomaniaParser parses ING Romania account statement CSV exports.
type INGRomaniaParser struct {
	opts Options
}

// NewINGRomaniaParser returns a parser using opts.
func NewINGRomaniaParser(opts Options) *INGRomaniaParser {
	if opts.Months == nil {
		opts.Months = locale.Romanian
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &INGRomaniaParser{opts: opts}
}

// Format returns the parser name.
func (p *INGRomaniaParser) Format() string { return "ing-ro" }

// Parse decodes r and returns its transactions in file order.
func (p *INGRomaniaParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	decoded, err := charset.NewReader(r, p.opts.Charset)
	if err != nil {
		return nil, err
	}

	acc := NewAccumulator(p.opts.Months)
	var txns []model.BankTransaction
	for txn, err := range Transactions(Lines(decoded), acc) {
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	pending, ok := acc.Pending()
	if !ok {
		return txns, nil
	}
	if !p.opts.FlushUnterminated {
		p.opts.Logger.Warn("dropping transaction with no trailer row after it",
			"line", pending.Line, "date", pending.Date, "details", pending.Details)
		return txns, nil
	}

	txn, _, err := acc.Flush()
	if err != nil {
		return nil, fmt.Errorf("end of export: %w", err)
	}
	return append(txns, txn), nil
}
