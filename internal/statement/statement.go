// Package statement assembles converted transactions into an account
// statement and writes it out in interchange formats.
package statement

import (
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ingro/internal/balance"
	"github.com/cleared-dev/ingro/internal/fitid"
	"github.com/cleared-dev/ingro/internal/model"
)

// ErrBothBalances is returned when a statement is given both an opening and a closing balance.
var ErrBothBalances = errors.New("only one of opening or closing balance may be set")

// Account identifies the account a statement belongs to.
type Account struct {
	BankID    string
	AccountID string
	Type      string // OFX ACCTTYPE: CHECKING, SAVINGS, CREDITLINE
	Currency  string
}

// Statement is a converted export ready to be written.
type Statement struct {
	Account      Account
	StartBalance decimal.Decimal
	EndBalance   decimal.Decimal
	StartDate    time.Time
	EndDate      time.Time
	GeneratedAt  time.Time
	Transactions []model.BankTransaction
}

// Balances anchors the running balance. With neither set the statement
// opens at zero.
type Balances struct {
	Opening *decimal.Decimal
	Closing *decimal.Decimal
}

// New assigns transaction IDs and running balances and returns the statement.
// txns is modified in place. A statement without transactions spans now.
func New(account Account, txns []model.BankTransaction, bal Balances, now time.Time) (*Statement, error) {
	if bal.Opening != nil && bal.Closing != nil {
		return nil, ErrBothBalances
	}

	fitid.Assign(txns)

	var sum balance.Summary
	switch {
	case bal.Closing != nil:
		sum = balance.Backward(txns, *bal.Closing)
	case bal.Opening != nil:
		sum = balance.Forward(txns, *bal.Opening)
	default:
		sum = balance.Forward(txns, decimal.Zero)
	}
	if len(txns) == 0 {
		sum.StartDate, sum.EndDate = now, now
	}

	return &Statement{
		Account:      account,
		StartBalance: sum.StartBalance,
		EndBalance:   sum.EndBalance,
		StartDate:    sum.StartDate,
		EndDate:      sum.EndDate,
		GeneratedAt:  now,
		Transactions: txns,
	}, nil
}

// Writer serializes a statement.
type Writer interface {
	Write(w io.Writer, st *Statement) error
	Format() string
	Extension() string
}

// Registry holds named writers.
type Registry struct {
	writers map[string]Writer
}

// NewRegistry creates an empty writer registry.
func NewRegistry() *Registry {
	return &Registry{writers: make(map[string]Writer)}
}

// Register adds a writer. Panics on duplicate format.
func (r *Registry) Register(w Writer) {
	key := strings.ToLower(w.Format())
	if _, ok := r.writers[key]; ok {
		panic("duplicate writer format: " + key)
	}
	r.writers[key] = w
}

// Get returns the writer for format, or nil.
func (r *Registry) Get(format string) Writer {
	return r.writers[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.writers))
	for name := range r.writers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in writers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&OFXWriter{})
	r.Register(&CSVWriter{})
	return r
}
