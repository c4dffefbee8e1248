package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/cleared-dev/ingro/internal/model"
)

// Line is a Row with its 1-based line number in the export.
type Line struct {
	Number int
	Row    Row
}

// Lines reads an export lazily. The first record is the column header and
// is skipped. A blank line between records is a shape error; blank lines at
// the end of the file are ignored. Iteration stops after the first error.
func Lines(r io.Reader) iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.ReuseRecord = true

		fields, err := cr.Read()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				yield(Line{}, fmt.Errorf("reading header: %w", err))
			}
			return
		}
		next := lastLine(cr, fields) + 1

		for {
			fields, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Line{}, fmt.Errorf("reading export: %w", err))
				return
			}

			// encoding/csv skips empty lines, so they only show up as a gap.
			num, _ := cr.FieldPos(0)
			if num > next {
				yield(Line{}, fmt.Errorf("line %d: %w: blank line", next, ErrRowShape))
				return
			}
			next = lastLine(cr, fields) + 1

			row, err := NewRow(fields)
			if err != nil {
				yield(Line{}, fmt.Errorf("line %d: %w", num, err))
				return
			}
			if !yield(Line{Number: num, Row: row}, nil) {
				return
			}
		}
	}
}

// Transactions runs lines through acc and yields each completed transaction.
// Iteration stops after the first error.
func Transactions(lines iter.Seq2[Line, error], acc *Accumulator) iter.Seq2[model.BankTransaction, error] {
	return func(yield func(model.BankTransaction, error) bool) {
		for line, err := range lines {
			if err != nil {
				yield(model.BankTransaction{}, err)
				return
			}
			txn, ok, err := acc.Step(line)
			if err != nil {
				yield(model.BankTransaction{}, err)
				return
			}
			if ok && !yield(txn, nil) {
				return
			}
		}
	}
}

// lastLine returns the line the record just read ends on. Quoted fields may
// span lines.
func lastLine(cr *csv.Reader, fields []string) int {
	last := len(fields) - 1
	line, _ := cr.FieldPos(last)
	return line + strings.Count(fields[last], "\n")
}
