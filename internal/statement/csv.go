package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/ingro/internal/model"
)

// CSVHeader is the header row written by CSVWriter.
const CSVHeader = "date,details,amount,direction,balance,fitid"

const (
	csvNumFields    = 6
	csvDateFormat   = "2006-01-02"
	csvColDate      = 0
	csvColDetails   = 1
	csvColAmount    = 2
	csvColDirection = 3
	csvColBalance   = 4
	csvColFITID     = 5
)

// CSVWriter writes one normalized row per transaction.
type CSVWriter struct{}

// Format returns the writer name.
func (w *CSVWriter) Format() string { return "csv" }

// Extension returns the output file extension.
func (w *CSVWriter) Extension() string { return ".csv" }

// Write writes the header and every transaction of st.
func (w *CSVWriter) Write(out io.Writer, st *Statement) error {
	cw := csv.NewWriter(out)

	if err := cw.Write(strings.Split(CSVHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range st.Transactions {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a transaction to a CSV row.
func MarshalTransaction(t model.BankTransaction) []string {
	row := make([]string, csvNumFields)
	row[csvColDate] = t.Date.Format(csvDateFormat)
	row[csvColDetails] = t.Details
	row[csvColAmount] = t.Amount.StringFixed(2)
	row[csvColDirection] = string(t.Direction)
	row[csvColBalance] = t.Balance.StringFixed(2)
	row[csvColFITID] = t.FITID
	return row
}
