package statement

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ingro/internal/model"
)

// ErrNoAccount is returned when an OFX statement has no account number to file it under.
var ErrNoAccount = errors.New("account number not set")

const ofxNameMax = 32

// OFXWriter writes OFX 1.02 bank statements.
type OFXWriter struct{}

// Format returns the writer name.
func (w *OFXWriter) Format() string { return "ofx" }

// Extension returns the output file extension.
func (w *OFXWriter) Extension() string { return ".ofx" }

// Write serializes st as an OFX SGML document.
func (w *OFXWriter) Write(out io.Writer, st *Statement) error {
	resp, err := ofxResponse(st)
	if err != nil {
		return err
	}
	buf, err := resp.Marshal()
	if err != nil {
		return fmt.Errorf("writing OFX: %w", err)
	}
	if _, err := buf.WriteTo(out); err != nil {
		return fmt.Errorf("writing OFX: %w", err)
	}
	return nil
}

func ofxResponse(st *Statement) (*ofxgo.Response, error) {
	if strings.TrimSpace(st.Account.AccountID) == "" {
		return nil, ErrNoAccount
	}
	curdef, err := ofxgo.NewCurrSymbol(st.Account.Currency)
	if err != nil {
		return nil, fmt.Errorf("currency %q: %w", st.Account.Currency, err)
	}
	acctType, err := ofxgo.NewAcctType(accountType(st.Account.Type))
	if err != nil {
		return nil, fmt.Errorf("account type %q: %w", st.Account.Type, err)
	}

	txns := make([]ofxgo.Transaction, 0, len(st.Transactions))
	for _, t := range st.Transactions {
		txns = append(txns, ofxTransaction(t))
	}

	stmt := &ofxgo.StatementResponse{
		TrnUID: "0",
		Status: okStatus(),
		CurDef: *curdef,
		BankAcctFrom: ofxgo.BankAcct{
			BankID:   ofxgo.String(st.Account.BankID),
			AcctID:   ofxgo.String(st.Account.AccountID),
			AcctType: acctType,
		},
		BankTranList: &ofxgo.TransactionList{
			DtStart:      ofxDate(st.StartDate),
			DtEnd:        ofxDate(st.EndDate),
			Transactions: txns,
		},
		BalAmt: ofxAmount(st.EndBalance),
		DtAsOf: ofxDate(st.EndDate),
	}

	return &ofxgo.Response{
		Version: ofxgo.OfxVersion102,
		Signon: ofxgo.SignonResponse{
			Status:   okStatus(),
			DtServer: ofxDate(st.GeneratedAt.UTC()),
			Language: "ENG",
			Org:      ofxgo.String(st.Account.BankID),
			Fid:      ofxgo.String(st.Account.BankID),
		},
		Bank: []ofxgo.Message{stmt},
	}, nil
}

func ofxTransaction(t model.BankTransaction) ofxgo.Transaction {
	trnType := ofxgo.TrnTypeCredit
	if t.Direction == model.DirectionDebit {
		trnType = ofxgo.TrnTypeDebit
	}
	return ofxgo.Transaction{
		TrnType:  trnType,
		DtPosted: ofxDate(t.Date),
		TrnAmt:   ofxAmount(t.Signed()),
		FiTID:    ofxgo.String(t.FITID),
		Name:     ofxgo.String(truncate(t.Details, ofxNameMax)),
		Memo:     ofxgo.String(t.Details),
	}
}

func okStatus() ofxgo.Status {
	return ofxgo.Status{Code: 0, Severity: "INFO"}
}

func ofxDate(t time.Time) ofxgo.Date {
	return ofxgo.Date{Time: t}
}

func ofxAmount(d decimal.Decimal) ofxgo.Amount {
	var a ofxgo.Amount
	a.Set(d.Rat())
	return a
}

func accountType(t string) string {
	if t == "" {
		return "CHECKING"
	}
	return strings.ToUpper(t)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
