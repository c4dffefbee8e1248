package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ingro/internal/commands"
	"github.com/cleared-dev/ingro/internal/config"
	"github.com/cleared-dev/ingro/internal/runlog"
)

const (
	badExport   = "Data,,,Detalii,,Debit,Credit\n1 mai 2020,,,A,,abc,\n,end,,,,,\n"
	emptyExport = "Data,,,Detalii tranzactie,,Debit,Credit\n,Sold initial,,,,,\n,Sold final,,,,,\n"
	testAccount = "RO49INGB0000999901234567"
)

func runIngro(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func copyStatement(t *testing.T, dst string) {
	t.Helper()
	data, err := os.ReadFile("../../testdata/ingro_statement.csv")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

func readOFX(t *testing.T, path string) *ofxgo.StatementResponse {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	resp, err := ofxgo.ParseResponse(f)
	require.NoError(t, err)
	require.Len(t, resp.Bank, 1)
	stmt, ok := resp.Bank[0].(*ofxgo.StatementResponse)
	require.True(t, ok)
	return stmt
}

func TestVersion(t *testing.T) {
	out, _, err := runIngro(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit: none, built: unknown)")
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, _, err := runIngro(t, "init", dir, "--account", testAccount)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized ingro project")

	for _, d := range []string{"import", filepath.Join("import", "processed"), "export", "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, testAccount, cfg.Account.AccountID)
	assert.Equal(t, "RON", cfg.Account.Currency)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runIngro(t, "init", dir, "--account", testAccount)
	require.NoError(t, err)

	_, _, err = runIngro(t, "init", dir, "--account", testAccount)
	assert.ErrorContains(t, err, "already exists")
}

func TestInit_RequiresAccount(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runIngro(t, "init", dir)
	assert.ErrorContains(t, err, `"account" not set`)

	_, _, err = runIngro(t, "init", dir, "--account", "")
	assert.ErrorContains(t, err, "--account must not be empty")
	assert.NoFileExists(t, filepath.Join(dir, config.FileName))
}

func TestConvert_OFX(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "iunie.csv")
	copyStatement(t, src)

	out, _, err := runIngro(t, "convert", src, "--account", testAccount, "--closing-balance", "5000.00")
	require.NoError(t, err)
	assert.Contains(t, out, "(3 transactions)")

	stmt := readOFX(t, filepath.Join(dir, "iunie.ofx"))
	assert.Equal(t, "RON", stmt.CurDef.String())
	assert.Equal(t, ofxgo.String(testAccount), stmt.BankAcctFrom.AcctID)
	assert.Equal(t, "5000", stmt.BalAmt.String())

	require.NotNil(t, stmt.BankTranList)
	txns := stmt.BankTranList.Transactions
	require.Len(t, txns, 3)
	assert.Equal(t, "-1234.56", txns[0].TrnAmt.String())
	assert.Equal(t, "2500", txns[1].TrnAmt.String())
	assert.Equal(t, ofxgo.String("Plată factură Beneficiar: Ion Popescu"), txns[2].Memo)
}

func TestConvert_OFXTrailerOnly(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "gol.csv")
	require.NoError(t, os.WriteFile(src, []byte(emptyExport), 0o644))

	out, _, err := runIngro(t, "convert", src, "--account", testAccount, "--closing-balance", "12.50")
	require.NoError(t, err)
	assert.Contains(t, out, "(0 transactions)")

	stmt := readOFX(t, filepath.Join(dir, "gol.ofx"))
	require.NotNil(t, stmt.BankTranList)
	assert.Empty(t, stmt.BankTranList.Transactions)
	assert.False(t, stmt.BankTranList.DtStart.IsZero())
	assert.False(t, stmt.BankTranList.DtEnd.IsZero())
	assert.False(t, stmt.DtAsOf.IsZero())
	assert.Equal(t, "12.5", stmt.BalAmt.String())
}

func TestConvert_OFXWithoutAccount(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "iunie.csv")
	copyStatement(t, src)

	_, stderr, err := runIngro(t, "convert", src)
	assert.ErrorContains(t, err, "1 of 1 files failed")
	assert.Contains(t, stderr, "no account number configured")
	assert.Contains(t, stderr, "account number not set")
	assert.NoFileExists(t, filepath.Join(dir, "iunie.ofx"))
}

func TestConvert_CSVToOutputDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "iunie.csv")
	copyStatement(t, src)
	outDir := filepath.Join(dir, "out")

	_, _, err := runIngro(t, "convert", src, "--format", "csv", "-o", outDir, "--opening-balance", "100")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "iunie.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "2020-06-02,Cumparare POS Nr. card: ****1234 Terminal: MEGA IMAGE,1234.56,DEBIT,-1134.56,20200602-001", lines[1])
	assert.Equal(t, "2020-06-05,Plată factură Beneficiar: Ion Popescu,50.00,DEBIT,1315.44,20200605-001", lines[3])
}

func TestConvert_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "iunie.csv")
	copyStatement(t, src)

	cfg := config.Default()
	cfg.Format = "csv"
	cfgPath := filepath.Join(dir, config.FileName)
	require.NoError(t, config.Save(cfgPath, cfg))

	outDir := filepath.Join(dir, "out")
	_, _, err := runIngro(t, "convert", src, "--config", cfgPath, "-o", outDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "iunie.csv"))
	assert.NoFileExists(t, filepath.Join(outDir, "iunie.ofx"))
}

func TestConvert_RefusesToOverwriteInput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "iunie.csv")
	copyStatement(t, src)
	before, err := os.ReadFile(src)
	require.NoError(t, err)

	_, stderr, err := runIngro(t, "convert", src, "--format", "csv")
	assert.Error(t, err)
	assert.Contains(t, stderr, "would overwrite its input")

	after, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestConvert_ContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	bad := filepath.Join(dir, "bad.csv")
	copyStatement(t, good)
	require.NoError(t, os.WriteFile(bad, []byte(badExport), 0o644))

	out, stderr, err := runIngro(t, "convert", bad, good, "--account", testAccount)
	assert.ErrorContains(t, err, "1 of 2 files failed")
	assert.Contains(t, out, "good.ofx")
	assert.Contains(t, stderr, "malformed amount")
	assert.FileExists(t, filepath.Join(dir, "good.ofx"))
	assert.NoFileExists(t, filepath.Join(dir, "bad.ofx"))
}

func TestConvert_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "iunie.csv")
	copyStatement(t, src)

	_, _, err := runIngro(t, "convert", src, "--format", "qif")
	assert.ErrorContains(t, err, `unknown output format "qif"`)
}

func TestConvert_BothBalances(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "iunie.csv")
	copyStatement(t, src)

	_, _, err := runIngro(t, "convert", src, "--opening-balance", "1", "--closing-balance", "2")
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runIngro(t, "init", dir, "--account", testAccount)
	require.NoError(t, err)

	copyStatement(t, filepath.Join(dir, "import", "iunie.csv"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "mai.csv"), []byte(badExport), 0o644))

	out, _, err := runIngro(t, "import", "--repo", dir)
	assert.ErrorContains(t, err, "1 of 2 files failed")
	assert.Contains(t, out, "iunie.csv -> export/iunie.ofx (3 transactions)")

	assert.FileExists(t, filepath.Join(dir, "export", "iunie.ofx"))
	assert.FileExists(t, filepath.Join(dir, "import", "processed", "iunie.csv"))
	assert.FileExists(t, filepath.Join(dir, "import", "mai.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "export", "mai.ofx"))

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "iunie.csv", entries[0].File)
	assert.Equal(t, runlog.StatusConverted, entries[0].Status)
	assert.Equal(t, 3, entries[0].Transactions)
	assert.Equal(t, "mai.csv", entries[1].File)
	assert.Equal(t, runlog.StatusFailed, entries[1].Status)
	assert.Contains(t, entries[1].Error, "malformed amount")
}

func TestImport_Empty(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runIngro(t, "init", dir, "--account", testAccount)
	require.NoError(t, err)

	out, _, err := runIngro(t, "import", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No exports to import.")
}
