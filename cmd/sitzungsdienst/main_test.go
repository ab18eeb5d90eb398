package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/sitzungsdienst/internal/common"
)

const weekTen = "Anfahrt\nMontag\n06.03.2023\nAG Freiburg\n08:30\n123 Js 456/23\nMueller\nStA\nSeite\n1\n"

const weekEleven = "Anfahrt\nDienstag\n14.03.2023\nLG Freiburg\n10:00\n222 Js 2/23\nWeber\nOAA\n"

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{common.ConfigFileEnv, "DB_URL", "EXPORT_FORMAT", "EXPORT_DIR", "SMTP_HOST"} {
		t.Setenv(key, "")
	}
	t.Setenv("EMAILS_FILE", filepath.Join(t.TempDir(), "missing.json"))
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestNoArguments(t *testing.T) {
	isolateEnv(t)
	_, err := run(t, "extract")
	require.Error(t, err)
}

func TestExtractCSV(t *testing.T) {
	isolateEnv(t)
	tmp := t.TempDir()
	input := writeInput(t, tmp, "kw10.txt", weekTen)
	outDir := filepath.Join(tmp, "out")

	stdout, err := run(t, "extract", "-o", "Woche", "-d", outDir, input)
	require.NoError(t, err)

	path := filepath.Join(outDir, "woche.csv")
	assert.Contains(t, stdout, `Saving file as "`+path+`" .. done.`)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "date,when,who,where,what\n2023-03-06,08:30,StA Mueller,AG Freiburg,123 Js 456/23\n", string(b))
}

func TestExtractFormatFallback(t *testing.T) {
	isolateEnv(t)
	tmp := t.TempDir()
	input := writeInput(t, tmp, "kw10.txt", weekTen)

	stdout, err := run(t, "extract", "-f", "pdf", "-d", tmp, input)
	require.NoError(t, err)
	assert.Contains(t, stdout, `Invalid file format "pdf", falling back to "csv".`)
	assert.FileExists(t, filepath.Join(tmp, "data.csv"))
}

func TestExtractNoResults(t *testing.T) {
	isolateEnv(t)
	tmp := t.TempDir()
	input := writeInput(t, tmp, "kw10.txt", weekTen)

	stdout, err := run(t, "extract", "-q", "Nobody", "-d", tmp, input)
	require.ErrorIs(t, err, common.ErrNoResults)
	assert.Contains(t, stdout, `Querying data for "Nobody" .. done.`)
	assert.Contains(t, stdout, "No results found!")
	assert.NoFileExists(t, filepath.Join(tmp, "data.csv"))
}

func TestExtractVerboseJSON(t *testing.T) {
	isolateEnv(t)
	tmp := t.TempDir()
	input := writeInput(t, tmp, "kw10.txt", weekTen)

	stdout, err := run(t, "extract", "-v", "-f", "JSON", "-q", "mueller", "-q", "weber", "-d", tmp, input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Querying data for 1) mueller 2) weber .. done.")
	assert.Contains(t, stdout, "----\nZeitraum: 2023-03-06 - 2023-03-06\n----\n")
	assert.Contains(t, stdout, "Eintrag 1:\ndate: 2023-03-06\nwhen: 08:30\nwho: StA Mueller\nwhere: AG Freiburg\nwhat: 123 Js 456/23\n--\n")
	assert.FileExists(t, filepath.Join(tmp, "data.json"))
}

func TestExtractStoreThenExport(t *testing.T) {
	isolateEnv(t)
	tmp := t.TempDir()
	t.Setenv("DB_URL", filepath.Join(tmp, "runs.db"))

	_, err := run(t, "extract", "--store", "-d", tmp, writeInput(t, tmp, "kw10.txt", weekTen))
	require.NoError(t, err)
	_, err = run(t, "extract", "--store", "-d", tmp, writeInput(t, tmp, "kw11.txt", weekEleven))
	require.NoError(t, err)

	_, err = run(t, "export", "--from", "2023-03-10", "-f", "csv", "-o", "range", "-d", tmp)
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(tmp, "range.csv"))
	require.NoError(t, err)
	assert.Equal(t, "date,when,who,where,what\n2023-03-14,10:00,OAA Weber,LG Freiburg,222 Js 2/23\n", string(b))

	_, err = run(t, "export", "--to", "14.03.2023", "-d", tmp)
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestExportNeedsDatabase(t *testing.T) {
	isolateEnv(t)
	_, err := run(t, "export", "-d", t.TempDir())
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestBatch(t *testing.T) {
	isolateEnv(t)
	tmp := t.TempDir()
	in := filepath.Join(tmp, "in")
	writeInput(t, in, "kw10.txt", weekTen)
	writeInput(t, in, "kw10-copy.txt", weekTen)
	writeInput(t, filepath.Join(in, "2023"), "kw11.txt", weekEleven)
	writeInput(t, in, "notes.md", "ignored")

	stdout, err := run(t, "batch", "-o", "all", "-d", tmp, in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Processed 3 file(s), 0 failed.")

	b, err := os.ReadFile(filepath.Join(tmp, "all.csv"))
	require.NoError(t, err)
	assert.Equal(t, "date,when,who,where,what\n"+
		"2023-03-06,08:30,StA Mueller,AG Freiburg,123 Js 456/23\n"+
		"2023-03-14,10:00,OAA Weber,LG Freiburg,222 Js 2/23\n", string(b))
}

func TestMailWithoutSMTP(t *testing.T) {
	isolateEnv(t)
	tmp := t.TempDir()
	input := writeInput(t, tmp, "kw10.txt", weekTen)

	_, err := run(t, "extract", "--mail-to", "sta@example.org", "-d", tmp, input)
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestQueryReport(t *testing.T) {
	assert.Equal(t, `"Lörrach"`, queryReport([]string{"Lörrach"}))
	assert.Equal(t, "1) a 2) b 3) c", queryReport([]string{"a", "b", "c"}))
}

func TestDBHealth(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DB_URL", filepath.Join(t.TempDir(), "runs.db"))
	stdout, err := run(t, "dbhealth")
	require.NoError(t, err)
	assert.Equal(t, "DB health: OK\n", stdout)
}

func TestBatchSequential(t *testing.T) {
	isolateEnv(t)
	t.Setenv("QUEUE_WORKERS", "1")
	tmp := t.TempDir()
	in := filepath.Join(tmp, "in")
	writeInput(t, in, "kw10.txt", weekTen)
	writeInput(t, in, "broken.pdf", "not a pdf")
	t.Setenv("PDFTOTEXT", filepath.Join(tmp, "no-such-pdftotext"))

	stdout, err := run(t, "batch", "-f", "json", "-d", tmp, in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Processed 2 file(s), 1 failed.")
	assert.FileExists(t, filepath.Join(tmp, "data.json"))
}
