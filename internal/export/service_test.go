package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/sitzungsdienst/internal/directory"
	"github.com/joseph-ayodele/sitzungsdienst/internal/roster"
)

var fixture = []roster.AssignmentRecord{
	{Date: "2023-03-06", When: "08:30", Who: "StA Mueller", Where: "AG Freiburg", What: "123 Js 456/23"},
	{Date: "2023-03-07", When: "10:00", Who: "OAA Weber; Ref'in Graf", Where: "AG Lörrach, Saal 2", What: ""},
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	s := NewService(Options{
		Location:  loc,
		Creator:   "S1SYPHOS",
		Directory: directory.New(map[string]string{"Mueller": "mueller@example.org"}),
	}, nil)
	s.now = func() time.Time { return time.Date(2023, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestNormalizeFormat(t *testing.T) {
	f, ok := NormalizeFormat("JSON")
	assert.True(t, ok)
	assert.Equal(t, "json", f)

	f, ok = NormalizeFormat("pdf")
	assert.False(t, ok)
	assert.Equal(t, "csv", f)
}

func TestWriteCSV(t *testing.T) {
	out, err := newTestService(t).Render(context.Background(), "csv", fixture)
	require.NoError(t, err)

	want := "date,when,who,where,what\n" +
		"2023-03-06,08:30,StA Mueller,AG Freiburg,123 Js 456/23\n" +
		"2023-03-07,10:00,OAA Weber; Ref'in Graf,\"AG Lörrach, Saal 2\",\n"
	assert.Equal(t, want, string(out))
}

func TestWriteJSON(t *testing.T) {
	out, err := newTestService(t).Render(context.Background(), "json", fixture)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n    {\n        \"date\": \"2023-03-06\",")
	assert.Contains(t, string(out), "Lörrach")

	var back []roster.AssignmentRecord
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, fixture, back)

	empty, err := newTestService(t).Render(context.Background(), "json", nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(empty))
}

func TestWriteICS(t *testing.T) {
	records := append([]roster.AssignmentRecord{{Date: "2023-03-08", Who: "StA Roth"}}, fixture...)

	out, err := newTestService(t).Render(context.Background(), "ics", records)
	require.NoError(t, err)
	cal := string(out)

	assert.Equal(t, 2, strings.Count(cal, "BEGIN:VEVENT"), "record without time is skipped")
	assert.Contains(t, cal, "UID:"+EventUID(fixture[0]))
	assert.Contains(t, cal, "DTSTART:20230306T073000Z")
	assert.Contains(t, cal, "DTEND:20230306T083000Z")
	assert.Contains(t, cal, "SUMMARY:Sitzungsdienst (123 Js 456/23)")
	assert.Contains(t, cal, "mailto:mueller@example.org")
	assert.Contains(t, cal, "DESCRIPTION:OAA Weber")
	assert.NotContains(t, cal, "CN=Ref'in Graf", "no attendee without an address")
	for _, line := range strings.Split(cal, "\n") {
		assert.False(t, strings.HasSuffix(strings.TrimRight(line, "\r"), "mailto:"), "empty mailto in %q", line)
	}
	assert.Contains(t, cal, "S1SYPHOS")
}

func TestEventUIDStable(t *testing.T) {
	assert.Equal(t, EventUID(fixture[0]), EventUID(fixture[0]))
	assert.NotEqual(t, EventUID(fixture[0]), EventUID(fixture[1]))
	assert.Len(t, EventUID(fixture[0]), 32)
}

func TestWriteXLSX(t *testing.T) {
	out, err := newTestService(t).Render(context.Background(), "xlsx", fixture)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, columns, rows[0])
	assert.Equal(t, "StA Mueller", rows[1][2])
}

func TestWriteUnknownFormat(t *testing.T) {
	_, err := newTestService(t).Render(context.Background(), "pdf", fixture)
	assert.Error(t, err)
}

func TestSaveFile(t *testing.T) {
	path := OutputPath(filepath.Join(t.TempDir(), "dist", "kw10"), "Data", "csv")
	assert.True(t, strings.HasSuffix(path, filepath.Join("kw10", "data.csv")))

	require.NoError(t, newTestService(t).SaveFile(context.Background(), path, "csv", fixture))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "date,when,who,where,what\n"))
}
