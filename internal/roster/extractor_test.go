package roster

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSingleAppointment(t *testing.T) {
	pages := []Page{{
		"Anfahrt", "Montag", "06.03.2023",
		"AG Freiburg", "08:30", "123 Js 456/23", "Mueller", "StA",
		"Seite", "1",
	}}

	got := NewExtractor(nil).Extract(pages)
	want := []AssignmentRecord{{
		Date:  "2023-03-06",
		When:  "08:30",
		Who:   "StA Mueller",
		Where: "AG Freiburg",
		What:  "123 Js 456/23",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractSharedLocation(t *testing.T) {
	pages := []Page{{
		"Anfahrt", "Dienstag", "07.03.2023",
		"LG Freiburg ,", "Saal IV",
		"08:30", "111 Js 1/23", "Mueller, Anna,", "StA'in",
		"10:00", "222 Js 2/23", "Weber, Klaus,", "OAA",
		"trailing",
	}}

	got := NewExtractor(nil).Extract(pages)
	want := []AssignmentRecord{
		{Date: "2023-03-07", When: "10:00", Who: "OAA Klaus Weber", Where: "LG Freiburg Saal IV", What: "222 Js 2/23"},
		{Date: "2023-03-07", When: "08:30", Who: "StA'in Anna Mueller", Where: "LG Freiburg Saal IV", What: "111 Js 1/23"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Extract mismatch (-want +got):\n%s", diff)
	}
}

// A plain token counts as location unless the next token is a title, even
// after time or docket have been seen.
func TestExtractLocationGuard(t *testing.T) {
	pages := []Page{{
		"Anfahrt", "Mittwoch", "08.03.2023",
		"AG Kenzingen", "10:00", "Sitzungssaal 2", "Weber", "StA",
	}}

	got := NewExtractor(nil).Extract(pages)
	require.Len(t, got, 1)
	assert.Equal(t, "AG Kenzingen Sitzungssaal 2", got[0].Where)
	assert.Equal(t, "StA Weber", got[0].Who)
}

func TestExtractDefectMerge(t *testing.T) {
	pages := []Page{{
		"Anfahrt", "Donnerstag", "09.03.2023",
		"AG Freiburg", "08:30", "111 Js 1/23", "Mueller", "StA",
		"Schmidt, Eva, StA'in, Mueller,", "StA",
	}}

	got := NewExtractor(nil).Extract(pages)
	require.Len(t, got, 1)
	assert.Equal(t, "08:30", got[0].When)
	assert.Equal(t, "StA'in Eva Schmidt; StA Mueller", got[0].Who)
}

func TestExtractBlockWithoutAssignee(t *testing.T) {
	pages := []Page{{
		"Anfahrt", "Freitag", "10.03.2023",
		"AG Freiburg", "08:30", "111 Js 1/23",
		"AG Lörrach", "09:00", "222 Js 2/23", "Weber", "OStA",
	}}

	got := NewExtractor(nil).Extract(pages)
	require.Len(t, got, 1)
	assert.Equal(t, "AG Lörrach", got[0].Where)
}

func TestExtractEmpty(t *testing.T) {
	assert.Empty(t, NewExtractor(nil).Extract(nil))
	assert.Empty(t, NewExtractor(nil).Extract([]Page{{"Seite", "1"}}))
}

func TestExtractFreshStatePerDocument(t *testing.T) {
	e := NewExtractor(nil)
	first := e.Extract([]Page{{"Anfahrt", "Montag", "06.03.2023", "AG Freiburg", "08:30", "Mueller", "StA"}})
	// no weekday: must not fall back to the date of the previous document
	second := e.Extract([]Page{{"Anfahrt", "AG Freiburg", "08:30", "Weber", "StA"}})

	assert.Len(t, first, 1)
	assert.Empty(t, second)
}
