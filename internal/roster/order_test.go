package roster

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSortRecords(t *testing.T) {
	records := []AssignmentRecord{
		{Date: "2023-03-07", Who: "StA Mueller", When: "08:30"},
		{Date: "2023-03-06", Who: "StA Weber", When: "10:00"},
		{Date: "2023-03-06", Who: "StA Mueller", When: "10:00", Where: "AG B"},
		{Date: "2023-03-06", Who: "StA Mueller", When: "10:00", Where: "AG A"},
		{Date: "2023-03-06", Who: "OStA Zander", When: "09:00"},
	}
	SortRecords(records)

	want := []AssignmentRecord{
		{Date: "2023-03-06", Who: "OStA Zander", When: "09:00"},
		{Date: "2023-03-06", Who: "StA Mueller", When: "10:00", Where: "AG A"},
		{Date: "2023-03-06", Who: "StA Mueller", When: "10:00", Where: "AG B"},
		{Date: "2023-03-06", Who: "StA Weber", When: "10:00"},
		{Date: "2023-03-07", Who: "StA Mueller", When: "08:30"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("sort mismatch (-want +got):\n%s", diff)
	}

	again := append([]AssignmentRecord(nil), records...)
	SortRecords(again)
	assert.Equal(t, records, again, "sorting a sorted list is a no-op")
}

func TestFilter(t *testing.T) {
	a := AssignmentRecord{Who: "Mueller; Schmidt"}
	b := AssignmentRecord{Who: "Weber"}
	records := []AssignmentRecord{a, b}

	assert.Equal(t, []AssignmentRecord{a}, Filter(records, []string{"mueller"}))
	assert.Equal(t, records, Filter(records, nil))
	assert.Equal(t, records, Filter(records, []string{}))
	assert.Equal(t, []AssignmentRecord{a, b}, Filter(records, []string{"mueller", "weber"}))
	assert.Equal(t, []AssignmentRecord{a}, Filter(records, []string{"MUELLER", "schmidt"}))
	assert.Empty(t, Filter(records, []string{"zander"}))
}

func TestDateRange(t *testing.T) {
	_, _, ok := DateRange(nil)
	assert.False(t, ok)

	from, to, ok := DateRange([]AssignmentRecord{{Date: "2023-03-06"}, {Date: "2023-03-08"}, {Date: "2023-03-10"}})
	assert.True(t, ok)
	assert.Equal(t, "2023-03-06", from)
	assert.Equal(t, "2023-03-10", to)
}

func TestDedupe(t *testing.T) {
	r := AssignmentRecord{Date: "2023-03-06", Who: "StA Mueller"}
	got := Dedupe([]AssignmentRecord{r, {Date: "2023-03-07"}, r})
	assert.Equal(t, []AssignmentRecord{r, {Date: "2023-03-07"}}, got)
}

func TestReverseDate(t *testing.T) {
	assert.Equal(t, "2023-03-12", ReverseDate("12.03.2023"))
	assert.Equal(t, "2023", ReverseDate("2023"))
	assert.Equal(t, "", ReverseDate(""))
}
