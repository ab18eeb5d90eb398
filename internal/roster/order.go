package roster

import (
	"cmp"
	"slices"
	"strings"
)

// Compare orders records by (date, who, when, where, what) using plain
// codepoint comparison. Dates are year-first, so this groups chronologically.
func Compare(a, b AssignmentRecord) int {
	return cmp.Or(
		strings.Compare(a.Date, b.Date),
		strings.Compare(a.Who, b.Who),
		strings.Compare(a.When, b.When),
		strings.Compare(a.Where, b.Where),
		strings.Compare(a.What, b.What),
	)
}

// SortRecords sorts records in place, stable.
func SortRecords(records []AssignmentRecord) {
	slices.SortStableFunc(records, Compare)
}

// Filter keeps the records whose assignees contain any of the query terms,
// case-insensitively. An empty query returns records unchanged.
func Filter(records []AssignmentRecord, query []string) []AssignmentRecord {
	if len(query) == 0 {
		return records
	}
	terms := make([]string, 0, len(query))
	for _, q := range query {
		terms = append(terms, strings.ToLower(q))
	}

	out := make([]AssignmentRecord, 0, len(records))
	for _, r := range records {
		who := strings.ToLower(r.Who)
		if slices.ContainsFunc(terms, func(t string) bool { return strings.Contains(who, t) }) {
			out = append(out, r)
		}
	}
	return out
}

// DateRange returns the dates of the first and last record of a sorted list.
// ok is false for an empty list.
func DateRange(records []AssignmentRecord) (from, to string, ok bool) {
	if len(records) == 0 {
		return "", "", false
	}
	return records[0].Date, records[len(records)-1].Date, true
}

// Dedupe drops exact duplicates, keeping the first occurrence. Used when the
// records of several documents are exported together.
func Dedupe(records []AssignmentRecord) []AssignmentRecord {
	seen := make(map[AssignmentRecord]struct{}, len(records))
	out := make([]AssignmentRecord, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
