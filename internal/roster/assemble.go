package roster

import (
	"strings"
)

// ReverseDate turns "12.03.2023" into "2023-03-12". It only permutes the
// dot-separated components; no calendar validation happens.
func ReverseDate(date string) string {
	parts := strings.Split(date, ".")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "-")
}

// Location builds the shared location of a block from its court marker and
// the collected location tokens.
func Location(court string, where []string) string {
	parts := append([]string{strings.ReplaceAll(court, " ,", "")}, where...)
	return strings.Join(parts, " ")
}

// AssembleBlock builds one record per appointment span of b. Blocks without
// a person title yield nil.
func AssembleBlock(date string, b Block) []AssignmentRecord {
	spans := Split(b)
	if len(spans) == 0 {
		return nil
	}

	var where []string
	day := ReverseDate(date)
	records := make([]AssignmentRecord, 0, len(spans))
	for _, sp := range spans {
		f := classifySpan(b.Tokens, sp, &where)
		records = append(records, AssignmentRecord{
			Date: day,
			When: f.when,
			Who:  FormatPerson(f.who),
			What: f.what,
		})
	}

	loc := Location(b.Court, where)
	for i := range records {
		records[i].Where = loc
	}
	return records
}
