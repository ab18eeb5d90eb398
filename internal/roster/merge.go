package roster

// MergeDefects repairs the split-record artifact produced by two assignees on
// one appointment: the second record carries neither time nor docket, but the
// correct assignees. Its who overwrites the preceding record's who and the
// record itself is dropped. A defect without any assignee is dropped without
// touching its predecessor. Records left without any assignee are dropped too.
//
// The input must be in assembly order (not sorted). The input slice is not modified.
func MergeDefects(records []AssignmentRecord) []AssignmentRecord {
	out := make([]AssignmentRecord, 0, len(records))
	for _, r := range records {
		if r.When == "" && r.What == "" {
			if len(out) > 0 && r.Who != "" {
				out[len(out)-1].Who = r.Who
			}
			continue
		}
		out = append(out, r)
	}

	kept := out[:0]
	for _, r := range out {
		if r.Who != "" {
			kept = append(kept, r)
		}
	}
	return kept
}
