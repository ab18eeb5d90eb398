package roster

// Page is the ordered token stream of one decoded document page.
// Tokens are trimmed, non-empty text fragments in reading order.
type Page []string

// AssignmentRecord is one on-call assignment extracted from the roster.
// Field order matches the JSON/CSV column order.
type AssignmentRecord struct {
	Date  string `json:"date"`  // YYYY-MM-DD (reversed from DD.MM.YYYY)
	When  string `json:"when"`  // HH:MM, may be empty
	Who   string `json:"who"`   // "Title Given Surname", several joined by "; "
	Where string `json:"where"` // court marker plus trailing location tokens
	What  string `json:"what"`  // docket number, may be empty
}

// Block is a court-marker-delimited token window. All appointments of a block
// share one location.
type Block struct {
	Court  string   // the triggering court-marker token
	Tokens []string // tokens following Court, exclusive of the next marker
}

// Span is a half-open [Start, End) range of a Block's tokens owned by one assignee entry.
type Span struct {
	Start int
	End   int
}
