package roster

import "regexp"

var (
	reCourt  = regexp.MustCompile(`^(?:AG|LG)\s`)
	reTime   = regexp.MustCompile(`^\d{2}:\d{2}`)
	reDocket = regexp.MustCompile(`^\d{3}\s?U?Js\s\d+/\d{2}`)

	// Ranks: (E)OAA, (E|O)StA, Ref, each optionally with the feminine suffix 'in.
	rePerson = regexp.MustCompile(`(?:E?(?:O?StA|OAA)|Ref)(?:'in)?`)
	// reTitle is rePerson anchored on word boundaries; group 1 is the title.
	reTitle = regexp.MustCompile(`\b((?:E?(?:O?StA|OAA)|Ref)(?:'in)?)\b`)
)

// IsCourtMarker reports whether tok opens a block ("AG Freiburg", "LG Freiburg ,").
func IsCourtMarker(tok string) bool { return reCourt.MatchString(tok) }

// IsTime reports whether tok starts with a HH:MM stamp.
func IsTime(tok string) bool { return reTime.MatchString(tok) }

// IsDocket reports whether tok starts with a docket number such as "123 Js 456/23".
func IsDocket(tok string) bool { return reDocket.MatchString(tok) }

// IsPersonTitle reports whether tok contains a rank abbreviation.
func IsPersonTitle(tok string) bool { return rePerson.MatchString(tok) }
