package constants

// Structural markers of the weekly Sitzungsdienst roster layout.
const (
	// StartMarker opens the live region of a page.
	StartMarker = "Anfahrt"
	// EndMarker closes the live region of a page (page footer).
	EndMarker = "Seite"
	// EndOfListing marks the trailing line after the last appointment.
	EndOfListing = "Ende der Auflistung"
	// DoctoralTitle is moved behind the given name when names are reordered.
	DoctoralTitle = "Dr."
)

// Weekdays announce a new date; the token after the weekday is the date itself.
var Weekdays = map[string]struct{}{
	"Montag":     {},
	"Dienstag":   {},
	"Mittwoch":   {},
	"Donnerstag": {},
	"Freitag":    {},
}

// ContinuationMarkers flag follow-up appointments of a main trial. They carry no data.
var ContinuationMarkers = map[string]struct{}{
	"F": {},
	"+": {},
}

// IsWeekday reports whether s is one of the roster weekdays.
func IsWeekday(s string) bool {
	_, ok := Weekdays[s]
	return ok
}

// IsContinuation reports whether s is a follow-up marker.
func IsContinuation(s string) bool {
	_, ok := ContinuationMarkers[s]
	return ok
}
