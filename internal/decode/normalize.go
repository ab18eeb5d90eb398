package decode

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/joseph-ayodele/sitzungsdienst/internal/roster"
)

var reCRLF = regexp.MustCompile(`\r\n?`)

// FromText splits decoded text into pages (form feed separated) and every
// page into tokens: one per non-blank line, trimmed and NFC-normalized so
// that decomposed umlauts compare equal to their composed form.
func FromText(text string) []roster.Page {
	text = reCRLF.ReplaceAllString(text, "\n")
	raw := strings.Split(text, "\f")

	pages := make([]roster.Page, 0, len(raw))
	for i, p := range raw {
		page := Tokens(p)
		// pdftotext terminates the last page with a form feed too
		if i == len(raw)-1 && len(page) == 0 && i > 0 {
			break
		}
		pages = append(pages, page)
	}
	return pages
}

// Tokens returns the trimmed, non-empty lines of s.
func Tokens(s string) roster.Page {
	var page roster.Page
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(norm.NFC.String(line))
		if line != "" {
			page = append(page, line)
		}
	}
	return page
}
