package roster

import (
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/sitzungsdienst/constants"
)

// Buckets holds the tokens collected per raw date ("06.03.2023"), in the
// order the dates first appear in the document.
type Buckets struct {
	dates  []string
	tokens map[string][]string
}

func newBuckets() *Buckets {
	return &Buckets{tokens: map[string][]string{}}
}

func (b *Buckets) ensure(date string) {
	if _, ok := b.tokens[date]; ok {
		return
	}
	b.dates = append(b.dates, date)
	b.tokens[date] = []string{}
}

func (b *Buckets) add(date, tok string) {
	b.tokens[date] = append(b.tokens[date], tok)
}

// Dates returns the bucket keys in first-seen order.
func (b *Buckets) Dates() []string { return b.dates }

// Tokens returns the tokens of a date bucket (nil if unknown).
func (b *Buckets) Tokens(date string) []string { return b.tokens[date] }

// Len returns the number of date buckets.
func (b *Buckets) Len() int { return len(b.dates) }

// Sectioner trims every page to its live window and accumulates the remaining
// tokens into per-date buckets. The current date survives page breaks, so a
// day that spills onto the next page keeps filling the same bucket.
type Sectioner struct {
	logger  *slog.Logger
	buckets *Buckets
	date    string
	hasDate bool
}

// NewSectioner returns a sectioner with empty state.
func NewSectioner(logger *slog.Logger) *Sectioner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sectioner{logger: logger, buckets: newBuckets()}
}

// Feed consumes one page. The first matching rule wins for every token.
func (s *Sectioner) Feed(page Page) {
	live := false
	for i := 0; i < len(page); i++ {
		tok := page[i]
		switch {
		case tok == constants.StartMarker:
			live = true
		case tok == constants.EndMarker:
			live = false
		case !live || strings.Contains(tok, constants.EndOfListing):
			// outside the listing
		case constants.IsWeekday(tok):
			if i+1 >= len(page) {
				s.logger.Warn("section.weekday.without_date", "weekday", tok)
				continue
			}
			i++
			s.date, s.hasDate = page[i], true
			s.buckets.ensure(s.date)
		case s.hasDate && tok == s.date:
			// date echoed in a page header
		case constants.IsContinuation(tok):
		case !s.hasDate:
			s.logger.Debug("section.token.before_date", "token", tok)
		default:
			s.buckets.add(s.date, tok)
		}
	}
}

// Buckets returns the accumulated buckets.
func (s *Sectioner) Buckets() *Buckets { return s.buckets }

// Section runs a fresh Sectioner over all pages.
func Section(pages []Page, logger *slog.Logger) *Buckets {
	s := NewSectioner(logger)
	for _, p := range pages {
		s.Feed(p)
	}
	return s.Buckets()
}
