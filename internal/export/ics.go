package export

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/joseph-ayodele/sitzungsdienst/internal/roster"
)

// eventDuration is fixed: the roster carries start times only.
const eventDuration = time.Hour

// EventUID is the md5 hex digest of the record's JSON form, so re-exports of
// an unchanged record update the same calendar event.
func EventUID(r roster.AssignmentRecord) string {
	b, _ := json.Marshal(r)
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

func (s *Service) writeICS(ctx context.Context, w io.Writer, records []roster.AssignmentRecord) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(fmt.Sprintf("-//%s//Sitzungsdienst//DE", s.opts.Creator))

	created := s.now().In(s.opts.Location)
	skipped := 0
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		begin, err := time.ParseInLocation("2006-01-0215:04", r.Date+r.When, s.opts.Location)
		if err != nil {
			s.logger.Warn("export.ics.skip", "date", r.Date, "when", r.When, "who", r.Who, "error", err)
			skipped++
			continue
		}

		event := cal.AddEvent(EventUID(r))
		event.SetCreatedTime(created)
		event.SetDtStampTime(created)
		event.SetStartAt(begin)
		event.SetEndAt(begin.Add(eventDuration))
		event.SetSummary(fmt.Sprintf("Sitzungsdienst (%s)", r.What))
		event.SetLocation(r.Where)

		// Attendees need an address; everyone else goes into the description.
		var unlisted []string
		for _, person := range strings.Split(r.Who, ";") {
			person = strings.TrimSpace(person)
			if person == "" {
				continue
			}
			email, ok := s.opts.Directory.Lookup(person)
			if !ok || email == "" {
				unlisted = append(unlisted, person)
				continue
			}
			event.AddAttendee(email, ics.WithCN(person))
		}
		if len(unlisted) > 0 {
			event.SetDescription(strings.Join(unlisted, "; "))
		}
	}

	if skipped > 0 {
		s.logger.Info("export.ics.partial", "events", len(records)-skipped, "skipped", skipped)
	}
	_, err := io.WriteString(w, cal.Serialize())
	return err
}
