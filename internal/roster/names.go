package roster

import (
	"strings"

	"github.com/joseph-ayodele/sitzungsdienst/constants"
)

// FormatPerson turns comma-delimited "Surname, Given, Title" fragments into
// display names ("Title Given Surname"). Several people are joined by "; ".
//
// Within the segment holding the title, text in front of the title still
// belongs to the current person and text behind it starts the next one.
func FormatPerson(tokens []string) string {
	var (
		people []string
		buffer []string
	)
	for _, segment := range strings.Split(strings.Join(tokens, " "), ",") {
		segment = strings.TrimSpace(segment)

		loc := reTitle.FindStringSubmatchIndex(segment)
		if loc == nil {
			buffer = append(buffer, segment)
			continue
		}
		title := segment[loc[2]:loc[3]]
		if head := strings.TrimSpace(segment[:loc[2]]); head != "" {
			buffer = append(buffer, head)
		}

		// the doctoral title goes right behind the given name once reversed
		for i, item := range buffer {
			if strings.Contains(item, constants.DoctoralTitle) {
				buffer[i] = strings.ReplaceAll(item, constants.DoctoralTitle, "")
				buffer = append(buffer, constants.DoctoralTitle)
				break
			}
		}
		buffer = append(buffer, title)
		people = append(people, joinReversed(buffer))

		buffer = []string{strings.ReplaceAll(segment[loc[3]:], title, "")}
	}
	return strings.Join(people, "; ")
}

// joinReversed joins the trimmed, non-empty items in reverse order.
func joinReversed(items []string) string {
	out := make([]string, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		if item := strings.TrimSpace(items[i]); item != "" {
			out = append(out, item)
		}
	}
	return strings.Join(out, " ")
}
