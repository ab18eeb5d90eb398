package export

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/joseph-ayodele/sitzungsdienst/internal/roster"
)

func writeCSV(w io.Writer, records []roster.AssignmentRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeJSON writes an indented array; umlauts and '&' stay unescaped.
func writeJSON(w io.Writer, records []roster.AssignmentRecord) error {
	if records == nil {
		records = []roster.AssignmentRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}
