package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/sitzungsdienst/internal/common"
	"github.com/joseph-ayodele/sitzungsdienst/internal/export"
	"github.com/joseph-ayodele/sitzungsdienst/internal/roster"
)

// outputFlags are shared by every command that writes an export file.
type outputFlags struct {
	output string
	dir    string
	format string
	query  []string
	mailTo []string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output-file", "o", "data", "Output filename, without extension.")
	cmd.Flags().StringVarP(&f.dir, "directory", "d", "", "Output directory (default from config, \"dist\").")
	cmd.Flags().StringVarP(&f.format, "file-format", "f", "", `File format, "csv", "json", "ics" or "xlsx".`)
	cmd.Flags().StringArrayVarP(&f.query, "query", "q", nil, "Query assignees, eg for name, department.")
	cmd.Flags().StringSliceVar(&f.mailTo, "mail-to", nil, "Send the export file to these addresses.")
}

// resolveFormat applies the config default and the csv fallback.
func (a *app) resolveFormat(out io.Writer, requested string) string {
	if requested == "" {
		requested = a.cfg.Export.Format
	}
	format, ok := export.NormalizeFormat(requested)
	if !ok {
		fmt.Fprintf(out, "Invalid file format \"%s\", falling back to \"csv\".\n", requested)
	}
	return format
}

// writeReport filters records, saves the export file and optionally mails it
// and dumps the entries.
func (a *app) writeReport(ctx context.Context, out io.Writer, records []roster.AssignmentRecord, f outputFlags) error {
	format := a.resolveFormat(out, f.format)

	if len(f.query) > 0 {
		fmt.Fprintf(out, "Querying data for %s ..", queryReport(f.query))
		records = roster.Filter(records, f.query)
		fmt.Fprintln(out, " done.")
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No results found!")
		return common.ErrNoResults
	}

	dir := f.dir
	if dir == "" {
		dir = a.cfg.Export.Directory
	}
	path := export.OutputPath(dir, f.output, format)

	svc, err := a.newExportService()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Saving file as \"%s\" ..", path)
	if err := svc.SaveFile(ctx, path, format, records); err != nil {
		fmt.Fprintln(out)
		return err
	}
	fmt.Fprintln(out, " done.")

	from, to, _ := roster.DateRange(records)
	if len(f.mailTo) > 0 {
		if err := a.mailReport(ctx, out, path, from, to, f.mailTo); err != nil {
			return err
		}
	}

	if a.verbose {
		dumpRecords(out, from, to, records)
	}
	return nil
}

func (a *app) mailReport(ctx context.Context, out io.Writer, path, from, to string, recipients []string) error {
	mailer, err := a.newMailer()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	fmt.Fprintf(out, "Sending file to %s ..", strings.Join(recipients, ", "))
	subject := fmt.Sprintf("Sitzungsdienst %s - %s", from, to)
	if err := mailer.SendExport(ctx, recipients, subject, filepath.Base(path), data); err != nil {
		fmt.Fprintln(out)
		return err
	}
	fmt.Fprintln(out, " done.")
	return nil
}

// queryReport renders `"term"` for one term and `1) a 2) b` for several.
func queryReport(query []string) string {
	if len(query) == 1 {
		return fmt.Sprintf("%q", query[0])
	}
	parts := make([]string, len(query))
	for i, term := range query {
		parts[i] = fmt.Sprintf("%d) %s", i+1, term)
	}
	return strings.Join(parts, " ")
}

func dumpRecords(out io.Writer, from, to string, records []roster.AssignmentRecord) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "----")
	fmt.Fprintf(out, "Zeitraum: %s - %s\n", from, to)
	fmt.Fprintln(out, "----")
	for i, r := range records {
		fmt.Fprintf(out, "Eintrag %d:\n", i+1)
		fmt.Fprintf(out, "date: %s\n", r.Date)
		fmt.Fprintf(out, "when: %s\n", r.When)
		fmt.Fprintf(out, "who: %s\n", r.Who)
		fmt.Fprintf(out, "where: %s\n", r.Where)
		fmt.Fprintf(out, "what: %s\n", r.What)
		fmt.Fprintln(out, "--")
	}
}
