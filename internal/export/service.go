// Package export renders assignment records as CSV, JSON, iCalendar or XLSX.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/sitzungsdienst/constants"
	"github.com/joseph-ayodele/sitzungsdienst/internal/directory"
	"github.com/joseph-ayodele/sitzungsdienst/internal/roster"
)

var columns = []string{"date", "when", "who", "where", "what"}

// Options configure the calendar export. Zero values fall back to
// Europe/Berlin, creator "sitzungsdienst" and an empty email directory.
type Options struct {
	Location  *time.Location
	Creator   string
	Directory *directory.Directory
}

// Service is a tiny façade that turns records into export bytes.
type Service struct {
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

func NewService(opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Location == nil {
		loc, err := time.LoadLocation("Europe/Berlin")
		if err != nil {
			loc = time.UTC
		}
		opts.Location = loc
	}
	if opts.Creator == "" {
		opts.Creator = "sitzungsdienst"
	}
	if opts.Directory == nil {
		opts.Directory = directory.New(nil)
	}
	return &Service{opts: opts, logger: logger, now: time.Now}
}

// NormalizeFormat lower-cases f and reports whether it is supported.
// Unsupported formats map to csv.
func NormalizeFormat(f string) (string, bool) {
	f = constants.NormalizeExt(strings.TrimSpace(f))
	if constants.IsExportFormat(f) {
		return f, true
	}
	return constants.FormatCSV, false
}

// Write renders records in format to w.
func (s *Service) Write(ctx context.Context, w io.Writer, format string, records []roster.AssignmentRecord) error {
	start := time.Now()
	var err error
	switch format {
	case constants.FormatCSV:
		err = writeCSV(w, records)
	case constants.FormatJSON:
		err = writeJSON(w, records)
	case constants.FormatICS:
		err = s.writeICS(ctx, w, records)
	case constants.FormatXLSX:
		err = writeXLSX(w, records)
	default:
		return fmt.Errorf("unsupported export format: %q", format)
	}
	if err != nil {
		return fmt.Errorf("%s export: %w", format, err)
	}
	s.logger.Debug("export.ok",
		"format", format,
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Render returns the export as bytes.
func (s *Service) Render(ctx context.Context, format string, records []roster.AssignmentRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Write(ctx, &buf, format, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveFile renders records and writes them to path, creating parent directories.
func (s *Service) SaveFile(ctx context.Context, path, format string, records []roster.AssignmentRecord) error {
	data, err := s.Render(ctx, format, records)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.logger.Info("export saved", "path", path, "format", format, "rows", len(records))
	return nil
}

// OutputPath builds dir/<lowercased name>.<format>.
func OutputPath(dir, name, format string) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%s", strings.ToLower(name), format))
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

func row(r roster.AssignmentRecord) []string {
	return []string{r.Date, r.When, r.Who, r.Where, r.What}
}
