// Package decode turns roster documents into per-page token streams.
package decode

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/sitzungsdienst/constants"
	"github.com/joseph-ayodele/sitzungsdienst/internal/roster"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
}

type Result struct {
	Pages    []roster.Page
	Method   string // "pdf-text" | "plain-text"
	Tokens   int
	Duration time.Duration
}

type Decoder struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewDecoder(cfg Config, logger *slog.Logger) *Decoder {
	return newDecoder(cfg, execRunner{}, logger)
}

func newDecoder(cfg Config, runner Runner, logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &Decoder{cfg: cfg, runner: runner, logger: logger}
}

// Decode picks a strategy based on file extension.
func (d *Decoder) Decode(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	d.logger.Debug("starting decode", "path", path, "ext", ext)

	var (
		text   string
		method string
	)
	switch ext {
	case "pdf":
		// pdftotext <path> - ; raw reading order, form feed between pages
		out, errb, err := d.runner.Run(ctx, d.cfg.Pdftotext, d.logger, "-enc", "UTF-8", "-eol", "unix", path, "-")
		if err != nil {
			return Result{}, fmt.Errorf("pdftotext: %w: %s", err, truncate(string(errb), 512))
		}
		text, method = string(out), "pdf-text"
	case "txt":
		b, err := os.ReadFile(path)
		if err != nil {
			return Result{}, fmt.Errorf("read text: %w", err)
		}
		text, method = string(b), "plain-text"
	default:
		d.logger.Error("unsupported decode extension", "extension", ext)
		return Result{}, fmt.Errorf("unsupported extension: %q", ext)
	}

	res := Result{Pages: FromText(text), Method: method, Duration: time.Since(start)}
	for _, p := range res.Pages {
		res.Tokens += len(p)
	}
	d.logger.Debug("decode ok", "path", path, "method", method, "pages", len(res.Pages), "tokens", res.Tokens)
	return res, nil
}
