package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/sitzungsdienst/internal/common"
	"github.com/joseph-ayodele/sitzungsdienst/internal/decode"
	"github.com/joseph-ayodele/sitzungsdienst/internal/directory"
	"github.com/joseph-ayodele/sitzungsdienst/internal/export"
	"github.com/joseph-ayodele/sitzungsdienst/internal/notify"
	"github.com/joseph-ayodele/sitzungsdienst/internal/pipeline"
	"github.com/joseph-ayodele/sitzungsdienst/internal/repository"
	"github.com/joseph-ayodele/sitzungsdienst/internal/roster"
)

// app carries what every subcommand needs once flags and config are parsed.
type app struct {
	configPath string
	verbose    bool

	cfg    *common.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "sitzungsdienst",
		Short:         "Extract weekly court duty assignments from roster PDFs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (default $"+common.ConfigFileEnv+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose mode.")

	root.AddCommand(
		newExtractCmd(a),
		newBatchCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newExportCmd(a),
		newDBHealthCmd(a),
	)
	return root
}

func (a *app) setup(stderr io.Writer) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	// Setup structured logger that outputs messages with variables but no time/level
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if !a.verbose && (attr.Key == slog.TimeKey || attr.Key == slog.LevelKey) {
				return slog.Attr{}
			}
			return attr
		},
	}))
	slog.SetDefault(a.logger)

	var err error
	if a.configPath != "" {
		a.cfg, err = common.LoadConfigFile(a.configPath)
	} else {
		a.cfg, err = common.LoadConfig()
	}
	if err != nil {
		return err
	}
	return a.cfg.Validate()
}

func (a *app) newProcessor(runs repository.RunRepository) *pipeline.Processor {
	dec := decode.NewDecoder(decode.Config{Pdftotext: a.cfg.Decode.Pdftotext}, a.logger)
	return pipeline.NewProcessor(a.logger, dec, roster.NewExtractor(a.logger), runs)
}

func (a *app) newExportService() (*export.Service, error) {
	loc, err := time.LoadLocation(a.cfg.Export.Timezone)
	if err != nil {
		return nil, fmt.Errorf("export timezone: %w", err)
	}
	emails, err := directory.Load(a.cfg.Export.EmailsFile, a.logger)
	if err != nil {
		return nil, err
	}
	return export.NewService(export.Options{
		Location:  loc,
		Creator:   a.cfg.Export.Creator,
		Directory: emails,
	}, a.logger), nil
}

// openStore connects to the configured database. required turns a missing
// DSN into an error; otherwise it yields a nil repository.
func (a *app) openStore(ctx context.Context, required bool) (repository.RunRepository, func(), error) {
	dbc := a.cfg.Database
	if dbc.DSN == "" {
		if required {
			return nil, nil, common.NewAppError("CONFIG_ERROR", "DB_URL is required for this command", common.ErrInvalidInput)
		}
		return nil, func() {}, nil
	}
	db, err := repository.Open(ctx, repository.Config{
		DSN:              dbc.DSN,
		MaxConns:         dbc.MaxConns,
		MinConns:         dbc.MinConns,
		MaxConnLifetime:  dbc.MaxConnLifetime,
		MaxConnIdleTime:  dbc.MaxConnIdleTime,
		DialTimeout:      dbc.DialTimeout,
		StatementTimeout: dbc.StatementTimeout,
	}, a.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	// Ping DB to ensure connectivity
	if err := db.HealthCheck(ctx, 5*time.Second); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repository.NewRunRepository(db, a.logger), db.Close, nil
}

func (a *app) newMailer() (*notify.Mailer, error) {
	m := a.cfg.Mail
	if m.Host == "" {
		return nil, common.NewAppError("CONFIG_ERROR", "SMTP_HOST is required to send mail", common.ErrInvalidInput)
	}
	return notify.NewMailer(notify.EmailConfig{
		SMTPServer: m.Host,
		SMTPPort:   m.Port,
		SMTPUser:   m.Username,
		SMTPPass:   m.Password,
		FromEmail:  m.From,
	}, a.logger), nil
}
