package common

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // Europe/Berlin must resolve on hosts without zoneinfo

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/sitzungsdienst/constants"
)

// ConfigFileEnv names the environment variable pointing at an optional YAML config file.
const ConfigFileEnv = "SITZUNGSDIENST_CONFIG"

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Decode   DecodeConfig   `yaml:"decode"`
	Export   ExportConfig   `yaml:"export"`
	Mail     MailConfig     `yaml:"mail"`
	Queue    QueueConfig    `yaml:"queue"`
}

// DatabaseConfig holds database-related configuration. An empty DSN disables persistence.
type DatabaseConfig struct {
	DSN              string        `yaml:"dsn"`
	MaxConns         int32         `yaml:"max_conns"`
	MinConns         int32         `yaml:"min_conns"`
	MaxConnLifetime  time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime  time.Duration `yaml:"max_conn_idle_time"`
	DialTimeout      time.Duration `yaml:"dial_timeout"`
	StatementTimeout time.Duration `yaml:"statement_timeout"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr string `yaml:"grpc_addr"`
}

// DecodeConfig holds PDF text decoding configuration
type DecodeConfig struct {
	Pdftotext string `yaml:"pdftotext"`
}

// ExportConfig holds export-related configuration
type ExportConfig struct {
	Directory  string `yaml:"directory"`
	Format     string `yaml:"format"`
	Timezone   string `yaml:"timezone"`
	Creator    string `yaml:"creator"`
	EmailsFile string `yaml:"emails_file"`
}

// MailConfig holds SMTP configuration. An empty Host disables mail delivery.
type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// QueueConfig holds worker pool configuration
type QueueConfig struct {
	Workers int           `yaml:"workers"`
	Size    int           `yaml:"size"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			MaxConns:        20,
			MinConns:        2,
			MaxConnLifetime: 30 * time.Minute,
			MaxConnIdleTime: 5 * time.Minute,
			DialTimeout:     3 * time.Second,
		},
		Server: ServerConfig{GRPCAddr: ":8080"},
		Decode: DecodeConfig{Pdftotext: "pdftotext"},
		Export: ExportConfig{
			Directory:  "dist",
			Format:     constants.FormatCSV,
			Timezone:   "Europe/Berlin",
			Creator:    "S1SYPHOS",
			EmailsFile: "database.json",
		},
		Mail:  MailConfig{Port: 587},
		Queue: QueueConfig{Workers: 4, Size: 256, Timeout: 3 * time.Minute},
	}
}

// LoadConfig loads configuration from the file named by SITZUNGSDIENST_CONFIG
// (if any) and environment variables.
func LoadConfig() (*Config, error) {
	return LoadConfigFile(os.Getenv(ConfigFileEnv))
}

// LoadConfigFile layers defaults, the YAML file at path (skipped if empty) and
// environment variables, in that order.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, NewAppError("CONFIG_ERROR", "read config file", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("parse config file %s", path), err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	db := &c.Database
	db.DSN = getEnv("DB_URL", db.DSN)
	db.MaxConns = getEnvAsInt32("DB_MAX_CONNS", db.MaxConns)
	db.MinConns = getEnvAsInt32("DB_MIN_CONNS", db.MinConns)
	db.MaxConnLifetime = getEnvAsDuration("DB_MAX_CONN_LIFETIME", db.MaxConnLifetime)
	db.MaxConnIdleTime = getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", db.MaxConnIdleTime)
	db.DialTimeout = getEnvAsDuration("DB_DIAL_TIMEOUT", db.DialTimeout)
	db.StatementTimeout = getEnvAsDuration("DB_STATEMENT_TIMEOUT", db.StatementTimeout)

	c.Server.GRPCAddr = getEnv("GRPC_ADDR", c.Server.GRPCAddr)
	c.Decode.Pdftotext = getEnv("PDFTOTEXT", c.Decode.Pdftotext)

	ex := &c.Export
	ex.Directory = getEnv("EXPORT_DIR", ex.Directory)
	ex.Format = getEnv("EXPORT_FORMAT", ex.Format)
	ex.Timezone = getEnv("EXPORT_TIMEZONE", ex.Timezone)
	ex.Creator = getEnv("CALENDAR_CREATOR", ex.Creator)
	ex.EmailsFile = getEnv("EMAILS_FILE", ex.EmailsFile)

	m := &c.Mail
	m.Host = getEnv("SMTP_HOST", m.Host)
	m.Port = getEnvAsInt("SMTP_PORT", m.Port)
	m.Username = getEnv("SMTP_USERNAME", m.Username)
	m.Password = getEnv("SMTP_PASSWORD", m.Password)
	m.From = getEnv("SMTP_FROM", m.From)

	q := &c.Queue
	q.Workers = getEnvAsInt("QUEUE_WORKERS", q.Workers)
	q.Size = getEnvAsInt("QUEUE_SIZE", q.Size)
	q.Timeout = getEnvAsDuration("QUEUE_TIMEOUT", q.Timeout)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("export.format", c.Export.Format, Required, OneOf(constants.FileTypes...)).
		Field("export.timezone", c.Export.Timezone, Required, Timezone).
		Field("decode.pdftotext", c.Decode.Pdftotext, Required)
	if c.Queue.Workers <= 0 {
		v.Add(ValidationError{Field: "queue.workers", Value: c.Queue.Workers, Message: "must be positive"})
	}
	if c.Mail.Host != "" {
		v.Field("mail.from", c.Mail.From, Required)
	}
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
