// Package config loads kpidesk settings from KPIDESK_-prefixed environment
// variables, optionally seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/kpidesk/internal/db"
	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const Prefix = "KPIDESK_"

// DefaultEnvFiles are read from the working directory when present.
var DefaultEnvFiles = []string{".env", ".env.local"}

type Config struct {
	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"DB_DSN"`
	RedisURL string `env:"REDIS_URL"`

	UserID         string `env:"USER_ID"`
	UserName       string `env:"USER_NAME"`
	UserDepartment string `env:"USER_DEPARTMENT"`
	UserPosition   string `env:"USER_POSITION"`
	UserRole       string `env:"USER_ROLE"`
	UserAvatar     string `env:"USER_AVATAR"`
	UserTeam       string `env:"USER_TEAM"`

	DebounceMS int    `env:"DEBOUNCE_MS" envDefault:"150"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"auto"`
	Metrics    bool   `env:"METRICS" envDefault:"false"`
}

// LoadEnv loads the files among envFiles that exist into the process
// environment without overriding variables already set. It returns how many
// files were read.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads envFiles, then parses and validates the environment.
func Load(envFiles []string) (*Config, error) {
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("loading env files: %w", err)
	}
	c := &Config{}
	if err := env.ParseWithOptions(c, env.Options{Prefix: Prefix}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if c.DBDSN == "" && c.DBDriver == db.DriverSQLite {
		c.DBDSN = defaultSQLitePath()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "kpidesk.db"
	}
	return filepath.Join(home, ".kpidesk", "kpidesk.db")
}

func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("%sDB_DRIVER must be %q or %q, got %q", Prefix, db.DriverSQLite, db.DriverPostgres, c.DBDriver))
	}
	if c.DBDriver == db.DriverPostgres && c.DBDSN == "" {
		errs = append(errs, fmt.Errorf("%sDB_DSN is required for %s", Prefix, db.DriverPostgres))
	}
	switch c.LogFormat {
	case "auto", "json", "text":
	default:
		errs = append(errs, fmt.Errorf("%sLOG_FORMAT must be auto, json or text, got %q", Prefix, c.LogFormat))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%sLOG_LEVEL: %w", Prefix, err))
	}
	if c.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("%sDEBOUNCE_MS must not be negative", Prefix))
	}
	return errors.Join(errs...)
}

func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// LogrusLevel returns the configured level, falling back to info.
func (c *Config) LogrusLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Profile is the statically configured identity.
func (c *Config) Profile() domain.Profile {
	return domain.Profile{
		UserID:     c.UserID,
		Name:       c.UserName,
		Department: c.UserDepartment,
		Position:   c.UserPosition,
		Role:       c.UserRole,
		Avatar:     c.UserAvatar,
		Team:       c.UserTeam,
	}
}
