package config

import (
	"fmt"
	"slices"

	"github.com/dmitrijs2005/tablekeeper/internal/client/models"
	"github.com/dmitrijs2005/tablekeeper/internal/client/services"
	"github.com/dmitrijs2005/tablekeeper/internal/common"
	"github.com/dmitrijs2005/tablekeeper/internal/cryptox"
	"github.com/dmitrijs2005/tablekeeper/internal/logging"
)

// Config holds runtime settings for the tablekeeper CLI.
//
// Fields:
//   - DatabasePath: SQLite file holding accounts and the session.
//   - PageSize: rows per page of the record table, at least 1.
//   - SignupMode: "manual" or "auto-login".
//   - CredentialCodec: one of cryptox.Codecs.
//   - LogLevel: debug, info, warn or error.
//   - SeedRecords: rows the record table starts with.
type Config struct {
	DatabasePath    string
	PageSize        int
	SignupMode      string
	CredentialCodec string
	LogLevel        string
	SeedRecords     []models.Record
}

// DefaultSeedRecords returns the reference rows shown on first start.
func DefaultSeedRecords() []models.Record {
	return []models.Record{
		{ID: 1, Name: "John Doe", Email: "john@example.com", Role: models.RoleAdmin},
		{ID: 2, Name: "Jane Smith", Email: "jane@example.com", Role: models.RoleUser},
		{ID: 3, Name: "Bob Johnson", Email: "bob@example.com", Role: models.RoleManager},
	}
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "tablekeeper.db"
	c.PageSize = 5
	c.SignupMode = string(services.SignupManual)
	c.CredentialCodec = cryptox.CodecBase64
	c.LogLevel = "info"
	c.SeedRecords = DefaultSeedRecords()
}

// Validate reports the first invalid setting wrapped with
// common.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database path is empty", common.ErrInvalidConfig)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("%w: page size %d, must be at least 1", common.ErrInvalidConfig, c.PageSize)
	}
	if _, err := services.ParseSignupMode(c.SignupMode); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	if !slices.Contains(cryptox.Codecs, c.CredentialCodec) {
		return fmt.Errorf("%w: unknown credential codec %q", common.ErrInvalidConfig, c.CredentialCodec)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return nil
}

// Load constructs a Config, applies defaults, then overlays values from the
// config file named by fl (if any) and the flags the user set. Later
// sources take precedence over earlier ones. The result is validated.
func Load(fl *Flags) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if fl != nil && fl.ConfigPath != "" {
		if err := cfg.LoadFile(fl.ConfigPath); err != nil {
			return nil, err
		}
	}
	if fl != nil {
		fl.Apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
