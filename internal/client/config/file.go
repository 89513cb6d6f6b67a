package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/tablekeeper/internal/client/models"
	"github.com/dmitrijs2005/tablekeeper/internal/common"
)

// fileConfig is a DTO used only for decoding config files. Pointer fields
// tell an absent key from a zero value, so only keys present in the file
// override the current settings.
type fileConfig struct {
	DatabasePath    *string         `json:"database_path" yaml:"database_path"`
	PageSize        *int            `json:"page_size" yaml:"page_size"`
	SignupMode      *string         `json:"signup_mode" yaml:"signup_mode"`
	CredentialCodec *string         `json:"credential_codec" yaml:"credential_codec"`
	LogLevel        *string         `json:"log_level" yaml:"log_level"`
	SeedRecords     []models.Record `json:"seed_records" yaml:"seed_records"`
}

// LoadFile overlays c with values from the file at path. Files ending in
// .yaml or .yml are read as YAML, anything else as JSON with comments and
// trailing commas allowed.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", common.ErrInvalidConfig, path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), &fc)
	}
	if err != nil {
		return fmt.Errorf("%w: parse %s: %w", common.ErrInvalidConfig, path, err)
	}

	fc.applyTo(c)
	return nil
}

func (fc *fileConfig) applyTo(c *Config) {
	if fc.DatabasePath != nil {
		c.DatabasePath = *fc.DatabasePath
	}
	if fc.PageSize != nil {
		c.PageSize = *fc.PageSize
	}
	if fc.SignupMode != nil {
		c.SignupMode = *fc.SignupMode
	}
	if fc.CredentialCodec != nil {
		c.CredentialCodec = *fc.CredentialCodec
	}
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	// An explicit empty list clears the seed; an absent key keeps it.
	if fc.SeedRecords != nil {
		c.SeedRecords = fc.SeedRecords
	}
}
