package config

import (
	"github.com/spf13/pflag"
)

// Flags binds the configuration flags to a pflag.FlagSet. Only flags the
// user actually set override values from defaults and the config file.
//
// Supported flags:
//
//	-c, --config string       path to a JSON(C) or YAML config file
//	-d, --db string           SQLite database file
//	-p, --page-size int       rows per page
//	    --signup-mode string  manual or auto-login
//	    --codec string        credential codec (base64, bcrypt, argon2id)
//	    --log-level string    debug, info, warn or error
type Flags struct {
	ConfigPath string

	fs              *pflag.FlagSet
	databasePath    string
	pageSize        int
	signupMode      string
	credentialCodec string
	logLevel        string
}

// RegisterFlags adds the configuration flags to fs. Defaults shown in the
// help text come from (*Config).LoadDefaults.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	var d Config
	d.LoadDefaults()

	f := &Flags{fs: fs}
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to config file (JSON with comments, or YAML)")
	fs.StringVarP(&f.databasePath, "db", "d", d.DatabasePath, "SQLite database file")
	fs.IntVarP(&f.pageSize, "page-size", "p", d.PageSize, "rows per page")
	fs.StringVar(&f.signupMode, "signup-mode", d.SignupMode, "what happens after signup: manual or auto-login")
	fs.StringVar(&f.credentialCodec, "codec", d.CredentialCodec, "credential codec: base64, bcrypt or argon2id")
	fs.StringVar(&f.logLevel, "log-level", d.LogLevel, "log level: debug, info, warn or error")
	return f
}

// Apply copies the flags that were set on the command line into cfg.
func (f *Flags) Apply(cfg *Config) {
	if f.fs.Changed("db") {
		cfg.DatabasePath = f.databasePath
	}
	if f.fs.Changed("page-size") {
		cfg.PageSize = f.pageSize
	}
	if f.fs.Changed("signup-mode") {
		cfg.SignupMode = f.signupMode
	}
	if f.fs.Changed("codec") {
		cfg.CredentialCodec = f.credentialCodec
	}
	if f.fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
}
