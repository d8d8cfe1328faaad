// Package config loads bytediff-server settings from defaults, a TOML file,
// BYTEDIFF_* environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

const envPrefix = "BYTEDIFF_"

// Config is the server configuration.
type Config struct {
	Addr            string        `toml:"addr"`
	Storage         string        `toml:"storage"`
	DSN             string        `toml:"dsn"`
	SQLitePath      string        `toml:"sqlite_path"`
	TLSCert         string        `toml:"tls_cert"`
	TLSKey          string        `toml:"tls_key"`
	JWTKey          string        `toml:"jwt_key"`
	MaxPayloadBytes int           `toml:"max_payload_bytes"`
	RequireUTF8     bool          `toml:"require_utf8"`
	Dev             bool          `toml:"dev"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// Default returns the built-in configuration: in-memory storage, plaintext, no auth.
func Default() Config {
	return Config{
		Addr:            ":8443",
		Storage:         StorageMemory,
		SQLitePath:      "bytediff.db",
		MaxPayloadBytes: 16 << 20,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Parse builds a Config from args (without the program name) and the
// environment lookup function. A -config flag, or BYTEDIFF_CONFIG, names the
// TOML file. Flags win only when set explicitly.
func Parse(name string, args []string, lookup func(string) (string, bool)) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var fl Config
	var path string
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	def := Default()
	fs.StringVar(&path, "config", "", "TOML config file (env BYTEDIFF_CONFIG)")
	fs.StringVar(&fl.Addr, "addr", def.Addr, "listen address")
	fs.StringVar(&fl.Storage, "storage", def.Storage, "storage backend: memory|postgres|sqlite")
	fs.StringVar(&fl.DSN, "dsn", "", "PostgreSQL DSN")
	fs.StringVar(&fl.SQLitePath, "sqlite-path", def.SQLitePath, "SQLite database file")
	fs.StringVar(&fl.TLSCert, "tls-cert", "", "TLS certificate (PEM); plaintext when empty")
	fs.StringVar(&fl.TLSKey, "tls-key", "", "TLS private key (PEM)")
	fs.StringVar(&fl.JWTKey, "jwt-key", "", "HS256 key; enables bearer auth when set")
	fs.IntVar(&fl.MaxPayloadBytes, "max-payload-bytes", def.MaxPayloadBytes, "max decoded payload size, 0 = unlimited")
	fs.BoolVar(&fl.RequireUTF8, "require-utf8", false, "reject payloads that do not decode to UTF-8")
	fs.BoolVar(&fl.Dev, "dev", false, "development logging and server reflection")
	fs.DurationVar(&fl.ShutdownTimeout, "shutdown-timeout", def.ShutdownTimeout, "graceful shutdown timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if path == "" {
		path, _ = lookup(envPrefix + "CONFIG")
	}

	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = fl.Addr
		case "storage":
			cfg.Storage = fl.Storage
		case "dsn":
			cfg.DSN = fl.DSN
		case "sqlite-path":
			cfg.SQLitePath = fl.SQLitePath
		case "tls-cert":
			cfg.TLSCert = fl.TLSCert
		case "tls-key":
			cfg.TLSKey = fl.TLSKey
		case "jwt-key":
			cfg.JWTKey = fl.JWTKey
		case "max-payload-bytes":
			cfg.MaxPayloadBytes = fl.MaxPayloadBytes
		case "require-utf8":
			cfg.RequireUTF8 = fl.RequireUTF8
		case "dev":
			cfg.Dev = fl.Dev
		case "shutdown-timeout":
			cfg.ShutdownTimeout = fl.ShutdownTimeout
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFile decodes a TOML file over c. Unknown keys are an error.
func (c *Config) LoadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("decode TOML: %w", err)
	}
	if und := md.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides fields from BYTEDIFF_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"ADDR":        &c.Addr,
		"STORAGE":     &c.Storage,
		"DSN":         &c.DSN,
		"SQLITE_PATH": &c.SQLitePath,
		"TLS_CERT":    &c.TLSCert,
		"TLS_KEY":     &c.TLSKey,
		"JWT_KEY":     &c.JWTKey,
	}
	for k, p := range str {
		if v, ok := lookup(envPrefix + k); ok {
			*p = v
		}
	}

	if v, ok := lookup(envPrefix + "MAX_PAYLOAD_BYTES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_PAYLOAD_BYTES: %w", envPrefix, err)
		}
		c.MaxPayloadBytes = n
	}
	for k, p := range map[string]*bool{"REQUIRE_UTF8": &c.RequireUTF8, "DEV": &c.Dev} {
		if v, ok := lookup(envPrefix + k); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, k, err)
			}
			*p = b
		}
	}
	if v, ok := lookup(envPrefix + "SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSHUTDOWN_TIMEOUT: %w", envPrefix, err)
		}
		c.ShutdownTimeout = d
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DSN == "" {
			errs = append(errs, errors.New("dsn is required for postgres storage"))
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite_path is required for sqlite storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage %q", c.Storage))
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		errs = append(errs, errors.New("tls_cert and tls_key must be set together"))
	}
	if c.MaxPayloadBytes < 0 {
		errs = append(errs, errors.New("max_payload_bytes must not be negative"))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("shutdown_timeout must not be negative"))
	}
	return errors.Join(errs...)
}

// TLS reports whether a certificate pair is configured.
func (c *Config) TLS() bool { return c.TLSCert != "" }
