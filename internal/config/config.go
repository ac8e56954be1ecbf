// Package config provides functionality for managing configuration options
// for the client and the identity stub using command-line flags, an
// optional JSON config file and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"
)

// ClientOptions holds the configuration values for the client.
type ClientOptions struct {
	// BaseURL is the identity service address.
	BaseURL string `json:"url"`

	// CAFile is the CA certificate trusted for the identity service.
	CAFile string `json:"ca"`

	// Timeout bounds each identity service request.
	Timeout time.Duration `json:"-"`

	// DBPath is the local SQLite database holding the session.
	DBPath string `json:"db"`

	// SessionKey seals the stored session token.
	SessionKey string `json:"session_key"`

	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Lang selects the message language (es, en).
	Lang string `json:"lang"`

	// Command is "tui" or "register".
	Command string `json:"-"`

	// Login is the e-mail used by the register command.
	Login string `json:"-"`

	ShowVersion bool `json:"-"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// StubOptions holds the configuration values for the identity stub.
type StubOptions struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"address"`

	// CertFile and KeyFile enable TLS when both are set.
	CertFile string `json:"cert"`
	KeyFile  string `json:"key"`

	LogLevel string `json:"log_level"`

	// DatabaseDSN is the PostgreSQL connection string. Empty keeps owners
	// in memory.
	DatabaseDSN string `json:"database_dsn"`

	// SessionTTL is how long issued tokens stay valid.
	SessionTTL time.Duration `json:"-"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// ParseClient parses args, the config file and the environment, in that
// order of increasing precedence.
func ParseClient(args []string) (*ClientOptions, error) {
	o := &ClientOptions{}
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.StringVar(&o.BaseURL, "url", "https://localhost:8080", "identity service base URL")
	fs.StringVar(&o.CAFile, "ca", "", "path to CA cert")
	fs.DurationVar(&o.Timeout, "timeout", 10*time.Second, "request timeout")
	fs.StringVar(&o.DBPath, "db", "ownerhub.db", "path to local database")
	fs.StringVar(&o.SessionKey, "session-key", "", "secret sealing the stored session")
	fs.StringVar(&o.LogLevel, "log-level", "info", "log level")
	fs.StringVar(&o.LogFile, "log-file", "ownerhub.log", "log file")
	fs.StringVar(&o.Lang, "lang", "es", "message language")
	fs.StringVar(&o.Command, "cmd", "tui", "command: tui | register")
	fs.StringVar(&o.Login, "login", "", "e-mail for registration")
	fs.BoolVar(&o.ShowVersion, "version", false, "show build version and date")
	fs.StringVar(&o.Config, "config", "", "path to config file")
	fs.StringVar(&o.Config, "c", "", "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		o.Config = configPath
	}
	if err := loadFile(o.Config, o); err != nil {
		return nil, err
	}

	if url := os.Getenv("OWNERHUB_URL"); url != "" {
		o.BaseURL = url
	}
	if key := os.Getenv("OWNERHUB_SESSION_KEY"); key != "" {
		o.SessionKey = key
	}

	switch o.Command {
	case "tui", "register":
	default:
		return nil, fmt.Errorf("unknown command: %q", o.Command)
	}
	return o, nil
}

// ParseStub parses the identity stub configuration.
func ParseStub(args []string) (*StubOptions, error) {
	o := &StubOptions{}
	fs := flag.NewFlagSet("identitystub", flag.ContinueOnError)
	fs.StringVar(&o.Port, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&o.CertFile, "cert", "", "path to server TLS cert")
	fs.StringVar(&o.KeyFile, "key", "", "path to server TLS key")
	fs.StringVar(&o.LogLevel, "log-level", "info", "log level")
	fs.StringVar(&o.DatabaseDSN, "d", "", "postgres dsn (empty: in-memory owners)")
	fs.DurationVar(&o.SessionTTL, "ttl", 24*time.Hour, "session token lifetime")
	fs.StringVar(&o.Config, "config", "", "path to config file")
	fs.StringVar(&o.Config, "c", "", "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		o.Config = configPath
	}
	if err := loadFile(o.Config, o); err != nil {
		return nil, err
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		o.Port = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		o.DatabaseDSN = dsn
	}

	if (o.CertFile == "") != (o.KeyFile == "") {
		return nil, errors.New("both -cert and -key are required for TLS")
	}
	return o, nil
}

// TLS reports whether the stub serves HTTPS.
func (o *StubOptions) TLS() bool {
	return o.CertFile != "" && o.KeyFile != ""
}

// loadFile overlays the JSON file at path onto dst. A missing file is
// not an error.
func loadFile(path string, dst any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}
