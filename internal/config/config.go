// Package config handles the configuration directory, environment and logging.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "agenda"

	// OAuthClientFile is the Google OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// EnvFile is the optional dotenv file read from the config directory.
	EnvFile = ".env"

	// DefaultServer is the to-do server used when AGENDA_SERVER is unset.
	DefaultServer = "http://localhost:3000"
)

// Backend names accepted in AGENDA_BACKEND.
const (
	BackendREST   = "rest"
	BackendGoogle = "google"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Server is the base URL of the to-do server.
	Server string

	// Backend selects the task backend: "rest" or "google".
	Backend string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/agenda or $HOME/.config/agenda.
// A .env file in the config directory or in the working directory is loaded
// without overriding variables already set in the environment. A .env file
// that exists but cannot be parsed is an error.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	if err := loadEnvFiles(filepath.Join(dir, EnvFile), EnvFile); err != nil {
		return nil, err
	}

	cfg := &Config{
		Dir:     dir,
		Server:  DefaultServer,
		Backend: BackendREST,
	}
	if server := strings.TrimSpace(os.Getenv("AGENDA_SERVER")); server != "" {
		cfg.Server = strings.TrimRight(server, "/")
	}
	if backend := strings.ToLower(strings.TrimSpace(os.Getenv("AGENDA_BACKEND"))); backend != "" {
		cfg.Backend = backend
	}
	return cfg, nil
}

// loadEnvFiles loads every existing dotenv file. Missing files are skipped.
func loadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// OAuthClientPath returns the path to the Google OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Logger returns a text logger writing to w when Debug is set.
// Without Debug all records are discarded.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	if !c.Debug || w == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
