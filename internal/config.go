package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/note/internal/manifest"
	pkgconfig "github.com/starford/note/pkg/config"
)

// AppName names the XDG directories the tool uses.
const AppName = "note"

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Notes  NotesConfig       `yaml:"notes"`
	State  StateConfig       `yaml:"state"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Editor EditorConfig      `yaml:"editor"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration and expands "~" in paths.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Notes.Validate(); err != nil {
		return err
	}
	if err := c.State.Validate(); err != nil {
		return err
	}
	c.SQLite.Path = pkgconfig.ExpandHome(c.SQLite.Path)
	return c.Auth.Validate()
}

// ManifestPath returns the location of the manifest document.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.State.Dir, manifest.FileName)
}

// IndexPath returns the SQLite index location, defaulting into the state
// directory.
func (c *Config) IndexPath() string {
	if c.SQLite.Path != "" {
		return c.SQLite.Path
	}
	return filepath.Join(c.State.Dir, "index.db")
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// NotesConfig points at the flat directory of note files.
type NotesConfig struct {
	Dir string `yaml:"dir"`
}

// Validate validates the notes configuration.
func (c *NotesConfig) Validate() error {
	c.Dir = pkgconfig.ExpandHome(c.Dir)
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// StateConfig points at the directory holding the manifest and its lock.
type StateConfig struct {
	Dir string `yaml:"dir"`
}

// Validate validates the state configuration.
func (c *StateConfig) Validate() error {
	c.Dir = pkgconfig.ExpandHome(c.Dir)
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// SQLiteConfig holds the search index location. Empty means
// <state.dir>/index.db.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// EditorConfig holds the command used by "note edit". Empty falls back to
// $VISUAL, $EDITOR, then vi.
type EditorConfig struct {
	Command string `yaml:"command"`
}

// AuthConfig holds authentication configuration for the HTTP API.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/note/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(pkgconfig.XDGDir("XDG_CONFIG_HOME", ".config", AppName), "config.yaml")
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelWarn,
			HTTP: HTTPConfig{
				Host: "127.0.0.1",
				Port: 8080,
			},
		},
		Notes: NotesConfig{
			Dir: "~/notes",
		},
		State: StateConfig{
			Dir: pkgconfig.XDGDir("XDG_STATE_HOME", ".local/state", AppName),
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
