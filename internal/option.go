package internal

import (
	"log/slog"

	"github.com/starford/note/internal/noteservice"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	logger *slog.Logger
	editor noteservice.Editor
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogger replaces the default stderr text logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *application) {
		a.logger = logger
	}
}

// WithEditor replaces the terminal editor used by Edit.
func WithEditor(ed noteservice.Editor) Option {
	return func(a *application) {
		a.editor = ed
	}
}
