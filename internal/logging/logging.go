// Package logging wires log/slog for rentapp commands and logs the requests
// served by the read API.
//
// Logs go to stderr. Stdout carries command output, which may be JSON.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New builds a logger writing to w. Dev mode writes text at debug level;
// otherwise JSON at info level.
func New(w io.Writer, devMode bool) *slog.Logger {
	if devMode {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// Setup installs the long-running server logger.
func Setup(devMode bool) {
	slog.SetDefault(New(os.Stderr, devMode))
}

// NewCLI builds the logger for one-shot commands: text, warnings and errors
// only unless verbose.
func NewCLI(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetupCLI installs NewCLI on stderr as the default logger.
func SetupCLI(verbose bool) {
	slog.SetDefault(NewCLI(os.Stderr, verbose))
}
