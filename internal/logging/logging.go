// Package logging wires log/slog to a charmbracelet/log handler with
// per-level styling.
package logging

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/clarobank/bankcore/pkg/config"
)

// Setup builds the application logger and installs it as the slog default.
func Setup(cfg config.Log) *slog.Logger {
	styles := log.DefaultStyles()
	infoColor := lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warnColor := lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}
	errorColor := lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}

	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Bold(true).
		Padding(0, 1).
		Foreground(infoColor)
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Bold(true).
		Padding(0, 1).
		Foreground(warnColor)
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Bold(true).
		Padding(0, 1).
		Foreground(errorColor)

	styles.Keys["error"] = lipgloss.NewStyle().Foreground(errorColor)
	styles.Values["error"] = lipgloss.NewStyle().Bold(true)

	formatter := log.TextFormatter
	if cfg.Format == "json" {
		formatter = log.JSONFormatter
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}

	handler := log.NewWithOptions(os.Stdout, log.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           level,
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	handler.SetStyles(styles)

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
