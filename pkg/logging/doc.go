// Package logging provides structured logging configuration for alinfo.
//
// This package wraps log/slog so every alinfo component logs the same way.
// Levels and output formats are chosen by the CLI from configuration.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatText,
//	})
//
//	logger.Debug("request settled", "family", "blog", "status", 200)
//
// # Integration
//
// Components accept a *slog.Logger in their constructor. A nil logger is
// replaced by Nop(), and Component() tags a logger with the component name
// so that adapter, action and store output can be told apart.
package logging
