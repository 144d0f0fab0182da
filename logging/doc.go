// Package logging provides structured logging for dbtools.
//
// This package wraps Go's standard log/slog package so that library
// operations emit consistent, structured records that a host application
// can route wherever it likes.
//
// # Features
//
//   - Silent by default: the process-wide logger is a no-op sink
//   - JSON output for production (machine-parsable)
//   - Text and colourised terminal output for development
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Default Logger
//
// Library call sites log through Default(). Until the host installs a
// sink, Default() discards everything, so importing the library never
// writes to the host's streams uninvited:
//
//	logging.SetDefault(logging.New(logging.Config{
//		Level:  "debug",
//		Format: "auto",
//	}))
//
// # Security
//
// Never log secrets, tokens, passwords, or API keys. Library call sites
// log statement summaries and parameter counts, not parameter values;
// custom sinks should follow the same rule.
package logging
