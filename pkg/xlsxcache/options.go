// Package xlsxcache decodes zip-packaged spreadsheet workbooks into an
// in-memory model and serves cached lookups against the decoded
// documents to concurrent callers.
package xlsxcache

import "log/slog"

// Options configures a Registry.
type Options struct {
	// Logger receives decode diagnostics and registry lifecycle events.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultOptions returns default registry options.
func DefaultOptions() Options {
	return Options{
		Logger: slog.Default(),
	}
}

// logger returns the configured logger, falling back to the process
// default.
func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
