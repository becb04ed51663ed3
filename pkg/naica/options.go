package naica

import (
	"context"
	"time"
)

// Option configures a RunContext.
type Option func(*RunContext)

// WithLogger sets the logger for the run.
func WithLogger(logger Logger) Option {
	return func(rc *RunContext) {
		rc.logger = logger
	}
}

// WithContext sets the underlying context.Context.
func WithContext(ctx context.Context) Option {
	return func(rc *RunContext) {
		rc.ctx = ctx
	}
}

// WithData sets initial run data.
func WithData(data map[string]any) Option {
	return func(rc *RunContext) {
		for k, v := range data {
			rc.data.values[k] = v
		}
	}
}

// WithProperties sets where attachments and reports are stored.
func WithProperties(properties Properties) Option {
	return func(rc *RunContext) {
		rc.properties = properties
	}
}

// WithDriver attaches an automation handle (a browser session, an API
// client) that actions can reach through RunContext.Driver. When the driver
// implements io.Closer it is closed by Finalize; when it implements Capturer
// it is used by Snapshot operations that have no capturer of their own.
func WithDriver(driver any) Option {
	return func(rc *RunContext) {
		rc.driver = driver
	}
}

// WithClock replaces time.Now for case timestamps.
func WithClock(now func() time.Time) Option {
	return func(rc *RunContext) {
		rc.now = now
	}
}
