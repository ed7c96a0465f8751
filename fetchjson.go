// Package fetchjson wraps HTTP requests that exchange JSON. The
// package-level functions share one default [client.Client]; use
// [NewClient] for an independent instance with its own BaseOptions and
// logger.
package fetchjson

import (
	"context"

	"github.com/adamwoolhether/fetchjson/client"
)

// Frequently used client types.
type (
	Options  = client.Options
	Params   = client.Params
	Result   = client.Result
	Fallback = client.Fallback
	LogEvent = client.LogEvent
	LogFunc  = client.LogFunc
)

var std = mustBuild()

func mustBuild() *client.Client {
	c, err := client.Build()
	if err != nil {
		panic("fetchjson: building default client: " + err.Error())
	}
	return c
}

// NewClient instantiates a new *Client with the provided options.
// If not specified, the default http.Client and http.Transport are used.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}

// Default returns the client backing the package-level functions.
func Default() *client.Client {
	return std
}

// Get sends a GET request through the default client.
func Get(ctx context.Context, url string, params any, opts ...Options) (Result, error) {
	return std.Get(ctx, url, params, opts...)
}

// Head sends a HEAD request through the default client.
func Head(ctx context.Context, url string, params any, opts ...Options) (Result, error) {
	return std.Head(ctx, url, params, opts...)
}

// Post sends a POST request through the default client.
func Post(ctx context.Context, url string, body any, opts ...Options) (Result, error) {
	return std.Post(ctx, url, body, opts...)
}

// Put sends a PUT request through the default client.
func Put(ctx context.Context, url string, body any, opts ...Options) (Result, error) {
	return std.Put(ctx, url, body, opts...)
}

// Patch sends a PATCH request through the default client.
func Patch(ctx context.Context, url string, body any, opts ...Options) (Result, error) {
	return std.Patch(ctx, url, body, opts...)
}

// Delete sends a DELETE request through the default client.
func Delete(ctx context.Context, url string, body any, opts ...Options) (Result, error) {
	return std.Delete(ctx, url, body, opts...)
}

// Request sends a request with an arbitrary method through the default client.
func Request(ctx context.Context, method, url string, data any, opts ...Options) (Result, error) {
	return std.Request(ctx, method, url, data, opts...)
}

// GetBaseOptions returns a copy of the default client's BaseOptions.
func GetBaseOptions() Options {
	return std.GetBaseOptions()
}

// SetBaseOptions replaces the default client's BaseOptions.
func SetBaseOptions(o Options) Options {
	return std.SetBaseOptions(o)
}

// EnableLogger installs fn on the default client. A nil fn installs
// the slog based logger.
func EnableLogger(fn LogFunc) LogFunc {
	return std.EnableLogger(fn)
}

// DisableLogger removes the default client's logger.
func DisableLogger() {
	std.DisableLogger()
}

// LogHeaders returns the column names of [client.LogEvent.Fields].
func LogHeaders() []string {
	return client.LogHeaders()
}

// LogHeaderIndex maps lower-cased column names to their position.
func LogHeaderIndex() map[string]int {
	return client.LogHeaderIndex()
}
