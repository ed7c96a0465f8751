package client

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/fetchjson/client/throttle"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	transport         Transport
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
	logEnabled        bool
	logFn             LogFunc
	base              *Options
	tracerProvider    trace.TracerProvider
}

// httpTuned reports whether any option targeting the default
// [HTTPTransport] was supplied.
func (o options) httpTuned() bool {
	return o.client != nil || o.rt != nil || o.timeout != nil || o.userAgent != "" || o.throttle != nil || o.noFollowRedirects
}

// WithTransport replaces the default [HTTPTransport]. It cannot be
// combined with the options that tune the HTTP transport.
func WithTransport(t Transport) Option {
	return func(c *options) error {
		if t == nil {
			return errors.New("transport must not be nil")
		}
		c.transport = t
		return nil
	}
}

// WithHTTPClient replaces the [http.Client] used by the default [HTTPTransport].
func WithHTTPClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithRoundTripper sets a custom [http.RoundTripper] as the base of the default [HTTPTransport].
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("round tripper must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithThrottle enables per-domain token-bucket rate limiting with the
// given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		c.throttle = &throttle.Config{RPS: rps, Burst: burst}
		return nil
	}
}

// WithNoFollowRedirects stops the default [HTTPTransport] from following
// redirects, even when [Options.Redirect] is [RedirectFollow].
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client]. It backs
// the default [LogFunc] and internal diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithLogFunc enables request/response log events on the [Client].
// A nil fn installs the default slog based logger.
func WithLogFunc(fn LogFunc) Option {
	return func(c *options) error {
		c.logEnabled = true
		c.logFn = fn
		return nil
	}
}

// WithBaseOptions seeds the [Client] BaseOptions.
func WithBaseOptions(base Options) Option {
	return func(c *options) error {
		if err := validateOptions(base); err != nil {
			return err
		}
		b := base.clone()
		c.base = &b
		return nil
	}
}

// WithTracerProvider enables OpenTelemetry spans for each request.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *options) error {
		if tp == nil {
			return errors.New("tracer provider must not be nil")
		}
		c.tracerProvider = tp
		return nil
	}
}

// Options configures a request. The same type serves as the
// client-wide BaseOptions and as per-call options; zero fields are
// unset and fall through to the layer below.
type Options struct {
	Method       string            `json:"method,omitempty" yaml:"method,omitempty"`
	Credentials  Credentials       `json:"credentials,omitempty" yaml:"credentials,omitempty" validate:"omitempty,oneof=omit same-origin include"`
	StrictErrors *bool             `json:"strictErrors,omitempty" yaml:"strictErrors,omitempty"`
	Redirect     RedirectPolicy    `json:"redirect,omitempty" yaml:"redirect,omitempty" validate:"omitempty,oneof=follow manual error"`
	Headers      map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// Bool returns a pointer to b, for [Options.StrictErrors].
func Bool(b bool) *bool {
	return &b
}

// clone returns a deep copy of o.
func (o Options) clone() Options {
	cpy := o
	if o.StrictErrors != nil {
		cpy.StrictErrors = Bool(*o.StrictErrors)
	}
	if o.Headers != nil {
		cpy.Headers = maps.Clone(o.Headers)
	}
	return cpy
}
