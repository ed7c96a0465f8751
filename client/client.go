package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/adamwoolhether/fetchjson/client"

// Client normalizes JSON requests over a [Transport]. Each Client owns
// its BaseOptions and log func; it is safe for concurrent use.
type Client struct {
	transport Transport
	logger    *slog.Logger
	tracer    trace.Tracer

	base  atomic.Pointer[Options]
	logFn atomic.Pointer[LogFunc]
}

// Build instantiates a new *Client with the provided options. If not
// specified, an [HTTPTransport] over [http.DefaultTransport] is used.
func Build(optFns ...Option) (*Client, error) {
	client := &Client{
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer(""),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracerProvider != nil {
		client.tracer = opts.tracerProvider.Tracer(tracerName)
	}

	switch {
	case opts.transport != nil && opts.httpTuned():
		return nil, errors.New("http transport options cannot be combined with WithTransport")
	case opts.transport != nil:
		client.transport = opts.transport
	default:
		t, err := newHTTPTransport(opts, func() *slog.Logger { return client.logger })
		if err != nil {
			return nil, err
		}
		client.transport = t
	}

	base := Options{}
	if opts.base != nil {
		base = *opts.base
	}
	client.base.Store(&base)

	if opts.logEnabled {
		client.EnableLogger(opts.logFn)
	}

	return client, nil
}

// GetBaseOptions returns a copy of the current BaseOptions.
func (c *Client) GetBaseOptions() Options {
	return c.base.Load().clone()
}

// SetBaseOptions replaces, not merges, the BaseOptions. In-flight
// requests keep the snapshot taken when they started.
func (c *Client) SetBaseOptions(o Options) Options {
	cpy := o.clone()
	c.base.Store(&cpy)
	return cpy.clone()
}

// EnableLogger installs fn as the event logger and returns it. A nil fn
// installs the default logger, writing to the client's [slog.Logger].
func (c *Client) EnableLogger(fn LogFunc) LogFunc {
	if fn == nil {
		fn = SlogFunc(c.logger)
	}
	c.logFn.Store(&fn)
	return fn
}

// DisableLogger removes the event logger.
func (c *Client) DisableLogger() {
	c.logFn.Store(nil)
}

func (c *Client) logFunc() LogFunc {
	if fn := c.logFn.Load(); fn != nil {
		return *fn
	}
	return nil
}

// Get sends a GET request with params in the query string.
// params may be [Params], map[string]string, map[string]any or url.Values.
func (c *Client) Get(ctx context.Context, url string, params any, opts ...Options) (Result, error) {
	return c.Request(ctx, http.MethodGet, url, params, opts...)
}

// Head sends a HEAD request; the Result carries the response headers.
func (c *Client) Head(ctx context.Context, url string, params any, opts ...Options) (Result, error) {
	return c.Request(ctx, http.MethodHead, url, params, opts...)
}

// Post sends body as JSON.
func (c *Client) Post(ctx context.Context, url string, body any, opts ...Options) (Result, error) {
	return c.Request(ctx, http.MethodPost, url, body, opts...)
}

// Put sends body as JSON.
func (c *Client) Put(ctx context.Context, url string, body any, opts ...Options) (Result, error) {
	return c.Request(ctx, http.MethodPut, url, body, opts...)
}

// Patch sends body as JSON.
func (c *Client) Patch(ctx context.Context, url string, body any, opts ...Options) (Result, error) {
	return c.Request(ctx, http.MethodPatch, url, body, opts...)
}

// Delete sends body, if any, as JSON.
func (c *Client) Delete(ctx context.Context, url string, body any, opts ...Options) (Result, error) {
	return c.Request(ctx, http.MethodDelete, url, body, opts...)
}

// Request performs a request and normalizes the response.
//
// GET and HEAD encode data into the query string; other methods send
// it as a JSON body. opts are layered over the BaseOptions in order.
// Configuration errors are returned before any I/O; transport errors
// are returned unchanged. A response that is not JSON, is not ok, or
// fails to parse resolves to a [KindFallback] Result, unless strict
// mode turns the non-ok status into a [*StatusError].
func (c *Client) Request(ctx context.Context, method, url string, data any, opts ...Options) (Result, error) {
	settings, err := merge(method, url, c.GetBaseOptions(), opts...)
	if err != nil {
		return Result{}, err
	}

	finalURL, settings, err := build(url, data, settings)
	if err != nil {
		return Result{}, err
	}

	domain, logURL := logLocation(finalURL)

	ctx, span := c.tracer.Start(ctx, "fetchjson.request")
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", settings.Method),
		attribute.String("server.address", domain),
		attribute.String("url.full", logURL),
	)

	logFn := c.logFunc()
	id := uuid.NewString()
	if logFn != nil {
		logFn(LogEvent{
			ID:        id,
			Timestamp: time.Now(),
			Direction: DirectionRequest,
			Method:    settings.Method,
			Domain:    domain,
			URL:       logURL,
		})
	}

	resp, err := c.transport.Fetch(ctx, finalURL, settings)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return Result{}, err
	}
	defer c.release(resp)

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if logFn != nil {
		logFn(LogEvent{
			ID:          id,
			Timestamp:   time.Now(),
			Direction:   DirectionResponse,
			Method:      settings.Method,
			Domain:      domain,
			URL:         logURL,
			OK:          resp.OK(),
			Status:      resp.StatusCode,
			StatusText:  resp.StatusText,
			ContentType: resp.Get(headerContentType),
		})
	}

	result, err := classify(ctx, resp, settings)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	return result, nil
}

// release drains and closes the response body.
func (c *Client) release(resp *RawResponse) {
	if resp.Body == nil {
		return
	}

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		c.logger.Error("failed to discard unused body", "error", err)
	}
	if err := resp.Body.Close(); err != nil {
		c.logger.Error("failed to close response body", "error", err)
	}
}
