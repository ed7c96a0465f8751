package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/adamwoolhether/fetchjson/client/throttle"
)

// Transport performs the HTTP exchange for a [Client]. Errors are
// surfaced to the caller unchanged.
type Transport interface {
	Fetch(ctx context.Context, url string, settings Settings) (*RawResponse, error)
}

// TransportFunc adapts a function into a [Transport].
type TransportFunc func(ctx context.Context, url string, settings Settings) (*RawResponse, error)

func (f TransportFunc) Fetch(ctx context.Context, url string, settings Settings) (*RawResponse, error) {
	return f(ctx, url, settings)
}

// RawResponse is the response as returned by a [Transport], before
// classification. The body can be read once; later reads return the
// cached bytes.
type RawResponse struct {
	StatusCode int
	StatusText string
	Header     http.Header
	Body       io.ReadCloser

	once sync.Once
	body []byte
	err  error
}

// OK reports whether the status is in the 200-299 range.
func (r *RawResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// Get returns the first value of the named header.
func (r *RawResponse) Get(name string) string {
	return r.Header.Get(name)
}

// Bytes reads the whole body. The [Client] closes the body once the
// request completes.
func (r *RawResponse) Bytes(ctx context.Context) ([]byte, error) {
	r.once.Do(func() {
		if r.Body == nil {
			return
		}

		r.body, r.err = io.ReadAll(&contextReader{ctx: ctx, r: r.Body})
	})

	return r.body, r.err
}

// Text reads the body as a string.
func (r *RawResponse) Text(ctx context.Context) (string, error) {
	b, err := r.Bytes(ctx)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// JSON reads the body and decodes it into v.
func (r *RawResponse) JSON(ctx context.Context, v any) error {
	b, err := r.Bytes(ctx)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

// /////////////////////////////////////////////////////////////////

var errRedirectRefused = errors.New("redirect refused")

// HTTPTransport is the default [Transport], built on [net/http].
type HTTPTransport struct {
	c                 *http.Client
	limiter           *throttle.Limiter
	noFollowRedirects bool
}

// newHTTPTransport builds the transport from the client options.
func newHTTPTransport(opts options, logFn func() *slog.Logger) (*HTTPTransport, error) {
	t := HTTPTransport{
		c:                 &http.Client{},
		noFollowRedirects: opts.noFollowRedirects,
	}

	if opts.client != nil {
		cpy := *opts.client
		t.c = &cpy
	}

	if opts.timeout != nil {
		t.c.Timeout = *opts.timeout
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	t.c.Transport = transport

	if opts.throttle != nil {
		limiter, err := throttle.New(opts.throttle.RPS, opts.throttle.Burst, logFn)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		t.limiter = limiter
	}

	return &t, nil
}

// Fetch maps settings onto an [http.Request] and performs it.
func (t *HTTPTransport) Fetch(ctx context.Context, rawURL string, settings Settings) (*RawResponse, error) {
	var body io.Reader
	if settings.Body != nil {
		body = bytes.NewReader(settings.Body)
	}

	req, err := http.NewRequestWithContext(ctx, settings.Method, rawURL, body)
	if err != nil {
		return nil, err
	}

	for k, v := range settings.Header {
		req.Header[k] = append([]string(nil), v...)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx, req.URL.Hostname()); err != nil {
			return nil, err
		}
	}

	resp, err := t.client(settings).Do(req)
	if err != nil {
		return nil, err
	}

	return &RawResponse{
		StatusCode: resp.StatusCode,
		StatusText: statusText(resp),
		Header:     resp.Header,
		Body:       resp.Body,
	}, nil
}

// client returns the http.Client honoring the per-request credentials
// and redirect policy. The shared client is returned when no override
// is needed.
func (t *HTTPTransport) client(settings Settings) *http.Client {
	redirect := settings.Redirect
	if t.noFollowRedirects && redirect != RedirectError {
		redirect = RedirectManual
	}

	omitJar := settings.Credentials == CredentialsOmit && t.c.Jar != nil
	if !omitJar && redirect != RedirectManual && redirect != RedirectError {
		return t.c
	}

	cpy := *t.c
	if omitJar {
		cpy.Jar = nil
	}

	switch redirect {
	case RedirectManual:
		cpy.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	case RedirectError:
		cpy.CheckRedirect = func(req *http.Request, _ []*http.Request) error {
			return fmt.Errorf("%w: %s", errRedirectRefused, req.URL.Redacted())
		}
	}

	return &cpy
}

// statusText strips the numeric code from resp.Status ("404 Not Found").
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}
