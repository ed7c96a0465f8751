package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Settings is the effective configuration handed to a [Transport]. It
// is built fresh for every request and owned by that request.
type Settings struct {
	Method       string
	Credentials  Credentials
	StrictErrors bool
	Redirect     RedirectPolicy
	Header       http.Header
	Body         []byte
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	cpy := s
	cpy.Header = s.Header.Clone()
	if s.Body != nil {
		cpy.Body = append([]byte(nil), s.Body...)
	}
	return cpy
}

// paramStyle reports whether the payload of method travels in the
// query string rather than the body.
func paramStyle(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// merge layers built-in defaults, base and the call options, lowest to
// highest precedence. No I/O happens here.
func merge(method, rawURL string, base Options, call ...Options) (Settings, error) {
	s := Settings{
		Method:      method,
		Credentials: CredentialsSameOrigin,
		Redirect:    RedirectFollow,
		Header:      make(http.Header),
	}

	layers := append([]Options{base}, call...)
	for _, o := range layers {
		if err := validateOptions(o); err != nil {
			return Settings{}, err
		}

		if o.Method != "" {
			s.Method = o.Method
		}
		if o.Credentials != "" {
			s.Credentials = o.Credentials
		}
		if o.StrictErrors != nil {
			s.StrictErrors = *o.StrictErrors
		}
		if o.Redirect != "" {
			s.Redirect = o.Redirect
		}
		for k, v := range o.Headers {
			s.Header[http.CanonicalHeaderKey(k)] = []string{v}
		}
	}

	s.Method = strings.ToUpper(strings.TrimSpace(s.Method))
	if s.Method == "" {
		return Settings{}, ErrInvalidMethod
	}

	if strings.TrimSpace(rawURL) == "" {
		return Settings{}, fmt.Errorf("%w: empty url", ErrInvalidURL)
	}
	if _, err := url.Parse(rawURL); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	return s, nil
}

// build derives the final URL and body from data, and fills in the
// JSON headers the caller did not override.
func build(rawURL string, data any, s Settings) (string, Settings, error) {
	s = s.Clone()

	if paramStyle(s.Method) {
		params, err := toParams(data)
		if err != nil {
			return "", Settings{}, err
		}

		if len(params) > 0 {
			sep := "?"
			if strings.Contains(rawURL, "?") {
				sep = "&"
			}
			rawURL = rawURL + sep + params.Encode()
		}
	} else if data != nil {
		body, err := json.Marshal(data)
		if err != nil {
			return "", Settings{}, fmt.Errorf("encoding request payload: %w", err)
		}
		s.Body = body

		setDefault(s.Header, headerContentType, mimeJSON)
	}

	setDefault(s.Header, headerAccept, mimeJSON)

	return rawURL, s, nil
}

func setDefault(h http.Header, key, value string) {
	if _, ok := h[key]; ok {
		return
	}
	h.Set(key, value)
}
