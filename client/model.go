package client

import (
	"errors"
)

// maxErrBodySize caps the amount of response body kept on a
// [StatusError] when strict mode rejects a response.
const maxErrBodySize = 4 << 10 // 4KB

// decodeFailureStatus is reported on a [Fallback] when a JSON-typed
// body cannot be parsed. It is synthetic, not the HTTP status.
const decodeFailureStatus = 500

const (
	mimeJSON = "application/json"

	headerAccept      = "Accept"
	headerContentType = "Content-Type"
)

var (
	// ErrInvalidMethod is returned before dispatch when the effective
	// HTTP method is empty.
	ErrInvalidMethod = errors.New("invalid http method")
	// ErrInvalidURL is returned before dispatch when the URL is empty or unparsable.
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidOptions is joined with [FieldErrors] when an [Options]
	// field holds an unsupported value.
	ErrInvalidOptions = errors.New("invalid options")
	// ErrInvalidParams is returned when a GET or HEAD payload cannot be
	// expressed as query string parameters.
	ErrInvalidParams = errors.New("invalid query params")
	// ErrStrictStatus is the sentinel wrapped by [StatusError].
	ErrStrictStatus = errors.New(`HTTP response status ("strictErrors" mode enabled)`)
)

// Credentials controls whether ambient credentials (cookies) are
// attached to a request.
type Credentials string

const (
	CredentialsOmit       Credentials = "omit"
	CredentialsSameOrigin Credentials = "same-origin"
	CredentialsInclude    Credentials = "include"
)

// RedirectPolicy controls how the transport treats 3xx responses.
type RedirectPolicy string

const (
	RedirectFollow RedirectPolicy = "follow"
	RedirectManual RedirectPolicy = "manual"
	RedirectError  RedirectPolicy = "error"
)
