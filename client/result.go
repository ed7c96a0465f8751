package client

import (
	"encoding/json"
	"errors"
	"net/http"
)

var errNoJSON = errors.New("result carries no JSON body")

// Kind discriminates the shapes a [Result] can take.
type Kind int

const (
	// KindJSON is a successful response with a parsed JSON body.
	KindJSON Kind = iota + 1
	// KindFallback is a non-JSON, unparsable or unsuccessful response.
	KindFallback
	// KindHeaders is the header map of a HEAD response.
	KindHeaders
)

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindFallback:
		return "fallback"
	case KindHeaders:
		return "headers"
	default:
		return "unknown"
	}
}

// Result is the normalized outcome of a request. Exactly one of Data,
// Fallback or Header is meaningful, as given by Kind.
type Result struct {
	Kind     Kind
	Data     any
	Raw      json.RawMessage
	Fallback *Fallback
	Header   http.Header
}

// Fallback describes a response that could not be surfaced as parsed
// JSON: a non-JSON content type, an HTTP error, or a JSON body that
// failed to parse.
type Fallback struct {
	OK          bool         `json:"ok"`
	Error       bool         `json:"error"`
	Status      int          `json:"status"`
	ContentType string       `json:"contentType"`
	BodyText    string       `json:"bodyText"`
	Data        any          `json:"data"`
	Response    *RawResponse `json:"-"`
}

// Decode unmarshals the JSON carried by the result into v. Fallbacks
// holding a parsed error body decode that body.
func (r Result) Decode(v any) error {
	switch {
	case r.Kind == KindJSON:
		return json.Unmarshal(r.Raw, v)
	case r.Kind == KindFallback && r.Fallback != nil && r.Fallback.Data != nil:
		return json.Unmarshal([]byte(r.Fallback.BodyText), v)
	default:
		return errNoJSON
	}
}
