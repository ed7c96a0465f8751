package client

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

// Param is a single query string field.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered list of query string fields. Order is kept
// when encoded.
type Params []Param

// Add appends a field and returns the extended Params.
func (p Params) Add(key string, value any) Params {
	return append(p, Param{Key: key, Value: value})
}

// Encode renders the fields as key=value pairs joined by "&". Keys are
// used as-is; values are percent-encoded like JavaScript's
// encodeURIComponent, nil encoding as the empty string.
func (p Params) Encode() string {
	var sb strings.Builder
	for i, param := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(param.Key)
		sb.WriteByte('=')
		sb.WriteString(encodeURIComponent(formatParam(param.Value)))
	}
	return sb.String()
}

// toParams converts the supported parameter payloads into Params.
// Unordered maps are sorted by key.
func toParams(data any) (Params, error) {
	switch d := data.(type) {
	case nil:
		return nil, nil
	case Params:
		return d, nil
	case []Param:
		return Params(d), nil
	case map[string]string:
		params := make(Params, 0, len(d))
		for _, k := range slices.Sorted(maps.Keys(d)) {
			params = params.Add(k, d[k])
		}
		return params, nil
	case map[string]any:
		params := make(Params, 0, len(d))
		for _, k := range slices.Sorted(maps.Keys(d)) {
			params = params.Add(k, d[k])
		}
		return params, nil
	case url.Values:
		params := make(Params, 0, len(d))
		for _, k := range slices.Sorted(maps.Keys(d)) {
			for _, v := range d[k] {
				params = params.Add(k, v)
			}
		}
		return params, nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidParams, data)
	}
}

func formatParam(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// encodeURIComponent escapes everything except
// A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreservedComponent(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0x0F])
	}
	return sb.String()
}

func unreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
