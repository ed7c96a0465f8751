package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// isJSONLike matches "application/json", "text/javascript" and friends.
// The test is a case-sensitive substring match on the raw header.
func isJSONLike(contentType string) bool {
	return strings.Contains(contentType, "json") || strings.Contains(contentType, "javascript")
}

// classify turns a raw response into a Result. Body parse failures
// become a Fallback; only strict mode and body read failures return
// an error.
func classify(ctx context.Context, resp *RawResponse, s Settings) (Result, error) {
	if s.Method == http.MethodHead {
		return Result{Kind: KindHeaders, Header: resp.Header.Clone()}, nil
	}

	contentType := resp.Get(headerContentType)

	if s.StrictErrors && !resp.OK() {
		return Result{}, strictError(ctx, resp)
	}

	body, err := resp.Bytes(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("reading body: %w", err)
	}

	if !isJSONLike(contentType) {
		fb := Fallback{
			OK:          resp.OK(),
			Error:       !resp.OK(),
			Status:      resp.StatusCode,
			ContentType: contentType,
			BodyText:    string(body),
			Response:    resp,
		}
		return Result{Kind: KindFallback, Fallback: &fb}, nil
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		fb := Fallback{
			OK:          false,
			Error:       true,
			Status:      decodeFailureStatus,
			ContentType: contentType,
			BodyText:    fmt.Sprintf("invalid JSON [%v]", err),
			Response:    resp,
		}
		return Result{Kind: KindFallback, Fallback: &fb}, nil
	}

	if resp.OK() {
		return Result{Kind: KindJSON, Data: data, Raw: json.RawMessage(body)}, nil
	}

	text, err := json.Marshal(data)
	if err != nil {
		return Result{}, fmt.Errorf("encoding error body: %w", err)
	}

	fb := Fallback{
		OK:          false,
		Error:       true,
		Status:      resp.StatusCode,
		ContentType: contentType,
		BodyText:    string(text),
		Data:        data,
		Response:    resp,
	}
	return Result{Kind: KindFallback, Fallback: &fb}, nil
}

func strictError(ctx context.Context, resp *RawResponse) error {
	var b []byte
	if resp.Body != nil {
		var err error
		b, err = io.ReadAll(io.LimitReader(&contextReader{ctx: ctx, r: resp.Body}, maxErrBodySize))
		if err != nil {
			b = []byte("unable to read body")
		}
	}

	return &StatusError{
		StatusCode: resp.StatusCode,
		StatusText: resp.StatusText,
		Body:       string(b),
		Err:        ErrStrictStatus,
	}
}
