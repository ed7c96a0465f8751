package client

import (
	"log/slog"
	"strings"
	"time"
)

// isoLayout matches JavaScript's Date.prototype.toISOString.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Direction tags a [LogEvent] as outgoing or incoming.
type Direction string

const (
	DirectionRequest  Direction = "request"
	DirectionResponse Direction = "response"
)

// LogEvent describes one side of a request. The response-only fields
// are zero on request events. URL never carries the query string.
type LogEvent struct {
	ID          string
	Timestamp   time.Time
	Direction   Direction
	Method      string
	Domain      string
	URL         string
	OK          bool
	Status      int
	StatusText  string
	ContentType string
}

// LogFunc observes request and response events.
type LogFunc func(LogEvent)

// Fields returns the event as positional values, laid out as described
// by [LogHeaders]. Response-only positions are nil on request events.
func (e LogEvent) Fields() []any {
	fields := []any{
		e.Timestamp.UTC().Format(isoLayout),
		string(e.Direction),
		e.Method,
		e.Domain,
		e.URL,
		nil, nil, nil, nil,
	}

	if e.Direction == DirectionResponse {
		fields[5] = e.OK
		fields[6] = e.Status
		fields[7] = e.StatusText
		fields[8] = e.ContentType
	}

	return fields
}

// LogHeaders returns the column names of [LogEvent.Fields].
func LogHeaders() []string {
	return []string{"Timestamp", "HTTP", "Method", "Domain", "URL", "Ok", "Status", "Text", "Type"}
}

// LogHeaderIndex maps the lower-cased column names of [LogHeaders] to their position.
func LogHeaderIndex() map[string]int {
	return map[string]int{
		"timestamp": 0,
		"http":      1,
		"method":    2,
		"domain":    3,
		"url":       4,
		"ok":        5,
		"status":    6,
		"text":      7,
		"type":      8,
	}
}

// SlogFunc returns a LogFunc writing events to logger.
func SlogFunc(logger *slog.Logger) LogFunc {
	return func(e LogEvent) {
		if e.Direction == DirectionRequest {
			logger.Info("request started", "id", e.ID, "method", e.Method, "domain", e.Domain, "url", e.URL)
			return
		}

		logger.Info("request completed", "id", e.ID, "method", e.Method, "domain", e.Domain, "url", e.URL,
			"ok", e.OK, "status", e.Status, "statusText", e.StatusText, "contentType", e.ContentType)
	}
}

// MultiLogFunc fans each event out to every non-nil fn, in order.
func MultiLogFunc(fns ...LogFunc) LogFunc {
	return func(e LogEvent) {
		for _, fn := range fns {
			if fn != nil {
				fn(e)
			}
		}
	}
}

// logLocation derives the hostname and the query-less URL used in log
// events, so parameter values never reach a logger.
func logLocation(rawURL string) (domain, logURL string) {
	logURL, _, _ = strings.Cut(rawURL, "?")

	domain = logURL
	if i := strings.LastIndex(domain, "://"); i >= 0 {
		domain = domain[i+len("://"):]
	}
	if i := strings.IndexAny(domain, ":/"); i >= 0 {
		domain = domain[:i]
	}

	return domain, logURL
}
