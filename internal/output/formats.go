// Package output renders fetchjson results for a terminal.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/adamwoolhether/fetchjson/client"
)

// Formatter renders results and log events.
type Formatter struct {
	scheme *ColorScheme
}

// NewFormatter returns a Formatter. Colors are used only when noColor
// is false and w is a terminal.
func NewFormatter(w io.Writer, noColor bool) *Formatter {
	if noColor || !IsTerminal(w) {
		return &Formatter{scheme: NoColorScheme()}
	}
	return &Formatter{scheme: DefaultColorScheme()}
}

// FormatResult renders res. JSON is indented; a fallback gets a status
// line before its body; headers are listed sorted by name.
func (f *Formatter) FormatResult(res client.Result) string {
	var sb strings.Builder

	switch res.Kind {
	case client.KindJSON:
		sb.WriteString(f.scheme.Body.Sprint(indent(res.Raw)))
		sb.WriteByte('\n')

	case client.KindFallback:
		fb := res.Fallback
		sb.WriteString(f.scheme.status(fb.Status).Sprintf("%d %s", fb.Status, http.StatusText(fb.Status)))
		if fb.ContentType != "" {
			sb.WriteString(f.scheme.Dim.Sprintf(" (%s)", fb.ContentType))
		}
		sb.WriteByte('\n')
		if fb.BodyText != "" {
			body := fb.BodyText
			if fb.Data != nil {
				body = indent(json.RawMessage(fb.BodyText))
			}
			sb.WriteString(f.scheme.Body.Sprint(body))
			sb.WriteByte('\n')
		}

	case client.KindHeaders:
		sb.WriteString(f.FormatHeaders(res.Header))
	}

	return sb.String()
}

// FormatHeaders renders h as "Name: value" lines sorted by name.
func (f *Formatter) FormatHeaders(h http.Header) string {
	var sb strings.Builder
	for _, k := range slices.Sorted(maps.Keys(h)) {
		for _, v := range h[k] {
			sb.WriteString(f.scheme.HeaderKey.Sprint(k))
			sb.WriteString(": ")
			sb.WriteString(f.scheme.HeaderValue.Sprint(v))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// FormatEvent renders a log event as a single line.
func (f *Formatter) FormatEvent(e client.LogEvent) string {
	fields := e.Fields()
	idx := client.LogHeaderIndex()

	line := fmt.Sprintf("%s %s %s %s",
		f.scheme.Dim.Sprint(fields[idx["timestamp"]]),
		f.scheme.Dim.Sprint(fields[idx["http"]]),
		f.scheme.Method.Sprint(e.Method),
		f.scheme.URL.Sprint(e.URL),
	)

	if e.Direction == client.DirectionResponse {
		line += " " + f.scheme.status(e.Status).Sprintf("%d %s", e.Status, e.StatusText)
		if e.ContentType != "" {
			line += " " + f.scheme.Dim.Sprint(e.ContentType)
		}
	}

	return line + "\n"
}

// LogFunc returns a [client.LogFunc] writing each event to w.
func (f *Formatter) LogFunc(w io.Writer) client.LogFunc {
	return func(e client.LogEvent) {
		io.WriteString(w, f.FormatEvent(e))
	}
}

func indent(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
