package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/wesleyorama2/scloud/http"
)

// Formatter is responsible for formatting requests and responses in text format
type Formatter struct {
	Verbose bool
	NoColor bool

	colors *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	colors := DefaultColorScheme()
	if noColor {
		colors = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		colors:  colors,
	}
}

// FormatRequest formats a built request for display
func (f *Formatter) FormatRequest(req *http.BuiltRequest) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n",
		f.colors.Method.Sprint(req.Method), f.colors.URL.Sprint(req.URL)))

	if f.Verbose && len(req.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		for _, line := range req.Headers {
			name, value, _ := strings.Cut(line, ":")
			buf.WriteString(fmt.Sprintf("    %s: %s\n",
				f.colors.HeaderKey.Sprint(name), f.colors.HeaderValue.Sprint(strings.TrimSpace(value))))
		}
	}

	if req.HasBody && req.Body != "" {
		buf.WriteString("  Body: ")
		buf.WriteString(req.Body)
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResponse formats a response for display
func (f *Formatter) FormatResponse(resp *http.Response) string {
	var buf strings.Builder

	if err := resp.Err(); err != nil {
		buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s\n", f.colors.Error.Sprint(err.Error())))
		return buf.String()
	}

	status := resp.Status()
	if status == "" {
		status = "(no status line)"
	}

	statusColor := f.colors.StatusError
	switch {
	case resp.IsSuccess():
		statusColor = f.colors.StatusOK
	case resp.IsRedirect():
		statusColor = f.colors.StatusWarn
	}
	buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s\n", statusColor.Sprint(status)))

	if f.Verbose {
		headers := resp.Headers()
		if len(headers) > 0 {
			buf.WriteString("  Headers:\n")
			for _, key := range sortedKeys(headers) {
				buf.WriteString(fmt.Sprintf("    %s: %s\n",
					f.colors.HeaderKey.Sprint(key), f.colors.HeaderValue.Sprint(headers[key])))
			}
		}
	}

	if body := resp.BodyRaw(); body != "" {
		buf.WriteString("  Body:\n")
		buf.WriteString(formatJSONString(body))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatExtracted formats values pulled out of a response body
func (f *Formatter) FormatExtracted(values map[string]string) string {
	if len(values) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("  Extracted:\n")
	for _, name := range sortedKeys(values) {
		buf.WriteString(fmt.Sprintf("    %s = %s\n", f.colors.Highlight.Sprint(name), values[name]))
	}
	return buf.String()
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "  ", "  ")
	if err != nil {
		return s
	}
	return "  " + prettyJSON.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
