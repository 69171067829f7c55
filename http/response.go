package http

import (
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/wesleyorama2/scloud/pkg/jsonpath"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format is the response format requested from the API.
type Format string

const (
	FormatJSON Format = "application/json"
	FormatXML  Format = "application/xml"
)

// Response is the parsed result of one execution. It is built once from the
// transport output and never changes afterwards.
type Response struct {
	statusCode int
	hasStatus  bool
	reason     string
	headers    map[string]string
	bodyRaw    string
	body       any
	decodeErr  error
	format     Format
	errCode    int
	errMessage string
	url        string
	info       map[string]any
}

// NewResponse parses raw transport output. Body decoding follows format;
// a body that fails to decode leaves Body nil and BodyRaw intact.
func NewResponse(raw RawOutput, format Format) *Response {
	r := &Response{
		headers:    make(map[string]string),
		format:     format,
		errCode:    raw.ErrCode,
		errMessage: raw.ErrMessage,
		info:       make(map[string]any, len(raw.Info)),
	}
	for k, v := range raw.Info {
		r.info[k] = v
	}
	if u, ok := raw.Info["url"].(string); ok {
		r.url = u
	}

	head, body := splitHead(raw.Blob, raw.Info)
	r.parseHead(head)
	r.bodyRaw = body
	r.decodeBody()
	return r
}

// splitHead separates the header section from the body. A header_size entry
// in info gives the exact offset; otherwise the blob is split at the first
// blank line, skipping interim 1xx blocks.
func splitHead(blob string, info map[string]any) (string, string) {
	if size, ok := headerSize(info); ok && size >= 0 && size <= len(blob) {
		return blob[:size], blob[size:]
	}

	head, rest, ok := cutBlankLine(blob)
	if !ok {
		return "", blob
	}
	for isInterim(head) && strings.HasPrefix(rest, "HTTP/") {
		nextHead, nextRest, ok := cutBlankLine(rest)
		if !ok {
			break
		}
		head, rest = nextHead, nextRest
	}
	return head, rest
}

func cutBlankLine(s string) (string, string, bool) {
	crlf := strings.Index(s, "\r\n\r\n")
	lf := strings.Index(s, "\n\n")
	switch {
	case crlf < 0 && lf < 0:
		return "", s, false
	case lf < 0 || (crlf >= 0 && crlf < lf):
		return s[:crlf], s[crlf+4:], true
	default:
		return s[:lf], s[lf+2:], true
	}
}

func headerSize(info map[string]any) (int, bool) {
	switch v := info["header_size"].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func isInterim(head string) bool {
	code, _, ok := parseStatusLine(firstLine(head))
	return ok && code >= 100 && code < 200
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimRight(line, "\r")
}

func parseStatusLine(line string) (int, string, bool) {
	if !strings.HasPrefix(line, "HTTP/") {
		return 0, "", false
	}
	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 2 {
		return 0, "", false
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, "", false
	}
	reason := ""
	if len(fields) == 3 {
		reason = strings.TrimSpace(fields[2])
	}
	return code, reason, true
}

func (r *Response) parseHead(head string) {
	for i, line := range strings.Split(head, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if i == 0 {
			if code, reason, ok := parseStatusLine(line); ok {
				r.statusCode, r.reason, r.hasStatus = code, reason, true
				continue
			}
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		r.headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
}

func (r *Response) decodeBody() {
	if strings.TrimSpace(r.bodyRaw) == "" {
		return
	}

	switch r.format {
	case FormatXML:
		node, err := decodeXML(r.bodyRaw)
		if err != nil {
			r.decodeErr = fmt.Errorf("%w: xml: %v", ErrDecodeFailure, err)
			return
		}
		r.body = node
	default:
		var v any
		if err := json.UnmarshalFromString(r.bodyRaw, &v); err != nil {
			r.decodeErr = fmt.Errorf("%w: json: %v", ErrDecodeFailure, err)
			return
		}
		r.body = v
	}
}

// StatusCode returns the HTTP status code. ok is false when the transport
// output carried no status line.
func (r *Response) StatusCode() (code int, ok bool) {
	return r.statusCode, r.hasStatus
}

// Status returns "CODE Reason", or "" when no status line was present.
func (r *Response) Status() string {
	if !r.hasStatus {
		return ""
	}
	return strings.TrimSpace(strconv.Itoa(r.statusCode) + " " + r.reason)
}

// Headers returns a copy of the response headers.
func (r *Response) Headers() map[string]string {
	headers := make(map[string]string, len(r.headers))
	for k, v := range r.headers {
		headers[k] = v
	}
	return headers
}

// Header returns a header value; an exact name match is tried before a
// case-insensitive one.
func (r *Response) Header(name string) string {
	if v, ok := r.headers[name]; ok {
		return v
	}
	for k, v := range r.headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// BodyRaw returns the undecoded body.
func (r *Response) BodyRaw() string {
	return r.bodyRaw
}

// Body returns the decoded body: the result of JSON decoding for
// FormatJSON, an *XMLNode for FormatXML, or nil when decoding failed.
func (r *Response) Body() any {
	return r.body
}

// DecodeErr returns the decoding failure, if any. It wraps ErrDecodeFailure.
func (r *Response) DecodeErr() error {
	return r.decodeErr
}

// DecodeJSON unmarshals the raw body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.UnmarshalFromString(r.bodyRaw, v); err != nil {
		return fmt.Errorf("%w: json: %v", ErrDecodeFailure, err)
	}
	return nil
}

// Query extracts a value from a JSON body using a JSONPath expression such
// as "$.user.username".
func (r *Response) Query(path string) (string, error) {
	return jsonpath.Extract(r.bodyRaw, path)
}

// Format returns the format the body was decoded with.
func (r *Response) Format() Format {
	return r.format
}

// TransportErrorCode returns the transport error code, zero on success.
func (r *Response) TransportErrorCode() int {
	return r.errCode
}

// TransportErrorMessage returns the transport error message.
func (r *Response) TransportErrorMessage() string {
	return r.errMessage
}

// Err returns a *TransportError when the transport failed, nil otherwise.
// HTTP error statuses are not transport failures.
func (r *Response) Err() error {
	if r.errCode == ErrCodeOK {
		return nil
	}
	return &TransportError{Code: r.errCode, Message: r.errMessage}
}

// URL returns the final URL reported by the transport.
func (r *Response) URL() string {
	return r.url
}

// Info returns a copy of the transport info map.
func (r *Response) Info() map[string]any {
	info := make(map[string]any, len(r.info))
	for k, v := range r.info {
		info[k] = v
	}
	return info
}

// IsSuccess returns true if the status code is in the 2xx range
func (r *Response) IsSuccess() bool {
	return r.hasStatus && r.statusCode >= 200 && r.statusCode < 300
}

// IsRedirect returns true if the status code is in the 3xx range
func (r *Response) IsRedirect() bool {
	return r.hasStatus && r.statusCode >= 300 && r.statusCode < 400
}

// IsClientError returns true if the status code is in the 4xx range
func (r *Response) IsClientError() bool {
	return r.hasStatus && r.statusCode >= 400 && r.statusCode < 500
}

// IsServerError returns true if the status code is in the 5xx range
func (r *Response) IsServerError() bool {
	return r.hasStatus && r.statusCode >= 500 && r.statusCode < 600
}
