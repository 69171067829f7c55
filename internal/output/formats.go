package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/scloud/http"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat maps a flag value to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatRequest(req *http.BuiltRequest) string
	FormatResponse(resp *http.Response) string
	FormatExtracted(values map[string]string) string
}

// RequestData represents the structured data of a built request
type RequestData struct {
	Method    string   `json:"method" yaml:"method"`
	URL       string   `json:"url" yaml:"url"`
	Headers   []string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body      string   `json:"body,omitempty" yaml:"body,omitempty"`
	Timestamp string   `json:"timestamp" yaml:"timestamp"`
}

// ResponseData represents the structured data of a response
type ResponseData struct {
	StatusCode     int               `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Status         string            `json:"status,omitempty" yaml:"status,omitempty"`
	URL            string            `json:"url,omitempty" yaml:"url,omitempty"`
	Headers        map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body           any               `json:"body,omitempty" yaml:"body,omitempty"`
	TransportError *TransportData    `json:"transportError,omitempty" yaml:"transportError,omitempty"`
	Timestamp      string            `json:"timestamp" yaml:"timestamp"`
}

// TransportData describes a transport failure
type TransportData struct {
	Code    int    `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

func requestData(req *http.BuiltRequest) RequestData {
	data := RequestData{
		Method:    string(req.Method),
		URL:       req.URL,
		Headers:   req.Headers,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if req.HasBody {
		data.Body = req.Body
	}
	return data
}

func responseData(resp *http.Response, verbose bool) ResponseData {
	data := ResponseData{
		Status:    resp.Status(),
		URL:       resp.URL(),
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if code, ok := resp.StatusCode(); ok {
		data.StatusCode = code
	}
	if verbose {
		data.Headers = resp.Headers()
	}
	if resp.TransportErrorCode() != http.ErrCodeOK {
		data.TransportError = &TransportData{
			Code:    resp.TransportErrorCode(),
			Message: resp.TransportErrorMessage(),
		}
	}

	// XML trees and undecodable bodies are emitted as the raw text
	switch body := resp.Body(); body.(type) {
	case nil, *http.XMLNode:
		if raw := resp.BodyRaw(); raw != "" {
			data.Body = raw
		}
	default:
		data.Body = body
	}
	return data
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

func (f *JSONFormatter) marshal(v any) string {
	var output []byte
	var err error
	if f.Pretty {
		output, err = json.MarshalIndent(v, "", "  ")
	} else {
		output, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":"Failed to marshal output: %s"}`, err)
	}
	return string(output) + "\n"
}

// FormatRequest formats a request as JSON
func (f *JSONFormatter) FormatRequest(req *http.BuiltRequest) string {
	return f.marshal(requestData(req))
}

// FormatResponse formats a response as JSON
func (f *JSONFormatter) FormatResponse(resp *http.Response) string {
	return f.marshal(responseData(resp, f.Verbose))
}

// FormatExtracted formats extracted values as a JSON object
func (f *JSONFormatter) FormatExtracted(values map[string]string) string {
	if len(values) == 0 {
		return ""
	}
	return f.marshal(map[string]any{"extracted": values})
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Verbose bool
}

func (f *YAMLFormatter) marshal(v any) string {
	output, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: Failed to marshal output: %s\n", err)
	}
	return "---\n" + string(output)
}

// FormatRequest formats a request as YAML
func (f *YAMLFormatter) FormatRequest(req *http.BuiltRequest) string {
	return f.marshal(requestData(req))
}

// FormatResponse formats a response as YAML
func (f *YAMLFormatter) FormatResponse(resp *http.Response) string {
	return f.marshal(responseData(resp, f.Verbose))
}

// FormatExtracted formats extracted values as a YAML mapping
func (f *YAMLFormatter) FormatExtracted(values map[string]string) string {
	if len(values) == 0 {
		return ""
	}
	return f.marshal(map[string]any{"extracted": values})
}

// GetFormatter returns the appropriate formatter for the given format
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	default:
		return NewFormatter(verbose, noColor)
	}
}
