package http

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const formContentType = "application/x-www-form-urlencoded"

// Request executes one Resource. It owns its options and response format and
// may be executed any number of times; each execution re-runs the same
// configuration. A Request is not safe for concurrent use.
type Request struct {
	resource *Resource
	builder  URLBuilder
	factory  Factory
	options  Options
	format   Format
	logger   zerolog.Logger
}

// RequestOption configures a Request.
type RequestOption func(*Request)

// WithLogger routes execution events to logger.
func WithLogger(logger zerolog.Logger) RequestOption {
	return func(r *Request) {
		r.logger = logger
	}
}

// NewRequest creates a Request for res. A nil factory means DefaultFactory.
//
// Example:
//
//	res, _ := http.NewResource("GET", "/resolve", http.MustParams("url", trackURL))
//	req := http.NewRequest(res, http.NewURLBuilder(res), nil)
//	resp := req.Execute(context.Background())
//	if err := resp.Err(); err != nil {
//	    log.Fatal(err)
//	}
func NewRequest(res *Resource, builder URLBuilder, factory Factory, opts ...RequestOption) *Request {
	if factory == nil {
		factory = DefaultFactory{}
	}
	r := &Request{
		resource: res,
		builder:  builder,
		factory:  factory,
		options:  DefaultOptions(),
		format:   FormatJSON,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetOptions merges opts into the current options; opts win on collision.
func (r *Request) SetOptions(opts Options) {
	r.options = r.options.Merge(opts)
}

// Options returns a snapshot of the merged options.
func (r *Request) Options() Options {
	return r.options.Clone()
}

// AsJSON requests a JSON response.
func (r *Request) AsJSON() {
	r.format = FormatJSON
}

// AsXML requests an XML response.
func (r *Request) AsXML() {
	r.format = FormatXML
}

// Format returns the requested response format.
func (r *Request) Format() Format {
	return r.format
}

// Resource returns the resource being executed.
func (r *Request) Resource() *Resource {
	return r.resource
}

// Build produces the transport-ready request without executing it.
func (r *Request) Build() *BuiltRequest {
	verb := r.resource.Verb()
	built := &BuiltRequest{
		Method:  verb,
		URL:     r.builder.URL(),
		Headers: []string{"Accept: " + string(r.format)},
		Options: r.Options(),
	}
	if verb.HasBody() {
		built.Body = r.builder.Body()
		built.HasBody = true
		built.Headers = append(built.Headers, "Content-Type: "+formContentType)
	}
	return built
}

// Execute performs the call and returns its Response. Transport failures do
// not surface as errors; they are reported by Response.TransportErrorCode
// and Response.Err.
func (r *Request) Execute(ctx context.Context) *Response {
	built := r.Build()
	requestID := uuid.NewString()
	start := time.Now()

	transport := r.factory.NewTransport(built.Options)
	raw := transport.Do(ctx, built)
	if raw.Info == nil {
		raw.Info = map[string]any{}
	}
	if _, ok := raw.Info["url"]; !ok {
		raw.Info["url"] = built.URL
	}
	resp := r.factory.NewResponse(raw, r.format)

	event := r.logger.Debug()
	if built.Options.Bool(OptVerbose) {
		event = r.logger.Info()
	}
	status, _ := resp.StatusCode()
	event.
		Str("request_id", requestID).
		Str("verb", string(built.Method)).
		Str("url", built.URL).
		Int("status", status).
		Int("transport_error", resp.TransportErrorCode()).
		Dur("duration", time.Since(start)).
		Msg("request executed")

	return resp
}
