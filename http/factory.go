package http

import "github.com/rs/zerolog"

// Factory produces the collaborators a Request needs at execution time.
// Substituting a Factory is how tests replace the network.
type Factory interface {
	NewTransport(opts Options) Transport
	NewResponse(raw RawOutput, format Format) *Response
}

// DefaultFactory builds HTTPTransport instances and parses responses with
// NewResponse.
type DefaultFactory struct {
	Logger zerolog.Logger
}

// NewTransport returns an HTTPTransport. Options are applied per call by the
// transport itself.
func (f DefaultFactory) NewTransport(Options) Transport {
	return NewHTTPTransport(f.Logger)
}

// NewResponse delegates to the package-level NewResponse.
func (f DefaultFactory) NewResponse(raw RawOutput, format Format) *Response {
	return NewResponse(raw, format)
}

// TransportFactory wraps a fixed Transport, typically a test double.
type TransportFactory struct {
	Transport Transport
}

// NewTransport returns the wrapped transport.
func (f TransportFactory) NewTransport(Options) Transport {
	return f.Transport
}

// NewResponse delegates to the package-level NewResponse.
func (f TransportFactory) NewResponse(raw RawOutput, format Format) *Response {
	return NewResponse(raw, format)
}
