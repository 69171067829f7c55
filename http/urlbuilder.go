package http

import (
	"strconv"
	"strings"
)

const (
	DefaultScheme = "https"
	DefaultHost   = "api.soundcloud.com"
)

// URLBuilder turns a Resource into a target URL and, for body verbs, an
// encoded request body.
type URLBuilder interface {
	URL() string
	Body() string
	Resource() *Resource
}

// DefaultURLBuilder is the standard URLBuilder. It reads the resource on every
// call, so parameters set after construction are reflected.
type DefaultURLBuilder struct {
	resource *Resource
	scheme   string
	host     string
	port     int
	auth     *Params
}

// BuilderOption configures a DefaultURLBuilder.
type BuilderOption func(*DefaultURLBuilder)

// WithScheme sets the URL scheme. "http", "http://" and "HTTP" are equivalent.
func WithScheme(scheme string) BuilderOption {
	return func(b *DefaultURLBuilder) {
		scheme = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(scheme), "://"))
		if scheme != "" {
			b.scheme = scheme
		}
	}
}

// WithHost sets the host name.
func WithHost(host string) BuilderOption {
	return func(b *DefaultURLBuilder) {
		if host != "" {
			b.host = host
		}
	}
}

// WithHostParts sets the host as subdomain.domain.
func WithHostParts(subdomain, domain string) BuilderOption {
	return func(b *DefaultURLBuilder) {
		switch {
		case subdomain == "":
			b.host = domain
		case domain == "":
			b.host = subdomain
		default:
			b.host = subdomain + "." + domain
		}
	}
}

// WithPort sets an explicit port. Zero, or the default port of the scheme,
// leaves the port out of the URL.
func WithPort(port int) BuilderOption {
	return func(b *DefaultURLBuilder) {
		b.port = port
	}
}

// WithAuthParams injects authentication parameters. Resource parameters with
// the same name take precedence.
func WithAuthParams(params *Params) BuilderOption {
	return func(b *DefaultURLBuilder) {
		b.auth = params.Clone()
	}
}

// NewURLBuilder returns a builder for res targeting https://api.soundcloud.com
// unless overridden by opts.
func NewURLBuilder(res *Resource, opts ...BuilderOption) *DefaultURLBuilder {
	b := &DefaultURLBuilder{
		resource: res,
		scheme:   DefaultScheme,
		host:     DefaultHost,
		auth:     NewParams(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Resource returns the resource the builder reads from.
func (b *DefaultURLBuilder) Resource() *Resource {
	return b.resource
}

// BaseURL returns scheme://host[:port]/path without a query string.
func (b *DefaultURLBuilder) BaseURL() string {
	var buf strings.Builder
	buf.WriteString(b.scheme)
	buf.WriteString("://")
	buf.WriteString(b.host)
	if b.port > 0 && b.port != defaultPort(b.scheme) {
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(b.port))
	}
	buf.WriteString(b.resource.Path())
	return buf.String()
}

// MergedParams returns the auth parameters with the resource parameters
// layered on top.
func (b *DefaultURLBuilder) MergedParams() *Params {
	return b.auth.Merge(b.resource.params)
}

// URL returns the target URL. Query verbs carry the merged parameters in the
// query string; body verbs never do.
func (b *DefaultURLBuilder) URL() string {
	base := b.BaseURL()
	if b.resource.Verb().HasBody() {
		return base
	}

	query := b.MergedParams().Encode()
	if query == "" {
		return base
	}
	return base + "?" + query
}

// Body returns the URL-encoded body for POST and PUT, and "" otherwise.
func (b *DefaultURLBuilder) Body() string {
	if !b.resource.Verb().HasBody() {
		return ""
	}
	return b.MergedParams().Encode()
}

func defaultPort(scheme string) int {
	switch scheme {
	case "http":
		return 80
	case "https":
		return 443
	}
	return 0
}
