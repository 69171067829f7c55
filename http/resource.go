package http

import (
	"fmt"
	"strings"
)

// Verb is an HTTP method supported by the API.
type Verb string

const (
	GET    Verb = "GET"
	POST   Verb = "POST"
	PUT    Verb = "PUT"
	DELETE Verb = "DELETE"
	HEAD   Verb = "HEAD"
)

// ParseVerb converts a method name in any case into a Verb.
func ParseVerb(s string) (Verb, error) {
	switch v := Verb(strings.ToUpper(strings.TrimSpace(s))); v {
	case GET, POST, PUT, DELETE, HEAD:
		return v, nil
	}
	return "", fmt.Errorf("%w: unsupported http verb %q", ErrInvalidArgument, s)
}

// HasBody reports whether parameters travel in the request body rather than
// the query string.
func (v Verb) HasBody() bool {
	return v == POST || v == PUT
}

// String implements fmt.Stringer.
func (v Verb) String() string {
	return string(v)
}

// Resource describes one API call: the verb, the path and its parameters.
type Resource struct {
	verb   Verb
	path   string
	params *Params
}

// NewResource validates verb and path and returns a Resource. A nil params
// value is treated as an empty set.
func NewResource(verb string, path string, params *Params) (*Resource, error) {
	v, err := ParseVerb(verb)
	if err != nil {
		return nil, err
	}
	if path == "" || !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("%w: resource path %q must start with /", ErrInvalidArgument, path)
	}

	return &Resource{
		verb:   v,
		path:   path,
		params: params.Clone(),
	}, nil
}

// Verb returns the HTTP verb.
func (r *Resource) Verb() Verb {
	return r.verb
}

// Path returns the request path.
func (r *Resource) Path() string {
	return r.path
}

// Params returns a copy of the resource parameters.
func (r *Resource) Params() *Params {
	return r.params.Clone()
}

// SetParams layers params over the current parameters.
func (r *Resource) SetParams(params *Params) {
	r.params = r.params.Merge(params)
}

// String returns "VERB /path".
func (r *Resource) String() string {
	return string(r.verb) + " " + r.path
}
