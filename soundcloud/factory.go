package soundcloud

import (
	"github.com/rs/zerolog"

	"github.com/wesleyorama2/scloud/http"
)

// Factory builds the per-call collaborators of a Client.
type Factory interface {
	NewURLBuilder(res *http.Resource, opts ...http.BuilderOption) http.URLBuilder
	NewRequest(res *http.Resource, builder http.URLBuilder) *http.Request
}

// DefaultFactory builds http.DefaultURLBuilder and http.Request values. HTTP
// is the factory the requests execute through; nil means http.DefaultFactory.
type DefaultFactory struct {
	HTTP   http.Factory
	Logger zerolog.Logger
}

// NewURLBuilder returns an http.DefaultURLBuilder.
func (f *DefaultFactory) NewURLBuilder(res *http.Resource, opts ...http.BuilderOption) http.URLBuilder {
	return http.NewURLBuilder(res, opts...)
}

// NewRequest returns an http.Request bound to the configured HTTP factory.
func (f *DefaultFactory) NewRequest(res *http.Resource, builder http.URLBuilder) *http.Request {
	hf := f.HTTP
	if hf == nil {
		hf = http.DefaultFactory{Logger: f.Logger}
	}
	return http.NewRequest(res, builder, hf, http.WithLogger(f.Logger))
}
