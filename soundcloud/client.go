package soundcloud

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wesleyorama2/scloud/http"
)

const (
	ParamClientID     = "client_id"
	ParamClientSecret = "client_secret"
	ParamOAuthToken   = "oauth_token"
)

// Response formats accepted by the facade.
const (
	FormatJSON = "json"
	FormatXML  = "xml"
)

// errNoResource is returned by operations that need a current resource.
var errNoResource = fmt.Errorf("%w: no resource found: you must call a http verb method before SetParams", http.ErrPreconditionFailed)

// Client holds the application credentials and the resource of the call being
// prepared. Verb methods set the current resource, SetParams refines it and
// Request executes it.
//
// A Client is not safe for concurrent use; give each goroutine its own.
type Client struct {
	clientID     string
	clientSecret string
	callbackURI  string

	token   string
	scope   string
	expires time.Time

	resource *http.Resource
	format   string

	factory  Factory
	endpoint []http.BuilderOption
	defaults http.Options
	logger   zerolog.Logger

	lastResponse *http.Response
}

// Option configures a Client.
type Option func(*Client)

// WithFactory replaces the factory used to build URL builders and requests.
func WithFactory(f Factory) Option {
	return func(c *Client) {
		c.factory = f
	}
}

// WithHTTPFactory keeps the default builder and request construction but
// executes through f, typically a transport double.
func WithHTTPFactory(f http.Factory) Option {
	return func(c *Client) {
		c.factory = &DefaultFactory{HTTP: f, Logger: c.logger}
	}
}

// WithEndpoint targets a different API host. Empty values and a zero port
// keep the defaults.
func WithEndpoint(scheme, host string, port int) Option {
	return func(c *Client) {
		c.endpoint = []http.BuilderOption{
			http.WithScheme(scheme),
			http.WithHost(host),
			http.WithPort(port),
		}
	}
}

// WithLogger sets the logger passed to every request.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
		if f, ok := c.factory.(*DefaultFactory); ok {
			f.Logger = logger
		}
	}
}

// WithDefaultOptions sets transport options applied to every request before
// the per-call overrides.
func WithDefaultOptions(opts http.Options) Option {
	return func(c *Client) {
		c.defaults = c.defaults.Merge(opts)
	}
}

// New creates a Client for the given application credentials.
//
// Example:
//
//	sc := soundcloud.New("ClientIDHash", "ClientSecretHash", "http://example.com/soundcloud")
//	if err := sc.Get("/resolve", http.MustParams("url", trackURL)); err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := sc.Request(ctx, nil)
func New(clientID, clientSecret, callbackURI string, opts ...Option) *Client {
	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		callbackURI:  callbackURI,
		format:       FormatJSON,
		defaults:     http.Options{},
		logger:       zerolog.Nop(),
	}
	c.factory = &DefaultFactory{Logger: c.logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthClientID returns the application client id.
func (c *Client) AuthClientID() string {
	return c.clientID
}

// AuthClientSecret returns the application client secret.
func (c *Client) AuthClientSecret() string {
	return c.clientSecret
}

// AuthCallbackURI returns the redirect URI registered for the application.
func (c *Client) AuthCallbackURI() string {
	return c.callbackURI
}

// AuthToken returns the OAuth access token, or "" when none is held.
func (c *Client) AuthToken() string {
	return c.token
}

// AuthScope returns the scope granted with the access token.
func (c *Client) AuthScope() string {
	return c.scope
}

// Expires returns when the access token expires. The zero time means unknown.
func (c *Client) Expires() time.Time {
	return c.expires
}

// SetAccessToken stores a token obtained elsewhere. A zero expiresIn leaves
// the expiry unknown.
func (c *Client) SetAccessToken(token, scope string, expiresIn time.Duration) {
	c.token = token
	c.scope = scope
	c.expires = time.Time{}
	if expiresIn > 0 {
		c.expires = time.Now().Add(expiresIn)
	}
}

// ClearAccessToken forgets the token, scope and expiry.
func (c *Client) ClearAccessToken() {
	c.SetAccessToken("", "", 0)
}

// Get prepares a GET call.
func (c *Client) Get(path string, params ...*http.Params) error {
	return c.setResource(http.GET, path, params)
}

// Post prepares a POST call.
func (c *Client) Post(path string, params ...*http.Params) error {
	return c.setResource(http.POST, path, params)
}

// Put prepares a PUT call.
func (c *Client) Put(path string, params ...*http.Params) error {
	return c.setResource(http.PUT, path, params)
}

// Delete prepares a DELETE call.
func (c *Client) Delete(path string, params ...*http.Params) error {
	return c.setResource(http.DELETE, path, params)
}

// Head prepares a HEAD call.
func (c *Client) Head(path string, params ...*http.Params) error {
	return c.setResource(http.HEAD, path, params)
}

func (c *Client) setResource(verb http.Verb, path string, params []*http.Params) error {
	merged := http.NewParams()
	for _, p := range params {
		merged = merged.Merge(p)
	}

	res, err := http.NewResource(string(verb), path, merged)
	if err != nil {
		return err
	}
	c.resource = res
	return nil
}

// Resource returns the current resource, or nil before any verb method.
func (c *Client) Resource() *http.Resource {
	return c.resource
}

func (c *Client) currentResource() (*http.Resource, error) {
	if c.resource == nil {
		return nil, errNoResource
	}
	return c.resource, nil
}

// SetParams layers params over the current resource parameters. It fails with
// an error wrapping http.ErrPreconditionFailed when no verb method has been
// called yet.
func (c *Client) SetParams(params *http.Params) error {
	res, err := c.currentResource()
	if err != nil {
		return err
	}
	res.SetParams(params)
	return nil
}

// AsJSON requests JSON responses.
func (c *Client) AsJSON() {
	c.format = FormatJSON
}

// AsXML requests XML responses.
func (c *Client) AsXML() {
	c.format = FormatXML
}

// ResponseFormat returns "json" or "xml".
func (c *Client) ResponseFormat() string {
	return c.format
}

// MergeAuthParams returns the authentication parameters with params layered
// on top. client_id is always present; client_secret, and oauth_token when a
// token is held, are added only when includeSecret is true.
func (c *Client) MergeAuthParams(params *http.Params, includeSecret bool) *http.Params {
	return c.authParams(includeSecret).Merge(params)
}

func (c *Client) authParams(includeSecret bool) *http.Params {
	auth := http.NewParams()
	_ = auth.Set(ParamClientID, c.clientID)
	if includeSecret {
		_ = auth.Set(ParamClientSecret, c.clientSecret)
		if c.token != "" {
			_ = auth.Set(ParamOAuthToken, c.token)
		}
	}
	return auth
}

// Request executes the current resource. The secret and token are sent only
// when a token is held. overrides are merged over the client's default
// options. The returned error is non-nil only when no resource has been set;
// transport failures are reported by the Response.
func (c *Client) Request(ctx context.Context, overrides http.Options) (*http.Response, error) {
	res, err := c.currentResource()
	if err != nil {
		return nil, err
	}

	opts := append([]http.BuilderOption{}, c.endpoint...)
	opts = append(opts, http.WithAuthParams(c.authParams(c.token != "")))
	builder := c.factory.NewURLBuilder(res, opts...)

	req := c.factory.NewRequest(res, builder)
	req.SetOptions(c.defaults.Merge(overrides))
	c.applyResponseFormat(req)

	resp := req.Execute(ctx)
	c.lastResponse = resp

	if err := resp.Err(); err != nil {
		c.logger.Warn().Err(err).Str("resource", res.String()).Msg("transport failure")
	}
	return resp, nil
}

func (c *Client) applyResponseFormat(req *http.Request) {
	if c.format == FormatXML {
		req.AsXML()
		return
	}
	req.AsJSON()
}

// LastResponse returns the response of the most recent Request, or nil.
func (c *Client) LastResponse() *http.Response {
	return c.lastResponse
}
