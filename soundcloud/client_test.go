package soundcloud

import (
	"context"
	"errors"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/scloud/http"
	"github.com/wesleyorama2/scloud/internal/mockapi"
)

func newClient(opts ...Option) *Client {
	return New("ClientIDHash", "ClientSecretHash", "http://example.com/soundcloud", opts...)
}

// stubFactory mirrors a factory whose requests always run against the same
// fixed resource, recording the builders it hands out.
type stubFactory struct {
	transport http.Transport
	builders  []*http.DefaultURLBuilder
}

func (f *stubFactory) NewURLBuilder(res *http.Resource, opts ...http.BuilderOption) http.URLBuilder {
	b := http.NewURLBuilder(res, opts...)
	f.builders = append(f.builders, b)
	return b
}

func (f *stubFactory) NewRequest(res *http.Resource, builder http.URLBuilder) *http.Request {
	return http.NewRequest(res, builder, http.TransportFactory{Transport: f.transport})
}

func dummyTransport() http.Transport {
	return http.TransportFunc(func(context.Context, *http.BuiltRequest) http.RawOutput {
		return http.RawOutput{
			Blob:       "HTTP/1.1 302 Found\nurl: http://127.0.0.1/index.php\r\n\r\nDummy Response Body",
			Info:       map[string]any{"url": "http://127.0.0.1/index.php"},
			ErrMessage: "No Error",
		}
	})
}

func TestClient_Request(t *testing.T) {
	factory := &stubFactory{transport: dummyTransport()}
	sc := newClient(WithFactory(factory), WithEndpoint("http://", "127.0.0.1", 0))
	require.NoError(t, sc.Get("/index.php"))

	resp, err := sc.Request(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Dummy Response Body", resp.BodyRaw())
	assert.Same(t, resp, sc.LastResponse())
	assert.Equal(t, "http://127.0.0.1/index.php?client_id=ClientIDHash", factory.builders[0].URL())

	resp, err = sc.Request(context.Background(), http.Options{http.OptReturnTransfer: true})
	require.NoError(t, err)
	assert.Equal(t, "Dummy Response Body", resp.BodyRaw())
}

func TestClient_RequestWithoutResource(t *testing.T) {
	sc := newClient(WithHTTPFactory(http.TransportFactory{Transport: dummyTransport()}))
	resp, err := sc.Request(context.Background(), nil)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, http.ErrPreconditionFailed))
}

func TestClient_Auth(t *testing.T) {
	sc := newClient()
	assert.Equal(t, "ClientIDHash", sc.AuthClientID())
	assert.Equal(t, "ClientSecretHash", sc.AuthClientSecret())
	assert.Equal(t, "http://example.com/soundcloud", sc.AuthCallbackURI())
	assert.Empty(t, sc.AuthToken())
	assert.Empty(t, sc.AuthScope())
	assert.True(t, sc.Expires().IsZero())
	assert.Nil(t, sc.LastResponse())

	sc.SetAccessToken("04u7h-4cc355-70k3n", "non-expiring", time.Hour)
	assert.Equal(t, "04u7h-4cc355-70k3n", sc.AuthToken())
	assert.Equal(t, "non-expiring", sc.AuthScope())
	assert.WithinDuration(t, time.Now().Add(time.Hour), sc.Expires(), time.Minute)

	sc.ClearAccessToken()
	assert.Empty(t, sc.AuthToken())
	assert.True(t, sc.Expires().IsZero())
}

func TestClient_ResourceCreation(t *testing.T) {
	tests := []struct {
		verb http.Verb
		call func(*Client) error
	}{
		{verb: http.GET, call: func(c *Client) error { return c.Get("/resolve") }},
		{verb: http.POST, call: func(c *Client) error { return c.Post("/resolve") }},
		{verb: http.PUT, call: func(c *Client) error { return c.Put("/resolve") }},
		{verb: http.DELETE, call: func(c *Client) error { return c.Delete("/resolve") }},
		{verb: http.HEAD, call: func(c *Client) error { return c.Head("/resolve") }},
	}

	for _, tt := range tests {
		t.Run(string(tt.verb), func(t *testing.T) {
			sc := newClient()
			assert.Nil(t, sc.Resource())
			require.NoError(t, tt.call(sc))
			require.NotNil(t, sc.Resource())
			assert.Equal(t, tt.verb, sc.Resource().Verb())
			assert.Equal(t, "/resolve", sc.Resource().Path())
		})
	}
}

func TestClient_VerbWithParams(t *testing.T) {
	sc := newClient()
	require.NoError(t, sc.Post("/tracks", http.MustParams("track[title]", "a"), http.MustParams("track[genre]", "b")))
	assert.Equal(t, "track%5Btitle%5D=a&track%5Bgenre%5D=b", sc.Resource().Params().Encode())

	err := sc.Get("resolve")
	assert.True(t, errors.Is(err, http.ErrInvalidArgument))
	assert.Equal(t, http.POST, sc.Resource().Verb(), "a failed verb call keeps the previous resource")
}

func TestClient_SetParams(t *testing.T) {
	sc := newClient()
	require.NoError(t, sc.Get("/resolve"))
	require.NoError(t, sc.SetParams(http.MustParams("url", "http://www.soundcloud.com/hybrid-species")))

	_, ok := sc.Resource().Params().Get("url")
	assert.True(t, ok)
}

func TestClient_NoResourceError(t *testing.T) {
	sc := newClient()
	err := sc.SetParams(http.MustParams("url", "http://www.soundcloud.com/hybrid-species"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, http.ErrPreconditionFailed))
	assert.Contains(t, err.Error(), "no resource found: you must call a http verb method before SetParams")
}

func TestClient_ResponseFormat(t *testing.T) {
	sc := newClient()
	assert.Equal(t, FormatJSON, sc.ResponseFormat())
	sc.AsXML()
	assert.Equal(t, "xml", sc.ResponseFormat())
	sc.AsJSON()
	assert.Equal(t, "json", sc.ResponseFormat())
}

func TestClient_ApplyResponseFormat(t *testing.T) {
	res, err := http.NewResource("GET", "/resolve", nil)
	require.NoError(t, err)
	req := http.NewRequest(res, http.NewURLBuilder(res), nil)
	sc := newClient()

	sc.AsXML()
	sc.applyResponseFormat(req)
	assert.Equal(t, http.FormatXML, req.Format())

	sc.AsJSON()
	sc.applyResponseFormat(req)
	assert.Equal(t, http.FormatJSON, req.Format())
}

func TestClient_MergeAuthParams(t *testing.T) {
	sc := newClient()

	params := sc.MergeAuthParams(http.NewParams(), false)
	_, hasID := params.Get("client_id")
	_, hasToken := params.Get("oauth_token")
	assert.True(t, hasID)
	assert.False(t, hasToken)

	params = sc.MergeAuthParams(http.NewParams(), true)
	_, hasSecret := params.Get("client_secret")
	assert.True(t, hasSecret)

	sc.SetAccessToken("tok", "*", 0)
	params = sc.MergeAuthParams(http.MustParams("q", "x", "client_id", "mine"), true)
	assert.Equal(t, "client_id=mine&client_secret=ClientSecretHash&oauth_token=tok&q=x", params.Encode())
}

func TestClient_SecretOnlyWithToken(t *testing.T) {
	var seen []*http.BuiltRequest
	transport := http.TransportFunc(func(_ context.Context, req *http.BuiltRequest) http.RawOutput {
		seen = append(seen, req)
		return http.RawOutput{Blob: "HTTP/1.1 200 OK\r\n\r\n{}"}
	})
	sc := newClient(WithHTTPFactory(http.TransportFactory{Transport: transport}))

	require.NoError(t, sc.Get("/tracks"))
	_, err := sc.Request(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.soundcloud.com/tracks?client_id=ClientIDHash", seen[0].URL)

	sc.SetAccessToken("tok", "", 0)
	require.NoError(t, sc.Post("/tracks", http.MustParams("track[title]", "t")))
	_, err = sc.Request(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.soundcloud.com/tracks", seen[1].URL)
	assert.Equal(t, "client_id=ClientIDHash&client_secret=ClientSecretHash&oauth_token=tok&track%5Btitle%5D=t", seen[1].Body)
}

func TestClient_DefaultAndOverrideOptions(t *testing.T) {
	var opts http.Options
	transport := http.TransportFunc(func(_ context.Context, req *http.BuiltRequest) http.RawOutput {
		opts = req.Options
		return http.RawOutput{}
	})
	sc := newClient(
		WithHTTPFactory(http.TransportFactory{Transport: transport}),
		WithDefaultOptions(http.Options{http.OptTimeout: 5, http.OptUserAgent: "default"}),
	)
	require.NoError(t, sc.Get("/me"))

	_, err := sc.Request(context.Background(), http.Options{http.OptUserAgent: "override"})
	require.NoError(t, err)
	assert.Equal(t, 5, opts[http.OptTimeout])
	assert.Equal(t, "override", opts[http.OptUserAgent])
	assert.Equal(t, true, opts[http.OptHeader])
}

func TestClient_TransportFailureIsData(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	sc := newClient(WithEndpoint("http", "127.0.0.1", port))
	require.NoError(t, sc.Get("/me"))

	resp, err := sc.Request(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, http.ErrCodeCouldNotConnect, resp.TransportErrorCode())
	assert.ErrorIs(t, resp.Err(), http.ErrTransportFailure)
	assert.Empty(t, resp.BodyRaw())
}

func TestClient_AgainstMockAPI(t *testing.T) {
	api := mockapi.New("ClientIDHash", "tok")
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	addr := srv.Listener.Addr().(*net.TCPAddr)
	sc := newClient(WithEndpoint("http", addr.IP.String(), addr.Port))
	sc.SetAccessToken("tok", "non-expiring", 0)

	t.Run("Resolve and follow", func(t *testing.T) {
		require.NoError(t, sc.Get("/resolve"))
		require.NoError(t, sc.SetParams(http.MustParams("url", "http://soundcloud.com/hybrid-species")))

		resp, err := sc.Request(context.Background(), http.Options{http.OptFollowLocation: true})
		require.NoError(t, err)
		require.NoError(t, resp.Err())
		code, _ := resp.StatusCode()
		assert.Equal(t, 200, code)
		title, err := resp.Query("$.title")
		require.NoError(t, err)
		assert.Equal(t, "Hybrid Species", title)
		assert.Contains(t, resp.URL(), "/tracks/49931")
	})

	t.Run("Update me as XML", func(t *testing.T) {
		require.NoError(t, sc.Put("/me", http.MustParams("user[full_name]", "J. Wagener")))
		sc.AsXML()
		defer sc.AsJSON()

		resp, err := sc.Request(context.Background(), nil)
		require.NoError(t, err)
		node, ok := resp.Body().(*http.XMLNode)
		require.True(t, ok, resp.BodyRaw())
		assert.Equal(t, "J. Wagener", node.Find("full-name").Text())
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, sc.Delete("/tracks/13158665"))
		resp, err := sc.Request(context.Background(), nil)
		require.NoError(t, err)
		assert.True(t, resp.IsSuccess())

		require.NoError(t, sc.Get("/tracks/13158665"))
		resp, err = sc.Request(context.Background(), nil)
		require.NoError(t, err)
		assert.True(t, resp.IsClientError())
	})
}
