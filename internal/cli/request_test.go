package cli

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/scloud/http"
)

func TestGet_Track(t *testing.T) {
	args := append([]string{"get", "/tracks/49931", "-e", "title=$.title", "-e", "genre=$.genre"}, mockEndpoint(t)...)
	stdout, _, err := run(t, args...)
	require.NoError(t, err)

	assert.Contains(t, stdout, "▶ REQUEST: GET http://")
	assert.Contains(t, stdout, "/tracks/49931?client_id=ClientIDHash")
	assert.Contains(t, stdout, "◀ RESPONSE: 200 OK")
	assert.Contains(t, stdout, "title = Hybrid Species")
	assert.Contains(t, stdout, "genre = ambient")
}

func TestGet_ResolveFollowsRedirect(t *testing.T) {
	args := append([]string{"get", "/resolve", "-p", "url=http://soundcloud.com/hybrid-species"}, mockEndpoint(t)...)

	stdout, _, err := run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "◀ RESPONSE: 302 Found")

	stdout, _, err = run(t, append(args, "-L", "-e", "id=$.id")...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "◀ RESPONSE: 200 OK")
	assert.Contains(t, stdout, "id = 49931")
}

func TestPost_CreateTrack(t *testing.T) {
	args := append([]string{"post", "/tracks", "--token", "tok", "-p", "track[title]=New Upload", "-o", "json"}, mockEndpoint(t)...)
	stdout, _, err := run(t, args...)
	require.NoError(t, err)

	assert.Contains(t, stdout, `"method": "POST"`)
	assert.Contains(t, stdout, "track%5Btitle%5D=New+Upload")
	assert.Contains(t, stdout, `"statusCode": 201`)
	assert.Contains(t, stdout, `"title": "New Upload"`)
}

func TestPut_MeAsXML(t *testing.T) {
	args := append([]string{"put", "/me", "--token", "tok", "--xml", "-p", "user[full_name]=J. Wagener"}, mockEndpoint(t)...)
	stdout, _, err := run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "<full-name>J. Wagener</full-name>")
}

func TestDelete_RequiresToken(t *testing.T) {
	// An HTTP error status is a completed request, not a failure
	args := append([]string{"delete", "/tracks/13158665"}, mockEndpoint(t)...)
	stdout, _, err := run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "◀ RESPONSE: 401 Unauthorized")
}

func TestHead_Track(t *testing.T) {
	args := append([]string{"head", "/tracks/49931", "-o", "yaml"}, mockEndpoint(t)...)
	stdout, _, err := run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "method: HEAD")
	assert.Contains(t, stdout, "statusCode: 200")
}

func TestRequest_TransportFailure(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	stdout, _, err := run(t, "get", "/me", "--client-id", "id", "--scheme", "http", "--host", "127.0.0.1", "--port", strconv.Itoa(port))
	assert.True(t, errors.Is(err, errCheckFailed))
	assert.Contains(t, stdout, "transport error 7")
}

func TestRequest_ExtractionFailure(t *testing.T) {
	args := append([]string{"get", "/tracks/49931", "-e", "missing=$.nope"}, mockEndpoint(t)...)
	_, stderr, err := run(t, args...)
	assert.True(t, errors.Is(err, errCheckFailed))
	assert.Contains(t, stderr, "path not found")
}

func TestRequest_Schema(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "track.json")
	bad := filepath.Join(dir, "user.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"type":"object","required":["id","title"]}`), 0644))
	require.NoError(t, os.WriteFile(bad, []byte(`{"type":"object","required":["username"]}`), 0644))

	endpoint := mockEndpoint(t)

	_, _, err := run(t, append([]string{"get", "/tracks/49931", "--schema", good}, endpoint...)...)
	require.NoError(t, err)

	_, stderr, err := run(t, append([]string{"get", "/tracks/49931", "--schema", bad}, endpoint...)...)
	assert.True(t, errors.Is(err, errCheckFailed))
	assert.Contains(t, stderr, "Schema validation failed")

	_, _, err = run(t, append([]string{"get", "/tracks/49931", "--schema", filepath.Join(dir, "absent.json")}, endpoint...)...)
	require.Error(t, err)
	assert.False(t, errors.Is(err, errCheckFailed))
}

func TestRequest_InputErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "Missing client id", args: []string{"get", "/me"}, want: "clientId: is required"},
		{name: "Bad param", args: []string{"get", "/me", "--client-id", "id", "-p", "novalue"}, want: "want key=value"},
		{name: "Bad path", args: []string{"get", "me", "--client-id", "id"}, want: "must start with /"},
		{name: "Bad output", args: []string{"get", "/me", "--client-id", "id", "-o", "junit"}, want: "unknown output format"},
		{name: "Bad extract", args: []string{"get", "/me", "--client-id", "id", "-e", "nopath"}, want: "want name=value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRequestFlags_Overrides(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.Headers = map[string]string{"X-Config": "1"}

	f := &requestFlags{headers: []string{"X-Flag: 2"}, follow: true}
	opts := f.overrides(&globalFlags{verbose: true, insecure: true}, cfg)

	assert.Equal(t, []string{"X-Config: 1", "X-Flag: 2"}, opts[http.OptHTTPHeader])
	assert.Equal(t, true, opts[http.OptFollowLocation])
	assert.Equal(t, true, opts[http.OptVerbose])
	assert.Equal(t, true, opts[http.OptInsecureSkipVerify])
	_, hasTimeout := opts[http.OptTimeout]
	assert.False(t, hasTimeout)
}

func TestParseParams_KeepsOrder(t *testing.T) {
	params, err := parseParams([]string{"q=hybrid", "limit=10", "filter=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "q=hybrid&limit=10&filter=a%3Db", params.Encode())
}
