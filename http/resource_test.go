package http

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResource_RoundTrip(t *testing.T) {
	params := MustParams("url", "http://www.soundcloud.com/hybrid-species")

	for _, verb := range []Verb{GET, POST, PUT, DELETE, HEAD} {
		t.Run(string(verb), func(t *testing.T) {
			res, err := NewResource(string(verb), "/resolve", params)
			require.NoError(t, err)
			assert.Equal(t, verb, res.Verb())
			assert.Equal(t, "/resolve", res.Path())
			assert.Equal(t, params.Map(), res.Params().Map())
		})
	}
}

func TestNewResource_LowercaseVerb(t *testing.T) {
	res, err := NewResource("post", "/me", nil)
	require.NoError(t, err)
	assert.Equal(t, POST, res.Verb())
	assert.Equal(t, 0, res.Params().Len())
	assert.Equal(t, "POST /me", res.String())
}

func TestNewResource_Invalid(t *testing.T) {
	tests := []struct {
		name string
		verb string
		path string
	}{
		{name: "Unknown verb", verb: "PATCH", path: "/me"},
		{name: "Empty verb", verb: "", path: "/me"},
		{name: "Empty path", verb: "GET", path: ""},
		{name: "Relative path", verb: "GET", path: "me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewResource(tt.verb, tt.path, nil)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, ErrInvalidArgument), "got %v", err)
		})
	}
}

func TestResource_ParamsAreReadOnly(t *testing.T) {
	res, err := NewResource("GET", "/tracks", MustParams("q", "a"))
	require.NoError(t, err)

	require.NoError(t, res.Params().Set("q", "changed"))
	got, _ := res.Params().Get("q")
	assert.Equal(t, "a", got)
}

func TestResource_SetParams(t *testing.T) {
	res, err := NewResource("GET", "/tracks", MustParams("q", "a", "limit", 1))
	require.NoError(t, err)

	res.SetParams(MustParams("limit", 2, "offset", 10))
	assert.Equal(t, "q=a&limit=2&offset=10", res.Params().Encode())
}

func TestVerb_HasBody(t *testing.T) {
	assert.True(t, POST.HasBody())
	assert.True(t, PUT.HasBody())
	assert.False(t, GET.HasBody())
	assert.False(t, DELETE.HasBody())
	assert.False(t, HEAD.HasBody())
}
