package jsonschema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userSchema = `{
	"type": "object",
	"required": ["id", "username"],
	"properties": {
		"id": {"type": "integer"},
		"username": {"type": "string"},
		"followers_count": {"type": "integer", "minimum": 0}
	}
}`

func TestValidateBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "Conforming", body: `{"id": 3207, "username": "jwagener"}`},
		{name: "Missing field", body: `{"id": 3207}`, wantErr: true},
		{name: "Wrong type", body: `{"id": "3207", "username": "jwagener"}`, wantErr: true},
		{name: "Negative count", body: `{"id": 1, "username": "a", "followers_count": -1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBody(tt.body, userSchema)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
			assert.NotEmpty(t, verrs)
		})
	}
}

func TestValidate_InvalidInput(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)

	v, err := Compile(userSchema)
	require.NoError(t, err)

	err = v.Validate("not json")
	require.Error(t, err)
	var verrs ValidationErrors
	assert.False(t, errors.As(err, &verrs))
}
