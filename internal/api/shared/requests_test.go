package shared

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email string `json:"email" validate:"required,email"`
	Level int    `json:"level" validate:"gte=1"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"email":"a@x.com","level":2}`},
		{name: "empty body", body: ``, wantErr: true},
		{name: "malformed", body: `{"email":`, wantErr: true},
		{name: "unknown field", body: `{"email":"a@x.com","admin":true}`, wantErr: true},
		{name: "trailing object", body: `{"email":"a@x.com"}{"email":"b@x.com"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			var req sampleRequest

			err := DecodeJSON(r, &req)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a@x.com", req.Email)
			assert.Equal(t, 2, req.Level)
		})
	}

	t.Run("empty body sentinel", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(""))
		assert.ErrorIs(t, DecodeJSON(r, &sampleRequest{}), ErrEmptyBody)
	})
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return assert.AnError
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&sampleRequest{Email: "a@x.com", Level: 1}))
	assert.Error(t, ValidateRequest(&sampleRequest{Email: "nope", Level: 1}))
	assert.Error(t, ValidateRequest(&sampleRequest{Email: "a@x.com", Level: 0}))

	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.ErrorIs(t, ValidateRequest(selfValidating{}), assert.AnError)
}
