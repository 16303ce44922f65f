package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileBody struct {
	ProfileID string `json:"profile_id" validate:"required"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		isEmpty bool
	}{
		{name: "valid", body: `{"profile_id":"alex"}`},
		{name: "trailing comma", body: `{"profile_id":"alex",}`, wantErr: true},
		{name: "unknown field", body: `{"profile_id":"alex","admin":true}`, wantErr: true},
		{name: "empty body", body: "", wantErr: true, isEmpty: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))

			var body profileBody
			err := DecodeJSON(req, &body)
			if !tc.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "alex", body.ProfileID)
				return
			}
			require.Error(t, err)
			if tc.isEmpty {
				assert.ErrorIs(t, err, ErrEmptyBody)
			}
		})
	}
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if s.ok {
		return nil
	}
	return assert.AnError
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(profileBody{ProfileID: "alex"}))
	assert.Error(t, ValidateRequest(profileBody{}))

	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.ErrorIs(t, ValidateRequest(selfValidating{}), assert.AnError)
}
