package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodeTarget struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required"`
}

type selfValidating struct {
	err error
}

func (s selfValidating) Validate() error { return s.err }

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr error
		anyErr  bool
		want    decodeTarget
	}{
		{
			name: "valid body",
			body: `{"name":"Ana","email":"ana@example.com"}`,
			want: decodeTarget{Name: "Ana", Email: "ana@example.com"},
		},
		{
			name: "unknown fields are ignored",
			body: `{"name":"Ana","nome":"ignored"}`,
			want: decodeTarget{Name: "Ana"},
		},
		{
			name:    "empty body",
			body:    "",
			wantErr: ErrEmptyBody,
		},
		{
			name:   "malformed json",
			body:   `{"name":`,
			anyErr: true,
		},
		{
			name:    "trailing value",
			body:    `{"name":"Ana"}{"name":"Bia"}`,
			wantErr: ErrTrailingData,
		},
		{
			name:    "extra closing brace",
			body:    `{"name":"Ana"}}`,
			wantErr: ErrTrailingData,
		},
		{
			name:    "extra closing bracket",
			body:    `{"name":"Ana"}]`,
			wantErr: ErrTrailingData,
		},
		{
			name:    "trailing garbage",
			body:    `{"name":"Ana"} x`,
			wantErr: ErrTrailingData,
		},
		{
			name: "trailing whitespace",
			body: "{\"name\":\"Ana\"}\n  ",
			want: decodeTarget{Name: "Ana"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var got decodeTarget
			err := DecodeJSON(req, &got)

			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestDecodeJSON_NoBody(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	var got decodeTarget
	assert.ErrorIs(t, DecodeJSON(req, &got), ErrEmptyBody)
}

func TestValidateMaxBytes(t *testing.T) {
	t.Parallel()

	type secretTarget struct {
		Secret string `json:"secret" validate:"maxbytes=4"`
	}

	assert.NoError(t, Validate.Struct(secretTarget{Secret: "abcd"}))
	assert.NoError(t, Validate.Struct(secretTarget{Secret: "éé"}))
	assert.Error(t, Validate.Struct(secretTarget{Secret: "abcde"}))
	assert.Error(t, Validate.Struct(secretTarget{Secret: "ééé"}), "three runes but six bytes")
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(decodeTarget{Name: "Ana", Email: "ana@example.com"}))
	assert.Error(t, ValidateRequest(decodeTarget{Name: "Ana"}))

	assert.NoError(t, ValidateRequest(selfValidating{}))
	assert.ErrorIs(t, ValidateRequest(selfValidating{err: ErrEmptyBody}), ErrEmptyBody)
}
