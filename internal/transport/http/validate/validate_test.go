package validate

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samyukta/registration-service/internal/domain"
)

func TestDecodeJSON(t *testing.T) {
	type body struct {
		TeamName string `json:"teamName"`
	}

	decode := func(raw string) (body, error) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
		err := DecodeJSON(httptest.NewRecorder(), req, &b)
		return b, err
	}

	t.Run("ok", func(t *testing.T) {
		b, err := decode(`{"teamName":"Byte Busters"}`)
		require.NoError(t, err)
		assert.Equal(t, "Byte Busters", b.TeamName)
	})

	t.Run("unknown_field", func(t *testing.T) {
		_, err := decode(`{"teamName":"x","extra":1}`)
		require.Error(t, err)
		assert.Equal(t, domain.CodeValidation, err.(*domain.AppError).Code)
	})

	t.Run("trailing_value", func(t *testing.T) {
		_, err := decode(`{"teamName":"x"}{}`)
		require.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := decode(`{`)
		require.Error(t, err)
	})
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("8f14e45f-ceea-4e7a-9b2c-1d3f5a6b7c8d"))
	assert.False(t, IsUUID("not-a-uuid"))
	assert.Error(t, UUIDParam("id", "x"))
	assert.NoError(t, UUIDParam("id", "8f14e45f-ceea-4e7a-9b2c-1d3f5a6b7c8d"))
}
