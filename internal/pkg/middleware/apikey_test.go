package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wekesa/pesaledger/internal/pkg/models"
)

func runWithAPIKey(t *testing.T, cfg models.AuthConfig, apiKey string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", nil)
	if apiKey != "" {
		req.Header.Set(APIKeyHeader, apiKey)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	handler := ValidateAPIKey(cfg)(func(c echo.Context) error {
		nextCalled = true
		return c.String(http.StatusOK, "ok")
	})

	require.NoError(t, handler(c))
	return rec, nextCalled
}

func TestValidateAPIKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("operator-key"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := models.AuthConfig{APIKeyHash: string(hash)}

	testCases := []struct {
		name           string
		cfg            models.AuthConfig
		apiKey         string
		expectedStatus int
		expectNext     bool
	}{
		{
			name:           "valid key",
			cfg:            cfg,
			apiKey:         "operator-key",
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:           "wrong key",
			cfg:            cfg,
			apiKey:         "wrong-key",
			expectedStatus: http.StatusUnauthorized,
			expectNext:     false,
		},
		{
			name:           "missing key",
			cfg:            cfg,
			apiKey:         "",
			expectedStatus: http.StatusUnauthorized,
			expectNext:     false,
		},
		{
			name:           "hash not configured",
			cfg:            models.AuthConfig{},
			apiKey:         "operator-key",
			expectedStatus: http.StatusUnauthorized,
			expectNext:     false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, nextCalled := runWithAPIKey(t, tc.cfg, tc.apiKey)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			assert.Equal(t, tc.expectNext, nextCalled)
		})
	}
}
