package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsm-gustavo/userauth-api/internal/api/respond"
)

func newTestHandler(t *testing.T) (*AuthHandler, string) {
	t.Helper()

	user := storedUser(t, "auth-test@example.com", "password123")
	svc := newAuthService(t, user)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthHandler(svc, logger), user.Email
}

func postLogin(h *AuthHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func TestLoginHandler(t *testing.T) {
	h, email := newTestHandler(t)

	t.Run("success", func(t *testing.T) {
		rec := postLogin(h, `{"email":"`+email+`","password":"password123"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, int64(time.Hour.Seconds()), resp.ExpiresIn)
	})

	t.Run("wrong password and unknown email share one body", func(t *testing.T) {
		wrong := postLogin(h, `{"email":"`+email+`","password":"wrong-password"}`)
		unknown := postLogin(h, `{"email":"ghost@example.com","password":"password123"}`)

		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.JSONEq(t, wrong.Body.String(), unknown.Body.String())

		var resp respond.ErrorResponse
		require.NoError(t, json.Unmarshal(wrong.Body.Bytes(), &resp))
		assert.Equal(t, respond.InvalidCredentialsMessage, resp.Message)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		rec := postLogin(h, `{"email":"","password":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp respond.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.NotEmpty(t, resp.Details)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		rec := postLogin(h, `{"email":"`+email+`","password":"password123","remember":true}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := postLogin(h, `{"email":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthMiddleware(t *testing.T) {
	h, email := newTestHandler(t)

	login := postLogin(h, `{"email":"`+email+`","password":"password123"}`)
	require.Equal(t, http.StatusOK, login.Code)
	var auth AuthResponse
	require.NoError(t, json.NewDecoder(login.Body).Decode(&auth))

	protected := h.AuthMiddleware(http.HandlerFunc(h.Profile))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid bearer", header: "Bearer " + auth.AccessToken, want: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + auth.AccessToken, want: http.StatusOK},
		{name: "no header", header: "", want: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", want: http.StatusUnauthorized},
		{name: "scheme only", header: "Bearer", want: http.StatusUnauthorized},
		{name: "blank token", header: "Bearer   ", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def.ghi", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want != http.StatusOK {
				var resp respond.ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, respond.UnauthorizedMessage, resp.Message)
				return
			}

			var profile ProfileResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&profile))
			assert.Equal(t, email, profile.Email)
			assert.Equal(t, "Auth Test User", profile.Name)
			assert.NotEmpty(t, profile.UserID)
		})
	}
}

func TestProfileWithoutPrincipal(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Profile(rec, httptest.NewRequest(http.MethodGet, "/auth/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
