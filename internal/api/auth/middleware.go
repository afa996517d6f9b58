package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/hsm-gustavo/userauth-api/internal/api/respond"
)

type contextKey string

const PrincipalContextKey contextKey = "principal"

// AuthMiddleware rejects requests without a valid bearer token and stores the
// Principal in the request context for the next handler.
func (h *AuthHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			respond.Unauthorized(w)
			return
		}

		principal, err := h.service.RequireAuth(token)
		if err != nil {
			h.logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path)
			respond.Unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// BearerToken extracts the token from "Authorization: Bearer <token>". The
// scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, PrincipalContextKey, p)
}

// PrincipalFromContext returns the principal stored by AuthMiddleware.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(PrincipalContextKey).(*Principal)
	return p, ok && p != nil
}
