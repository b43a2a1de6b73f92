package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"spacetime-server/internal/auth"
	"spacetime-server/internal/shared/errors"
	"spacetime-server/internal/shared/response"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

// AuthCookie is read when no Authorization header is present.
const AuthCookie = "auth_token"

type Auth struct {
	tokens *auth.TokenIssuer
}

func NewAuth(tokens *auth.TokenIssuer) *Auth {
	return &Auth{tokens: tokens}
}

func (a *Auth) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "jwt",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		logger.Debug("Processing JWT authentication")

		token := bearerToken(r)
		if token == "" {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		claims, err := a.tokens.ValidateToken(token)
		if err != nil {
			response.Error(w, r, logger, errors.Unauthorized("invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		logger.Debug("JWT authentication successful",
			"subject", claims.Subject,
			"role", claims.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Auth) operatorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "operator",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		claims := GetClaimsFromContext(r)
		if claims == nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		if claims.Role != auth.RoleOperator {
			logger.Warn("Non-operator attempted a write",
				"subject", claims.Subject,
				"role", claims.Role)
			response.Error(w, r, logger, errors.Forbidden("operator access required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireOperator authenticates the request and admits only operators.
func (a *Auth) RequireOperator(next http.Handler) http.Handler {
	return a.JWTMiddleware(a.operatorMiddleware(next))
}

func GetClaimsFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(ClaimsContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(AuthCookie); err == nil {
		return cookie.Value
	}
	return ""
}
