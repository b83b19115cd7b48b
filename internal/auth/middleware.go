package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// TokenStore checks a presented token against the user's stored session
// token. A user has at most one valid token at a time; logging in again
// or logging out invalidates whatever was issued before.
type TokenStore interface {
	CheckToken(ctx context.Context, userID int64, token string) (bool, error)
}

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID int64
	Email  string
	Name   string
	Token  string
}

// identityContextKey is the context key for the authenticated identity.
type identityContextKey struct{}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(*Identity)
	return identity, ok
}

// ContextWithIdentity attaches an identity to the context. Exposed for
// handler tests that bypass the middleware.
func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// Config contains configuration for the auth middleware.
type Config struct {
	// SkipPaths are exact paths that skip authentication entirely.
	SkipPaths []string

	// SkipRoutes are method+path pairs that skip authentication, for
	// anonymous operations like login and registration.
	SkipRoutes map[string]string
}

// DefaultConfig returns the default auth configuration.
func DefaultConfig() Config {
	return Config{
		SkipPaths: []string{"/health", "/metrics"},
		SkipRoutes: map[string]string{
			"/api/auth/login": http.MethodPost,
			"/api/usuario":    http.MethodPost,
		},
	}
}

// Middleware creates an authentication middleware. Every request must
// carry a bearer token that both verifies and matches the user's stored
// session token.
func Middleware(tokens *TokenManager, store TokenStore, config Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Check if path should skip authentication
			for _, path := range config.SkipPaths {
				if r.URL.Path == path {
					next.ServeHTTP(w, r)
					return
				}
			}
			if method, ok := config.SkipRoutes[r.URL.Path]; ok && r.Method == method {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := bearerToken(r)
			if !ok {
				writeUnauthorized(w, "missing or malformed authorization header")
				return
			}

			claims, err := tokens.Parse(tokenString)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("token verification failed")
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			// A token is only valid while it is the user's current one.
			valid, err := store.CheckToken(r.Context(), claims.UserID, tokenString)
			if err != nil {
				log.Error().Err(err).Int64("user_id", claims.UserID).Msg("token check failed")
				writeUnauthorized(w, "invalid or expired token")
				return
			}
			if !valid {
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			identity := &Identity{
				UserID: claims.UserID,
				Email:  claims.Email,
				Name:   claims.Name,
				Token:  tokenString,
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// writeUnauthorized writes a 401 response in the API envelope shape.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	_ = json.NewEncoder(w).Encode(struct {
		Success bool     `json:"success"`
		Data    any      `json:"data"`
		Message []string `json:"message"`
	}{
		Success: false,
		Message: []string{message},
	})
}
