// Package auth provides the JWT middleware that establishes the viewer
// identity for a request. Profile reads are permitted anonymously; the
// resolver decides what an anonymous viewer may see, so Authenticate only
// attaches identity when a valid token is present. Write endpoints wrap
// RequireAuth on top.
package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	id "dojohub/pkg/domain"
	"dojohub/pkg/requestcontext"
)

// Claims carries the validated identity extracted from a token.
type Claims struct {
	UserID id.UserID
}

// Validator validates a bearer token and returns its claims.
type Validator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// JWTValidator validates HS256-signed tokens carrying the user id in the
// subject claim.
type JWTValidator struct {
	signingKey []byte
}

func NewJWTValidator(signingKey string) *JWTValidator {
	return &JWTValidator{signingKey: []byte(signingKey)}
}

func (v *JWTValidator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("token subject: %w", err)
	}
	userID, err := id.ParseUserID(sub)
	if err != nil {
		return nil, fmt.Errorf("token subject: %w", err)
	}
	return &Claims{UserID: userID}, nil
}

// Authenticate attaches the viewer identity to the request context when a
// valid bearer token is present. Requests without a token proceed as
// anonymous; requests with an invalid token are rejected.
func Authenticate(validator Validator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "rejected invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx := requestcontext.WithUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that did not authenticate. Mount after
// Authenticate on endpoints that mutate state.
func RequireAuth(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if requestcontext.UserID(ctx).IsNil() {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}
