// Package requestid assigns each request a correlation ID, honoring one
// supplied by the caller.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"dojohub/pkg/requestcontext"
)

// Header is the inbound/outbound correlation header.
const Header = "X-Request-Id"

// Middleware reads the correlation ID from the request header, generating
// one when absent, and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(Header, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
