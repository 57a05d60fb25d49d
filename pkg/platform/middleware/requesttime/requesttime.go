// Package requesttime pins a single "now" for each HTTP request so domain
// timestamps and reset-staleness checks within one request agree.
package requesttime

import (
	"net/http"
	"time"

	"dojohub/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request and
// stores it in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
