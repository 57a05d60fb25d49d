// Package device annotates requests with a human-readable device
// description parsed from the User-Agent header. Registration uses it when
// emitting CRM events so support staff can see what a champion signed up
// with.
package device

import (
	"fmt"
	"net/http"

	"github.com/mssola/useragent"

	"dojohub/pkg/requestcontext"
)

// Middleware parses the User-Agent header and stores a compact description
// ("Chrome 120 on Linux") in the request context. Unparseable or missing
// headers leave the context untouched.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("User-Agent")
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		ua := useragent.New(raw)
		name, version := ua.Browser()
		desc := name
		if version != "" {
			desc = fmt.Sprintf("%s %s", name, version)
		}
		if os := ua.OS(); os != "" {
			desc = fmt.Sprintf("%s on %s", desc, os)
		}

		ctx := requestcontext.WithDevice(r.Context(), desc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
