// Package testutil provides common helpers for handler tests.
package testutil

import (
	"net/http"

	"dojohub/pkg/domain"
	"dojohub/pkg/requestcontext"
)

// WithUserID stamps an authenticated user onto the request context, the same
// way the auth middleware does for real requests. A nil ID leaves the request
// anonymous.
func WithUserID(req *http.Request, userID domain.UserID) *http.Request {
	if userID.IsNil() {
		return req
	}
	return req.WithContext(requestcontext.WithUserID(req.Context(), userID))
}
