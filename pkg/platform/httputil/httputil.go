// Package httputil centralizes JSON encoding and domain-error translation so
// every handler emits the same envelopes.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "dojohub/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope.
// Internal errors omit the description so infrastructure details never leak.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal {
		if msg := dErrors.MessageOf(err); msg != "" {
			body["error_description"] = msg
		}
	}
	WriteJSON(w, ToHTTPStatus(code), body)
}

// Decode decodes the request body into T. Unknown fields are tolerated;
// clients send transport extras the handlers deliberately ignore. On
// failure it writes a bad_request envelope and returns ok=false.
func Decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&v); err != nil {
		WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body"))
		return v, false
	}
	return v, true
}

// ToHTTPStatus maps a domain error code to an HTTP status.
func ToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeStale, dErrors.CodeInactive, dErrors.CodeInvariantViolation:
		return http.StatusConflict
	case dErrors.CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
