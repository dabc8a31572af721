package requestid

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	// Header is the HTTP header carrying the request identifier.
	Header      = "X-Request-ID"
	maxIDLength = 128
)

// Middleware ensures every request carries a request ID: an incoming
// valid ID is trusted, anything else is replaced with a fresh UUID. The
// ID is echoed in the response header and stored in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if !isValidRequestID(requestID) {
			requestID = uuid.New().String()
		}
		w.Header().Set(Header, requestID)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), requestID)))
	})
}

// isValidRequestID accepts non-empty IDs of bounded length built from
// [a-zA-Z0-9_-], which covers UUIDs and common tracing formats.
func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > maxIDLength {
		return false
	}
	for _, c := range []byte(id) {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
