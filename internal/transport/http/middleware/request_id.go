package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID keeps a caller supplied X-Request-ID of at most 128 bytes and
// mints a uuid otherwise.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" || len(reqID) > 128 {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), reqID)))
	})
}
